package summary

import (
	"regexp"
	"sort"
	"time"
)

const (
	isoLayout = "2006-01-02"

	// maxRangeDays bounds date range expansion on malformed input.
	maxRangeDays = 370
)

var dateRangeRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\s*-\s*(\d{4}-\d{2}-\d{2})`)

func parseISODate(s string) (time.Time, bool) {
	t, err := time.Parse(isoLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ExpandDateRange lists every calendar day from..to inclusive. A reversed
// range is walked backwards. Invalid dates yield nil.
func ExpandDateRange(from, to string) []string {
	start, ok := parseISODate(from)
	if !ok {
		return nil
	}
	end, ok := parseISODate(to)
	if !ok {
		return nil
	}

	step := 1
	if end.Before(start) {
		step = -1
	}

	var out []string
	cur := start
	for i := 0; i < maxRangeDays; i++ {
		out = append(out, cur.Format(isoLayout))
		if cur.Equal(end) {
			break
		}
		cur = cur.AddDate(0, 0, step)
	}
	return out
}

// DominantMonth returns the year-month ("2025-12") holding the most dates.
// Dates are scanned in ascending order, so a tie goes to the earliest month.
func DominantMonth(datesISO []string) string {
	sorted := append([]string(nil), datesISO...)
	sort.Strings(sorted)

	counts := make(map[string]int)
	var order []string
	for _, d := range sorted {
		if _, ok := parseISODate(d); !ok {
			continue
		}
		ym := d[:7]
		if counts[ym] == 0 {
			order = append(order, ym)
		}
		counts[ym]++
	}

	best, bestN := "", 0
	for _, ym := range order {
		if counts[ym] > bestN {
			best, bestN = ym, counts[ym]
		}
	}
	return best
}

// dateSet collects covered days and hands them back sorted.
type dateSet map[string]struct{}

func (s dateSet) add(dates ...string) {
	for _, d := range dates {
		s[d] = struct{}{}
	}
}

func (s dateSet) sorted() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
