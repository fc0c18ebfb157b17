package summary

import (
	"regexp"
	"strings"
)

const unknownDescription = "Okänd"

// dateSeparator stands in for lone dates in a row without a range.
const dateSeparator = " | "

var (
	artPrefixRe = regexp.MustCompile(`^(\d{2,5}|K\d{3,5})\s+`)
	isoDateRe   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// ParsedArtRow is a disposable decomposition of one raw article row.
type ParsedArtRow struct {
	Art         string    `json:"art"`
	Description string    `json:"description,omitempty"`
	DateFrom    string    `json:"dateFrom,omitempty"`
	DateTo      string    `json:"dateTo,omitempty"`
	Numbers     []float64 `json:"numbers"`
	Raw         string    `json:"raw"`

	// tail is the text after the date range. Without a range it is the whole
	// row after the code, with every lone date replaced by a separator so a
	// date's day cannot run into the next number. Per-code rules read their
	// values from here.
	tail string
}

// ParseArtRow splits a raw row into code, description, first date range and
// numeric tokens. It reports false when the row does not start with a code.
func ParseArtRow(raw string) (ParsedArtRow, bool) {
	s := normalizeSpaces(raw)
	m := artPrefixRe.FindStringSubmatch(s)
	if m == nil {
		return ParsedArtRow{}, false
	}

	row := ParsedArtRow{
		Art:         m[1],
		Description: DescriptionFromRawRow(m[1], s),
		Numbers:     SwedishNumbers(s),
		Raw:         s,
		tail:        s[len(m[0]):],
	}
	if loc := dateRangeRe.FindStringSubmatchIndex(s); loc != nil {
		row.DateFrom = s[loc[2]:loc[3]]
		row.DateTo = s[loc[4]:loc[5]]
		row.tail = strings.TrimSpace(s[loc[1]:])
	} else {
		row.tail = strings.TrimSpace(isoDateRe.ReplaceAllString(row.tail, dateSeparator))
	}
	return row, true
}

// HasRange reports whether the row carries a from/to date pair.
func (r ParsedArtRow) HasRange() bool {
	return r.DateFrom != "" && r.DateTo != ""
}

// Dates expands the row's date range, or returns nil without one.
func (r ParsedArtRow) Dates() []string {
	if !r.HasRange() {
		return nil
	}
	return ExpandDateRange(r.DateFrom, r.DateTo)
}

// TailNumbers are the Swedish numeric tokens after the date range.
func (r ParsedArtRow) TailNumbers() []float64 {
	return SwedishNumbers(r.tail)
}

// DescriptionFromRawRow strips the leading code and everything from the
// first ISO date onwards. Empty results become "Okänd".
func DescriptionFromRawRow(art, raw string) string {
	s := normalizeSpaces(raw)
	if strings.HasPrefix(s, art+" ") {
		s = strings.TrimSpace(s[len(art):])
	}
	if loc := isoDateRe.FindStringIndex(s); loc != nil {
		s = strings.TrimSpace(s[:loc[0]])
	}
	s = normalizeSpaces(s)
	if s == "" {
		return unknownDescription
	}
	return s
}
