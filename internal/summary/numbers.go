package summary

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// swedishNumberRe matches "33 724,00", "-0,25" and friends: space-grouped
	// thousands with a comma decimal separator.
	swedishNumberRe = regexp.MustCompile(`[-+]?\d[\d\s]*,\d{1,2}`)
	strictNumberRe  = regexp.MustCompile(`^[-+]?\d+(\.\d+)?$`)

	// hourTokenRe is looser than swedishNumberRe: it also accepts integers
	// ("8") and only groups thousands in blocks of three.
	hourTokenRe = regexp.MustCompile(`[-+]?\d+(?:\s\d{3})*(?:,\d{1,2})?`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// normalizeSpaces turns non-breaking spaces into plain ones and collapses runs.
func normalizeSpaces(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// ParseSwedishNumber converts a Swedish-formatted number ("1 234,56" or
// "1.234,56") to a float. The second result is false when the cleaned token
// is not a plain decimal.
func ParseSwedishNumber(raw string) (float64, bool) {
	s := strings.ReplaceAll(raw, "\u00a0", "")
	s = whitespaceRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	if !strictNumberRe.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

// SwedishNumbers returns every Swedish numeric token in text, left to right.
// Tokens that fail to parse are dropped.
func SwedishNumbers(text string) []float64 {
	matches := swedishNumberRe.FindAllString(text, -1)
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		if n, ok := ParseSwedishNumber(m); ok {
			out = append(out, n)
		}
	}
	return out
}

// firstPlausibleHours returns the first hour token in text inside [0, max].
func firstPlausibleHours(text string, max float64) (float64, bool) {
	for _, tok := range hourTokenRe.FindAllString(text, -1) {
		hours, ok := ParseSwedishNumber(tok)
		if !ok {
			continue
		}
		if hours < 0 || hours > max {
			continue
		}
		return hours, true
	}
	return 0, false
}

// lastPlausibleMoney returns the right-most value whose magnitude is within max.
func lastPlausibleMoney(values []float64, max float64) (float64, bool) {
	for i := len(values) - 1; i >= 0; i-- {
		if math.Abs(values[i]) <= max {
			return values[i], true
		}
	}
	return 0, false
}
