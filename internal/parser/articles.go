package parser

import (
	"regexp"

	"github.com/insightdelivered/payslip-converter/internal/models"
	"github.com/insightdelivered/payslip-converter/internal/summary"
)

// Article line selection results, as reported in DebugLine.Result.
const (
	lineArticle      = "article"
	lineContinuation = "continuation"
	lineSkipped      = "skipped"
)

var (
	// artLeaderRe matches a line that opens a payroll record: 2–5 digits,
	// or K followed by 3–5 digits, then whitespace.
	artLeaderRe = regexp.MustCompile(`^(\d{2,5}|K\d{3,5})\s`)

	// continuationRe matches a line that is nothing but a date range
	// followed by the amounts of the record above it.
	continuationRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\s*-\s*\d{4}-\d{2}-\d{2}\b`)
)

// continuationArts are the codes whose values may wrap onto a following
// line that starts with a bare date range.
var continuationArts = map[string]bool{
	summary.ArtPayout: true,
}

// SelectArticleRows keeps the lines of one page that open a payroll record
// and stitches allowed continuation lines onto the code above them.
func SelectArticleRows(lines []models.Line) []models.ArticleRow {
	rows, _ := selectArticleRows(0, lines)
	return rows
}

// selectArticleRows is SelectArticleRows plus a trace of every decision.
// The continuation state does not carry over between pages.
func selectArticleRows(page int, lines []models.Line) ([]models.ArticleRow, []models.DebugLine) {
	var (
		rows    []models.ArticleRow
		debug   = make([]models.DebugLine, 0, len(lines))
		current string
	)

	for _, l := range lines {
		text := l.Text

		if m := artLeaderRe.FindStringSubmatch(text); m != nil {
			current = m[1]
			rows = append(rows, models.ArticleRow{Raw: text})
			debug = append(debug, models.DebugLine{Page: page, Text: text, Art: current, Result: lineArticle})
			continue
		}

		if continuationArts[current] && continuationRe.MatchString(text) {
			rows = append(rows, models.ArticleRow{Raw: current + " " + text})
			debug = append(debug, models.DebugLine{Page: page, Text: text, Art: current, Result: lineContinuation})
			continue
		}

		debug = append(debug, models.DebugLine{Page: page, Text: text, Result: lineSkipped})
	}

	return rows, debug
}
