package writer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/payslip-converter/internal/parser"
	"github.com/insightdelivered/payslip-converter/internal/summary"
)

// VacationHoursPerDay is the nominal length of a vacation day when the
// report turns vacation days into hours.
const VacationHoursPerDay = 5

// swedishKronor prints SEK the Swedish way: "28 114,00 kr".
var swedishKronor = money.NewFormatter(2, ",", " ", "kr", "1 $")

// SEK formats an amount in kronor, rounded to öre.
func SEK(amount float64) string {
	cents := decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
	return swedishKronor.Format(money.New(cents, money.SEK).Amount())
}

// TextWriter writes a human-readable report.
type TextWriter struct{}

func (w *TextWriter) Write(out io.Writer, res *parser.Result) error {
	bw := bufio.NewWriter(out)

	title := "Lönespecifikation"
	if res.Header.Employer != "" {
		title += ": " + res.Header.Employer
	}
	fmt.Fprintln(bw, title)
	fmt.Fprintln(bw, strings.Repeat("=", len([]rune(title))))
	for _, kv := range textHeaderFields(res) {
		fmt.Fprintf(bw, "%-20s %s\n", kv[0]+":", kv[1])
	}

	if ov := res.Overview; ov != nil && len(ov.Summaries) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "Sammanfattning")
		for _, art := range ov.SortedArts() {
			fmt.Fprintf(bw, "  %-6s %s\n", art, describe(ov.Summaries[art]))
		}
		if note := qualifiedNote(res); note != "" {
			fmt.Fprintf(bw, "  Kvalificerad övertid: %s\n", note)
		}
	}

	if ov := res.Overview; ov != nil && len(ov.ByArt) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "Alla ART-koder")
		for _, c := range ov.ByArt {
			fmt.Fprintf(bw, "  %-6s %-36s %3d rader\n", c.Art, c.Description, c.RowsCount)
		}
	}

	if len(res.Notes) > 0 {
		fmt.Fprintln(bw)
		for _, n := range res.Notes {
			fmt.Fprintf(bw, "Obs: %s\n", n)
		}
	}
	return bw.Flush()
}

func textHeaderFields(res *parser.Result) [][2]string {
	h := res.Header
	var out [][2]string
	if h.PeriodFrom != "" {
		out = append(out, [2]string{"Period", h.PeriodFrom + " - " + h.PeriodTo})
	}
	if h.PayoutDate != "" {
		out = append(out, [2]string{"Utbetalningsdag", h.PayoutDate})
	}
	if h.NetPaySEK != 0 {
		out = append(out, [2]string{"Att utbetala", SEK(h.NetPaySEK)})
	}
	if h.GrossPeriodSEK != 0 {
		out = append(out, [2]string{"Bruttolön perioden", SEK(h.GrossPeriodSEK)})
	}
	if h.PreliminaryTaxSEK != 0 {
		out = append(out, [2]string{"Preliminär skatt", SEK(h.PreliminaryTaxSEK)})
	}
	return out
}

// describe renders one summary as a single line.
func describe(s summary.Summary) string {
	b := s.Info()
	var detail string
	switch v := s.(type) {
	case *summary.TimeSummary:
		detail = FormatMinutes(v.TotalMinutes)
		if n := len(v.DatesISO); n > 0 {
			detail += fmt.Sprintf(", %s", plural(n, "dag", "dagar"))
		}
	case *summary.RateSummary:
		detail = fmt.Sprintf("%s h × %s = %s",
			swedishNumber(v.HoursTotal), ratePer(v.SEKPerHour, "h"), SEK(preferPrinted(v.SEKTotalFromRow, v.SEKTotalComputed)))
	case *summary.DaySummary:
		detail = fmt.Sprintf("%s × %s = %s",
			formatDays(v.DaysTotal), ratePer(v.SEKPerDay, "dag"), SEK(preferPrinted(v.SEKTotalFromRow, v.SEKTotalComputed)))
	case *summary.VacationSummary:
		detail = fmt.Sprintf("%s (%d h)", plural(v.DaysCount, "dag", "dagar"), v.DaysCount*VacationHoursPerDay)
	case *summary.MoneySummary:
		detail = SEK(v.SEKTotal)
	}

	line := fmt.Sprintf("%s: %s", b.Description, detail)
	if m := monthOf(s); m != "" {
		line += " [" + m + "]"
	}
	if b.RowsMatched < b.RowsTotal {
		line += fmt.Sprintf(" (%d av %d rader tolkade)", b.RowsMatched, b.RowsTotal)
	}
	return line
}

func monthOf(s summary.Summary) string {
	switch v := s.(type) {
	case *summary.TimeSummary:
		return v.MonthISO
	case *summary.RateSummary:
		return v.MonthISO
	case *summary.DaySummary:
		return v.MonthISO
	case *summary.VacationSummary:
		return v.MonthISO
	case *summary.MoneySummary:
		return v.MonthISO
	}
	return ""
}

func qualifiedNote(res *parser.Result) string {
	if res.Overview == nil || res.Overview.QualifiedOvertime == nil {
		return ""
	}
	return res.Overview.QualifiedOvertime.Note
}

// FormatMinutes prints minutes as "7 h 30 min".
func FormatMinutes(minutes int) string {
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%d h", h)
	}
	return fmt.Sprintf("%d h %d min", h, m)
}

func ratePer(rate *float64, unit string) string {
	if rate == nil {
		return "varierande pris"
	}
	return SEK(*rate) + "/" + unit
}

func swedishNumber(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}

func formatDays(days float64) string {
	if days == 1 {
		return "1 dag"
	}
	return swedishNumber(days) + " dagar"
}
