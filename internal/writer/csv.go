package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/insightdelivered/payslip-converter/internal/parser"
)

// CSVWriter writes the per-article table in CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// Write writes the payslip metadata (when IncludeHeader is set) followed by
// one row per article code.
func (w *CSVWriter) Write(out io.Writer, res *parser.Result) error {
	writer := csv.NewWriter(out)

	// Write metadata as comments (CSV header rows)
	if w.IncludeHeader {
		for _, kv := range headerFields(res) {
			if err := writer.Write([]string{"# " + kv[0], kv[1]}); err != nil {
				return fmt.Errorf("failed to write CSV metadata: %w", err)
			}
		}
	}

	records := artRecords(res.Overview)
	if records == nil {
		records = []artRecord{}
	}
	if err := gocsv.MarshalCSV(records, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

// headerFields lists the payslip header values that were found, in print
// order. Missing fields are left out.
func headerFields(res *parser.Result) [][2]string {
	h := res.Header
	var out [][2]string
	add := func(label, value string) {
		if value != "" {
			out = append(out, [2]string{label, value})
		}
	}

	add("Arbetsgivare", h.Employer)
	if h.PeriodFrom != "" {
		add("Period", h.PeriodFrom+" - "+h.PeriodTo)
	}
	add("Utbetalningsdag", h.PayoutDate)
	add("Att utbetala", formatAmount(h.NetPaySEK))
	add("Bruttolön perioden", formatAmount(h.GrossPeriodSEK))
	add("Preliminär skatt", formatAmount(h.PreliminaryTaxSEK))
	add("Skattetabell", h.TaxTable)
	add("Kostnadsställe", h.CostCenter)
	if h.EmploymentRatePercent > 0 {
		add("Sysselsättningsgrad", fmt.Sprintf("%d%%", h.EmploymentRatePercent))
	}
	return out
}

// CSVString renders res as CSV text.
func CSVString(res *parser.Result, includeHeader bool) (string, error) {
	var b strings.Builder
	if err := (&CSVWriter{IncludeHeader: includeHeader}).Write(&b, res); err != nil {
		return "", err
	}
	return b.String(), nil
}
