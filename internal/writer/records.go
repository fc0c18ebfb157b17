package writer

import (
	"strconv"

	"github.com/insightdelivered/payslip-converter/internal/summary"
)

// artRecord is one line of the per-article table shared by CSV and XLSX.
type artRecord struct {
	Art         string `csv:"ART"`
	Description string `csv:"Beskrivning"`
	Kind        string `csv:"Typ"`
	Rows        int    `csv:"Rader"`
	Matched     string `csv:"Tolkade"`
	Quantity    string `csv:"Antal"`
	Unit        string `csv:"Enhet"`
	Rate        string `csv:"A-pris"`
	Amount      string `csv:"Belopp"`
	Month       string `csv:"Månad"`
}

var recordHeader = []string{"ART", "Beskrivning", "Typ", "Rader", "Tolkade", "Antal", "Enhet", "A-pris", "Belopp", "Månad"}

func (r artRecord) cells() []interface{} {
	return []interface{}{r.Art, r.Description, r.Kind, r.Rows, r.Matched, r.Quantity, r.Unit, r.Rate, r.Amount, r.Month}
}

// artRecords lists every code seen, in overview order, with whatever its
// summary could read. Codes without a summarizer only carry the row count.
func artRecords(ov *summary.Overview) []artRecord {
	if ov == nil {
		return nil
	}
	out := make([]artRecord, 0, len(ov.ByArt))
	for _, c := range ov.ByArt {
		rec := artRecord{Art: c.Art, Description: c.Description, Rows: c.RowsCount}

		s, ok := ov.Summaries[c.Art]
		if !ok {
			out = append(out, rec)
			continue
		}
		b := s.Info()
		rec.Kind = string(b.Kind)
		rec.Matched = strconv.Itoa(b.RowsMatched)

		switch v := s.(type) {
		case *summary.TimeSummary:
			rec.Quantity, rec.Unit, rec.Month = formatAmount(v.Hours()), "h", v.MonthISO
		case *summary.RateSummary:
			rec.Quantity, rec.Unit, rec.Month = formatAmount(v.HoursTotal), "h", v.MonthISO
			rec.Rate = formatOptional(v.SEKPerHour)
			rec.Amount = formatAmount(preferPrinted(v.SEKTotalFromRow, v.SEKTotalComputed))
		case *summary.DaySummary:
			rec.Quantity, rec.Unit, rec.Month = formatAmount(v.DaysTotal), "dag", v.MonthISO
			rec.Rate = formatOptional(v.SEKPerDay)
			rec.Amount = formatAmount(preferPrinted(v.SEKTotalFromRow, v.SEKTotalComputed))
		case *summary.VacationSummary:
			rec.Quantity, rec.Unit, rec.Month = strconv.Itoa(v.DaysCount), "dag", v.MonthISO
		case *summary.MoneySummary:
			rec.Amount, rec.Month = formatAmount(v.SEKTotal), v.MonthISO
		}
		out = append(out, rec)
	}
	return out
}

// preferPrinted returns the total printed on the payslip when there is one.
func preferPrinted(printed *float64, computed float64) float64 {
	if printed != nil {
		return *printed
	}
	return computed
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatAmount(*v)
}

func formatAmount(amount float64) string {
	if amount == 0 {
		return ""
	}
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
