package summary

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/payslip-converter/internal/models"
)

type summarizer func(Code, models.ArtGroup) Summary

var summarizers = map[Kind]summarizer{
	KindWorkedTime: summarizeTime,
	KindHourlyRate: summarizeHourly,
	KindDayRate:    summarizeDays,
	KindVacation:   summarizeVacation,
	KindMoney:      summarizeMoney,
}

// SummarizeGroup runs the dedicated summarizer for g. It returns nil for
// codes outside the dictionary and for groups where no row could be read.
func SummarizeGroup(g models.ArtGroup) Summary {
	code, ok := Lookup(g.Art)
	if !ok || len(g.Rows) == 0 {
		return nil
	}
	return summarizers[code.Kind](code, g)
}

func newBase(code Code, g models.ArtGroup) Base {
	desc := DescriptionFromRawRow(g.Art, g.Rows[0])
	if desc == unknownDescription {
		desc = code.Description
	}
	return Base{
		Art:         code.Art,
		Kind:        code.Kind,
		Description: desc,
		RowsTotal:   len(g.Rows),
	}
}

// summarizeTime adds up the first plausible hour value of every row.
// Days are collected from every row with a range, read or not, so the
// calendar still shows when the code occurred.
func summarizeTime(code Code, g models.ArtGroup) Summary {
	s := &TimeSummary{Base: newBase(code, g)}
	dates := dateSet{}
	perDay := dayTotals{}

	for _, raw := range g.Rows {
		row, ok := ParseArtRow(raw)
		if !ok {
			continue
		}
		days := row.Dates()
		dates.add(days...)

		hours, ok := firstPlausibleHours(row.tail, code.MaxQuantity)
		if !ok {
			continue
		}
		minutes := int(math.Round(hours * 60))
		s.TotalMinutes += minutes
		s.RowsMatched++
		perDay.spread(days, decimal.NewFromInt(int64(minutes)))
	}

	if s.RowsMatched == 0 && len(dates) == 0 {
		return nil
	}
	if s.TotalMinutes < 0 {
		s.TotalMinutes = 0
	}
	s.DatesISO = dates.sorted()
	s.MonthISO = DominantMonth(s.DatesISO)
	s.MinutesByDate = perDay.floats()
	return s
}

// quantityRate is one row read as quantity × rate [= total].
type quantityRate struct {
	qty      decimal.Decimal
	rate     float64
	total    decimal.Decimal
	hasTotal bool
}

// computed is qty × rate rounded to öre.
func (q quantityRate) computed() decimal.Decimal {
	return q.qty.Mul(decimal.NewFromFloat(q.rate)).Round(2)
}

// parseQuantityRate reads quantity, rate and an optional printed total from
// the tokens right after the date range. Rows without a plausible pair are
// rejected as a whole.
func parseQuantityRate(row ParsedArtRow, code Code) (quantityRate, bool) {
	nums := row.TailNumbers()
	if len(nums) < 2 {
		return quantityRate{}, false
	}
	qty, rate := nums[0], nums[1]
	if qty < 0 || qty > code.MaxQuantity {
		return quantityRate{}, false
	}
	if rate <= 0 || rate > code.MaxRate {
		return quantityRate{}, false
	}

	q := quantityRate{qty: decimal.NewFromFloat(qty), rate: rate}
	if len(nums) >= 3 && math.Abs(nums[2]) <= maxMoneySEK {
		q.total = decimal.NewFromFloat(nums[2])
		q.hasTotal = true
	}
	return q, true
}

// rateTracker remembers the first rate seen and whether any later row
// disagreed with it.
type rateTracker struct {
	rate     float64
	seen     bool
	diverged bool
}

func (t *rateTracker) observe(rate float64) {
	if !t.seen {
		t.rate, t.seen = rate, true
		return
	}
	if math.Abs(rate-t.rate) > rateEpsilon {
		t.diverged = true
	}
}

func (t rateTracker) value() *float64 {
	if !t.seen || t.diverged {
		return nil
	}
	v := t.rate
	return &v
}

// rateTotals accumulates what hourly and daily codes have in common.
type rateTotals struct {
	matched       int
	quantity      decimal.Decimal
	computed      decimal.Decimal
	fromRow       decimal.Decimal
	rowsWithTotal int
	rate          rateTracker
	dates         dateSet
}

func (t *rateTotals) add(q quantityRate, days []string) {
	t.matched++
	t.quantity = t.quantity.Add(q.qty)
	t.computed = t.computed.Add(q.computed())
	t.rate.observe(q.rate)
	if q.hasTotal {
		t.fromRow = t.fromRow.Add(q.total)
		t.rowsWithTotal++
	}
	t.dates.add(days...)
}

func (t *rateTotals) fromRowTotal() *float64 {
	if t.rowsWithTotal == 0 {
		return nil
	}
	v := t.fromRow.InexactFloat64()
	return &v
}

func summarizeHourly(code Code, g models.ArtGroup) Summary {
	totals := rateTotals{dates: dateSet{}}
	perDay := dayTotals{}

	for _, raw := range g.Rows {
		row, ok := ParseArtRow(raw)
		if !ok {
			continue
		}
		q, ok := parseQuantityRate(row, code)
		if !ok {
			continue
		}
		days := row.Dates()
		totals.add(q, days)
		perDay.spread(days, q.qty)
	}

	if totals.matched == 0 {
		return nil
	}
	base := newBase(code, g)
	base.RowsMatched = totals.matched
	datesISO := totals.dates.sorted()
	return &RateSummary{
		Base:             base,
		HoursTotal:       totals.quantity.InexactFloat64(),
		SEKPerHour:       totals.rate.value(),
		SEKTotalComputed: totals.computed.InexactFloat64(),
		SEKTotalFromRow:  totals.fromRowTotal(),
		RowsWithTotal:    totals.rowsWithTotal,
		DatesISO:         datesISO,
		MonthISO:         DominantMonth(datesISO),
		HoursByDate:      perDay.floats(),
	}
}

func summarizeDays(code Code, g models.ArtGroup) Summary {
	totals := rateTotals{dates: dateSet{}}
	perDay := dayTotals{}

	for _, raw := range g.Rows {
		row, ok := ParseArtRow(raw)
		if !ok {
			continue
		}
		q, ok := parseQuantityRate(row, code)
		if !ok {
			continue
		}
		days := row.Dates()
		totals.add(q, days)

		amount := q.computed()
		if q.hasTotal {
			amount = q.total
		}
		perDay.spread(days, amount)
	}

	if totals.matched == 0 {
		return nil
	}
	base := newBase(code, g)
	base.RowsMatched = totals.matched
	datesISO := totals.dates.sorted()
	return &DaySummary{
		Base:             base,
		DaysTotal:        totals.quantity.InexactFloat64(),
		SEKPerDay:        totals.rate.value(),
		SEKTotalComputed: totals.computed.InexactFloat64(),
		SEKTotalFromRow:  totals.fromRowTotal(),
		RowsWithTotal:    totals.rowsWithTotal,
		DatesISO:         datesISO,
		MonthISO:         DominantMonth(datesISO),
		SEKByDate:        perDay.floats(),
	}
}

// summarizeVacation needs nothing but a date range on the row.
func summarizeVacation(code Code, g models.ArtGroup) Summary {
	s := &VacationSummary{Base: newBase(code, g)}
	dates := dateSet{}

	for _, raw := range g.Rows {
		row, ok := ParseArtRow(raw)
		if !ok {
			continue
		}
		days := row.Dates()
		if len(days) == 0 {
			continue
		}
		s.RowsMatched++
		dates.add(days...)
	}

	if s.RowsMatched == 0 {
		return nil
	}
	s.DatesISO = dates.sorted()
	s.DaysCount = len(s.DatesISO)
	s.MonthISO = DominantMonth(s.DatesISO)
	return s
}

// summarizeMoney sums the last plausible amount of every row.
func summarizeMoney(code Code, g models.ArtGroup) Summary {
	s := &MoneySummary{Base: newBase(code, g), RowsCount: len(g.Rows)}
	dates := dateSet{}
	perDay := dayTotals{}
	total := decimal.Zero

	for _, raw := range g.Rows {
		row, ok := ParseArtRow(raw)
		if !ok {
			continue
		}
		amount, ok := lastPlausibleMoney(row.TailNumbers(), maxMoneySEK)
		if !ok {
			continue
		}
		s.RowsMatched++
		d := decimal.NewFromFloat(amount)
		total = total.Add(d)

		days := row.Dates()
		dates.add(days...)
		perDay.spread(days, d)
	}

	if s.RowsMatched == 0 {
		return nil
	}
	s.SEKTotal = total.InexactFloat64()
	s.DatesISO = dates.sorted()
	s.MonthISO = DominantMonth(s.DatesISO)
	s.SEKByDate = perDay.floats()
	return s
}

// dayTotals spreads a row's value evenly over the days it covers.
type dayTotals map[string]decimal.Decimal

func (t dayTotals) spread(days []string, amount decimal.Decimal) {
	if len(days) == 0 {
		return
	}
	share := amount.Div(decimal.NewFromInt(int64(len(days))))
	for _, d := range days {
		t[d] = t[d].Add(share)
	}
}

func (t dayTotals) floats() map[string]float64 {
	if len(t) == 0 {
		return nil
	}
	out := make(map[string]float64, len(t))
	for d, v := range t {
		out[d] = v.Round(4).InexactFloat64()
	}
	return out
}
