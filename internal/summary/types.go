package summary

// Summary is the result of one per-article summarizer. The set of
// implementations is closed: TimeSummary, RateSummary, DaySummary,
// VacationSummary and MoneySummary.
type Summary interface {
	Info() Base
	isSummary()
}

// Base is shared by every summary. RowsMatched against RowsTotal shows how
// many rows the summarizer could actually read.
type Base struct {
	Art         string `json:"art"`
	Kind        Kind   `json:"kind"`
	Description string `json:"description"`
	RowsMatched int    `json:"rowsMatched"`
	RowsTotal   int    `json:"rowsTotal"`
}

func (b Base) Info() Base { return b }

func (Base) isSummary() {}

// TimeSummary covers worked time and other hour-only codes.
type TimeSummary struct {
	Base
	TotalMinutes  int                `json:"totalMinutes"`
	DatesISO      []string           `json:"datesISO"`
	MonthISO      string             `json:"monthISO,omitempty"`
	MinutesByDate map[string]float64 `json:"minutesByDate,omitempty"`
}

// Hours is TotalMinutes expressed in hours.
func (s *TimeSummary) Hours() float64 {
	return float64(s.TotalMinutes) / 60
}

// RateSummary covers codes printed as hours × SEK per hour.
// SEKPerHour is nil when rows disagree on the rate. SEKTotalFromRow is nil
// when no row printed its own total.
type RateSummary struct {
	Base
	HoursTotal       float64            `json:"hoursTotal"`
	SEKPerHour       *float64           `json:"sekPerHour"`
	SEKTotalComputed float64            `json:"sekTotalComputed"`
	SEKTotalFromRow  *float64           `json:"sekTotalFromRow"`
	RowsWithTotal    int                `json:"rowsWithTotal"`
	DatesISO         []string           `json:"datesISO"`
	MonthISO         string             `json:"monthISO,omitempty"`
	HoursByDate      map[string]float64 `json:"hoursByDate,omitempty"`
}

// DaySummary covers codes printed as days × SEK per day.
type DaySummary struct {
	Base
	DaysTotal        float64            `json:"daysTotal"`
	SEKPerDay        *float64           `json:"sekPerDay"`
	SEKTotalComputed float64            `json:"sekTotalComputed"`
	SEKTotalFromRow  *float64           `json:"sekTotalFromRow"`
	RowsWithTotal    int                `json:"rowsWithTotal"`
	DatesISO         []string           `json:"datesISO"`
	MonthISO         string             `json:"monthISO,omitempty"`
	SEKByDate        map[string]float64 `json:"sekByDate,omitempty"`
}

// VacationSummary only records which days are covered; turning days into
// hours is left to the presentation layer.
type VacationSummary struct {
	Base
	DaysCount int      `json:"daysCount"`
	DatesISO  []string `json:"datesISO"`
	MonthISO  string   `json:"monthISO,omitempty"`
}

// MoneySummary covers plain amounts: salary, tax, fees, fixed allowances.
type MoneySummary struct {
	Base
	SEKTotal  float64            `json:"sekTotal"`
	RowsCount int                `json:"rowsCount"`
	DatesISO  []string           `json:"datesISO"`
	MonthISO  string             `json:"monthISO,omitempty"`
	SEKByDate map[string]float64 `json:"sekByDate,omitempty"`
}
