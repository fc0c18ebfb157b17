package summary

// Kind selects which summarizer handles an article code.
type Kind string

const (
	KindWorkedTime Kind = "worked_time"
	KindHourlyRate Kind = "hourly_rate"
	KindDayRate    Kind = "day_rate"
	KindVacation   Kind = "vacation"
	KindMoney      Kind = "money"
)

// Article codes with a dedicated summarizer.
const (
	ArtMonthlySalary          = "070"
	ArtOvertimeSingle         = "301"
	ArtOvertimeQualified      = "302"
	ArtCompOvertimeSingle     = "310"
	ArtCompOvertimeQualified  = "311"
	ArtWorkedTime             = "315"
	ArtStandby                = "316"
	ArtQualifiedTime          = "320"
	ArtQualifiedRecalculated  = "321"
	ArtVacation               = "510"
	ArtVacationPay            = "511"
	ArtVacationCompensation   = "520"
	ArtQualifyingDayDeduction = "610"
	ArtSickDeduction          = "611"
	ArtSickPay                = "612"
	ArtPreliminaryTax         = "950"
	ArtUnionFee               = "960"
	ArtMachineryAllowance     = "2101"
	ArtPositionAllowance      = "2110"
	ArtSeaAllowance           = "2120"
	ArtUnsocialHours          = "2201"
	ArtSubsistence            = "2301"
	ArtPayout                 = "9190"
	ArtGross                  = "9991"
	ArtCompLeave              = "K3100"
	ArtCompBalance            = "K3110"
)

// Plausibility bounds. They differ per code on purpose and are kept as
// configuration rather than derived from one another.
const (
	maxDailyHours   = 24
	maxMonthlyHours = 500
	maxDays         = 370
	maxRateSEK      = 100_000
	maxMoneySEK     = 10_000_000
	rateEpsilon     = 0.005
)

// Code describes one entry of the article-code dictionary.
type Code struct {
	Art         string  `json:"art"`
	Description string  `json:"description"`
	Kind        Kind    `json:"kind"`
	MaxQuantity float64 `json:"maxQuantity,omitempty"` // hours or days per row
	MaxRate     float64 `json:"maxRate,omitempty"`     // SEK per hour or day
}

var dictionary = []Code{
	{Art: ArtMonthlySalary, Description: "Månadslön", Kind: KindMoney},
	{Art: ArtOvertimeSingle, Description: "Övertid enkel", Kind: KindHourlyRate, MaxQuantity: maxDailyHours, MaxRate: maxRateSEK},
	{Art: ArtOvertimeQualified, Description: "Övertid kvalificerad", Kind: KindHourlyRate, MaxQuantity: maxDailyHours, MaxRate: maxRateSEK},
	{Art: ArtCompOvertimeSingle, Description: "Övertid till komp enkel", Kind: KindHourlyRate, MaxQuantity: maxDailyHours, MaxRate: maxRateSEK},
	{Art: ArtCompOvertimeQualified, Description: "Övertid till komp kvalificerad", Kind: KindHourlyRate, MaxQuantity: maxDailyHours, MaxRate: maxRateSEK},
	{Art: ArtWorkedTime, Description: "Arbetad tid", Kind: KindWorkedTime, MaxQuantity: maxDailyHours},
	{Art: ArtStandby, Description: "Beredskap", Kind: KindHourlyRate, MaxQuantity: maxDailyHours, MaxRate: maxRateSEK},
	{Art: ArtQualifiedTime, Description: "Kvalificerad övertid, tid", Kind: KindWorkedTime, MaxQuantity: maxDailyHours},
	{Art: ArtQualifiedRecalculated, Description: "Kvalificerad övertid, omräknad", Kind: KindWorkedTime, MaxQuantity: 2 * maxDailyHours},
	{Art: ArtVacation, Description: "Semester", Kind: KindVacation},
	{Art: ArtVacationPay, Description: "Semesterlön", Kind: KindDayRate, MaxQuantity: maxDays, MaxRate: maxRateSEK},
	{Art: ArtVacationCompensation, Description: "Semesterersättning", Kind: KindMoney},
	{Art: ArtQualifyingDayDeduction, Description: "Karensavdrag", Kind: KindMoney},
	{Art: ArtSickDeduction, Description: "Sjukavdrag dag 2-14", Kind: KindDayRate, MaxQuantity: maxDays, MaxRate: maxRateSEK},
	{Art: ArtSickPay, Description: "Sjuklön dag 2-14", Kind: KindDayRate, MaxQuantity: maxDays, MaxRate: maxRateSEK},
	{Art: ArtPreliminaryTax, Description: "Preliminärskatt", Kind: KindMoney},
	{Art: ArtUnionFee, Description: "Fackavgift", Kind: KindMoney},
	{Art: ArtMachineryAllowance, Description: "Maskinskötseltillägg", Kind: KindMoney},
	{Art: ArtPositionAllowance, Description: "Befattningstillägg", Kind: KindMoney},
	{Art: ArtSeaAllowance, Description: "Sjötillägg", Kind: KindMoney},
	{Art: ArtUnsocialHours, Description: "OB-tillägg", Kind: KindHourlyRate, MaxQuantity: maxMonthlyHours, MaxRate: maxRateSEK},
	{Art: ArtSubsistence, Description: "Traktamente", Kind: KindDayRate, MaxQuantity: maxDays, MaxRate: maxRateSEK},
	{Art: ArtPayout, Description: "Utbetalning", Kind: KindMoney},
	{Art: ArtGross, Description: "Bruttolön", Kind: KindMoney},
	{Art: ArtCompLeave, Description: "Kompledighet uttag", Kind: KindWorkedTime, MaxQuantity: maxMonthlyHours},
	{Art: ArtCompBalance, Description: "Kompsaldo", Kind: KindWorkedTime, MaxQuantity: maxMonthlyHours},
}

var codesByArt = func() map[string]Code {
	m := make(map[string]Code, len(dictionary))
	for _, c := range dictionary {
		m[c.Art] = c
	}
	return m
}()

// Lookup returns the dictionary entry for art.
func Lookup(art string) (Code, bool) {
	c, ok := codesByArt[art]
	return c, ok
}

// Codes returns a copy of the dictionary in declaration order.
func Codes() []Code {
	return append([]Code(nil), dictionary...)
}
