package models

// Fragment is one run of text from a PDF content stream together with the
// origin it was drawn at (PDF user space, Y grows upwards).
type Fragment struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Line is a horizontal text line rebuilt from fragments with close Y values.
// Y is the anchor of the cluster and is only kept for debug output.
type Line struct {
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

// ArticleRow is a line that starts a payroll record (leading article code),
// or a continuation line stitched onto the code that precedes it.
type ArticleRow struct {
	Raw string `json:"raw"`
}

// ArtGroup holds every raw row that shares one article code, in encounter order.
type ArtGroup struct {
	Art  string   `json:"art"`
	Rows []string `json:"rows"`
}

// PageOut is the per-page debug view: reconstructed lines and the groups
// found on that page alone.
type PageOut struct {
	Page      int        `json:"page"`
	Lines     []Line     `json:"lines"`
	ArtGroups []ArtGroup `json:"artGroups"`
}

// DebugLine captures what the article line selector did with each line.
type DebugLine struct {
	Page   int    `json:"page"`
	Text   string `json:"text"`
	Art    string `json:"art,omitempty"`
	Result string `json:"result"` // "article", "continuation", "skipped"
}

// PayslipHeader holds the free-standing fields printed around the ART table.
// Zero values mean the field was not found.
type PayslipHeader struct {
	Employer              string  `json:"employer,omitempty"`
	PeriodFrom            string  `json:"periodFrom,omitempty"`
	PeriodTo              string  `json:"periodTo,omitempty"`
	PayoutDate            string  `json:"payoutDate,omitempty"`
	NetPaySEK             float64 `json:"netPaySEK,omitempty"`
	GrossPeriodSEK        float64 `json:"grossPeriodSEK,omitempty"`
	PreliminaryTaxSEK     float64 `json:"preliminaryTaxSEK,omitempty"`
	TaxTable              string  `json:"taxTable,omitempty"`
	CostCenter            string  `json:"costCenter,omitempty"`
	EmploymentRatePercent int     `json:"employmentRatePercent,omitempty"`
	CompHours             float64 `json:"compHours,omitempty"`
	AnnualWorkTimeHours   float64 `json:"annualWorkTimeHours,omitempty"`
}
