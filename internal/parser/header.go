package parser

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/insightdelivered/payslip-converter/internal/models"
	"github.com/insightdelivered/payslip-converter/internal/summary"
)

const knownEmployer = "Blidösundsbolaget AB"

// Swedish money and quantity patterns printed next to header labels.
const (
	moneyPattern    = `([-+]?\d[\d\s]*,\d{2})`
	quantityPattern = `(\d[\d\s]*,\d{2})`
)

var (
	periodPattern     = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\s*-\s*(\d{4}-\d{2}-\d{2})`)
	payoutDatePattern = labelPattern("Utbetalningsdag", `(\d{4}-\d{2}-\d{2})`)
	netPayPattern     = labelPattern("Att utbetala", moneyPattern)
	taxTablePattern   = labelPattern("Skattetabell", `(\d{1,2},\d{2})`)
	prelTaxPattern    = labelPattern("Preliminär skatt", moneyPattern)
	costCenterPattern = labelPattern("Kostnadsställe", `([A-Za-z0-9\-]+)`)
	employmentPattern = labelPattern("Sysselsättningsgrad", quantityPattern)
	grossPattern      = labelPattern("Bruttolön perioden", moneyPattern)
	compPattern       = labelPattern("Komp", quantityPattern)
	annualTimePattern = labelPattern("Årsarbetstid", quantityPattern)
)

// Notes added when a key header field cannot be found.
const (
	notePeriodMissing = "Kunde inte hitta period (YYYY-MM-DD - YYYY-MM-DD) i texten."
	noteNetPayMissing = "Kunde inte hitta 'Att utbetala'."
	noteNoArticles    = "Inga ART-rader hittades. Kontrollera att PDF:en innehåller text."
)

func labelPattern(label, value string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `\s*` + value)
}

// ExtractHeader reads the free-standing header fields from the document
// text. The second result lists notes about key fields that were missing.
func ExtractHeader(lines []string) (models.PayslipHeader, []string) {
	text := normalizeLine(strings.Join(lines, "\n"))
	var (
		h     models.PayslipHeader
		notes []string
	)

	if strings.Contains(strings.ToLower(text), strings.ToLower("Blidösundsbolaget")) {
		h.Employer = knownEmployer
	}

	if m := periodPattern.FindStringSubmatch(text); m != nil {
		h.PeriodFrom, h.PeriodTo = m[1], m[2]
	} else {
		notes = append(notes, notePeriodMissing)
	}

	h.PayoutDate = findString(payoutDatePattern, text)
	netPay, found := findNumber(netPayPattern, text)
	h.NetPaySEK = netPay
	if !found {
		notes = append(notes, noteNetPayMissing)
	}

	h.TaxTable = findString(taxTablePattern, text)
	h.PreliminaryTaxSEK, _ = findNumber(prelTaxPattern, text)
	h.CostCenter = findString(costCenterPattern, text)
	employment, _ := findNumber(employmentPattern, text)
	h.EmploymentRatePercent = int(math.Round(employment))
	h.GrossPeriodSEK, _ = findNumber(grossPattern, text)
	h.CompHours, _ = findNumber(compPattern, text)
	h.AnnualWorkTimeHours, _ = findNumber(annualTimePattern, text)

	return h, notes
}

func findString(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// findNumber reports whether the label was found with a parseable value.
func findNumber(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return summary.ParseSwedishNumber(m[1])
}

// headerSummary is a one-line description of the header for log output.
func headerSummary(h models.PayslipHeader) string {
	if h.PeriodFrom == "" {
		return "period unknown"
	}
	return fmt.Sprintf("period %s..%s", h.PeriodFrom, h.PeriodTo)
}
