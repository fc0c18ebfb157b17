package summary

import "fmt"

// QualifiedStatus classifies how the recalculated qualified-overtime time
// relates to the base time.
type QualifiedStatus string

const (
	QualifiedMatch          QualifiedStatus = "match"
	QualifiedPartnerMissing QualifiedStatus = "partner_missing"
	QualifiedMismatch       QualifiedStatus = "mismatch"
)

const (
	qualifiedMultiplier       = 2
	qualifiedToleranceMinutes = 1
)

// QualifiedOvertimeCheck compares the base qualified-overtime time with its
// recalculated partner. It is informational only.
type QualifiedOvertimeCheck struct {
	BaseArt             string          `json:"baseArt"`
	RecalculatedArt     string          `json:"recalculatedArt"`
	BaseMinutes         int             `json:"baseMinutes"`
	RecalculatedMinutes int             `json:"recalculatedMinutes"`
	ExpectedMinutes     int             `json:"expectedMinutes"`
	Multiplier          int             `json:"multiplier"`
	Status              QualifiedStatus `json:"status"`
	Note                string          `json:"note"`
}

// CheckQualifiedOvertime returns nil when neither side is present.
func CheckQualifiedOvertime(base, recalculated *TimeSummary) *QualifiedOvertimeCheck {
	if base == nil && recalculated == nil {
		return nil
	}

	c := &QualifiedOvertimeCheck{
		BaseArt:         ArtQualifiedTime,
		RecalculatedArt: ArtQualifiedRecalculated,
		Multiplier:      qualifiedMultiplier,
	}
	if base != nil {
		c.BaseMinutes = base.TotalMinutes
		c.ExpectedMinutes = base.TotalMinutes * qualifiedMultiplier
	}
	if recalculated != nil {
		c.RecalculatedMinutes = recalculated.TotalMinutes
	}

	switch {
	case base == nil:
		c.Status = QualifiedPartnerMissing
		c.Note = fmt.Sprintf("ART %s finns men ART %s saknas.", ArtQualifiedRecalculated, ArtQualifiedTime)
	case recalculated == nil:
		c.Status = QualifiedPartnerMissing
		c.Note = fmt.Sprintf("ART %s finns men ART %s saknas.", ArtQualifiedTime, ArtQualifiedRecalculated)
	case abs(c.RecalculatedMinutes-c.ExpectedMinutes) <= qualifiedToleranceMinutes:
		c.Status = QualifiedMatch
		c.Note = fmt.Sprintf("ART %s är %d× ART %s som väntat.", ArtQualifiedRecalculated, qualifiedMultiplier, ArtQualifiedTime)
	default:
		c.Status = QualifiedMismatch
		c.Note = fmt.Sprintf("ART %s är %d min, väntat %d min (%d× ART %s).",
			ArtQualifiedRecalculated, c.RecalculatedMinutes, c.ExpectedMinutes, qualifiedMultiplier, ArtQualifiedTime)
	}
	return c
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
