package summary

import (
	"sort"

	"github.com/insightdelivered/payslip-converter/internal/models"
)

// ArtCount is one line of the catch-all table: every code seen, with or
// without a dedicated summarizer.
type ArtCount struct {
	Art         string `json:"art"`
	Description string `json:"description"`
	RowsCount   int    `json:"rowsCount"`
}

// Overview is the combined result handed to the presentation layer.
type Overview struct {
	Summaries         map[string]Summary      `json:"summaries"`
	QualifiedOvertime *QualifiedOvertimeCheck `json:"qualifiedOvertime,omitempty"`
	ByArt             []ArtCount              `json:"byArt"`
}

// Summarize runs every applicable summarizer over groups and builds the
// overview. Groups sharing a code are merged first, keeping their order.
func Summarize(groups []models.ArtGroup) *Overview {
	groups = mergeGroups(groups)

	ov := &Overview{
		Summaries: make(map[string]Summary),
		ByArt:     make([]ArtCount, 0, len(groups)),
	}

	for _, g := range groups {
		first := ""
		if len(g.Rows) > 0 {
			first = g.Rows[0]
		}
		ov.ByArt = append(ov.ByArt, ArtCount{
			Art:         g.Art,
			Description: DescriptionFromRawRow(g.Art, first),
			RowsCount:   len(g.Rows),
		})

		if s := SummarizeGroup(g); s != nil {
			ov.Summaries[g.Art] = s
		}
	}

	sort.SliceStable(ov.ByArt, func(i, j int) bool {
		return ov.ByArt[i].RowsCount > ov.ByArt[j].RowsCount
	})

	ov.QualifiedOvertime = CheckQualifiedOvertime(ov.Time(ArtQualifiedTime), ov.Time(ArtQualifiedRecalculated))
	return ov
}

func mergeGroups(groups []models.ArtGroup) []models.ArtGroup {
	index := make(map[string]int, len(groups))
	out := make([]models.ArtGroup, 0, len(groups))
	for _, g := range groups {
		if g.Art == "" {
			continue
		}
		i, ok := index[g.Art]
		if !ok {
			index[g.Art] = len(out)
			out = append(out, models.ArtGroup{Art: g.Art, Rows: append([]string(nil), g.Rows...)})
			continue
		}
		out[i].Rows = append(out[i].Rows, g.Rows...)
	}
	return out
}

// Time returns the TimeSummary for art, or nil.
func (o *Overview) Time(art string) *TimeSummary {
	s, _ := o.Summaries[art].(*TimeSummary)
	return s
}

// Rate returns the RateSummary for art, or nil.
func (o *Overview) Rate(art string) *RateSummary {
	s, _ := o.Summaries[art].(*RateSummary)
	return s
}

// Days returns the DaySummary for art, or nil.
func (o *Overview) Days(art string) *DaySummary {
	s, _ := o.Summaries[art].(*DaySummary)
	return s
}

// Vacation returns the VacationSummary for art, or nil.
func (o *Overview) Vacation(art string) *VacationSummary {
	s, _ := o.Summaries[art].(*VacationSummary)
	return s
}

// Money returns the MoneySummary for art, or nil.
func (o *Overview) Money(art string) *MoneySummary {
	s, _ := o.Summaries[art].(*MoneySummary)
	return s
}

// WorkedTime is shorthand for the worked-time code.
func (o *Overview) WorkedTime() *TimeSummary {
	return o.Time(ArtWorkedTime)
}

// SortedArts lists the codes that got a summary, ascending.
func (o *Overview) SortedArts() []string {
	arts := make([]string, 0, len(o.Summaries))
	for art := range o.Summaries {
		arts = append(arts, art)
	}
	sort.Strings(arts)
	return arts
}
