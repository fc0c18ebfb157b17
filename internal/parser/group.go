package parser

import (
	"strings"

	"github.com/insightdelivered/payslip-converter/internal/models"
)

// GroupByArt groups rows by their leading token. Groups come back in the
// order their code was first seen and rows keep their encounter order.
func GroupByArt(rows []models.ArticleRow) []models.ArtGroup {
	var groups []models.ArtGroup
	index := make(map[string]int)

	for _, r := range rows {
		fields := strings.Fields(r.Raw)
		if len(fields) == 0 {
			continue
		}
		art := fields[0]

		i, ok := index[art]
		if !ok {
			i = len(groups)
			index[art] = i
			groups = append(groups, models.ArtGroup{Art: art})
		}
		groups[i].Rows = append(groups[i].Rows, r.Raw)
	}

	return groups
}

// mergeInto appends page groups onto the document-wide groups, keeping
// one group per code.
func mergeInto(dst []models.ArtGroup, index map[string]int, page []models.ArtGroup) []models.ArtGroup {
	for _, g := range page {
		i, ok := index[g.Art]
		if !ok {
			i = len(dst)
			index[g.Art] = i
			dst = append(dst, models.ArtGroup{Art: g.Art})
		}
		dst[i].Rows = append(dst[i].Rows, g.Rows...)
	}
	return dst
}
