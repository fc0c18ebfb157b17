package parser

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/insightdelivered/payslip-converter/internal/models"
)

// DefaultYTolerance is how far apart two baselines may be, in PDF user-space
// units, and still count as the same line.
const DefaultYTolerance = 2.0

var whitespaceRe = regexp.MustCompile(`\s+`)

// ReconstructLines clusters the fragments of one page into lines, top to
// bottom. A cluster is anchored at the Y of its first fragment; the
// tolerance is fixed, so baselines drifting further than that split a line.
func ReconstructLines(frags []models.Fragment, tolerance float64) []models.Line {
	points := make([]models.Fragment, 0, len(frags))
	for _, f := range frags {
		if strings.TrimSpace(f.Text) == "" {
			continue
		}
		points = append(points, f)
	}
	if len(points) == 0 {
		return nil
	}

	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Y != points[j].Y {
			return points[i].Y > points[j].Y
		}
		return points[i].X < points[j].X
	})

	var (
		lines   []models.Line
		cluster []models.Fragment
		anchor  float64
	)
	flush := func() {
		if len(cluster) == 0 {
			return
		}
		if text := joinFragments(cluster); text != "" {
			lines = append(lines, models.Line{Y: anchor, Text: text})
		}
		cluster = cluster[:0]
	}

	for _, p := range points {
		if len(cluster) > 0 && math.Abs(p.Y-anchor) > tolerance {
			flush()
		}
		if len(cluster) == 0 {
			anchor = p.Y
		}
		cluster = append(cluster, p)
	}
	flush()

	return lines
}

// joinFragments orders a cluster left to right and joins it into one
// whitespace-normalised string.
func joinFragments(cluster []models.Fragment) string {
	sorted := append([]models.Fragment(nil), cluster...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	parts := make([]string, len(sorted))
	for i, f := range sorted {
		parts[i] = f.Text
	}
	return normalizeLine(strings.Join(parts, " "))
}

func normalizeLine(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
