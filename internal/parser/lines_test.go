package parser

import (
	"testing"

	"github.com/insightdelivered/payslip-converter/internal/models"
)

func lineTexts(lines []models.Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestReconstructLines(t *testing.T) {
	tests := []struct {
		name  string
		frags []models.Fragment
		want  []string
	}{
		{
			name: "orders top to bottom and left to right",
			frags: []models.Fragment{
				{Text: "8,00", X: 400, Y: 700},
				{Text: "315", X: 40, Y: 700},
				{Text: "Lönespecifikation", X: 40, Y: 780},
				{Text: "Arbetad tid", X: 80, Y: 700},
			},
			want: []string{"Lönespecifikation", "315 Arbetad tid 8,00"},
		},
		{
			name: "fragments within tolerance share a line",
			frags: []models.Fragment{
				{Text: "070", X: 40, Y: 600},
				{Text: "Månadslön", X: 80, Y: 601},
				{Text: "33 724,00", X: 400, Y: 599.5},
			},
			want: []string{"070 Månadslön 33 724,00"},
		},
		{
			name: "fragments beyond tolerance split",
			frags: []models.Fragment{
				{Text: "9190 Utbetalning", X: 40, Y: 500},
				{Text: "2026-01-01 - 2026-01-31 28 114,00", X: 40, Y: 497},
			},
			want: []string{"9190 Utbetalning", "2026-01-01 - 2026-01-31 28 114,00"},
		},
		{
			name: "cluster stays anchored at first fragment",
			frags: []models.Fragment{
				{Text: "a", X: 0, Y: 100},
				{Text: "b", X: 10, Y: 98.5},
				{Text: "c", X: 20, Y: 97},
			},
			want: []string{"a b", "c"},
		},
		{
			name: "blank fragments are dropped and whitespace collapsed",
			frags: []models.Fragment{
				{Text: "  ", X: 0, Y: 100},
				{Text: "301  Övertid ", X: 10, Y: 100},
				{Text: "", X: 20, Y: 50},
			},
			want: []string{"301 Övertid"},
		},
		{
			name:  "empty page",
			frags: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lineTexts(ReconstructLines(tt.frags, DefaultYTolerance))
			if !equalStrings(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReconstructLinesKeepsAnchorY(t *testing.T) {
	lines := ReconstructLines([]models.Fragment{
		{Text: "b", X: 10, Y: 99},
		{Text: "a", X: 0, Y: 100},
	}, DefaultYTolerance)

	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0].Y != 100 {
		t.Errorf("got y %v, want 100", lines[0].Y)
	}
}

func TestReconstructLinesIsOrderIndependent(t *testing.T) {
	a := []models.Fragment{
		{Text: "315", X: 40, Y: 700},
		{Text: "Arbetad tid", X: 80, Y: 700},
		{Text: "2025-12-01 - 2025-12-01", X: 200, Y: 700},
		{Text: "8,00", X: 400, Y: 701},
	}
	b := []models.Fragment{a[3], a[1], a[2], a[0]}

	got := lineTexts(ReconstructLines(b, DefaultYTolerance))
	want := lineTexts(ReconstructLines(a, DefaultYTolerance))
	if !equalStrings(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}
