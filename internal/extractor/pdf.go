package extractor

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/insightdelivered/payslip-converter/internal/models"
)

// sameLineNudge is how far apart two glyph baselines may be and still be
// read as one line when merging glyphs into phrases.
const sameLineNudge = 0.5

// LibrarySource reads glyphs with ledongthuc/pdf and merges them into
// phrases, each becoming one fragment at its first glyph's origin.
type LibrarySource struct {
	MaxPages int
}

// Pages implements Source. The library panics on some malformed files;
// those panics come back as errors.
func (s *LibrarySource) Pages(ctx context.Context, path string) (pages [][]models.Fragment, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("pdf library crashed: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	n := r.NumPage()
	if n == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}
	if s.MaxPages > 0 && s.MaxPages < n {
		n = s.MaxPages
	}

	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		pages = append(pages, mergeGlyphs(page.Content().Text))
	}
	return pages, nil
}

// mergeGlyphs joins glyphs that sit on the same baseline, share a font size
// and follow each other closely into phrases. A gap wider than a sixth of
// the font size becomes a space; one wider than two thirds ends the phrase.
func mergeGlyphs(glyphs []pdf.Text) []models.Fragment {
	chars := make([]pdf.Text, 0, len(glyphs))
	for _, g := range glyphs {
		if g.S != "" {
			chars = append(chars, g)
		}
	}
	if len(chars) == 0 {
		return nil
	}

	// Snap baselines that differ by less than the nudge, then sort so that
	// glyphs of one line are adjacent and left to right.
	sort.SliceStable(chars, func(i, j int) bool { return chars[i].Y > chars[j].Y })
	anchor := chars[0].Y
	for i := range chars {
		if math.Abs(chars[i].Y-anchor) < sameLineNudge {
			chars[i].Y = anchor
		} else {
			anchor = chars[i].Y
		}
	}
	sort.SliceStable(chars, func(i, j int) bool {
		if chars[i].Y != chars[j].Y {
			return chars[i].Y > chars[j].Y
		}
		return chars[i].X < chars[j].X
	})

	var out []models.Fragment
	for i := 0; i < len(chars); {
		j := i + 1
		for j < len(chars) && chars[j].Y == chars[i].Y {
			j++
		}

		for k := i; k < j; {
			first := chars[k]
			var b strings.Builder
			b.WriteString(first.S)
			end := first.X + first.W
			charSpace := first.FontSize / 6
			wordSpace := first.FontSize * 2 / 3

			l := k + 1
			for ; l < j; l++ {
				c := chars[l]
				if math.Abs(c.FontSize-first.FontSize) >= 0.1 || c.X > end+wordSpace {
					break
				}
				if c.X > end+charSpace {
					b.WriteByte(' ')
				}
				b.WriteString(c.S)
				end = c.X + c.W
			}

			if text := strings.TrimSpace(b.String()); text != "" {
				out = append(out, models.Fragment{Text: text, X: first.X, Y: first.Y})
			}
			k = l
		}
		i = j
	}
	return out
}
