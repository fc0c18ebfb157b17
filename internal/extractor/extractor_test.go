package extractor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/payslip-converter/internal/models"
)

type stubSource struct {
	pages [][]models.Fragment
	err   error
	calls int
}

func (s *stubSource) Pages(context.Context, string) ([][]models.Fragment, error) {
	s.calls++
	return s.pages, s.err
}

func readablePages() [][]models.Fragment {
	return [][]models.Fragment{{
		{Text: "Lönespecifikation Blidösundsbolaget AB", X: 40, Y: 800},
		{Text: "315 Arbetad tid 2025-12-01 - 2025-12-01 8,00", X: 40, Y: 700},
		{Text: "Att utbetala 28 114,00", X: 40, Y: 100},
	}}
}

func garbagePages() [][]models.Fragment {
	return [][]models.Fragment{{
		{Text: "ÿþýüûúùø÷öõôóòñðïîíìëêéèçæåäãâáàßÞÝÜÛÚÙØ×ÖÕÔÓÒÑÐÏÎÍÌËÊÉÈÇ", X: 0, Y: 0},
	}}
}

func pdfFile(t *testing.T) string {
	return writeTemp(t, "lonespec.pdf", buildPDF([]byte("BT (x) Tj ET")))
}

func TestChainFirstReadableWins(t *testing.T) {
	lib := &stubSource{pages: garbagePages()}
	raw := &stubSource{pages: readablePages()}
	chain := &Chain{Sources: []Source{lib, raw}}

	pages, err := chain.Pages(context.Background(), pdfFile(t))
	require.NoError(t, err)
	assert.Equal(t, readablePages(), pages)
	assert.Equal(t, 1, lib.calls)
	assert.Equal(t, 1, raw.calls)
}

func TestChainStopsAtFirstReadable(t *testing.T) {
	lib := &stubSource{pages: readablePages()}
	raw := &stubSource{pages: readablePages()}
	chain := &Chain{Sources: []Source{lib, raw}}

	_, err := chain.Pages(context.Background(), pdfFile(t))
	require.NoError(t, err)
	assert.Equal(t, 0, raw.calls)
}

func TestChainNoText(t *testing.T) {
	boom := errors.New("boom")
	chain := &Chain{Sources: []Source{
		&stubSource{err: boom},
		&stubSource{pages: garbagePages()},
	}}

	_, err := chain.Pages(context.Background(), pdfFile(t))
	assert.ErrorIs(t, err, ErrNoText)
	assert.Contains(t, err.Error(), "boom")

	chain = &Chain{Sources: []Source{&stubSource{pages: garbagePages()}}}
	_, err = chain.Pages(context.Background(), pdfFile(t))
	assert.ErrorIs(t, err, ErrNoText)
}

func TestChainRejectsNonPDF(t *testing.T) {
	src := &stubSource{pages: readablePages()}
	chain := &Chain{Sources: []Source{src}}

	path := writeTemp(t, "notes.pdf", []byte("just some text, not a pdf"))
	_, err := chain.Pages(context.Background(), path)
	assert.ErrorIs(t, err, ErrNotPDF)
	assert.Equal(t, 0, src.calls)

	_, err = chain.Pages(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotPDF)
}

func TestChainCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Chain{Sources: []Source{&stubSource{pages: readablePages()}}}).Pages(ctx, pdfFile(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewChain(t *testing.T) {
	chain := New(3, nil)
	require.Len(t, chain.Sources, 2)
	assert.Equal(t, 3, chain.Sources[0].(*LibrarySource).MaxPages)
	assert.Equal(t, 3, chain.Sources[1].(*RawSource).MaxPages)
}

func TestIsReadable(t *testing.T) {
	assert.True(t, IsReadable(readablePages()))
	assert.False(t, IsReadable(garbagePages()))
	assert.False(t, IsReadable(nil))
	assert.False(t, IsReadable([][]models.Fragment{{{Text: "Lön 2025"}}}))

	noWords := [][]models.Fragment{{{Text: "The quick brown fox jumps over the lazy dog again and again and again"}}}
	assert.False(t, IsReadable(noWords))
}

func TestMergeGlyphs(t *testing.T) {
	glyph := func(s string, x, y float64) pdf.Text {
		return pdf.Text{Font: "Helvetica", FontSize: 10, X: x, Y: y, W: 5, S: s}
	}

	got := mergeGlyphs([]pdf.Text{
		glyph("8", 200, 700),
		glyph("3", 40, 700),
		glyph("1", 45, 700.2),
		glyph("5", 50, 700),
		glyph("A", 60, 699.9),
		glyph("L", 40, 650),
		glyph("ö", 45, 650),
		glyph("n", 50, 650),
		{Font: "Helvetica", FontSize: 14, X: 55, Y: 650, W: 7, S: "X"},
	})

	assert.Equal(t, []models.Fragment{
		{Text: "315 A", X: 40, Y: 700.2},
		{Text: "8", X: 200, Y: 700.2},
		{Text: "Lön", X: 40, Y: 650},
		{Text: "X", X: 55, Y: 650},
	}, got)

	assert.Nil(t, mergeGlyphs(nil))
}

func TestLibrarySourceBadFile(t *testing.T) {
	_, err := (&LibrarySource{}).Pages(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)

	path := writeTemp(t, "broken.pdf", []byte("%PDF-1.4\nthis is not really a pdf"))
	_, err = (&LibrarySource{}).Pages(context.Background(), path)
	assert.Error(t, err)
}
