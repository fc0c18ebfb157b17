package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/insightdelivered/payslip-converter/internal/models"
)

var (
	// ErrNotPDF is returned for files that do not carry a %PDF header.
	ErrNotPDF = errors.New("not a PDF file")

	// ErrNoText is returned when no source produced readable payslip text.
	ErrNoText = errors.New("no readable text in PDF")
)

// Source produces positioned text fragments, one slice per page.
type Source interface {
	Pages(ctx context.Context, path string) ([][]models.Fragment, error)
}

// Chain tries each source in turn and returns the first result that looks
// like readable payslip text.
type Chain struct {
	Sources []Source
	Log     *zap.Logger
}

// New returns the default chain: the PDF library first, then the raw
// content stream reader. maxPages limits pages read; 0 means all.
func New(maxPages int, log *zap.Logger) *Chain {
	if log == nil {
		log = zap.NewNop()
	}
	return &Chain{
		Sources: []Source{
			&LibrarySource{MaxPages: maxPages},
			&RawSource{MaxPages: maxPages},
		},
		Log: log,
	}
}

// Pages implements Source.
func (c *Chain) Pages(ctx context.Context, path string) ([][]models.Fragment, error) {
	if err := checkPDFHeader(path); err != nil {
		return nil, err
	}
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}

	var lastErr error
	for _, src := range c.Sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := fmt.Sprintf("%T", src)

		pages, err := src.Pages(ctx, path)
		if err != nil {
			log.Debug("source failed", zap.String("source", name), zap.Error(err))
			lastErr = err
			continue
		}
		if !IsReadable(pages) {
			log.Debug("source returned unreadable text", zap.String("source", name), zap.Int("pages", len(pages)))
			continue
		}
		log.Debug("source accepted", zap.String("source", name), zap.Int("pages", len(pages)))
		return pages, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoText, lastErr)
	}
	return nil, ErrNoText
}

// checkPDFHeader looks for %PDF- in the first kilobyte, where readers
// tolerate leading junk.
func checkPDFHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	head := make([]byte, 1024)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	if !bytes.Contains(head[:n], []byte("%PDF-")) {
		return ErrNotPDF
	}
	return nil
}

// payslipWords appear on every payslip. Text that has none of them is
// almost certainly mis-decoded.
var payslipWords = []string{
	"lön", "skatt", "period", "utbetal", "semester", "timmar",
	"belopp", "datum", "art", "netto", "brutto",
}

// IsReadable reports whether pages hold enough text (>50 characters), most
// of it readable (>60%), with at least one word expected on a payslip.
func IsReadable(pages [][]models.Fragment) bool {
	text := pagesText(pages)
	if len([]rune(strings.TrimSpace(text))) <= 50 {
		return false
	}
	if textQuality(text) <= 0.6 {
		return false
	}
	return containsPayslipWords(text)
}

func pagesText(pages [][]models.Fragment) string {
	var b strings.Builder
	for _, page := range pages {
		for _, f := range page {
			b.WriteString(f.Text)
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// textQuality is the share of characters that are ASCII letters, digits,
// Swedish letters, whitespace or common punctuation. unicode.IsLetter is
// too broad: garbage from identity-encoded fonts is full of letters.
func textQuality(text string) float64 {
	total, readable := 0, 0
	for _, r := range text {
		total++
		if isReadableRune(r) {
			readable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

func isReadableRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case unicode.IsSpace(r):
		return true
	}
	return strings.ContainsRune("åäöÅÄÖéÉ.,-/:;()'\"%&+=*!?#@", r)
}

func containsPayslipWords(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range payslipWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
