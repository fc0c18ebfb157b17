package parser

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/insightdelivered/payslip-converter/internal/models"
	"github.com/insightdelivered/payslip-converter/internal/summary"
)

// ErrNoPages is returned when extraction produced no pages at all.
var ErrNoPages = errors.New("no pages extracted")

// FragmentSource produces the positioned text fragments of a PDF, one
// slice per page.
type FragmentSource interface {
	Pages(ctx context.Context, path string) ([][]models.Fragment, error)
}

// Result is everything one parse of one payslip produces.
type Result struct {
	Header     models.PayslipHeader `json:"header"`
	Groups     []models.ArtGroup    `json:"artGroups"`
	Pages      []models.PageOut     `json:"pages,omitempty"`
	DebugLines []models.DebugLine   `json:"debugLines,omitempty"`
	Overview   *summary.Overview    `json:"overview"`
	Notes      []string             `json:"notes"`
}

// RowCount is the number of article rows over all groups.
func (r *Result) RowCount() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Rows)
	}
	return n
}

// Pipeline turns extracted fragments into grouped article rows and the
// per-code overview.
type Pipeline struct {
	src          FragmentSource
	yTolerance   float64
	includePages bool
	log          *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithYTolerance sets the line clustering tolerance. Values <= 0 are ignored.
func WithYTolerance(tol float64) Option {
	return func(p *Pipeline) {
		if tol > 0 {
			p.yTolerance = tol
		}
	}
}

// WithPages keeps per-page lines, groups and the selector trace in the result.
func WithPages(include bool) Option {
	return func(p *Pipeline) {
		p.includePages = include
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// New returns a pipeline reading from src. src may be nil when only
// ParsePages is used.
func New(src FragmentSource, opts ...Option) *Pipeline {
	p := &Pipeline{
		src:        src,
		yTolerance: DefaultYTolerance,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseFile extracts the fragments of the PDF at path and parses them.
// Extraction is the only step that can fail.
func (p *Pipeline) ParseFile(ctx context.Context, path string) (*Result, error) {
	if p.src == nil {
		return nil, errors.New("parser: no fragment source configured")
	}

	pages, err := p.src.Pages(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	p.log.Debug("extracted fragments", zap.String("path", path), zap.Int("pages", len(pages)))

	return p.ParsePagesContext(ctx, pages)
}

// ParsePages runs the pipeline over already extracted pages. It never fails.
func (p *Pipeline) ParsePages(pages [][]models.Fragment) *Result {
	res, _ := p.ParsePagesContext(context.Background(), pages)
	return res
}

// ParsePagesContext is ParsePages with cancellation checked between pages.
func (p *Pipeline) ParsePagesContext(ctx context.Context, pages [][]models.Fragment) (*Result, error) {
	res := &Result{Notes: []string{}}
	index := make(map[string]int)
	var allText []string

	for i, frags := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pageNum := i + 1

		lines := ReconstructLines(frags, p.yTolerance)
		rows, debug := selectArticleRows(pageNum, lines)
		groups := GroupByArt(rows)
		res.Groups = mergeInto(res.Groups, index, groups)

		for _, l := range lines {
			allText = append(allText, l.Text)
		}

		if p.includePages {
			res.Pages = append(res.Pages, models.PageOut{Page: pageNum, Lines: lines, ArtGroups: groups})
			res.DebugLines = append(res.DebugLines, debug...)
		}

		p.log.Debug("page parsed",
			zap.Int("page", pageNum),
			zap.Int("fragments", len(frags)),
			zap.Int("lines", len(lines)),
			zap.Int("articleRows", len(rows)),
		)
	}

	header, notes := ExtractHeader(allText)
	res.Header = header
	res.Notes = append(res.Notes, notes...)
	if len(res.Groups) == 0 {
		res.Notes = append(res.Notes, noteNoArticles)
	}
	if res.Groups == nil {
		res.Groups = []models.ArtGroup{}
	}

	res.Overview = summary.Summarize(res.Groups)

	p.log.Info("payslip parsed",
		zap.Int("pages", len(pages)),
		zap.Int("groups", len(res.Groups)),
		zap.Int("rows", res.RowCount()),
		zap.Int("summaries", len(res.Overview.Summaries)),
		zap.String("header", headerSummary(header)),
	)
	return res, nil
}
