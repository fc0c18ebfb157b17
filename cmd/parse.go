package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/insightdelivered/payslip-converter/internal/extractor"
	"github.com/insightdelivered/payslip-converter/internal/metrics"
	"github.com/insightdelivered/payslip-converter/internal/parser"
	"github.com/insightdelivered/payslip-converter/internal/writer"
)

type parseOptions struct {
	format     string
	output     string
	pages      bool
	yTolerance float64
	maxPages   int

	metricsFile    string
	metricsEnabled bool
}

func newParseCmd(c *cli) *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <payslip.pdf> [payslip2.pdf ...]",
		Short: "Extract and summarize the ART rows of one or more payslips",
		Long: `Extract and summarize the ART rows of one or more payslips.

Text reports go to stdout. The other formats are written next to each input
(lonespec.pdf -> lonespec.csv) unless --output is given; --output - writes
to stdout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("y-tolerance") {
				opts.yTolerance = c.cfg.Parser.YTolerance
			}
			if !cmd.Flags().Changed("max-pages") {
				opts.maxPages = c.cfg.Parser.MaxPages
			}
			opts.metricsEnabled = c.cfg.Metrics.Enabled
			return runParse(cmd.Context(), cmd.OutOrStdout(), c.log, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", string(writer.FormatText), "Output format: text, json, yaml, csv, xlsx")
	f.StringVarP(&opts.output, "output", "o", "", "Output file path, or - for stdout")
	f.BoolVar(&opts.pages, "pages", false, "Include per-page lines, groups and the selector trace (json/yaml)")
	f.Float64Var(&opts.yTolerance, "y-tolerance", parser.DefaultYTolerance, "Max vertical distance between fragments of one line")
	f.IntVar(&opts.maxPages, "max-pages", 0, "Read at most this many pages (0 = all)")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "Write parse metrics to this file in Prometheus text format")
	return cmd
}

func runParse(ctx context.Context, stdout io.Writer, log *zap.Logger, opts *parseOptions, inputs []string) (err error) {
	format, err := writer.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	w, err := writer.New(format)
	if err != nil {
		return err
	}
	if opts.output != "" && opts.output != "-" && len(inputs) > 1 {
		return errors.New("--output names a single file; omit it or use - when converting several payslips")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	log = log.With(zap.String("runId", uuid.NewString()))

	var rec *metrics.Recorder
	if opts.metricsFile != "" && opts.metricsEnabled {
		rec = metrics.New()
		defer func() {
			if werr := rec.WriteTextfile(opts.metricsFile); werr != nil && err == nil {
				err = fmt.Errorf("write metrics: %w", werr)
			}
		}()
	}

	pipeline := parser.New(
		extractor.New(opts.maxPages, log),
		parser.WithYTolerance(opts.yTolerance),
		parser.WithPages(opts.pages),
		parser.WithLogger(log),
	)

	for _, input := range inputs {
		if err := processFile(ctx, pipeline, w, format, stdout, log, rec, input, opts.output); err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
	}
	return nil
}

func processFile(ctx context.Context, p *parser.Pipeline, w writer.Writer, format writer.Format,
	stdout io.Writer, log *zap.Logger, rec *metrics.Recorder, input, output string) error {
	// Validate input file
	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("input file not found: %w", err)
	}
	if ext := strings.ToLower(filepath.Ext(input)); ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	start := time.Now()
	res, err := p.ParseFile(ctx, input)
	rec.ObserveParse(metrics.SourceCLI, parseOutcome(err), time.Since(start))
	if err != nil {
		if errors.Is(err, extractor.ErrNoText) {
			return fmt.Errorf("%w (scanned payslips are not supported)", err)
		}
		return err
	}
	rec.ObserveOverview(res.Overview)
	log.Info("payslip parsed",
		zap.String("file", input),
		zap.Int("artGroups", len(res.Groups)),
		zap.Int("rows", res.RowCount()),
		zap.Duration("elapsed", time.Since(start)))
	for _, n := range res.Notes {
		log.Warn(n, zap.String("file", input))
	}

	outPath := output
	if outPath == "" && format != writer.FormatText {
		outPath = strings.TrimSuffix(input, filepath.Ext(input)) + "." + string(format)
	}
	if outPath == "" || outPath == "-" {
		return w.Write(stdout, res)
	}

	if err := writer.WriteToFile(outPath, w, res); err != nil {
		return err
	}
	log.Info("output written", zap.String("file", outPath), zap.String("format", string(format)))
	return nil
}

func parseOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, extractor.ErrNotPDF):
		return metrics.OutcomeNotPDF
	case errors.Is(err, extractor.ErrNoText), errors.Is(err, parser.ErrNoPages):
		return metrics.OutcomeNoText
	}
	return metrics.OutcomeError
}
