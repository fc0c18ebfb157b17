package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/insightdelivered/payslip-converter/internal/config"
	"github.com/insightdelivered/payslip-converter/internal/logger"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "1.0.0"

// cli carries what the root command loads for its subcommands.
type cli struct {
	cfgFile string
	verbose bool

	cfg *config.Config
	log *zap.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "payslip",
		Short: "Extract ART rows and per-code summaries from Swedish payslip PDFs",
		Long: `Payslip PDF converter
by Insight Delivered

Reads the text layer of a payslip PDF, rebuilds its lines, picks out the
rows of the ART table (article code first) and summarizes every known code:
worked time, overtime, allowances, vacation, tax and pay-out.

Examples:
  # Human-readable report
  payslip parse lonespec-2025-12.pdf

  # Per-code table as CSV next to the input
  payslip parse --format csv lonespec-2025-12.pdf

  # Full result as JSON on stdout, with per-page debug output
  payslip parse --format json --pages --output - lonespec-2025-12.pdf

  # HTTP API
  payslip serve --config config.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "Path to a YAML configuration file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newParseCmd(c),
		newServeCmd(c),
		newCodesCmd(),
		newVersionCmd(),
	)
	return root
}

func (c *cli) init() error {
	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return err
	}
	if c.verbose {
		cfg.Log.Level = "debug"
	}

	log, err := logger.New(cfg.Log.Env, cfg.Log.Level)
	if err != nil {
		return err
	}
	logger.Set(log)
	logger.Debug("config loaded",
		zap.String("file", c.cfgFile),
		zap.String("env", cfg.Log.Env),
		zap.Float64("yTolerance", cfg.Parser.YTolerance))

	c.cfg, c.log = cfg, log
	return nil
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
