package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/payslip-converter/internal/api"
	"github.com/insightdelivered/payslip-converter/internal/extractor"
	"github.com/insightdelivered/payslip-converter/internal/metrics"
)

func newServeCmd(c *cli) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Routes:
  POST /api/parse      multipart "file" (PDF) or "fragments" (JSON)
  POST /api/summarize  {"artGroups": [{"art": "...", "rows": [...]}]}
  GET  /api/codes      article-code dictionary
  GET  /api/health     liveness
  GET  /metrics        Prometheus metrics (when enabled)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			h := &api.Handler{
				Source:     extractor.New(cfg.Parser.MaxPages, c.log),
				YTolerance: cfg.Parser.YTolerance,
				Log:        c.log,
				Version:    Version,
			}
			if cfg.Metrics.Enabled {
				h.Metrics = metrics.New()
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return api.Serve(ctx, api.NewApp(h, cfg.Server.BodyLimit()), cfg.Server.Addr(), c.log)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides config)")
	return cmd
}
