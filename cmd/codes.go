package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/payslip-converter/internal/summary"
)

func newCodesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "codes",
		Short: "List the article codes that get a dedicated summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			codes := summary.Codes()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(codes)
			}
			for _, c := range codes {
				fmt.Fprintf(out, "%-6s %-12s %s\n", c.Art, c.Kind, c.Description)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the dictionary as JSON")
	return cmd
}
