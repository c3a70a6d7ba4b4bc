package commands

import (
	"github.com/spf13/cobra"
	"github.com/wfops/wfops/internal/app"
)

func (c *CLI) newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the collected metrics counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			from, _ := cmd.Flags().GetString("from")
			textfile, _ := cmd.Flags().GetString("textfile")

			return c.app.Report(cmd.OutOrStdout(), app.ReportOptions{
				JSON:     asJSON,
				FromFile: from,
				Textfile: textfile,
			})
		},
	}
	cmd.Flags().Bool("json", false, "Emit the counters as JSON")
	cmd.Flags().String("from", "", "Render a previously exported metrics file instead of the live counters")
	cmd.Flags().String("textfile", "", "Additionally write the counters as a Prometheus textfile")
	return cmd
}
