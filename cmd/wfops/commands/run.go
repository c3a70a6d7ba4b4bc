package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/wfops/wfops/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <function> [items...]",
		Short: "Run a job function over items in parallel",
		Long: "Run a registered job function over the given items with bounded fan-out.\n\n" +
			"Available functions: " + strings.Join(c.app.Functions(), ", "),
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			jobs, _ := cmd.Flags().GetInt("jobs")
			outputMode, _ := cmd.Flags().GetString("output-mode")
			withMetrics, _ := cmd.Flags().GetBool("metrics")
			exportMetrics, _ := cmd.Flags().GetString("export-metrics")

			return c.app.Run(cmd.Context(), args[0], args[1:], app.RunOptions{
				Jobs:          jobs,
				OutputMode:    outputMode,
				Metrics:       withMetrics,
				ExportMetrics: exportMetrics,
			})
		},
	}
	cmd.Flags().IntP("jobs", "j", 0, "Number of parallel jobs (0 derives it from system resources)")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, interactive, or plain")
	cmd.Flags().Bool("metrics", false, "Print the metrics summary after the run")
	cmd.Flags().String("export-metrics", "", "Write the metrics counters to a JSON file")
	return cmd
}
