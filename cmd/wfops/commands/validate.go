package commands

import (
	"github.com/spf13/cobra"
	"github.com/wfops/wfops/internal/app"
)

func (c *CLI) newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the repository's workflow files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jobs, _ := cmd.Flags().GetInt("jobs")
			outputMode, _ := cmd.Flags().GetString("output-mode")

			return c.app.Validate(cmd.Context(), app.ValidateOptions{
				Jobs:       jobs,
				OutputMode: outputMode,
			})
		},
	}
	cmd.Flags().IntP("jobs", "j", 0, "Number of parallel jobs (0 derives it from system resources)")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, interactive, or plain")
	return cmd
}
