package commands

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/wfops/wfops/internal/app"
)

func (c *CLI) newCleanupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired cache entries and old workflow runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, _ := cmd.Flags().GetString("repo")
			olderThan, _ := cmd.Flags().GetDuration("older-than")
			runs, _ := cmd.Flags().GetBool("runs")
			cache, _ := cmd.Flags().GetBool("cache")
			flush, _ := cmd.Flags().GetBool("flush")
			jobs, _ := cmd.Flags().GetInt("jobs")
			outputMode, _ := cmd.Flags().GetString("output-mode")

			return c.app.Cleanup(cmd.Context(), app.CleanupOptions{
				Repository: repo,
				OlderThan:  olderThan,
				Runs:       runs,
				Cache:      cache,
				Flush:      flush,
				Jobs:       jobs,
				OutputMode: outputMode,
			})
		},
	}
	cmd.Flags().StringP("repo", "R", "", "Repository in owner/name form (defaults to the project configuration)")
	cmd.Flags().Duration("older-than", 30*24*time.Hour, "Delete runs whose last update is older than this")
	cmd.Flags().Bool("runs", false, "Delete old workflow runs from the repository")
	cmd.Flags().Bool("cache", true, "Sweep expired cache entries")
	cmd.Flags().Bool("flush", false, "Remove every cache entry regardless of age")
	cmd.Flags().IntP("jobs", "j", 0, "Number of parallel jobs (0 derives it from system resources)")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, interactive, or plain")
	return cmd
}
