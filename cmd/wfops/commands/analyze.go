package commands

import (
	"github.com/spf13/cobra"
	"github.com/wfops/wfops/internal/app"
)

func (c *CLI) newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize recent workflow runs of a repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, _ := cmd.Flags().GetString("repo")
			limit, _ := cmd.Flags().GetInt("limit")
			asJSON, _ := cmd.Flags().GetBool("json")

			return c.app.Analyze(cmd.Context(), cmd.OutOrStdout(), app.AnalyzeOptions{
				Repository: repo,
				Limit:      limit,
				JSON:       asJSON,
			})
		},
	}
	cmd.Flags().StringP("repo", "R", "", "Repository in owner/name form (defaults to the project configuration)")
	cmd.Flags().IntP("limit", "L", app.DefaultAnalyzeLimit, "Number of recent runs to analyze")
	cmd.Flags().Bool("json", false, "Emit the statistics as JSON")
	return cmd
}
