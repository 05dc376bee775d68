package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/xkilldash9x/sonarlens/api/schemas"
	"github.com/xkilldash9x/sonarlens/internal/config"
	"github.com/xkilldash9x/sonarlens/internal/observability"
	"github.com/xkilldash9x/sonarlens/internal/results"
)

func newSummaryCmd() *cobra.Command {
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Fetch all issues and print aggregate statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()
			cfg := config.Get()

			client, err := buildClient(cfg, logger)
			if err != nil {
				return err
			}

			result, err := client.FetchAllPages(ctx)
			if err != nil {
				return err
			}

			summary := results.Summarize(result.Issues)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Project %s/%s: %s issues\n\n",
				cfg.Sonar.Organization, cfg.Sonar.Project, humanize.Comma(int64(summary.Total)))

			fmt.Fprintln(out, "By severity:")
			for _, s := range schemas.AllSeverities {
				fmt.Fprintf(out, "  %-10s %s\n", s, humanize.Comma(int64(summary.BySeverity[s])))
			}

			fmt.Fprintln(out, "\nBy type:")
			for _, t := range schemas.AllIssueTypes {
				fmt.Fprintf(out, "  %-15s %s\n", t, humanize.Comma(int64(summary.ByType[t])))
			}

			if len(summary.TopComponents) > 0 {
				fmt.Fprintln(out, "\nTop components:")
				for _, cc := range summary.TopComponents {
					fmt.Fprintf(out, "  %5d  %s\n", cc.Count, cc.FileName)
				}
			}
			return nil
		},
	}

	return summaryCmd
}
