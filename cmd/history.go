package cmd

import (
	"context"
	"errors"

	"url-policy-sync/core/output"
	"url-policy-sync/feature/audit"
	"url-policy-sync/feature/policy"

	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historyTarget string
	historyOutput string
)

// historyCmd prints stored reconciliation runs.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent reconciliation runs",
	Long: `Show reconciliation runs stored in the database, most recent first.
Requires SYNC_HISTORY=true and a reachable database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(historyOutput)
		if err != nil {
			return err
		}

		ctx := context.Background()
		app, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer app.close()

		if app.history == nil {
			return errors.New("run history is not available (enable SYNC_HISTORY and check the database settings)")
		}

		target := historyTarget
		if target != "" {
			if target, err = policy.CanonicalTarget(target); err != nil {
				return err
			}
		}

		runs, err := app.history.List(ctx, target, historyLimit)
		if err != nil {
			return err
		}

		views := make([]audit.RunView, 0, len(runs))
		for _, run := range runs {
			views = append(views, audit.RunView{Run: run, AddedURLs: run.AddedURLs()})
		}
		formatter := output.NewFormatter(format, "created_at", "id", "target", "status", "added_count", "final_count", "message")
		return formatter.Write(cmd.OutOrStdout(), views)
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", audit.DefaultListLimit, "Maximum number of runs")
	historyCmd.Flags().StringVar(&historyTarget, "target", "", "Only runs of this target (deny, allow or category:<ID>)")
	historyCmd.Flags().StringVarP(&historyOutput, "output", "o", "table", "Output format (json, yaml, table)")
	RootCmd.AddCommand(historyCmd)
}
