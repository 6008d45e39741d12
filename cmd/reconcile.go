package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"url-policy-sync/core/output"
	"url-policy-sync/core/reconcile"
	"url-policy-sync/feature/policy"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// errFailedResults makes the process exit non-zero after results were printed.
var errFailedResults = errors.New("one or more reconciliations failed")

var (
	// Flags for the reconcile command
	reconcileLists  []string
	reconcileFile   string
	reconcileDryRun bool
	reconcileOutput string
)

// reconcileCmd adds the URLs of a file to one or more remote lists.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile [target...]",
	Short: "Add URLs from a file to remote lists",
	Long: `Add the URLs of a file to the denylist, the allowlist or URL categories.

Targets are deny, allow or category:<ID>, given as arguments or with --list
(also accepted as --mode).
Blank lines and lines starting with '#' are ignored, duplicates are compared
case-insensitively, and URLs already present remotely are skipped.

Results are printed to stdout; the exit code is 1 when any result failed.

Examples:
  # Preview the change
  reconcile deny --file urls.txt --dry-run

  # Update the allowlist and a category from stdin
  cat urls.txt | reconcile allow category:CUSTOM_01 --file -

  # Read the list from object storage
  reconcile deny --file s3://feeds/deny.txt`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringSliceVar(&reconcileLists, "list", nil, "Target list (deny, allow, category:<ID>); repeatable")
	reconcileCmd.Flags().StringVarP(&reconcileFile, "file", "f", "", "URL file, '-' for stdin or s3://<key>")
	reconcileCmd.Flags().BoolVar(&reconcileDryRun, "dry-run", false, "Report what would be added without writing")
	reconcileCmd.Flags().StringVarP(&reconcileOutput, "output", "o", "json", "Output format (json, yaml, table)")
	_ = reconcileCmd.MarkFlagRequired("file")

	// --mode and --bulk-file are the older names of --list and --file
	reconcileCmd.Flags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "mode":
			name = "list"
		case "bulk-file":
			name = "file"
		}
		return pflag.NormalizedName(name)
	})

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	names := append(append([]string{}, args...), reconcileLists...)
	if len(names) == 0 {
		return &policy.ValidationError{Field: "target", Reason: "no target given (deny, allow or category:<ID>)"}
	}
	targets, err := policy.ParseTargets(names)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(reconcileOutput)
	if err != nil {
		return err
	}

	app, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer app.close()

	if err := app.requireCredentials(); err != nil {
		return err
	}

	lines, err := app.sources.Read(ctx, reconcileFile)
	if err != nil {
		return err
	}
	app.log.Info("Loaded URL file", zap.String("file", reconcileFile), zap.Int("lines", len(lines)), zap.Bool("dry_run", reconcileDryRun))

	results := app.service.ReconcileMany(ctx, targets, lines, reconcileDryRun)

	if err := writeResults(cmd, format, results); err != nil {
		return err
	}

	for _, r := range results {
		if r.Failed() {
			return fmt.Errorf("%w: %s: %s", errFailedResults, r.Target, r.Message)
		}
	}
	return nil
}

// writeResults prints a single result as an object and several as an array.
func writeResults(cmd *cobra.Command, format output.Format, results []reconcile.Result) error {
	formatter := output.NewFormatter(format, "target", "status", "existing_count", "added", "final_count", "message")
	if len(results) == 1 {
		return formatter.Write(cmd.OutOrStdout(), results[0])
	}
	return formatter.Write(cmd.OutOrStdout(), results)
}
