package cmd

import (
	"context"

	"url-policy-sync/core/output"
	"url-policy-sync/feature/policy"

	"github.com/spf13/cobra"
)

var listOutput string

// listCmd prints the current content of a remote list.
var listCmd = &cobra.Command{
	Use:   "list <target>",
	Short: "Print the URLs of a remote list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := policy.ParseTarget(args[0])
		if err != nil {
			return err
		}
		format, err := output.ParseFormat(listOutput)
		if err != nil {
			return err
		}

		ctx := context.Background()
		app, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer app.close()

		if err := app.requireCredentials(); err != nil {
			return err
		}

		listing, err := app.service.List(ctx, target)
		if err != nil {
			return err
		}

		if format == output.FormatTable {
			return output.NewFormatter(format).Write(cmd.OutOrStdout(), listing.URLs)
		}
		return output.NewFormatter(format).Write(cmd.OutOrStdout(), listing)
	},
}

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "json", "Output format (json, yaml, table)")
	RootCmd.AddCommand(listCmd)
}
