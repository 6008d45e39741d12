package cmd

import (
	"context"

	"url-policy-sync/core/output"

	"github.com/spf13/cobra"
)

// activateCmd submits pending policy changes.
var activateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Activate pending policy changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		app, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer app.close()

		if err := app.requireCredentials(); err != nil {
			return err
		}

		activation, err := app.service.Activate(ctx)
		if err != nil {
			return err
		}
		return output.NewFormatter(output.FormatJSON).Write(cmd.OutOrStdout(), activation)
	},
}

func init() {
	RootCmd.AddCommand(activateCmd)
}
