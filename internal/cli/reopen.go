package cli

import (
	"context"
	"fmt"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/businessday"
	"github.com/spf13/cobra"
)

func newReopenCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen",
		Short: "Reopen today's storewide report",
		Long:  "Resets today's storewide report to an unlocked state with an Unknown closer. Dashboards are not affected.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			app, err := root.open(ctx, root.log())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Storewide.Reopen(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reopened %s\n", businessday.Key(app.Storewide.Clock.Today()))
			return nil
		},
	}
}
