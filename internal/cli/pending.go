package cli

import (
	"fmt"

	"realhub-app/internal/adapters/gateway"

	"github.com/spf13/cobra"
)

func newPendingCmd(serverURL *string) *cobra.Command {
	cmd := &cobra.Command{Use: "pending", Short: "Admin review queue commands"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List open pending changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(*serverURL)
			if err != nil {
				return err
			}
			ctx, cancel := app.opCtx()
			defer cancel()
			changes, err := app.Review.List(ctx)
			if err != nil {
				return err
			}
			for _, ch := range changes {
				fmt.Fprintf(cmd.OutOrStdout(), "%-36s  %-8s  %-36s  by %d  %s\n",
					ch.ChangeID, ch.Type, ch.ResourceID, ch.ProposerID,
					ch.SubmittedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "approve <change-id>",
		Short: "Approve a pending change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(*serverURL)
			if err != nil {
				return err
			}
			ctx, cancel := app.opCtx()
			defer cancel()
			return describeChangeErr(app.Review.Approve(ctx, args[0]), args[0])
		},
	})

	var reason string
	reject := &cobra.Command{
		Use:   "reject <change-id>",
		Short: "Reject a pending change (reason required)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(*serverURL)
			if err != nil {
				return err
			}
			ctx, cancel := app.opCtx()
			defer cancel()
			return describeChangeErr(app.Review.Reject(ctx, args[0], reason), args[0])
		},
	}
	reject.Flags().StringVar(&reason, "reason", "", "Rejection reason")
	cmd.AddCommand(reject)

	var changesReason string
	requestChanges := &cobra.Command{
		Use:   "request-changes <change-id>",
		Short: "Send a pending change back to its proposer (reason required)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(*serverURL)
			if err != nil {
				return err
			}
			ctx, cancel := app.opCtx()
			defer cancel()
			return describeChangeErr(app.Review.RequestChanges(ctx, args[0], changesReason), args[0])
		},
	}
	requestChanges.Flags().StringVar(&changesReason, "reason", "", "What the proposer should change")
	cmd.AddCommand(requestChanges)

	return cmd
}

// describeChangeErr sharpens the error for a change id the backend no
// longer knows (already resolved by another admin, or mistyped)
func describeChangeErr(err error, changeID string) error {
	if gateway.IsNotFound(err) {
		return fmt.Errorf("pending change %s not found, refetch the list", changeID)
	}
	return err
}
