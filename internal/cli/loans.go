package cli

import (
	"fmt"
	"strings"

	"realhub-app/internal/core/domain"
	"realhub-app/internal/core/services"

	"github.com/spf13/cobra"
)

// triageView is the named list view the CLI refreshes between invocations
const triageView = "cli-triage"

func newLoansCmd(serverURL *string) *cobra.Command {
	cmd := &cobra.Command{Use: "loans", Short: "Admin loan triage commands"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the loan triage queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(*serverURL)
			if err != nil {
				return err
			}
			ctx, cancel := app.opCtx()
			defer cancel()
			loans, err := app.Loans.List(ctx, triageView)
			if err != nil {
				return err
			}
			for _, l := range loans {
				assignee := "-"
				if l.AssigneeID != nil {
					assignee = fmt.Sprintf("%d", *l.AssigneeID)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-36s  %-10s  agent=%-4s  prio=%d  sla=%-8s  comments=%d\n",
					l.ID, l.Status, assignee, l.Priority, l.SLAState, len(l.Comments))
			}
			return nil
		},
	})

	var assigneeID uint
	var autoAssign bool
	reassign := &cobra.Command{
		Use:   "reassign <id>",
		Short: "Reassign a loan request (--assignee or --auto)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(*serverURL)
			if err != nil {
				return err
			}
			ctx, cancel := app.opCtx()
			defer cancel()
			return app.Loans.Reassign(ctx, args[0], reassignOpts(cmd, assigneeID, autoAssign))
		},
	}
	reassign.Flags().UintVar(&assigneeID, "assignee", 0, "Explicit agent id")
	reassign.Flags().BoolVar(&autoAssign, "auto", false, "Let the backend pick the least loaded agent")
	cmd.AddCommand(reassign)

	var escalateReason string
	escalate := &cobra.Command{
		Use:   "escalate <id>",
		Short: "Escalate a loan request (reason required)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(*serverURL)
			if err != nil {
				return err
			}
			ctx, cancel := app.opCtx()
			defer cancel()
			return app.Loans.Escalate(ctx, args[0], escalateReason)
		},
	}
	escalate.Flags().StringVar(&escalateReason, "reason", "", "Escalation reason")
	cmd.AddCommand(escalate)

	var commentText string
	var commentPublic bool
	comment := &cobra.Command{
		Use:   "comment <id>",
		Short: "Append a comment to a loan request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(*serverURL)
			if err != nil {
				return err
			}
			ctx, cancel := app.opCtx()
			defer cancel()
			return app.Loans.AddComment(ctx, args[0], commentText, commentPublic)
		},
	}
	comment.Flags().StringVar(&commentText, "text", "", "Comment text")
	comment.Flags().BoolVar(&commentPublic, "public", false, "Visible to the member")
	cmd.AddCommand(comment)

	var bulkIDs string
	bulkReassign := &cobra.Command{
		Use:   "bulk-reassign",
		Short: "Reassign several loan requests, one outcome per id",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(*serverURL)
			if err != nil {
				return err
			}
			ids := splitIDs(bulkIDs)
			ctx, cancel := app.opCtx()
			defer cancel()
			outcomes, err := app.Loans.BulkReassign(ctx, ids, reassignOpts(cmd, assigneeID, autoAssign))
			if err != nil {
				return err
			}
			printOutcomes(cmd, outcomes)
			return nil
		},
	}
	bulkReassign.Flags().StringVar(&bulkIDs, "ids", "", "Comma-separated loan request ids")
	bulkReassign.Flags().UintVar(&assigneeID, "assignee", 0, "Explicit agent id")
	bulkReassign.Flags().BoolVar(&autoAssign, "auto", false, "Let the backend pick the least loaded agent")
	cmd.AddCommand(bulkReassign)

	var bulkEscalateIDs, bulkEscalateReason string
	bulkEscalate := &cobra.Command{
		Use:   "bulk-escalate",
		Short: "Escalate several loan requests with one shared reason",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(*serverURL)
			if err != nil {
				return err
			}
			ids := splitIDs(bulkEscalateIDs)
			ctx, cancel := app.opCtx()
			defer cancel()
			outcomes, err := app.Loans.BulkEscalate(ctx, ids, bulkEscalateReason)
			if err != nil {
				return err
			}
			printOutcomes(cmd, outcomes)
			return nil
		},
	}
	bulkEscalate.Flags().StringVar(&bulkEscalateIDs, "ids", "", "Comma-separated loan request ids")
	bulkEscalate.Flags().StringVar(&bulkEscalateReason, "reason", "", "Escalation reason")
	cmd.AddCommand(bulkEscalate)

	return cmd
}

// reassignOpts maps the flag pair onto the controller's option struct. The
// controller rejects ambiguous combinations; the CLI just passes them on.
func reassignOpts(cmd *cobra.Command, assigneeID uint, autoAssign bool) services.ReassignOptions {
	opts := services.ReassignOptions{AutoAssign: autoAssign}
	if cmd.Flags().Changed("assignee") {
		opts.AssigneeID = &assigneeID
	}
	return opts
}

func splitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

func printOutcomes(cmd *cobra.Command, outcomes []domain.BulkOutcome) {
	for _, o := range outcomes {
		if o.OK {
			fmt.Fprintf(cmd.OutOrStdout(), "%-36s  ok\n", o.ID)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-36s  failed: %s\n", o.ID, o.Error)
	}
}
