package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"realhub-app/internal/core/domain"

	"github.com/spf13/cobra"
)

func newDraftsCmd(serverURL *string) *cobra.Command {
	cmd := &cobra.Command{Use: "drafts", Short: "Listing and banner draft commands"}

	cmd.AddCommand(&cobra.Command{
		Use:   "properties",
		Short: "List properties visible to you",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(*serverURL)
			if err != nil {
				return err
			}
			ctx, cancel := app.opCtx()
			defer cancel()
			rows, err := app.Gateway.ListProperties(ctx, app.Session.Snapshot().User.Role)
			if err != nil {
				return err
			}
			for _, p := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%-36s  %-14s  %-30s %.0f\n",
					p.ID, p.Status, p.Payload.Title, p.Payload.Price)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "banners",
		Short: "List banners visible to you",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(*serverURL)
			if err != nil {
				return err
			}
			ctx, cancel := app.opCtx()
			defer cancel()
			rows, err := app.Gateway.ListBanners(ctx, app.Session.Snapshot().User.Role)
			if err != nil {
				return err
			}
			for _, b := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%-36s  %-14s  pos=%d  %s\n",
					b.ID, b.Status, b.Payload.Position, b.Payload.Title)
			}
			return nil
		},
	})

	var rtypeFlag, resourceFlag, fileFlag string
	addTargetFlags := func(c *cobra.Command, needsFile bool) {
		c.Flags().StringVar(&rtypeFlag, "type", "property", "Resource type: property or banner")
		c.Flags().StringVar(&resourceFlag, "resource", "", "Resource id")
		if needsFile {
			c.Flags().StringVar(&fileFlag, "file", "", "Path to the JSON payload")
		}
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Open a draft (omit --resource to start a new listing)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, rtype, err := draftApp(*serverURL, rtypeFlag)
			if err != nil {
				return err
			}
			payload, err := loadPayload(rtype, fileFlag)
			if err != nil {
				return err
			}
			ctx, cancel := app.opCtx()
			defer cancel()
			if resourceFlag != "" {
				if err := trackAll(ctx, app, rtype); err != nil {
					return err
				}
			}
			id, err := app.Drafts.CreateDraft(ctx, rtype, resourceFlag, payload)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Draft open on %s %s\n", rtype, id)
			return nil
		},
	}
	addTargetFlags(create, true)
	cmd.AddCommand(create)

	update := &cobra.Command{
		Use:   "update",
		Short: "Replace an open draft's payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, rtype, err := draftApp(*serverURL, rtypeFlag)
			if err != nil {
				return err
			}
			payload, err := loadPayload(rtype, fileFlag)
			if err != nil {
				return err
			}
			ctx, cancel := app.opCtx()
			defer cancel()
			if err := trackAll(ctx, app, rtype); err != nil {
				return err
			}
			return app.Drafts.UpdateDraft(ctx, rtype, resourceFlag, payload)
		},
	}
	addTargetFlags(update, true)
	cmd.AddCommand(update)

	submit := &cobra.Command{
		Use:   "submit",
		Short: "Send a draft to review",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, rtype, err := draftApp(*serverURL, rtypeFlag)
			if err != nil {
				return err
			}
			ctx, cancel := app.opCtx()
			defer cancel()
			if err := trackAll(ctx, app, rtype); err != nil {
				return err
			}
			return app.Drafts.Submit(ctx, rtype, resourceFlag)
		},
	}
	addTargetFlags(submit, false)
	cmd.AddCommand(submit)

	discard := &cobra.Command{
		Use:   "discard",
		Short: "Drop an unsubmitted draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, rtype, err := draftApp(*serverURL, rtypeFlag)
			if err != nil {
				return err
			}
			ctx, cancel := app.opCtx()
			defer cancel()
			if err := trackAll(ctx, app, rtype); err != nil {
				return err
			}
			return app.Drafts.Discard(ctx, rtype, resourceFlag)
		},
	}
	addTargetFlags(discard, false)
	cmd.AddCommand(discard)

	show := &cobra.Command{
		Use:   "show",
		Short: "Show a resource's edit state",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, rtype, err := draftApp(*serverURL, rtypeFlag)
			if err != nil {
				return err
			}
			ctx, cancel := app.opCtx()
			defer cancel()
			if err := trackAll(ctx, app, rtype); err != nil {
				return err
			}
			state, err := app.Drafts.State(rtype, resourceFlag)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Status: %s\n", state.Status)
			switch state.Edit.Phase {
			case domain.EditDraft:
				fmt.Fprintf(cmd.OutOrStdout(), "Draft:  %s (open)\n", state.Edit.DraftID)
			case domain.EditPendingReview:
				fmt.Fprintf(cmd.OutOrStdout(), "Draft:  %s (in review, change %s)\n", state.Edit.DraftID, state.Edit.ChangeID)
			default:
				fmt.Fprintln(cmd.OutOrStdout(), "Draft:  none")
			}
			if state.Status == domain.StatusNeedsRevision && state.Reason != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Reviewer comment: %s\n", state.Reason)
			}
			return nil
		},
	}
	addTargetFlags(show, false)
	cmd.AddCommand(show)

	return cmd
}

func draftApp(serverURL, rtypeFlag string) (*App, domain.ResourceType, error) {
	rtype := domain.ResourceProperty
	switch rtypeFlag {
	case "property":
	case "banner":
		rtype = domain.ResourceBanner
	default:
		return nil, "", fmt.Errorf("unknown resource type %q", rtypeFlag)
	}
	app, err := NewApp(serverURL)
	return app, rtype, err
}

// loadPayload reads a payload file into the typed struct for the family
func loadPayload(rtype domain.ResourceType, path string) (interface{}, error) {
	if path == "" {
		return nil, fmt.Errorf("--file is required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if rtype == domain.ResourceBanner {
		var p domain.BannerPayload
		if err := json.Unmarshal(b, &p); err != nil {
			return nil, err
		}
		return p, nil
	}
	var p domain.PropertyPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// trackAll seeds the draft controller from a fresh list fetch; the backend
// is the source of truth for which drafts are open.
func trackAll(ctx context.Context, app *App, rtype domain.ResourceType) error {
	role := app.Session.Snapshot().User.Role
	if rtype == domain.ResourceBanner {
		rows, err := app.Gateway.ListBanners(ctx, role)
		if err != nil {
			return err
		}
		for _, b := range rows {
			app.Drafts.TrackBanner(b)
		}
		return nil
	}

	rows, err := app.Gateway.ListProperties(ctx, role)
	if err != nil {
		return err
	}
	for _, p := range rows {
		app.Drafts.TrackProperty(p)
	}
	return nil
}
