package cli

import (
	"fmt"

	"realhub-app/internal/adapters/gateway"

	"github.com/spf13/cobra"
)

func newProfileCmd(serverURL *string) *cobra.Command {
	cmd := &cobra.Command{Use: "profile", Short: "Account profile commands"}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Fetch and show the current profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(*serverURL)
			if err != nil {
				return err
			}
			ctx, cancel := app.opCtx()
			defer cancel()
			user, err := app.Users.Refresh(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d) role=%s status=%s\n",
				user.FullName, user.ID, user.Role, user.Status())
			return nil
		},
	})

	update := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
	}
	var fullName, email, address string
	update.Flags().StringVar(&fullName, "name", "", "Full name")
	update.Flags().StringVar(&email, "email", "", "Email address")
	update.Flags().StringVar(&address, "address", "", "Postal address")
	update.RunE = func(cmd *cobra.Command, args []string) error {
		app, err := NewApp(*serverURL)
		if err != nil {
			return err
		}
		ctx, cancel := app.opCtx()
		defer cancel()
		user, err := app.Users.UpdateProfile(ctx, gateway.ProfileUpdate{
			FullName: fullName,
			Email:    email,
			Address:  address,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Profile updated, status now %s\n", user.Status())
		return nil
	}
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "categories",
		Short: "List property categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(*serverURL)
			if err != nil {
				return err
			}
			ctx, cancel := app.opCtx()
			defer cancel()
			categories, err := app.Users.Categories(ctx)
			if err != nil {
				return err
			}
			for _, c := range categories {
				fmt.Fprintf(cmd.OutOrStdout(), "%4d  %s\n", c.ID, c.Name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "agents",
		Short: "List approved agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(*serverURL)
			if err != nil {
				return err
			}
			ctx, cancel := app.opCtx()
			defer cancel()
			agents, err := app.Users.Agents(ctx)
			if err != nil {
				return err
			}
			for _, a := range agents {
				fmt.Fprintf(cmd.OutOrStdout(), "%4d  %-24s %s\n", a.ID, a.FullName, a.Phone)
			}
			return nil
		},
	})

	return cmd
}
