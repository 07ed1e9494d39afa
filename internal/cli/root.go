package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the realhub command tree
func NewRootCmd(version, buildDate string) *cobra.Command {
	var serverURL string
	root := &cobra.Command{
		Use:   "realhub",
		Short: "RealHub operator CLI",
		Long:  "Command line front end for the RealHub real-estate platform: login, listings, reviews and loan triage.",
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "", "Backend base URL (overrides config)")

	root.AddCommand(newVersionCmd(version, buildDate))
	root.AddCommand(newAuthCmd(&serverURL))
	root.AddCommand(newProfileCmd(&serverURL))
	root.AddCommand(newDraftsCmd(&serverURL))
	root.AddCommand(newPendingCmd(&serverURL))
	root.AddCommand(newLoansCmd(&serverURL))
	return root
}

func newVersionCmd(version, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "realhub %s (built %s)\n", version, buildDate)
		},
	}
}
