package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"realhub-app/internal/core/services"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAuthCmd(serverURL *string) *cobra.Command {
	cmd := &cobra.Command{Use: "auth", Short: "Authentication commands"}
	cmd.AddCommand(&cobra.Command{
		Use:   "login",
		Short: "Login with phone + OTP",
		RunE:  func(cmd *cobra.Command, args []string) error { return otpLogin(cmd, *serverURL) },
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "staff-login",
		Short: "Login with username/password (employee or admin)",
		RunE:  func(cmd *cobra.Command, args []string) error { return staffLogin(cmd, *serverURL) },
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE:  func(cmd *cobra.Command, args []string) error { return logout(cmd, *serverURL) },
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		RunE:  func(cmd *cobra.Command, args []string) error { return authStatus(cmd, *serverURL) },
	})
	return cmd
}

func otpLogin(cmd *cobra.Command, serverURL string) error {
	app, err := NewApp(serverURL)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Fprint(cmd.OutOrStdout(), "Phone: ")
	phone, _ := reader.ReadString('\n')
	phone = strings.TrimSpace(phone)

	ctx, cancel := app.opCtx()
	defer cancel()
	if err := app.Auth.RequestOTP(ctx, phone); err != nil {
		return err
	}

	// Codes shorter than the OTP length are ignored without a backend call,
	// so the user can keep typing until a full code goes through.
	for app.Auth.Phase() != services.PhaseAuthenticated {
		fmt.Fprintf(cmd.OutOrStdout(), "Code (%d digits, empty to abort): ", services.OTPLength)
		code, _ := reader.ReadString('\n')
		code = strings.TrimSpace(code)
		if code == "" {
			return fmt.Errorf("login aborted")
		}

		vctx, vcancel := app.opCtx()
		err := app.Auth.InputCode(vctx, code)
		vcancel()
		if err != nil {
			if app.Auth.Phase() == services.PhaseAccountDeleted {
				return err
			}
			continue // wrong code, flow allows another attempt
		}
	}

	snap := app.Session.Snapshot()
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s [%s]\n", snap.User.Phone, snap.Status)
	return nil
}

func staffLogin(cmd *cobra.Command, serverURL string) error {
	app, err := NewApp(serverURL)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Fprint(cmd.OutOrStdout(), "Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	password, err := promptPassword(cmd, "Password: ")
	if err != nil {
		return err
	}

	ctx, cancel := app.opCtx()
	defer cancel()
	result, err := app.Gateway.StaffLogin(ctx, username, string(password))
	if err != nil {
		return err
	}
	if err := app.Session.SetAuth(result.User, result.Token); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s [%s]\n", result.User.FullName, result.User.Role)
	return nil
}

func logout(cmd *cobra.Command, serverURL string) error {
	app, err := NewApp(serverURL)
	if err != nil {
		return err
	}
	app.Session.ClearAuth()
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

func authStatus(cmd *cobra.Command, serverURL string) error {
	app, err := NewApp(serverURL)
	if err != nil {
		return err
	}

	snap := app.Session.Snapshot()
	if !snap.Authenticated {
		fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "User:   %s (id %d)\n", snap.User.FullName, snap.User.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "Phone:  %s\n", snap.User.Phone)
	fmt.Fprintf(cmd.OutOrStdout(), "Role:   %s\n", snap.User.Role)
	fmt.Fprintf(cmd.OutOrStdout(), "Status: %s\n", snap.Status)
	return nil
}

func promptPassword(cmd *cobra.Command, prompt string) ([]byte, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.OutOrStdout())
	return pass, err
}
