package cli

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
}

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in and store the access token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := args[0]
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := newClient().SignIn(ctx, email, password)
		if err != nil {
			return err
		}

		if err := saveConfigValue("token", result.AccessToken); err != nil {
			return fmt.Errorf("saving token: %w", err)
		}

		fmt.Printf("Signed in as %s (%s plan)\n", result.User.Email, result.User.Plan)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register [email]",
	Short: "Start a signup and print the payment page URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := args[0]
		plan, _ := cmd.Flags().GetString("plan")

		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := newClient().SignUp(ctx, email, password, plan)
		if err != nil {
			return err
		}

		fmt.Println("Signup started. Complete payment in your browser:")
		fmt.Println()
		fmt.Printf("  %s\n", result.PaymentURL)
		fmt.Println()
		fmt.Println("Your account is created when you return from the payment page.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := newClient().SignOut(ctx); err != nil {
			// Discard the local token even when the server call fails
			fmt.Fprintf(os.Stderr, "Warning: server sign-out failed: %v\n", err)
		}

		if err := saveConfigValue("token", ""); err != nil {
			return fmt.Errorf("clearing token: %w", err)
		}

		fmt.Println("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		u, err := newClient().Me(ctx)
		if err != nil {
			return err
		}

		return printOutput(u, func() {
			w := newTabWriter()
			fmt.Fprintf(w, "EMAIL\tPLAN\tUSAGE\tLIMIT\n")
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", u.Email, u.Plan, u.UsageThisMonth, formatLimit(u.UsageLimit))
			w.Flush()
		})
	},
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(password), nil
}

// saveConfigValue persists one key into the CLI config file
func saveConfigValue(key, value string) error {
	dir, err := configDir()
	if err != nil {
		return err
	}

	viper.Set(key, value)
	return viper.WriteConfigAs(dir + "/config.yaml")
}

func init() {
	registerCmd.Flags().String("plan", "basic", "plan to sign up for (basic, plus, pro)")

	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(authCmd)
}
