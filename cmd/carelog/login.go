// ABOUTME: Sign-in commands: login, logout, and whoami.
// ABOUTME: Local profiles by default; --charm signs in with the linked Charm account.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/carelog/internal/identity"
)

var (
	loginName  string
	loginCharm bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	Long: `Sign in to a profile. Every record you add belongs to the signed-in profile.

Local profiles are named; the same name always maps to the same data.
With the charm backend (or --charm) you sign in as your Charm account.

Examples:
  carelog login --name ann
  carelog login --charm`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := identity.Open(cfg.SessionPath(), providerFor(cfg, loginName, loginCharm), logger)
		if err != nil {
			return err
		}
		session = s

		id, err := session.SignIn(cmd.Context())
		if err != nil {
			return err
		}
		color.Green("✓ Signed in as %s", id.DisplayName)
		faint := color.New(color.Faint)
		faint.Printf("  uid %s (%s)\n", id.UID, session.Provider())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	RunE: func(cmd *cobra.Command, args []string) error {
		if session.Current() == nil {
			fmt.Println("Not signed in.")
			return nil
		}
		if err := session.SignOut(cmd.Context()); err != nil {
			return err
		}
		color.Yellow("✗ Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		id := session.Current()
		if id == nil {
			fmt.Println("Not signed in. Run 'carelog login' to start.")
			return nil
		}
		fmt.Println(id.DisplayName)
		faint := color.New(color.Faint)
		faint.Printf("  uid %s (%s)\n", id.UID, session.Provider())
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginName, "name", "", "Local profile name (defaults to $USER)")
	loginCmd.Flags().BoolVar(&loginCharm, "charm", false, "Sign in with your Charm account")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
