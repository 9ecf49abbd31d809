// ABOUTME: CLI commands for Charm-based sync.
// ABOUTME: Supports link, unlink, status, now, repair, reset, and wipe operations.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/carelog/internal/config"
	"github.com/harperreed/carelog/internal/docstore"
	"github.com/harperreed/carelog/internal/identity"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync data across devices",
	Long: `Sync data across devices using Charm Cloud.

Your data is E2E encrypted with your SSH key before upload.
The server never sees your unencrypted health data.

GETTING STARTED:

  1. Switch to the charm backend in ~/.config/carelog/config.json:
     { "backend": "charm" }

  2. Link your device (creates/uses SSH key automatically):
     carelog sync link

  3. Sign in with your Charm account:
     carelog login --charm

COMMANDS:

  link        Link this device to your Charm account
  unlink      Disconnect this device from Charm
  status      Show sync status and account info
  now         Pull and push changes immediately
  repair      Repair database corruption (checkpoints WAL, removes SHM, vacuums)
  reset       Reset local data and restore from cloud (destructive)
  wipe        Delete cloud and local data (destructive)

Data syncs automatically after each write, and 'carelog watch' pulls
changes from other devices every poll_seconds.`,
}

var errNotCharm = errors.New("sync requires the charm backend (set \"backend\": \"charm\" in config)")

// openCharm opens the configured store and returns it as a Charm store.
func openCharm() (*docstore.CharmStore, error) {
	if cfg.GetBackend() != config.BackendCharm {
		return nil, errNotCharm
	}
	if err := openApp(nil, nil); err != nil {
		return nil, err
	}
	cs, ok := store.(*docstore.CharmStore)
	if !ok {
		return nil, errNotCharm
	}
	return cs, nil
}

func runCharm(args ...string) error {
	charmCmd := exec.Command("charm", args...)
	charmCmd.Stdin = os.Stdin
	charmCmd.Stdout = os.Stdout
	charmCmd.Stderr = os.Stderr
	return charmCmd.Run()
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	Long: `Link this device to your Charm account.

If you don't have a Charm account, one will be created using your SSH key.
If you already have an account, you'll be prompted to link via charm.sh.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm("link"); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}
		color.Green("\n✓ Device linked to Charm")

		if cfg.GetBackend() != config.BackendCharm {
			color.Yellow("⚠ The %s backend is active; set \"backend\": \"charm\" to sync.", cfg.GetBackend())
			return nil
		}
		cs, err := openCharm()
		if err != nil {
			return err
		}
		if err := cs.Sync(); err != nil {
			color.Yellow("⚠ Initial sync failed: %v", err)
		} else {
			color.Green("✓ Initial sync complete")
		}
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect from Charm",
	Long: `Disconnect this device from Charm.

This does not delete your local data.
You can link again later with 'carelog sync link'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm("unlink"); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}
		color.Green("✓ Device unlinked from Charm")
		fmt.Println("Your local data is preserved.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Backend:", cfg.GetBackend())
		if cfg.GetBackend() != config.BackendCharm {
			fmt.Println("\nData stays on this device. Set \"backend\": \"charm\" to sync.")
			return nil
		}

		account, err := identity.CharmProvider{}.SignIn(cmd.Context())
		if err != nil {
			color.Yellow("Not linked to Charm")
			fmt.Println("\nRun 'carelog sync link' to connect to Charm.")
			return nil
		}
		fmt.Println("Charm ID:", account.UID)
		host := os.Getenv("CHARM_HOST")
		if host == "" {
			host = cfg.CharmHost
		}
		if host == "" {
			host = docstore.DefaultCharmHost
		}
		fmt.Println("Server:", host)
		fmt.Println()

		cs, err := openCharm()
		if err != nil {
			return err
		}
		if cs.IsReadOnly() {
			color.Yellow("⚠ Database is locked by another process (MCP server or watch?); writes will fail")
		} else {
			color.Green("✓ Connected to Charm")
		}

		if session.Current() == nil {
			return nil
		}
		v, err := loadView(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("  Vitals: %d\n", len(v.Vitals))
		fmt.Printf("  Medications: %d\n", len(v.Medications))
		fmt.Printf("  Journal: %d\n", len(v.Journal))
		return nil
	},
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Sync immediately",
	RunE: func(cmd *cobra.Command, args []string) error {
		cs, err := openCharm()
		if err != nil {
			return err
		}
		if cs.IsReadOnly() {
			return errors.New("database is locked by another process; stop it and retry")
		}
		if err := cs.Sync(); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		color.Green("✓ Sync complete")
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all cloud and local data",
	Long: `Delete all cloud backups and local data.

This is a DESTRUCTIVE operation. ALL data will be permanently deleted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("This will PERMANENTLY DELETE all cloud backups and local carelog data.")
		fmt.Print("Type 'wipe' to confirm: ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "wipe" {
			fmt.Println("Canceled.")
			return nil
		}

		result, err := kv.Wipe(docstore.DefaultCharmDB)
		if err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}

		color.Green("✓ Data wiped successfully")
		fmt.Printf("  Cloud backups deleted: %d\n", result.CloudBackupsDeleted)
		fmt.Printf("  Local files deleted: %d\n", result.LocalFilesDeleted)
		return nil
	},
}

var syncRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair database corruption",
	Long: `Repair database corruption by checkpointing WAL, removing SHM files, checking integrity, and vacuuming.

Use this when you encounter database lock errors or corruption.
Run with --force to attempt recovery even if integrity checks fail.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		fmt.Println("Repairing carelog database...")
		result, err := kv.Repair(docstore.DefaultCharmDB, force)

		if result.WalCheckpointed {
			color.Green("  ✓ WAL checkpointed")
		}
		if result.ShmRemoved {
			color.Green("  ✓ SHM file removed")
		}
		if result.IntegrityOK {
			color.Green("  ✓ Integrity check passed")
		} else {
			color.Red("  ✗ Integrity check failed")
		}
		if result.Vacuumed {
			color.Green("  ✓ Database vacuumed")
		}

		if err != nil {
			if !force {
				color.Yellow("\nRun with --force to attempt recovery.")
			}
			return fmt.Errorf("repair failed: %w", err)
		}

		color.Green("\n✓ Repair complete")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local data and restore from cloud",
	Long: `Delete all local data and restore from Charm Cloud.

This is a destructive operation. All local data will be lost and restored from cloud.
Use this to fix sync conflicts or reset a device to cloud state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("This will DELETE all local carelog data and restore from cloud.")
		fmt.Print("Continue? [y/N]: ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "y" && confirm != "Y" {
			fmt.Println("Canceled.")
			return nil
		}

		cs, err := openCharm()
		if err != nil {
			return err
		}
		if err := cs.Reset(); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}

		color.Green("✓ Local data reset and restored from cloud")
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncNowCmd)
	syncCmd.AddCommand(syncRepairCmd)
	syncCmd.AddCommand(syncResetCmd)
	syncCmd.AddCommand(syncWipeCmd)

	syncRepairCmd.Flags().Bool("force", false, "Attempt recovery even if integrity checks fail")

	rootCmd.AddCommand(syncCmd)
}
