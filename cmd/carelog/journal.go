// ABOUTME: Journal commands: add, list, and rm.
// ABOUTME: Entries keep their line breaks and list newest first.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/carelog/internal/models"
)

var journalLimit int

var journalCmd = &cobra.Command{
	Use:     "journal",
	Aliases: []string{"j"},
	Short:   "Keep a daily journal",
}

var journalAddCmd = &cobra.Command{
	Use:   "add <text...>",
	Short: "Write a journal entry",
	Long: `Write a journal entry stamped with the current time.

Examples:
  carelog journal add "Slept well, walked 5km"
  carelog journal add $'Morning: tired\nEvening: better'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if strings.TrimSpace(text) == "" {
			return errors.New("journal entry is empty")
		}
		if err := requireSignedIn(); err != nil {
			return err
		}
		o, err := await(cmd.Context(), writer.SubmitJournal(text))
		if err != nil {
			return err
		}
		color.Green("✓ Added journal entry")
		faint := color.New(color.Faint)
		faint.Printf("  (%s)\n", shortID(o.ID))
		return nil
	},
}

var journalListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List journal entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadView(cmd.Context())
		if err != nil {
			return err
		}
		if len(v.Journal) == 0 {
			fmt.Println("No journal entries yet.")
			return nil
		}

		faint := color.New(color.Faint)
		bold := color.New(color.Bold)
		for i, row := range v.Journal {
			if journalLimit > 0 && i >= journalLimit {
				break
			}
			faint.Printf("%s  ", shortID(row.ID))
			bold.Println(row.Date)
			for _, line := range row.Lines {
				fmt.Printf("  %s\n", line)
			}
			fmt.Println()
		}
		return nil
	},
}

var journalRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a journal entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return deleteRecord(cmd, models.KindJournal, args[0])
	},
}

func init() {
	journalListCmd.Flags().IntVarP(&journalLimit, "limit", "n", 10, "Number of entries to show (0 for all)")

	journalCmd.AddCommand(journalAddCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalRmCmd)
	rootCmd.AddCommand(journalCmd)
}
