// ABOUTME: CLI commands for exporting and importing carelog data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats; imports JSON backups.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/carelog/internal/export"
)

var (
	exportOutput string
	exportSince  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export your data",
	Long: `Export the signed-in profile's data.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Markdown tables (for documentation/sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include data since this date (YYYY-MM-DD, markdown only)

EXAMPLES:

  carelog export json                        # Export all data as JSON
  carelog export json -o backup.json         # Save to file
  carelog export yaml                        # Export as YAML
  carelog export markdown --since 2024-01-01 # Export data from 2024 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		switch format {
		case "json", "yaml", "markdown":
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		var since *time.Time
		if exportSince != "" {
			t, err := parseTime(exportSince)
			if err != nil {
				return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
			}
			since = &t
		}

		if err := requireSignedIn(); err != nil {
			return err
		}
		ctx, cancel := waitCtx(cmd)
		defer cancel()

		d, err := export.Collect(ctx, store, *session.Current())
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		var data []byte
		switch format {
		case "json":
			data, err = d.JSON()
		case "yaml":
			data, err = d.YAML()
		case "markdown":
			data = []byte(d.Markdown(since, time.Local))
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import data from a JSON export",
	Long: `Import vitals, medications, and journal entries from a JSON export
into the signed-in profile. Records get new IDs.

EXAMPLES:

  carelog import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		d, err := export.ParseJSON(raw)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		if err := requireSignedIn(); err != nil {
			return err
		}
		counts, err := export.Import(cmd.Context(), store, session.Current().UID, d)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported %d records", counts.Total())
		fmt.Printf("  Vitals: %d\n", counts.Vitals)
		fmt.Printf("  Medications: %d\n", counts.Medications)
		fmt.Printf("  Journal: %d\n", counts.Journal)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "Only include data since date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
