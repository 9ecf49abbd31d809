// ABOUTME: Vitals commands: add, list, and rm.
// ABOUTME: A vitals entry carries weight, blood pressure, or both.
package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/carelog/internal/models"
)

var (
	vitalsWeight float64
	vitalsBP     string
	vitalsLimit  int
)

var vitalsCmd = &cobra.Command{
	Use:     "vitals",
	Aliases: []string{"v"},
	Short:   "Log and review weight and blood pressure",
}

var vitalsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log weight and/or blood pressure",
	Long: `Log a vitals reading stamped with the current time.

Examples:
  carelog vitals add --weight 82.5
  carelog vitals add --bp 120/80
  carelog vitals add --weight 82.5 --bp 118/76`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var weight *float64
		if vitalsWeight != 0 {
			weight = &vitalsWeight
		}
		var sys, dia *int
		if vitalsBP != "" {
			s, d, err := parsePressure(vitalsBP)
			if err != nil {
				return err
			}
			sys, dia = &s, &d
		}
		if weight == nil && sys == nil {
			return errors.New("nothing to log: pass --weight and/or --bp")
		}

		if err := requireSignedIn(); err != nil {
			return err
		}
		o, err := await(cmd.Context(), writer.SubmitVitals(weight, sys, dia))
		if err != nil {
			return err
		}

		color.Green("✓ Added vitals")
		faint := color.New(color.Faint)
		faint.Printf("  (%s)\n", shortID(o.ID))
		return nil
	},
}

var vitalsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List vitals, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadView(cmd.Context())
		if err != nil {
			return err
		}
		if len(v.Vitals) == 0 {
			fmt.Println("No vitals yet.")
			return nil
		}

		faint := color.New(color.Faint)
		for i, row := range v.Vitals {
			if vitalsLimit > 0 && i >= vitalsLimit {
				break
			}
			faint.Printf("%s  ", shortID(row.ID))
			fmt.Printf("%s %s  ", row.Date, row.Time)
			fmt.Println(row.Summary())
		}
		return nil
	},
}

var vitalsRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a vitals entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return deleteRecord(cmd, models.KindVitals, args[0])
	},
}

// parsePressure reads "SYS/DIA".
func parsePressure(s string) (int, int, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid blood pressure %q (use SYS/DIA, e.g. 120/80)", s)
	}
	sys, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid systolic value %q", parts[0])
	}
	dia, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid diastolic value %q", parts[1])
	}
	return sys, dia, nil
}

// deleteRecord resolves an ID prefix against the live view and deletes it.
func deleteRecord(cmd *cobra.Command, kind models.Kind, prefix string) error {
	v, err := loadView(cmd.Context())
	if err != nil {
		return err
	}
	id, err := v.ResolveID(kind, prefix)
	if err != nil {
		return err
	}
	if _, err := await(cmd.Context(), writer.Delete(kind, id)); err != nil {
		return err
	}
	color.Yellow("✗ Deleted %s %s", kind, shortID(id))
	return nil
}

func init() {
	vitalsAddCmd.Flags().Float64VarP(&vitalsWeight, "weight", "w", 0, "Weight in kg")
	vitalsAddCmd.Flags().StringVar(&vitalsBP, "bp", "", "Blood pressure as SYS/DIA")
	vitalsListCmd.Flags().IntVarP(&vitalsLimit, "limit", "n", 20, "Number of entries to show (0 for all)")

	vitalsCmd.AddCommand(vitalsAddCmd)
	vitalsCmd.AddCommand(vitalsListCmd)
	vitalsCmd.AddCommand(vitalsRmCmd)
	rootCmd.AddCommand(vitalsCmd)
}
