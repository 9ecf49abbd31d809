// ABOUTME: Medication commands: add, list, take, untake, rm, and scan.
// ABOUTME: scan reads a pill bottle label with OCR and can add the result.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/carelog/internal/models"
	"github.com/harperreed/carelog/internal/ocr"
)

var (
	medDose    string
	medTime    string
	medScanAdd bool
)

var medsCmd = &cobra.Command{
	Use:     "meds",
	Aliases: []string{"m"},
	Short:   "Manage medications and reminders",
	Long: `Manage your medication list.

A medication with a --time (HH:MM, 24-hour) gets a reminder at that minute
while 'carelog watch' is running, until it is marked taken.`,
}

var medsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a medication",
	Long: `Add a medication to your list.

Examples:
  carelog meds add Aspirin --dose 100mg --time 08:30
  carelog meds add "Vitamin D" --dose "1 tablet"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return addMedication(cmd, args[0])
	},
}

var medsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List medications",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadView(cmd.Context())
		if err != nil {
			return err
		}
		if len(v.Medications) == 0 {
			fmt.Println("No medications yet.")
			return nil
		}

		faint := color.New(color.Faint)
		green := color.New(color.FgGreen)
		for _, row := range v.Medications {
			faint.Printf("%s  ", shortID(row.ID))
			if row.Taken {
				green.Print("[x] ")
			} else {
				fmt.Print("[ ] ")
			}
			fmt.Printf("%s  ", padRight(truncate(row.Name, 30), 30))
			faint.Println(row.Schedule)
		}
		fmt.Printf("\nTaken: %s\n", v.Dashboard.Medications)
		return nil
	},
}

var medsTakeCmd = &cobra.Command{
	Use:   "take <id>",
	Short: "Mark a medication as taken",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaken(cmd, args[0], true)
	},
}

var medsUntakeCmd = &cobra.Command{
	Use:   "untake <id>",
	Short: "Mark a medication as not taken",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTaken(cmd, args[0], false)
	},
}

var medsRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a medication",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return deleteRecord(cmd, models.KindMedications, args[0])
	},
}

var medsScanCmd = &cobra.Command{
	Use:   "scan <image>",
	Short: "Read a medication name from a label photo",
	Long: `Run OCR on a photo of a medication label and guess the name.
Requires the tesseract binary on PATH.

Examples:
  carelog meds scan bottle.jpg
  carelog meds scan bottle.jpg --add --dose 10mg --time 21:00`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scanner := ocr.NewScanner(ocr.NewTesseract(), logger)
		faint := color.New(color.Faint)
		scanner.OnStatus(func(status string) {
			if status != "" {
				faint.Println(status)
			}
		})

		name, err := scanner.Scan(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", ocr.StatusFailed, err)
		}
		fmt.Println(name)

		if !medScanAdd {
			return nil
		}
		if name == ocr.Placeholder {
			return fmt.Errorf("no medication name found; add it by hand with 'carelog meds add'")
		}
		return addMedication(cmd, name)
	},
}

func addMedication(cmd *cobra.Command, name string) error {
	if err := requireSignedIn(); err != nil {
		return err
	}
	o, err := await(cmd.Context(), writer.SubmitMedication(name, medDose, medTime))
	if err != nil {
		return err
	}

	color.Green("✓ Added %s", name)
	faint := color.New(color.Faint)
	faint.Printf("  (%s)\n", shortID(o.ID))
	return nil
}

func setTaken(cmd *cobra.Command, prefix string, taken bool) error {
	v, err := loadView(cmd.Context())
	if err != nil {
		return err
	}
	id, err := v.ResolveID(models.KindMedications, prefix)
	if err != nil {
		return err
	}
	if _, err := await(cmd.Context(), writer.SetTaken(id, taken)); err != nil {
		return err
	}
	if taken {
		color.Green("✓ Marked %s as taken", shortID(id))
	} else {
		color.Yellow("✗ Marked %s as not taken", shortID(id))
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{medsAddCmd, medsScanCmd} {
		c.Flags().StringVarP(&medDose, "dose", "d", "", "Dose, e.g. 100mg")
		c.Flags().StringVarP(&medTime, "time", "t", "", "Reminder time as HH:MM (24-hour)")
	}
	medsScanCmd.Flags().BoolVar(&medScanAdd, "add", false, "Add the recognized medication")

	medsCmd.AddCommand(medsAddCmd)
	medsCmd.AddCommand(medsListCmd)
	medsCmd.AddCommand(medsTakeCmd)
	medsCmd.AddCommand(medsUntakeCmd)
	medsCmd.AddCommand(medsRmCmd)
	medsCmd.AddCommand(medsScanCmd)
	rootCmd.AddCommand(medsCmd)
}
