// ABOUTME: BMI calculator command.
// ABOUTME: Prints the value and its weight category.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/carelog/internal/views"
)

var bmiCmd = &cobra.Command{
	Use:   "bmi <height_cm> <weight_kg>",
	Short: "Calculate body mass index",
	Long: `Calculate BMI from height in centimeters and weight in kilograms.

Example:
  carelog bmi 180 82.5`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		height, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid height %q", args[0])
		}
		weight, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid weight %q", args[1])
		}

		r, err := views.BMI(height, weight)
		if err != nil {
			return err
		}
		fmt.Printf("BMI: ")
		color.New(color.Bold).Println(r.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bmiCmd)
}
