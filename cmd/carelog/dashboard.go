// ABOUTME: Dashboard, weight chart, and the live watch view.
// ABOUTME: watch redraws on every snapshot and shows medication reminders.
package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/carelog/internal/lifecycle"
	"github.com/harperreed/carelog/internal/models"
	"github.com/harperreed/carelog/internal/reminder"
	"github.com/harperreed/carelog/internal/views"
)

const (
	chartWidth = 40
	// sessionPollInterval is how often long-running commands pick up sign-ins from other processes.
	sessionPollInterval = 2 * time.Second
)

var chartLimit int

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Show latest weight, blood pressure, and medications taken",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadView(cmd.Context())
		if err != nil {
			return err
		}
		printDashboard(os.Stdout, v)
		return nil
	},
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Show the weight chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadView(cmd.Context())
		if err != nil {
			return err
		}
		points := v.WeightChart
		if chartLimit > 0 && len(points) > chartLimit {
			points = points[len(points)-chartLimit:]
		}
		printChart(os.Stdout, points)
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard with medication reminders",
	Long: `Show a dashboard that redraws whenever your data changes, including
changes made from another terminal or device.

Medication reminders appear at each medication's scheduled time until it is
marked taken. Set reminder_policy to "daily" in the config to be reminded
once per day instead of on every check. Press Ctrl+C to stop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		gate := reminder.NewGate(reminder.NewConsoleEmitter(), logger)
		gate.Request(ctx)

		renderer := lifecycle.RenderFunc(func(v views.View, changed []models.Kind) {
			fmt.Print("\033[H\033[2J")
			printWatch(os.Stdout, v)
		})
		if err := openApp(gate, renderer); err != nil {
			return err
		}
		if session.Current() == nil {
			color.Yellow("Not signed in. Run 'carelog login' in another terminal.")
		}

		go watchSession(ctx)
		<-ctx.Done()
		fmt.Println()
		return nil
	},
}

func printWatch(w io.Writer, v views.View) {
	if v.Identity == nil {
		fmt.Fprintln(w, "Signed out")
		fmt.Fprintln(w)
	} else {
		fmt.Fprintf(w, "%s\n\n", v.Identity.DisplayName)
	}
	printDashboard(w, v)

	if len(v.Medications) > 0 {
		fmt.Fprintln(w)
		for _, row := range v.Medications {
			mark := "[ ]"
			if row.Taken {
				mark = "[x]"
			}
			fmt.Fprintf(w, "%s %s  %s\n", mark, padRight(truncate(row.Name, 30), 30), row.Schedule)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Updated %s. Ctrl+C to quit.\n", time.Now().Format("15:04:05"))
}

func printDashboard(w io.Writer, v views.View) {
	d := v.Dashboard
	faint := color.New(color.Faint)
	bold := color.New(color.Bold)

	bold.Fprintf(w, "%-14s", "Weight")
	fmt.Fprintf(w, "%-12s", d.Weight)
	faint.Fprintln(w, d.WeightDate)

	bold.Fprintf(w, "%-14s", "Blood pressure")
	fmt.Fprintf(w, "%-12s", d.Pressure)
	faint.Fprintln(w, d.PressureDate)

	bold.Fprintf(w, "%-14s", "Meds taken")
	fmt.Fprintln(w, d.Medications)
}

// printChart draws a horizontal bar per point, scaled between the series min and max.
func printChart(w io.Writer, points []views.Point) {
	if len(points) == 0 {
		fmt.Fprintln(w, "No weight data to chart yet.")
		return
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		lo = math.Min(lo, p.Weight)
		hi = math.Max(hi, p.Weight)
	}

	faint := color.New(color.Faint)
	for _, p := range points {
		n := chartWidth
		if hi > lo {
			n = 1 + int(math.Round((p.Weight-lo)/(hi-lo)*float64(chartWidth-1)))
		}
		faint.Fprintf(w, "%s ", p.Label)
		fmt.Fprintf(w, "%s %s\n", strings.Repeat("█", n), views.FormatWeight(p.Weight))
	}
}

func init() {
	chartCmd.Flags().IntVarP(&chartLimit, "limit", "n", 30, "Number of most recent points (0 for all)")

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(watchCmd)
}
