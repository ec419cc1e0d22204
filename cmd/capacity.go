package cmd

import (
	"fmt"

	"foreplan/internal/cli"
	"foreplan/internal/forecast"

	"github.com/spf13/cobra"
)

var capacityCmd = &cobra.Command{
	Use:   "capacity",
	Short: "Daily capacity vs allocated hours",
	RunE:  runCapacity,
}

func init() {
	rootCmd.AddCommand(capacityCmd)
}

func runCapacity(_ *cobra.Command, _ []string) error {
	snap, cfg, err := loadData()
	if err != nil {
		return err
	}

	ref, err := today()
	if err != nil {
		return err
	}
	until := horizon(cfg, ref)

	loads, warnings, err := forecast.ScheduleLoad(snap, ref, until)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CAPACITY  %s → %s", cli.FormatDateISO(ref), cli.FormatDateISO(until))))
	fmt.Println()

	if len(loads) == 0 {
		fmt.Println("  Nothing in range.")
		return nil
	}

	var maxHours float64
	for _, l := range loads {
		if l.EstimatedHours > maxHours {
			maxHours = l.EstimatedHours
		}
		if l.CapacityHours > maxHours {
			maxHours = l.CapacityHours
		}
	}

	overloadedDays := 0
	for _, l := range loads {
		if !l.IsWorkingDay && l.EstimatedHours == 0 {
			continue
		}
		label := fmt.Sprintf("%s %s", cli.FormatDateISO(l.Date), cli.FormatDayOfWeek(int(l.Date.Weekday())))
		fmt.Println(cli.RenderHorizontalBar(label, l.EstimatedHours, maxHours, 36, l.Overloaded()))
		if l.Overloaded() {
			overloadedDays++
		}
	}

	hoursByDay := make([]float64, 0, len(loads))
	for _, l := range loads {
		hoursByDay = append(hoursByDay, l.EstimatedHours)
	}
	fmt.Printf("\n  trend %s\n", cli.RenderSparkline(hoursByDay))

	fmt.Println()
	if overloadedDays > 0 {
		fmt.Printf("  %s %d day(s) exceed their capacity\n", cli.Warn("!"), overloadedDays)
	} else {
		fmt.Printf("  %s every day fits within capacity\n", cli.Good("ok"))
	}
	printWarnings(snap, warnings)
	return nil
}
