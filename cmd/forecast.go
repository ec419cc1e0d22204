package cmd

import (
	"fmt"

	"foreplan/internal/cli"
	"foreplan/internal/forecast"
	"foreplan/internal/model"

	"github.com/spf13/cobra"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Per-day hour allocation across all projects",
	RunE:  runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(_ *cobra.Command, _ []string) error {
	snap, cfg, err := loadData()
	if err != nil {
		return err
	}

	ref, err := today()
	if err != nil {
		return err
	}
	snap.Projects = filterProjects(snap.Projects)
	if len(snap.Projects) == 0 {
		fmt.Println("\n  No projects found. Run `foreplan projects add` first.")
		return nil
	}

	estimates, warnings, err := forecast.ComputeAllEstimates(snap, ref, horizon(cfg, ref))
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("FORECAST  from %s", cli.FormatDateISO(ref))))
	fmt.Println()

	if len(estimates) == 0 {
		fmt.Println("  Nothing scheduled.")
	} else {
		rows := make([][]string, 0, len(estimates))
		for _, e := range estimates {
			name := ""
			if p, ok := snap.ProjectByID(e.ProjectID); ok {
				name = p.Name
			}
			phase := ""
			if ph, ok := snap.PhaseByID(e.PhaseID); ok {
				phase = ph.Name
			}
			rows = append(rows, []string{
				cli.FormatDateISO(e.Date),
				cli.FormatDayOfWeek(int(e.Date.Weekday())),
				name,
				phase,
				cli.FormatHours(e.Hours),
				sourceLabel(e),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Date", "Day", "Project", "Phase", "Hours", "Source"},
			Rows:    rows,
		}))
	}

	printWarnings(snap, warnings)
	return nil
}

func sourceLabel(e model.DayEstimate) string {
	switch e.Source {
	case model.SourceEvent:
		if e.CompletedEvent {
			return "event (done)"
		}
		return "event"
	case model.SourcePhaseAllocation:
		return "phase"
	default:
		return "auto"
	}
}

func printWarnings(snap *model.Snapshot, warnings []model.Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Println()
	for _, w := range warnings {
		name := fmt.Sprintf("project %d", w.ProjectID)
		if p, ok := snap.ProjectByID(w.ProjectID); ok {
			name = p.Name
		}
		switch w.Code {
		case model.WarnOvercommitted:
			fmt.Printf("  %s %s: %s remaining with no working days left\n",
				cli.Warn("overcommitted"), name, cli.FormatHours(w.RemainingHours))
		case model.WarnNoCapacity:
			fmt.Printf("  %s %s: no work slots configured\n", cli.Warn("no capacity"), name)
		}
	}
	fmt.Println()
}
