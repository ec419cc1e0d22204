package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"foreplan/internal/cli"
	"foreplan/internal/forecast"
	"foreplan/internal/model"
	"foreplan/internal/store"

	"github.com/spf13/cobra"
)

var phasesCmd = &cobra.Command{
	Use:   "phases <project-id>",
	Short: "List a project's phases",
	Args:  cobra.ExactArgs(1),
	RunE:  runPhases,
}

var (
	flagPhaseName     string
	flagPhaseStart    string
	flagPhaseEnd      string
	flagPhaseHours    float64
	flagPhaseFreq     string
	flagPhaseInterval int
	flagPhaseWeekdays string
)

var phasesAddCmd = &cobra.Command{
	Use:   "add <project-id>",
	Short: "Add a phase (validated against siblings and project dates)",
	Args:  cobra.ExactArgs(1),
	RunE:  runPhasesAdd,
}

var phasesEditCmd = &cobra.Command{
	Use:   "edit <phase-id>",
	Short: "Edit a phase's dates or hours",
	Args:  cobra.ExactArgs(1),
	RunE:  runPhasesEdit,
}

var phasesRmCmd = &cobra.Command{
	Use:   "rm <phase-id>",
	Short: "Delete a phase and re-derive project bounds",
	Args:  cobra.ExactArgs(1),
	RunE:  runPhasesRm,
}

func init() {
	for _, c := range []*cobra.Command{phasesAddCmd, phasesEditCmd} {
		c.Flags().StringVar(&flagPhaseName, "name", "", "Phase name")
		c.Flags().StringVar(&flagPhaseStart, "start", "", "Start date YYYY-MM-DD")
		c.Flags().StringVar(&flagPhaseEnd, "end", "", "End date YYYY-MM-DD")
		c.Flags().Float64Var(&flagPhaseHours, "hours", 0, "Allocated hours")
	}
	phasesAddCmd.Flags().StringVar(&flagPhaseFreq, "freq", "", "Recurrence: daily, weekly, or monthly (makes the phase recurring)")
	phasesAddCmd.Flags().IntVar(&flagPhaseInterval, "interval", 1, "Recurrence interval (every N days/weeks/months)")
	phasesAddCmd.Flags().StringVar(&flagPhaseWeekdays, "weekdays", "", "Weekly recurrence days, e.g. mon,thu")

	phasesCmd.AddCommand(phasesAddCmd)
	phasesCmd.AddCommand(phasesEditCmd)
	phasesCmd.AddCommand(phasesRmCmd)
	rootCmd.AddCommand(phasesCmd)
}

func runPhases(_ *cobra.Command, args []string) error {
	projectID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid project id %q", args[0])
	}

	snap, _, err := loadData()
	if err != nil {
		return err
	}
	project, ok := snap.ProjectByID(projectID)
	if !ok {
		return fmt.Errorf("no project with id %d", projectID)
	}
	phases := snap.PhasesOf(projectID)
	if len(phases) == 0 {
		fmt.Printf("\n  Project %q has no phases.\n", project.Name)
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("PHASES  %s", project.Name)))
	fmt.Println()

	rows := make([][]string, 0, len(phases))
	for _, ph := range phases {
		dates := ""
		switch ph.Kind {
		case model.PhaseExplicit:
			end := ph.EndDate
			dates = cli.FormatDateRange(ph.StartDate, &end)
		case model.PhaseRecurring:
			dates = describePattern(ph.Pattern)
		}
		rows = append(rows, []string{
			strconv.FormatInt(ph.ID, 10),
			ph.Name,
			string(ph.Kind),
			dates,
			cli.FormatHours(ph.AllocationHours),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Phase", "Kind", "Dates", "Hours"},
		Rows:    rows,
	}))
	return nil
}

func runPhasesAdd(_ *cobra.Command, args []string) error {
	projectID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid project id %q", args[0])
	}
	if flagPhaseName == "" {
		return fmt.Errorf("--name is required")
	}

	st, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	snap, err := st.LoadSnapshot()
	if err != nil {
		return err
	}
	project, ok := snap.ProjectByID(projectID)
	if !ok {
		return fmt.Errorf("no project with id %d", projectID)
	}

	ph := model.Phase{
		ProjectID:       projectID,
		Name:            flagPhaseName,
		AllocationHours: flagPhaseHours,
	}
	if flagPhaseFreq != "" {
		ph.Kind = model.PhaseRecurring
		pat := &model.RecurrencePattern{
			Freq:     model.Frequency(flagPhaseFreq),
			Interval: flagPhaseInterval,
		}
		if flagPhaseWeekdays != "" {
			if pat.Weekdays, err = parseWeekdayList(flagPhaseWeekdays); err != nil {
				return err
			}
		}
		ph.Pattern = pat
		if flagPhaseStart != "" {
			if ph.StartDate, err = time.Parse("2006-01-02", flagPhaseStart); err != nil {
				return fmt.Errorf("invalid --start %q", flagPhaseStart)
			}
		}
	} else {
		ph.Kind = model.PhaseExplicit
		if flagPhaseStart == "" || flagPhaseEnd == "" {
			return fmt.Errorf("explicit phases need --start and --end")
		}
		if ph.StartDate, err = time.Parse("2006-01-02", flagPhaseStart); err != nil {
			return fmt.Errorf("invalid --start %q", flagPhaseStart)
		}
		if ph.EndDate, err = time.Parse("2006-01-02", flagPhaseEnd); err != nil {
			return fmt.Errorf("invalid --end %q", flagPhaseEnd)
		}
	}

	return applyPhaseChange(st, cfg.Planning.MinPhaseGapDays, project, snap.PhasesOf(projectID), ph)
}

func runPhasesEdit(_ *cobra.Command, args []string) error {
	phaseID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid phase id %q", args[0])
	}

	st, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	snap, err := st.LoadSnapshot()
	if err != nil {
		return err
	}
	ph, ok := snap.PhaseByID(phaseID)
	if !ok {
		return fmt.Errorf("no phase with id %d", phaseID)
	}
	project, ok := snap.ProjectByID(ph.ProjectID)
	if !ok {
		return fmt.Errorf("phase %d has no project", phaseID)
	}

	if flagPhaseName != "" {
		ph.Name = flagPhaseName
	}
	if flagPhaseStart != "" {
		if ph.StartDate, err = time.Parse("2006-01-02", flagPhaseStart); err != nil {
			return fmt.Errorf("invalid --start %q", flagPhaseStart)
		}
	}
	if flagPhaseEnd != "" {
		if ph.EndDate, err = time.Parse("2006-01-02", flagPhaseEnd); err != nil {
			return fmt.Errorf("invalid --end %q", flagPhaseEnd)
		}
	}
	if flagPhaseHours > 0 {
		ph.AllocationHours = flagPhaseHours
	}

	return applyPhaseChange(st, cfg.Planning.MinPhaseGapDays, project, snap.PhasesOf(ph.ProjectID), ph)
}

// applyPhaseChange runs the date-consistency validation and persists
// the phase plus any corrective project bounds in one transaction.
func applyPhaseChange(st *store.Store, minGap int, project model.Project, siblings []model.Phase, ph model.Phase) error {
	sc := forecast.DefaultSyncConfig()
	if minGap > 0 {
		sc.MinGapDays = minGap
	}

	res := forecast.ValidatePhaseEdit(project, siblings, ph, sc)
	if !res.Accepted {
		fmt.Printf("\n  %s\n", cli.Bad("Phase rejected:"))
		for _, e := range res.Errors {
			fmt.Printf("    - %s\n", e.Message)
		}
		return fmt.Errorf("phase %q failed validation", ph.Name)
	}

	var id int64
	var err error
	if ph.Kind == model.PhaseRecurring {
		// Recurring phases carry a pattern and never move project bounds.
		id, err = st.SavePhase(ph)
	} else {
		var bounds *store.PhaseBounds
		if res.UpdatedBounds != nil {
			bounds = &store.PhaseBounds{Start: res.UpdatedBounds.Start, End: res.UpdatedBounds.End}
		}
		id, err = st.ApplyPhaseEdit(ph, bounds)
	}
	if err != nil {
		return err
	}

	fmt.Printf("\n  %s phase %q (id %d)\n", cli.Good("Saved:"), ph.Name, id)
	for _, s := range res.Suggestions {
		fmt.Printf("  Project %s moved %s → %s (%s)\n",
			s.Field, cli.FormatDateISO(s.Current), cli.FormatDateISO(s.Suggested), s.Reason)
	}
	return nil
}

func runPhasesRm(_ *cobra.Command, args []string) error {
	phaseID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid phase id %q", args[0])
	}

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	snap, err := st.LoadSnapshot()
	if err != nil {
		return err
	}
	ph, ok := snap.PhaseByID(phaseID)
	if !ok {
		return fmt.Errorf("no phase with id %d", phaseID)
	}

	if err := st.DeletePhase(phaseID); err != nil {
		return err
	}
	fmt.Printf("\n  Deleted phase %q\n", ph.Name)

	// Remaining phases re-derive the project bounds; with none left the
	// project keeps its dates.
	var remaining []model.Phase
	for _, p := range snap.PhasesOf(ph.ProjectID) {
		if p.ID != phaseID {
			remaining = append(remaining, p)
		}
	}
	if bounds, ok := forecast.RecomputePhaseBounds(remaining); ok {
		end := bounds.End
		if err := st.UpdateProjectDates(ph.ProjectID, bounds.Start, &end); err != nil {
			return err
		}
		fmt.Printf("  Project bounds now %s\n", cli.FormatDateRange(bounds.Start, &end))
	}
	return nil
}

func describePattern(p *model.RecurrencePattern) string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "every %d %s", p.Interval, string(p.Freq))
	if len(p.Weekdays) > 0 {
		names := make([]string, len(p.Weekdays))
		for i, wd := range p.Weekdays {
			names[i] = cli.FormatDayOfWeek(int(wd))
		}
		fmt.Fprintf(&b, " on %s", strings.Join(names, ","))
	}
	if p.MonthDay > 0 {
		fmt.Fprintf(&b, " on day %d", p.MonthDay)
	}
	return b.String()
}

func parseWeekdayList(s string) ([]time.Weekday, error) {
	names := map[string]time.Weekday{
		"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
		"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
		"sat": time.Saturday,
	}
	var out []time.Weekday
	for _, part := range strings.Split(s, ",") {
		wd, ok := names[strings.ToLower(strings.TrimSpace(part))]
		if !ok {
			return nil, fmt.Errorf("invalid weekday %q", part)
		}
		out = append(out, wd)
	}
	return out, nil
}
