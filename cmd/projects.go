package cmd

import (
	"fmt"
	"strconv"
	"time"

	"foreplan/internal/cli"
	"foreplan/internal/forecast"
	"foreplan/internal/model"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects with remaining work and pace",
	RunE:  runProjects,
}

var (
	flagProjectName  string
	flagProjectStart string
	flagProjectEnd   string
	flagProjectHours float64
)

var projectsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a project",
	RunE:  runProjectsAdd,
}

var projectsDatesCmd = &cobra.Command{
	Use:   "dates <project-id>",
	Short: "Change a project's date range (validated against its phases)",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsDates,
}

var projectsRmCmd = &cobra.Command{
	Use:   "rm <project-id>",
	Short: "Delete a project and its phases",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsRm,
}

func init() {
	projectsAddCmd.Flags().StringVar(&flagProjectName, "name", "", "Project name (required)")
	projectsAddCmd.Flags().StringVar(&flagProjectStart, "start", "", "Start date YYYY-MM-DD (required)")
	projectsAddCmd.Flags().StringVar(&flagProjectEnd, "end", "", "End date YYYY-MM-DD (omit for a continuous project)")
	projectsAddCmd.Flags().Float64Var(&flagProjectHours, "hours", 0, "Estimated total hours")
	_ = projectsAddCmd.MarkFlagRequired("name")
	_ = projectsAddCmd.MarkFlagRequired("start")

	projectsDatesCmd.Flags().StringVar(&flagProjectStart, "start", "", "New start date YYYY-MM-DD")
	projectsDatesCmd.Flags().StringVar(&flagProjectEnd, "end", "", "New end date YYYY-MM-DD (empty clears it)")

	projectsCmd.AddCommand(projectsAddCmd)
	projectsCmd.AddCommand(projectsDatesCmd)
	projectsCmd.AddCommand(projectsRmCmd)
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(_ *cobra.Command, _ []string) error {
	snap, cfg, err := loadData()
	if err != nil {
		return err
	}
	snap.Projects = filterProjects(snap.Projects)
	if len(snap.Projects) == 0 {
		fmt.Println("\n  No projects found.")
		return nil
	}

	ref, err := today()
	if err != nil {
		return err
	}
	statuses, err := forecast.ProjectStatuses(snap, ref, horizon(cfg, ref))
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("PROJECTS"))
	fmt.Println()

	rows := make([][]string, 0, len(statuses))
	for _, st := range statuses {
		pace := string(st.Pace)
		switch st.Pace {
		case forecast.PaceAhead:
			pace = cli.Good(pace)
		case forecast.PaceBehind:
			pace = cli.Warn(pace)
		}
		days := strconv.Itoa(st.RemainingDays)
		if st.Overcommitted {
			days = cli.Bad("0!")
		}
		rows = append(rows, []string{
			strconv.FormatInt(st.Project.ID, 10),
			st.Project.Name,
			cli.FormatDateRange(st.Project.StartDate, st.Project.EndDate),
			cli.FormatHours(st.CompletedHours),
			cli.FormatHours(st.RemainingHours),
			days,
			cli.FormatHours(st.HoursPerDay),
			pace,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Project", "Dates", "Done", "Left", "Days", "h/day", "Pace"},
		Rows:    rows,
	}))

	fmt.Println()
	for _, st := range statuses {
		total := st.CompletedHours + st.RemainingHours
		if total <= 0 {
			continue
		}
		fmt.Printf("  %-20s %s\n", st.Project.Name, cli.RenderProgressBar(st.CompletedHours, total, 24))
	}
	return nil
}

func runProjectsAdd(_ *cobra.Command, _ []string) error {
	start, err := time.Parse("2006-01-02", flagProjectStart)
	if err != nil {
		return fmt.Errorf("invalid --start %q", flagProjectStart)
	}
	p := model.Project{
		Name:           flagProjectName,
		StartDate:      start,
		EstimatedHours: flagProjectHours,
	}
	if flagProjectEnd != "" {
		end, err := time.Parse("2006-01-02", flagProjectEnd)
		if err != nil {
			return fmt.Errorf("invalid --end %q", flagProjectEnd)
		}
		p.EndDate = &end
	}
	if err := p.Validate(); err != nil {
		return err
	}

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id, err := st.SaveProject(p)
	if err != nil {
		return err
	}
	fmt.Printf("\n  Added project %q (id %d)\n", p.Name, id)
	return nil
}

func runProjectsDates(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid project id %q", args[0])
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
	project, ok := snap.ProjectByID(id)
	if !ok {
		return fmt.Errorf("no project with id %d", id)
	}

	proposed := forecast.DateRange{Start: model.DateOf(project.StartDate)}
	if project.EndDate != nil {
		proposed.End = model.DateOf(*project.EndDate)
	}
	if flagProjectStart != "" {
		if proposed.Start, err = time.Parse("2006-01-02", flagProjectStart); err != nil {
			return fmt.Errorf("invalid --start %q", flagProjectStart)
		}
	}
	if flagProjectEnd != "" {
		if proposed.End, err = time.Parse("2006-01-02", flagProjectEnd); err != nil {
			return fmt.Errorf("invalid --end %q", flagProjectEnd)
		}
	}

	res := forecast.ValidateProjectEdit(project, snap.PhasesOf(id), proposed)
	if !res.Accepted {
		fmt.Printf("\n  %s\n", cli.Bad("Edit rejected:"))
		for _, e := range res.Errors {
			fmt.Printf("    - %s\n", e.Message)
		}
		fmt.Println("\n  Adjust the phases first, or pick wider dates.")
		return fmt.Errorf("project dates conflict with %d phase(s)", len(res.Errors))
	}

	var end *time.Time
	if !proposed.End.IsZero() {
		end = &proposed.End
	}
	if err := st.UpdateProjectDates(id, proposed.Start, end); err != nil {
		return err
	}
	fmt.Printf("\n  %s project %q now runs %s\n",
		cli.Good("Updated:"), project.Name, cli.FormatDateRange(proposed.Start, end))
	return nil
}

func runProjectsRm(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid project id %q", args[0])
	}
	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.DeleteProject(id); err != nil {
		return err
	}
	fmt.Printf("\n  Deleted project %d\n", id)
	return nil
}
