package cmd

import (
	"fmt"
	"strconv"
	"time"

	"foreplan/internal/cli"
	"foreplan/internal/model"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List calendar events",
	RunE:  runEvents,
}

var (
	flagEventTitle   string
	flagEventDate    string
	flagEventFrom    string
	flagEventTo      string
	flagEventProject int64
	flagEventPhase   int64
	flagEventDone    bool
)

var eventsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an event (linked events consume the project's day)",
	RunE:  runEventsAdd,
}

var eventsDoneCmd = &cobra.Command{
	Use:   "done <event-id>",
	Short: "Mark an event completed, logging its hours against the project",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventsDone,
}

var eventsRmCmd = &cobra.Command{
	Use:   "rm <event-id>",
	Short: "Delete an event",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventsRm,
}

func init() {
	eventsAddCmd.Flags().StringVar(&flagEventTitle, "title", "", "Event title (required)")
	eventsAddCmd.Flags().StringVar(&flagEventDate, "date", "", "Date YYYY-MM-DD (required)")
	eventsAddCmd.Flags().StringVar(&flagEventFrom, "from", "09:00", "Start time HH:MM")
	eventsAddCmd.Flags().StringVar(&flagEventTo, "to", "17:00", "End time HH:MM")
	eventsAddCmd.Flags().Int64Var(&flagEventProject, "project-id", 0, "Link to a project")
	eventsAddCmd.Flags().Int64Var(&flagEventPhase, "phase-id", 0, "Link to a phase")
	eventsAddCmd.Flags().BoolVar(&flagEventDone, "done", false, "Mark completed immediately")
	_ = eventsAddCmd.MarkFlagRequired("title")
	_ = eventsAddCmd.MarkFlagRequired("date")

	eventsCmd.AddCommand(eventsAddCmd)
	eventsCmd.AddCommand(eventsDoneCmd)
	eventsCmd.AddCommand(eventsRmCmd)
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(_ *cobra.Command, _ []string) error {
	snap, _, err := loadData()
	if err != nil {
		return err
	}
	if len(snap.Events) == 0 {
		fmt.Println("\n  No events found.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("EVENTS"))
	fmt.Println()

	rows := make([][]string, 0, len(snap.Events))
	for _, e := range snap.Events {
		project := ""
		if p, ok := snap.ProjectByID(e.ProjectID); ok {
			project = p.Name
		}
		status := ""
		if e.Completed {
			status = cli.Good("done")
		}
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			cli.FormatDateISO(e.Start),
			e.Title,
			project,
			cli.FormatHours(e.DurationHours()),
			status,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Date", "Event", "Project", "Hours", "Status"},
		Rows:    rows,
	}))
	return nil
}

func runEventsAdd(_ *cobra.Command, _ []string) error {
	date, err := time.Parse("2006-01-02", flagEventDate)
	if err != nil {
		return fmt.Errorf("invalid --date %q", flagEventDate)
	}
	startMin, err := model.ParseClock(flagEventFrom)
	if err != nil {
		return err
	}
	endMin, err := model.ParseClock(flagEventTo)
	if err != nil {
		return err
	}
	if endMin <= startMin {
		return fmt.Errorf("event ends before it starts")
	}

	e := model.CalendarEvent{
		ProjectID: flagEventProject,
		PhaseID:   flagEventPhase,
		Title:     flagEventTitle,
		Start:     date.Add(time.Duration(startMin) * time.Minute),
		End:       date.Add(time.Duration(endMin) * time.Minute),
		Completed: flagEventDone,
		Category:  model.CategoryEvent,
	}

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id, err := st.SaveEvent(e)
	if err != nil {
		return err
	}
	fmt.Printf("\n  Added event %q (id %d, %s)\n", e.Title, id, cli.FormatHours(e.DurationHours()))
	if e.Linked() {
		fmt.Printf("  %s is consumed for project %d\n", cli.FormatDateISO(date), e.ProjectID)
	}
	return nil
}

func runEventsDone(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid event id %q", args[0])
	}
	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.MarkEventCompleted(id, true); err != nil {
		return err
	}
	fmt.Printf("\n  Event %d marked done\n", id)
	return nil
}

func runEventsRm(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid event id %q", args[0])
	}
	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.DeleteEvent(id); err != nil {
		return err
	}
	fmt.Printf("\n  Deleted event %d\n", id)
	return nil
}
