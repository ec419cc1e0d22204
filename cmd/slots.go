package cmd

import (
	"fmt"
	"strconv"
	"time"

	"foreplan/internal/cli"
	"foreplan/internal/model"

	"github.com/spf13/cobra"
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "List weekly work slots",
	RunE:  runSlots,
}

var (
	flagSlotDay   string
	flagSlotFrom  string
	flagSlotTo    string
	flagExcDate   string
	flagExcRemove bool
)

var slotsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a weekly work slot",
	RunE:  runSlotsAdd,
}

var slotsRmCmd = &cobra.Command{
	Use:   "rm <slot-id>",
	Short: "Delete a work slot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSlotsRm,
}

var slotsExceptCmd = &cobra.Command{
	Use:   "except <slot-id>",
	Short: "Override one slot on one date (shift or remove it)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSlotsExcept,
}

func init() {
	slotsAddCmd.Flags().StringVar(&flagSlotDay, "day", "", "Weekday, e.g. mon (required)")
	slotsAddCmd.Flags().StringVar(&flagSlotFrom, "from", "", "Start time HH:MM (required)")
	slotsAddCmd.Flags().StringVar(&flagSlotTo, "to", "", "End time HH:MM (required)")
	_ = slotsAddCmd.MarkFlagRequired("day")
	_ = slotsAddCmd.MarkFlagRequired("from")
	_ = slotsAddCmd.MarkFlagRequired("to")

	slotsExceptCmd.Flags().StringVar(&flagExcDate, "date", "", "Date YYYY-MM-DD (required)")
	slotsExceptCmd.Flags().BoolVar(&flagExcRemove, "remove", false, "Remove the slot for that date")
	slotsExceptCmd.Flags().StringVar(&flagSlotFrom, "from", "", "Override start HH:MM")
	slotsExceptCmd.Flags().StringVar(&flagSlotTo, "to", "", "Override end HH:MM")
	_ = slotsExceptCmd.MarkFlagRequired("date")

	slotsCmd.AddCommand(slotsAddCmd)
	slotsCmd.AddCommand(slotsRmCmd)
	slotsCmd.AddCommand(slotsExceptCmd)
	rootCmd.AddCommand(slotsCmd)
}

func runSlots(_ *cobra.Command, _ []string) error {
	snap, _, err := loadData()
	if err != nil {
		return err
	}
	if len(snap.Slots) == 0 {
		fmt.Println("\n  No work slots configured. Run `foreplan setup` or `foreplan slots add`.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("WORK SLOTS"))
	fmt.Println()

	rows := make([][]string, 0, len(snap.Slots))
	for _, s := range snap.Slots {
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			cli.FormatDayOfWeek(int(s.Weekday)),
			cli.FormatClockRange(s.StartMin, s.EndMin),
			cli.FormatHours(s.DurationHours()),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Day", "Time", "Hours"},
		Rows:    rows,
	}))

	if len(snap.Exceptions) > 0 {
		fmt.Println()
		fmt.Printf("  %d date exception(s) configured\n", len(snap.Exceptions))
	}
	return nil
}

func runSlotsAdd(_ *cobra.Command, _ []string) error {
	wds, err := parseWeekdayList(flagSlotDay)
	if err != nil {
		return err
	}
	startMin, err := model.ParseClock(flagSlotFrom)
	if err != nil {
		return err
	}
	endMin, err := model.ParseClock(flagSlotTo)
	if err != nil {
		return err
	}

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	for _, wd := range wds {
		if _, err := st.SaveSlot(model.WorkSlot{Weekday: wd, StartMin: startMin, EndMin: endMin}); err != nil {
			return err
		}
		fmt.Printf("  Added %s %s\n", cli.FormatDayOfWeek(int(wd)), cli.FormatClockRange(startMin, endMin))
	}
	return nil
}

func runSlotsRm(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid slot id %q", args[0])
	}
	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.DeleteSlot(id); err != nil {
		return err
	}
	fmt.Printf("\n  Deleted slot %d\n", id)
	return nil
}

func runSlotsExcept(_ *cobra.Command, args []string) error {
	slotID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid slot id %q", args[0])
	}
	date, err := time.Parse("2006-01-02", flagExcDate)
	if err != nil {
		return fmt.Errorf("invalid --date %q", flagExcDate)
	}

	ex := model.WorkHourException{Date: date, SlotID: slotID, Removed: flagExcRemove}
	if !flagExcRemove {
		if flagSlotFrom == "" || flagSlotTo == "" {
			return fmt.Errorf("either --remove or both --from and --to are required")
		}
		if ex.StartMin, err = model.ParseClock(flagSlotFrom); err != nil {
			return err
		}
		if ex.EndMin, err = model.ParseClock(flagSlotTo); err != nil {
			return err
		}
	}

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if _, err := st.SaveException(ex); err != nil {
		return err
	}
	if flagExcRemove {
		fmt.Printf("\n  Slot %d removed on %s\n", slotID, flagExcDate)
	} else {
		fmt.Printf("\n  Slot %d on %s shifted to %s\n", slotID, flagExcDate, cli.FormatClockRange(ex.StartMin, ex.EndMin))
	}
	return nil
}
