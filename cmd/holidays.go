package cmd

import (
	"fmt"
	"strconv"
	"time"

	"foreplan/internal/cli"
	"foreplan/internal/model"

	"github.com/spf13/cobra"
)

var holidaysCmd = &cobra.Command{
	Use:   "holidays",
	Short: "List holidays",
	RunE:  runHolidays,
}

var (
	flagHolidayName   string
	flagHolidayStart  string
	flagHolidayEnd    string
	flagHolidayAnnual bool
)

var holidaysAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a holiday range",
	RunE:  runHolidaysAdd,
}

var holidaysRmCmd = &cobra.Command{
	Use:   "rm <holiday-id>",
	Short: "Delete a holiday",
	Args:  cobra.ExactArgs(1),
	RunE:  runHolidaysRm,
}

func init() {
	holidaysAddCmd.Flags().StringVar(&flagHolidayName, "name", "", "Holiday name (required)")
	holidaysAddCmd.Flags().StringVar(&flagHolidayStart, "start", "", "Start date YYYY-MM-DD (required)")
	holidaysAddCmd.Flags().StringVar(&flagHolidayEnd, "end", "", "End date YYYY-MM-DD (defaults to start)")
	holidaysAddCmd.Flags().BoolVar(&flagHolidayAnnual, "annual", false, "Repeat every year")
	_ = holidaysAddCmd.MarkFlagRequired("name")
	_ = holidaysAddCmd.MarkFlagRequired("start")

	holidaysCmd.AddCommand(holidaysAddCmd)
	holidaysCmd.AddCommand(holidaysRmCmd)
	rootCmd.AddCommand(holidaysCmd)
}

func runHolidays(_ *cobra.Command, _ []string) error {
	snap, _, err := loadData()
	if err != nil {
		return err
	}
	if len(snap.Holidays) == 0 {
		fmt.Println("\n  No holidays configured.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("HOLIDAYS"))
	fmt.Println()

	rows := make([][]string, 0, len(snap.Holidays))
	for _, h := range snap.Holidays {
		repeat := ""
		if h.RecursAnnually {
			repeat = "annual"
		}
		end := h.EndDate
		rows = append(rows, []string{
			strconv.FormatInt(h.ID, 10),
			h.Name,
			cli.FormatDateRange(h.StartDate, &end),
			repeat,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Holiday", "Dates", "Repeats"},
		Rows:    rows,
	}))
	return nil
}

func runHolidaysAdd(_ *cobra.Command, _ []string) error {
	start, err := time.Parse("2006-01-02", flagHolidayStart)
	if err != nil {
		return fmt.Errorf("invalid --start %q", flagHolidayStart)
	}
	end := start
	if flagHolidayEnd != "" {
		if end, err = time.Parse("2006-01-02", flagHolidayEnd); err != nil {
			return fmt.Errorf("invalid --end %q", flagHolidayEnd)
		}
	}
	if end.Before(start) {
		return fmt.Errorf("holiday ends before it starts")
	}

	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if _, err := st.SaveHoliday(model.Holiday{
		Name:           flagHolidayName,
		StartDate:      start,
		EndDate:        end,
		RecursAnnually: flagHolidayAnnual,
	}); err != nil {
		return err
	}
	fmt.Printf("\n  Added holiday %q\n", flagHolidayName)
	return nil
}

func runHolidaysRm(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid holiday id %q", args[0])
	}
	st, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.DeleteHoliday(id); err != nil {
		return err
	}
	fmt.Printf("\n  Deleted holiday %d\n", id)
	return nil
}
