package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"foreplan/internal/config"
	"foreplan/internal/forecast"
	"foreplan/internal/model"
	"foreplan/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDB      string
	flagToday   string
	flagHorizon int
	flagProject string
)

var rootCmd = &cobra.Command{
	Use:   "foreplan",
	Short: "Time allocation and date planning CLI",
	Long:  "Forecast your projects: working-day capacity, per-day hour allocation, and date-consistency checks.",
	RunE:  runForecast,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database path (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagToday, "today", "", "Override today's date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().IntVarP(&flagHorizon, "horizon", "n", 0, "Forecast horizon in days (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagProject, "project", "p", "", "Filter to project (substring match)")
}

// loadData is the shared loading path used by all commands: config,
// store, and a full snapshot.
func loadData() (*model.Snapshot, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, err
	}

	dbPath := flagDB
	if dbPath == "" {
		dbPath = config.DBPath(cfg)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, cfg, err
	}
	defer func() { _ = st.Close() }()

	snap, err := st.LoadSnapshot()
	if err != nil {
		return nil, cfg, err
	}
	return snap, cfg, nil
}

// openStore opens the database for commands that write.
func openStore() (*store.Store, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, err
	}
	dbPath := flagDB
	if dbPath == "" {
		dbPath = config.DBPath(cfg)
	}
	st, err := store.Open(dbPath)
	return st, cfg, err
}

// today resolves the reference date: the --today override or the wall
// clock, truncated to a calendar date.
func today() (time.Time, error) {
	if flagToday == "" {
		return model.DateOf(time.Now()), nil
	}
	d, err := time.Parse("2006-01-02", flagToday)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --today %q (want YYYY-MM-DD)", flagToday)
	}
	return d, nil
}

// horizon resolves the forecast horizon from the flag or config.
func horizon(cfg config.Config, ref time.Time) time.Time {
	days := flagHorizon
	if days <= 0 {
		days = cfg.General.HorizonDays
	}
	return ref.AddDate(0, 0, days)
}

// syncConfig builds the date-consistency tunables from config.
func syncConfig(cfg config.Config) forecast.SyncConfig {
	sc := forecast.DefaultSyncConfig()
	if cfg.Planning.MinPhaseGapDays > 0 {
		sc.MinGapDays = cfg.Planning.MinPhaseGapDays
	}
	return sc
}

// filterProjects applies the --project substring filter.
func filterProjects(projects []model.Project) []model.Project {
	if flagProject == "" {
		return projects
	}
	var out []model.Project
	for _, p := range projects {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(flagProject)) {
			out = append(out, p)
		}
	}
	return out
}
