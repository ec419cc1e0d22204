package tui

import (
	"strconv"
	"time"

	"foreplan/internal/config"
	"foreplan/internal/model"
	"foreplan/internal/store"
	"foreplan/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues collects the first-run wizard answers.
type setupValues struct {
	workPreset  string // "standard", "split", or "skip"
	horizonDays string
	themeName   string
}

// newSetupForm builds the first-run setup form. slotCount is the number
// of work slots already in the store; seeding is skipped when any exist.
func newSetupForm(slotCount int, vals *setupValues) *huh.Form {
	vals.workPreset = "standard"
	vals.horizonDays = "90"
	vals.themeName = theme.Active.Name

	workGroup := huh.NewGroup(
		huh.NewSelect[string]().
			Title("Working hours").
			Description("Weekly schedule used to compute daily capacity.").
			Options(
				huh.NewOption("Mon-Fri, 9:00-17:00", "standard"),
				huh.NewOption("Mon-Fri, 9:00-12:30 and 13:30-18:00", "split"),
				huh.NewOption("Skip, I'll add slots myself", "skip"),
			).
			Value(&vals.workPreset),
	)

	horizonGroup := huh.NewGroup(
		huh.NewSelect[string]().
			Title("Forecast horizon").
			Description("How far ahead to plan continuous projects.").
			Options(
				huh.NewOption("30 days", "30"),
				huh.NewOption("90 days", "90"),
				huh.NewOption("180 days", "180"),
			).
			Value(&vals.horizonDays),
	)

	themeOptions := make([]huh.Option[string], 0, len(theme.All))
	for _, th := range theme.All {
		themeOptions = append(themeOptions, huh.NewOption(th.Name, th.Name))
	}
	themeGroup := huh.NewGroup(
		huh.NewSelect[string]().
			Title("Color theme").
			Options(themeOptions...).
			Value(&vals.themeName),
	)

	groups := []*huh.Group{horizonGroup, themeGroup}
	if slotCount == 0 {
		groups = append([]*huh.Group{workGroup}, groups...)
	}

	return huh.NewForm(groups...)
}

// saveSetupConfig persists the wizard answers: config file plus, when a
// work-hour preset was chosen on an empty store, the seeded slots.
func (a *App) saveSetupConfig() error {
	cfg := loadConfigOrDefault()

	if days, err := strconv.Atoi(a.setupVals.horizonDays); err == nil && days > 0 {
		cfg.General.HorizonDays = days
		a.horizon = a.today.AddDate(0, 0, days)
	}

	if a.setupVals.themeName != "" {
		cfg.Appearance.Theme = a.setupVals.themeName
		theme.SetActive(a.setupVals.themeName)
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	if a.setupVals.workPreset == "standard" || a.setupVals.workPreset == "split" {
		if err := a.seedSlots(a.setupVals.workPreset); err != nil {
			return err
		}
	}
	return nil
}

// seedSlots writes the preset's weekly slots, but only on a store that
// still has none.
func (a *App) seedSlots(preset string) error {
	st, err := store.Open(a.dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	existing, err := st.Slots()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	type block struct{ startMin, endMin int }
	blocks := []block{{9 * 60, 17 * 60}}
	if preset == "split" {
		blocks = []block{
			{9 * 60, 12*60 + 30},
			{13*60 + 30, 18 * 60},
		}
	}

	for wd := time.Monday; wd <= time.Friday; wd++ {
		for _, bl := range blocks {
			slot := model.WorkSlot{Weekday: wd, StartMin: bl.startMin, EndMin: bl.endMin}
			if _, err := st.SaveSlot(slot); err != nil {
				return err
			}
		}
	}
	return nil
}
