package forecast

import (
	"math"
	"testing"
	"time"

	"foreplan/internal/model"
)

// tenDayProject is the recurring fixture: 100h across Jan 1-10 2025
// with Mon-Fri slots. Working days: Jan 1,2,3,6,7,8,9,10 (8 days).
func tenDayProject(t *testing.T) model.Project {
	t.Helper()
	return model.Project{
		ID:             1,
		Name:           "launch",
		StartDate:      mustDate(t, "2025-01-01"),
		EndDate:        datePtr(t, "2025-01-10"),
		EstimatedHours: 100,
	}
}

func completedEvent(t *testing.T, projectID int64, day string, hours int) model.CalendarEvent {
	t.Helper()
	start := mustDate(t, day).Add(9 * time.Hour)
	return model.CalendarEvent{
		ID:        int64(hours),
		ProjectID: projectID,
		Title:     "work block",
		Start:     start,
		End:       start.Add(time.Duration(hours) * time.Hour),
		Completed: true,
		Category:  model.CategoryEvent,
	}
}

func TestRemainingForProject_EightWorkingDays(t *testing.T) {
	in := CapacityInputs{Slots: weekdaySlots()}
	today := mustDate(t, "2024-12-31")

	rem, err := RemainingForProject(tenDayProject(t), nil, nil, in, today, time.Time{})
	if err != nil {
		t.Fatalf("RemainingForProject: %v", err)
	}

	if rem.RemainingHours != 100 {
		t.Fatalf("remaining = %v, want 100", rem.RemainingHours)
	}
	if len(rem.Days) != 8 {
		t.Fatalf("remaining days = %d, want 8 (weekend excluded)", len(rem.Days))
	}
	if rem.Overcommitted {
		t.Fatal("project with free days should not be overcommitted")
	}
}

func TestRemainingForProject_CompletedEventSubtractsAndConsumesDay(t *testing.T) {
	in := CapacityInputs{Slots: weekdaySlots()}
	today := mustDate(t, "2024-12-31")
	events := []model.CalendarEvent{completedEvent(t, 1, "2025-01-02", 5)}

	rem, err := RemainingForProject(tenDayProject(t), nil, events, in, today, time.Time{})
	if err != nil {
		t.Fatalf("RemainingForProject: %v", err)
	}

	if rem.RemainingHours != 95 {
		t.Fatalf("remaining = %v, want 95", rem.RemainingHours)
	}
	if len(rem.Days) != 7 {
		t.Fatalf("remaining days = %d, want 7 (event day consumed)", len(rem.Days))
	}
	for _, d := range rem.Days {
		if d.Equal(mustDate(t, "2025-01-02")) {
			t.Fatal("event day must leave the auto-estimate pool")
		}
	}
}

func TestRemainingForProject_PlannedEventAlsoConsumesDay(t *testing.T) {
	in := CapacityInputs{Slots: weekdaySlots()}
	today := mustDate(t, "2024-12-31")

	ev := completedEvent(t, 1, "2025-01-03", 1)
	ev.Completed = false
	rem, err := RemainingForProject(tenDayProject(t), nil, []model.CalendarEvent{ev}, in, today, time.Time{})
	if err != nil {
		t.Fatalf("RemainingForProject: %v", err)
	}

	// Planned events consume the day but subtract nothing.
	if rem.RemainingHours != 100 {
		t.Fatalf("remaining = %v, want 100", rem.RemainingHours)
	}
	if len(rem.Days) != 7 {
		t.Fatalf("remaining days = %d, want 7", len(rem.Days))
	}
}

func TestRemainingForProject_NeverNegative(t *testing.T) {
	in := CapacityInputs{Slots: weekdaySlots()}
	today := mustDate(t, "2024-12-31")

	p := tenDayProject(t)
	p.EstimatedHours = 3
	events := []model.CalendarEvent{completedEvent(t, 1, "2025-01-02", 8)}

	rem, err := RemainingForProject(p, nil, events, in, today, time.Time{})
	if err != nil {
		t.Fatalf("RemainingForProject: %v", err)
	}
	if rem.RemainingHours != 0 {
		t.Fatalf("remaining = %v, want 0 (ahead of schedule clamps)", rem.RemainingHours)
	}
}

func TestRemainingForProject_PastDaysExcluded(t *testing.T) {
	in := CapacityInputs{Slots: weekdaySlots()}
	today := mustDate(t, "2025-01-06")

	rem, err := RemainingForProject(tenDayProject(t), nil, nil, in, today, time.Time{})
	if err != nil {
		t.Fatalf("RemainingForProject: %v", err)
	}

	// Strictly after Jan 6: Jan 7,8,9,10.
	if len(rem.Days) != 4 {
		t.Fatalf("remaining days = %d, want 4", len(rem.Days))
	}
	if rem.Days[0].Equal(today) {
		t.Fatal("today itself must not be in the pool")
	}
}

func TestRemainingForProject_Overcommitted(t *testing.T) {
	in := CapacityInputs{Slots: weekdaySlots()}
	// Past the project end: no candidate days remain.
	today := mustDate(t, "2025-01-10")

	rem, err := RemainingForProject(tenDayProject(t), nil, nil, in, today, time.Time{})
	if err != nil {
		t.Fatalf("RemainingForProject: %v", err)
	}
	if !rem.Overcommitted {
		t.Fatal("remaining hours with zero remaining days should flag overcommitted")
	}
	if len(rem.Days) != 0 {
		t.Fatalf("remaining days = %d, want 0", len(rem.Days))
	}
}

func TestRemainingForProject_OverrideCannotReadmitHoliday(t *testing.T) {
	in := CapacityInputs{
		Slots: weekdaySlots(),
		Holidays: []model.Holiday{{
			StartDate: mustDate(t, "2025-01-06"),
			EndDate:   mustDate(t, "2025-01-06"),
		}},
	}
	p := tenDayProject(t)
	p.AutoDayOverrides = map[time.Weekday]bool{time.Monday: true}
	today := mustDate(t, "2024-12-31")

	rem, err := RemainingForProject(p, nil, nil, in, today, time.Time{})
	if err != nil {
		t.Fatalf("RemainingForProject: %v", err)
	}
	for _, d := range rem.Days {
		if d.Equal(mustDate(t, "2025-01-06")) {
			t.Fatal("holiday Monday must stay excluded despite the override")
		}
	}
}

func TestRemainingForPhase_OwnBudgetAndRange(t *testing.T) {
	in := CapacityInputs{Slots: weekdaySlots()}
	p := model.Project{
		ID:        1,
		Name:      "site",
		StartDate: mustDate(t, "2025-01-01"),
		EndDate:   datePtr(t, "2025-01-31"),
	}
	phase := model.Phase{
		ID:              2,
		ProjectID:       1,
		Name:            "build",
		Kind:            model.PhaseExplicit,
		StartDate:       mustDate(t, "2025-01-06"),
		EndDate:         mustDate(t, "2025-01-10"),
		AllocationHours: 20,
	}
	events := []model.CalendarEvent{
		func() model.CalendarEvent {
			e := completedEvent(t, 1, "2025-01-07", 4)
			e.PhaseID = 2
			return e
		}(),
	}
	today := mustDate(t, "2025-01-05")

	rem, err := RemainingForPhase(p, phase, events, in, today)
	if err != nil {
		t.Fatalf("RemainingForPhase: %v", err)
	}
	if math.Abs(rem.RemainingHours-16) > 1e-9 {
		t.Fatalf("remaining = %v, want 16", rem.RemainingHours)
	}
	// Jan 6,8,9,10 (Jan 7 consumed by the event).
	if len(rem.Days) != 4 {
		t.Fatalf("remaining days = %d, want 4", len(rem.Days))
	}
}

func TestRemainingForPhase_WrongProjectIsContractError(t *testing.T) {
	p := model.Project{ID: 1, StartDate: mustDate(t, "2025-01-01"), EndDate: datePtr(t, "2025-01-31")}
	phase := model.Phase{ID: 2, ProjectID: 99, Kind: model.PhaseExplicit}

	if _, err := RemainingForPhase(p, phase, nil, CapacityInputs{}, mustDate(t, "2025-01-01")); err == nil {
		t.Fatal("phase from a different project must fail the contract check")
	}
}
