package forecast

import (
	"math"
	"testing"
	"time"

	"foreplan/internal/model"
)

func TestProjectStatuses_RollUp(t *testing.T) {
	snap := &model.Snapshot{
		Projects: []model.Project{tenDayProject(t)},
		Events:   []model.CalendarEvent{completedEvent(t, 1, "2025-01-02", 5)},
		Slots:    weekdaySlots(),
	}
	today := mustDate(t, "2025-01-02")

	statuses, err := ProjectStatuses(snap, today, time.Time{})
	if err != nil {
		t.Fatalf("ProjectStatuses: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("statuses = %d, want 1", len(statuses))
	}

	st := statuses[0]
	if st.CompletedHours != 5 || st.RemainingHours != 95 {
		t.Fatalf("completed/remaining = %v/%v, want 5/95", st.CompletedHours, st.RemainingHours)
	}
	// Jan 3, 6, 7, 8, 9, 10 remain after today.
	if st.RemainingDays != 6 {
		t.Fatalf("remaining days = %d, want 6", st.RemainingDays)
	}
	if math.Abs(st.HoursPerDay-95.0/6.0) > 1e-9 {
		t.Fatalf("hours per day = %v, want %v", st.HoursPerDay, 95.0/6.0)
	}
	// 6 working days of 8h slots.
	if st.CapacityHours != 48 {
		t.Fatalf("capacity = %v, want 48", st.CapacityHours)
	}
}

func TestPace_BehindWhenNothingDoneHalfwayIn(t *testing.T) {
	snap := &model.Snapshot{
		Projects: []model.Project{tenDayProject(t)},
		Slots:    weekdaySlots(),
	}
	// Jan 6: 4 of 8 working days elapsed, zero hours logged.
	statuses, err := ProjectStatuses(snap, mustDate(t, "2025-01-06"), time.Time{})
	if err != nil {
		t.Fatalf("ProjectStatuses: %v", err)
	}
	if statuses[0].Pace != PaceBehind {
		t.Fatalf("pace = %s, want %s", statuses[0].Pace, PaceBehind)
	}
}

func TestPace_AheadWhenFinishedEarly(t *testing.T) {
	snap := &model.Snapshot{
		Projects: []model.Project{tenDayProject(t)},
		Events:   []model.CalendarEvent{completedEvent(t, 1, "2025-01-02", 80)},
		Slots:    weekdaySlots(),
	}
	statuses, err := ProjectStatuses(snap, mustDate(t, "2025-01-03"), time.Time{})
	if err != nil {
		t.Fatalf("ProjectStatuses: %v", err)
	}
	if statuses[0].Pace != PaceAhead {
		t.Fatalf("pace = %s, want %s", statuses[0].Pace, PaceAhead)
	}
}

func TestPace_ContinuousProjectIsAlwaysOnTrack(t *testing.T) {
	p := model.Project{ID: 1, Name: "maintenance", StartDate: mustDate(t, "2025-01-01"), EstimatedHours: 40}
	snap := &model.Snapshot{Projects: []model.Project{p}, Slots: weekdaySlots()}

	statuses, err := ProjectStatuses(snap, mustDate(t, "2025-01-06"), mustDate(t, "2025-03-31"))
	if err != nil {
		t.Fatalf("ProjectStatuses: %v", err)
	}
	if statuses[0].Pace != PaceOnTrack {
		t.Fatalf("pace = %s, want %s", statuses[0].Pace, PaceOnTrack)
	}
}

func TestScheduleLoad_FlagsOverloadedDays(t *testing.T) {
	snap := &model.Snapshot{
		Projects: []model.Project{
			{ID: 1, Name: "a", StartDate: mustDate(t, "2025-01-06"), EndDate: datePtr(t, "2025-01-07"), EstimatedHours: 12},
			{ID: 2, Name: "b", StartDate: mustDate(t, "2025-01-06"), EndDate: datePtr(t, "2025-01-07"), EstimatedHours: 12},
		},
		Slots: weekdaySlots(),
	}
	today := mustDate(t, "2025-01-05")

	loads, warns, err := ScheduleLoad(snap, today, mustDate(t, "2025-01-07"))
	if err != nil {
		t.Fatalf("ScheduleLoad: %v", err)
	}
	if len(warns) != 0 {
		t.Fatalf("warnings = %v, want none", warns)
	}
	if len(loads) != 2 {
		t.Fatalf("loads = %d, want 2 days", len(loads))
	}
	for _, l := range loads {
		// 12h per day against an 8h slot day.
		if math.Abs(l.EstimatedHours-12) > 1e-9 {
			t.Fatalf("%s estimated = %v, want 12", l.Date.Format("2006-01-02"), l.EstimatedHours)
		}
		if l.CapacityHours != 8 {
			t.Fatalf("capacity = %v, want 8", l.CapacityHours)
		}
		if !l.Overloaded() {
			t.Fatalf("%s should be overloaded", l.Date.Format("2006-01-02"))
		}
	}
}

func TestScheduleLoad_NonWorkingDayNeverOverloaded(t *testing.T) {
	d := DayLoad{Date: time.Now(), EstimatedHours: 10, CapacityHours: 0}
	if d.Overloaded() {
		t.Fatal("a non-working day cannot be overloaded")
	}
}
