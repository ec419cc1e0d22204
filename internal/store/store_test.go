package store

import (
	"path/filepath"
	"testing"
	"time"

	"foreplan/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "foreplan.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestProjectRoundTrip(t *testing.T) {
	s := openTestStore(t)

	end := date(t, "2025-03-31")
	p := model.Project{
		Name:           "rewrite",
		StartDate:      date(t, "2025-01-01"),
		EndDate:        &end,
		EstimatedHours: 120,
		AutoDayOverrides: map[time.Weekday]bool{
			time.Saturday: true,
			time.Friday:   false,
		},
	}

	id, err := s.SaveProject(p)
	if err != nil {
		t.Fatalf("SaveProject: %v", err)
	}
	if id == 0 {
		t.Fatal("insert must assign an id")
	}

	projects, err := s.Projects()
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("projects = %d, want 1", len(projects))
	}
	got := projects[0]
	if got.Name != "rewrite" || got.EstimatedHours != 120 {
		t.Fatalf("loaded project = %+v", got)
	}
	if got.EndDate == nil || !got.EndDate.Equal(end) {
		t.Fatalf("end date = %v, want %s", got.EndDate, end)
	}
	if !got.AutoDayOverrides[time.Saturday] || got.AutoDayOverrides[time.Friday] {
		t.Fatalf("overrides = %v", got.AutoDayOverrides)
	}
}

func TestContinuousProjectKeepsNilEnd(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.SaveProject(model.Project{Name: "ongoing", StartDate: date(t, "2025-01-01")}); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}
	projects, err := s.Projects()
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	if projects[0].EndDate != nil {
		t.Fatalf("end date = %v, want nil", projects[0].EndDate)
	}
}

func TestRecurringPhaseRoundTrip(t *testing.T) {
	s := openTestStore(t)

	pid, err := s.SaveProject(model.Project{Name: "habits", StartDate: date(t, "2025-01-01")})
	if err != nil {
		t.Fatalf("SaveProject: %v", err)
	}

	ph := model.Phase{
		ProjectID:       pid,
		Name:            "weekly review",
		Kind:            model.PhaseRecurring,
		StartDate:       date(t, "2025-01-06"),
		AllocationHours: 10,
		Pattern: &model.RecurrencePattern{
			Freq:               model.FreqWeekly,
			Interval:           2,
			Weekdays:           []time.Weekday{time.Monday, time.Thursday},
			HoursPerOccurrence: 1.5,
		},
	}
	if _, err := s.SavePhase(ph); err != nil {
		t.Fatalf("SavePhase: %v", err)
	}

	phases, err := s.Phases()
	if err != nil {
		t.Fatalf("Phases: %v", err)
	}
	if len(phases) != 1 {
		t.Fatalf("phases = %d, want 1", len(phases))
	}
	got := phases[0]
	if got.Kind != model.PhaseRecurring || got.Pattern == nil {
		t.Fatalf("loaded phase = %+v", got)
	}
	if got.Pattern.Interval != 2 || got.Pattern.HoursPerOccurrence != 1.5 {
		t.Fatalf("pattern = %+v", got.Pattern)
	}
	if len(got.Pattern.Weekdays) != 2 || got.Pattern.Weekdays[0] != time.Monday || got.Pattern.Weekdays[1] != time.Thursday {
		t.Fatalf("weekdays = %v", got.Pattern.Weekdays)
	}
}

func TestDeleteProjectCascadesPhases(t *testing.T) {
	s := openTestStore(t)

	pid, err := s.SaveProject(model.Project{Name: "short", StartDate: date(t, "2025-01-01")})
	if err != nil {
		t.Fatalf("SaveProject: %v", err)
	}
	phase := model.Phase{
		ProjectID: pid, Name: "only", Kind: model.PhaseExplicit,
		StartDate: date(t, "2025-01-01"), EndDate: date(t, "2025-01-05"),
	}
	if _, err := s.SavePhase(phase); err != nil {
		t.Fatalf("SavePhase: %v", err)
	}

	if err := s.DeleteProject(pid); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	phases, err := s.Phases()
	if err != nil {
		t.Fatalf("Phases: %v", err)
	}
	if len(phases) != 0 {
		t.Fatalf("phases after cascade = %d, want 0", len(phases))
	}
}

func TestEventRoundTripAndComplete(t *testing.T) {
	s := openTestStore(t)

	start := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	id, err := s.SaveEvent(model.CalendarEvent{
		ProjectID: 1,
		Title:     "deep work",
		Start:     start,
		End:       start.Add(5 * time.Hour),
		Category:  model.CategoryEvent,
	})
	if err != nil {
		t.Fatalf("SaveEvent: %v", err)
	}

	if err := s.MarkEventCompleted(id, true); err != nil {
		t.Fatalf("MarkEventCompleted: %v", err)
	}

	events, err := s.Events()
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	e := events[0]
	if !e.Completed || e.DurationHours() != 5 {
		t.Fatalf("loaded event = %+v", e)
	}
	if !e.Linked() {
		t.Fatal("project-linked event must report Linked")
	}
}

func TestApplyPhaseEditUpdatesBoundsAtomically(t *testing.T) {
	s := openTestStore(t)

	end := date(t, "2025-01-20")
	pid, err := s.SaveProject(model.Project{Name: "site", StartDate: date(t, "2025-01-01"), EndDate: &end})
	if err != nil {
		t.Fatalf("SaveProject: %v", err)
	}

	ph := model.Phase{
		ProjectID: pid, Name: "build", Kind: model.PhaseExplicit,
		StartDate: date(t, "2025-01-11"), EndDate: date(t, "2025-01-25"),
		AllocationHours: 30,
	}
	if _, err := s.ApplyPhaseEdit(ph, &PhaseBounds{
		Start: date(t, "2025-01-01"),
		End:   date(t, "2025-01-25"),
	}); err != nil {
		t.Fatalf("ApplyPhaseEdit: %v", err)
	}

	projects, err := s.Projects()
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	if projects[0].EndDate == nil || !projects[0].EndDate.Equal(date(t, "2025-01-25")) {
		t.Fatalf("project end = %v, want 2025-01-25", projects[0].EndDate)
	}
	phases, err := s.Phases()
	if err != nil {
		t.Fatalf("Phases: %v", err)
	}
	if len(phases) != 1 || !phases[0].EndDate.Equal(date(t, "2025-01-25")) {
		t.Fatalf("phases = %+v", phases)
	}
}

func TestLoadSnapshot(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.SaveProject(model.Project{Name: "a", StartDate: date(t, "2025-01-01")}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveSlot(model.WorkSlot{Weekday: time.Monday, StartMin: 9 * 60, EndMin: 17 * 60}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveHoliday(model.Holiday{Name: "new year", StartDate: date(t, "2025-01-01"), EndDate: date(t, "2025-01-01"), RecursAnnually: true}); err != nil {
		t.Fatal(err)
	}

	snap, err := s.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(snap.Projects) != 1 || len(snap.Slots) != 1 || len(snap.Holidays) != 1 {
		t.Fatalf("snapshot = %d projects, %d slots, %d holidays", len(snap.Projects), len(snap.Slots), len(snap.Holidays))
	}
	if !snap.Holidays[0].RecursAnnually {
		t.Fatal("holiday recurrence flag lost")
	}
}

func TestSaveSlotRejectsInvalid(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.SaveSlot(model.WorkSlot{Weekday: time.Monday, StartMin: 600, EndMin: 540}); err == nil {
		t.Fatal("negative-duration slot must be rejected")
	}
}
