package forecast

import (
	"testing"
	"time"

	"foreplan/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func datePtr(t *testing.T, s string) *time.Time {
	t.Helper()
	d := mustDate(t, s)
	return &d
}

// weekdaySlots returns Mon-Fri 09:00-17:00 slots (8h/day).
func weekdaySlots() []model.WorkSlot {
	slots := make([]model.WorkSlot, 0, 5)
	for i, wd := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday} {
		slots = append(slots, model.WorkSlot{
			ID:       int64(i + 1),
			Weekday:  wd,
			StartMin: 9 * 60,
			EndMin:   17 * 60,
		})
	}
	return slots
}

func TestIsWorkingDay_SlotsDecide(t *testing.T) {
	in := CapacityInputs{Slots: weekdaySlots()}

	if !IsWorkingDay(mustDate(t, "2025-01-06"), in, nil) { // Monday
		t.Fatal("Monday with a slot should be a working day")
	}
	if IsWorkingDay(mustDate(t, "2025-01-04"), in, nil) { // Saturday
		t.Fatal("Saturday without a slot should not be a working day")
	}
}

func TestIsWorkingDay_NoSlotsMeansNoWorkingDays(t *testing.T) {
	// Conservative default: absent settings yield zero capacity, not an error.
	if IsWorkingDay(mustDate(t, "2025-01-06"), CapacityInputs{}, nil) {
		t.Fatal("no slots configured should mean no working days")
	}
}

func TestIsWorkingDay_ProjectOverrides(t *testing.T) {
	in := CapacityInputs{Slots: weekdaySlots()}
	overrides := map[time.Weekday]bool{
		time.Saturday: true,  // work Saturdays on this project
		time.Friday:   false, // but never Fridays
	}

	if !IsWorkingDay(mustDate(t, "2025-01-04"), in, overrides) {
		t.Fatal("override should make Saturday a working day")
	}
	if IsWorkingDay(mustDate(t, "2025-01-03"), in, overrides) {
		t.Fatal("override should remove Friday")
	}
	// Weekday not in the override map falls back to slots.
	if !IsWorkingDay(mustDate(t, "2025-01-06"), in, overrides) {
		t.Fatal("Monday should fall back to slot configuration")
	}
}

func TestIsWorkingDay_HolidayBeatsEverything(t *testing.T) {
	in := CapacityInputs{
		Slots: weekdaySlots(),
		Holidays: []model.Holiday{{
			StartDate: mustDate(t, "2025-01-06"),
			EndDate:   mustDate(t, "2025-01-07"),
		}},
	}
	overrides := map[time.Weekday]bool{time.Monday: true}

	if IsWorkingDay(mustDate(t, "2025-01-06"), in, overrides) {
		t.Fatal("holiday must win over an override marking the day working")
	}
	if IsWorkingDay(mustDate(t, "2025-01-07"), in, nil) {
		t.Fatal("holiday must win over slot configuration")
	}
	if !IsWorkingDay(mustDate(t, "2025-01-08"), in, nil) {
		t.Fatal("day after the holiday should be working again")
	}
}

func TestHoliday_RecursAnnually(t *testing.T) {
	h := model.Holiday{
		StartDate:      mustDate(t, "2020-12-24"),
		EndDate:        mustDate(t, "2020-12-26"),
		RecursAnnually: true,
	}

	if !h.Contains(mustDate(t, "2025-12-25")) {
		t.Fatal("annual holiday should recur in later years")
	}
	if h.Contains(mustDate(t, "2025-12-27")) {
		t.Fatal("date outside the projected range should not match")
	}
}

func TestHoliday_AnnualAcrossNewYear(t *testing.T) {
	h := model.Holiday{
		StartDate:      mustDate(t, "2020-12-30"),
		EndDate:        mustDate(t, "2021-01-02"),
		RecursAnnually: true,
	}

	if !h.Contains(mustDate(t, "2026-01-01")) {
		t.Fatal("annual range crossing New Year should cover January 1")
	}
	if !h.Contains(mustDate(t, "2025-12-31")) {
		t.Fatal("annual range crossing New Year should cover December 31")
	}
}

func TestCapacityForDate_SumsSlots(t *testing.T) {
	// Split day: 09:00-12:00 and 13:00-17:00 on Monday.
	in := CapacityInputs{Slots: []model.WorkSlot{
		{ID: 1, Weekday: time.Monday, StartMin: 9 * 60, EndMin: 12 * 60},
		{ID: 2, Weekday: time.Monday, StartMin: 13 * 60, EndMin: 17 * 60},
	}}

	got := CapacityForDate(mustDate(t, "2025-01-06"), in)
	if got != 7 {
		t.Fatalf("capacity = %v, want 7", got)
	}
	if c := CapacityForDate(mustDate(t, "2025-01-07"), in); c != 0 {
		t.Fatalf("Tuesday capacity = %v, want 0", c)
	}
}

func TestCapacityForDate_ExceptionRemovesSlot(t *testing.T) {
	in := CapacityInputs{
		Slots: weekdaySlots(),
		Exceptions: []model.WorkHourException{{
			Date:    mustDate(t, "2025-01-06"),
			SlotID:  1, // Monday slot
			Removed: true,
		}},
	}

	if c := CapacityForDate(mustDate(t, "2025-01-06"), in); c != 0 {
		t.Fatalf("capacity with removed slot = %v, want 0", c)
	}
	// Next Monday is unaffected: the exception is date-keyed.
	if c := CapacityForDate(mustDate(t, "2025-01-13"), in); c != 8 {
		t.Fatalf("capacity next Monday = %v, want 8", c)
	}
}

func TestCapacityForDate_ExceptionModifiesTimes(t *testing.T) {
	in := CapacityInputs{
		Slots: weekdaySlots(),
		Exceptions: []model.WorkHourException{{
			Date:     mustDate(t, "2025-01-06"),
			SlotID:   1,
			StartMin: 9 * 60,
			EndMin:   13 * 60, // half day
		}},
	}

	if c := CapacityForDate(mustDate(t, "2025-01-06"), in); c != 4 {
		t.Fatalf("capacity with shortened slot = %v, want 4", c)
	}
}

func TestCapacityForDate_HolidayZero(t *testing.T) {
	in := CapacityInputs{
		Slots: weekdaySlots(),
		Holidays: []model.Holiday{{
			StartDate: mustDate(t, "2025-01-06"),
			EndDate:   mustDate(t, "2025-01-06"),
		}},
	}

	if c := CapacityForDate(mustDate(t, "2025-01-06"), in); c != 0 {
		t.Fatalf("holiday capacity = %v, want 0", c)
	}
}

func TestCapacityForRange_IndependentDays(t *testing.T) {
	in := CapacityInputs{Slots: weekdaySlots()}

	// Jan 6-12 2025: Mon-Fri working, Sat+Sun not -> 5 * 8h.
	got := CapacityForRange(mustDate(t, "2025-01-06"), mustDate(t, "2025-01-12"), in)
	if got != 40 {
		t.Fatalf("range capacity = %v, want 40", got)
	}
}
