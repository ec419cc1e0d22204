// Package model defines domain types for foreplan projects, phases, and capacity.
package model

import (
	"fmt"
	"time"
)

// WorkSlot is a weekly-recurring block of available working time.
// Multiple slots may exist for the same weekday (e.g. split by a lunch break).
// A slot never crosses midnight.
type WorkSlot struct {
	ID       int64
	Weekday  time.Weekday
	StartMin int // minutes from midnight
	EndMin   int
}

// DurationHours returns the slot length in hours.
func (s WorkSlot) DurationHours() float64 {
	return float64(s.EndMin-s.StartMin) / 60
}

// Validate checks the slot invariants: positive duration, within one day.
func (s WorkSlot) Validate() error {
	if s.StartMin < 0 || s.EndMin > 24*60 {
		return fmt.Errorf("work slot outside 00:00-24:00 (start=%d end=%d)", s.StartMin, s.EndMin)
	}
	if s.EndMin <= s.StartMin {
		return fmt.Errorf("work slot duration must be positive (start=%d end=%d)", s.StartMin, s.EndMin)
	}
	return nil
}

// WorkHourException overrides one slot on one specific calendar date.
// Removed slots contribute no capacity; otherwise StartMin/EndMin replace
// the slot's regular times for that date.
type WorkHourException struct {
	ID       int64
	Date     time.Time
	SlotID   int64
	Removed  bool
	StartMin int
	EndMin   int
}

// Holiday is a date range with zero capacity, overriding all work slots.
type Holiday struct {
	ID             int64
	Name           string
	StartDate      time.Time
	EndDate        time.Time
	RecursAnnually bool
}

// Contains reports whether date falls inside the holiday range,
// accounting for annual recurrence (including ranges that cross New Year).
func (h Holiday) Contains(date time.Time) bool {
	d := DateOf(date)
	if !h.RecursAnnually {
		return !d.Before(DateOf(h.StartDate)) && !d.After(DateOf(h.EndDate))
	}

	// Annual: project the range into the candidate year(s). Ranges that
	// cross December 31 need the projection anchored in both years.
	spanDays := int(DateOf(h.EndDate).Sub(DateOf(h.StartDate)).Hours() / 24)
	for _, year := range []int{d.Year() - 1, d.Year()} {
		start := time.Date(year, h.StartDate.Month(), h.StartDate.Day(), 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, spanDays)
		if !d.Before(start) && !d.After(end) {
			return true
		}
	}
	return false
}

// Project is a body of estimated work with a date range.
// EndDate nil means the project is continuous (no natural end); callers
// must supply an explicit horizon for any computation over it.
type Project struct {
	ID             int64
	Name           string
	StartDate      time.Time
	EndDate        *time.Time
	EstimatedHours float64

	// AutoDayOverrides restricts (or extends) which weekdays count as
	// working days for this project's auto-estimation. Nil means the
	// user-level work slots decide. Holidays always win.
	AutoDayOverrides map[time.Weekday]bool
}

// Continuous reports whether the project has no end date.
func (p Project) Continuous() bool {
	return p.EndDate == nil
}

// Validate checks the project invariants.
func (p Project) Validate() error {
	if p.EstimatedHours < 0 {
		return fmt.Errorf("project %q: estimated hours must be >= 0", p.Name)
	}
	if p.EndDate != nil && !p.EndDate.After(p.StartDate) {
		return fmt.Errorf("project %q: end date must be after start date", p.Name)
	}
	return nil
}

// PhaseKind discriminates the two phase variants. The variant is resolved
// once when loading, so downstream code branches on Kind instead of
// probing optional fields.
type PhaseKind string

const (
	PhaseExplicit  PhaseKind = "explicit"
	PhaseRecurring PhaseKind = "recurring"
)

// Phase is a bounded slice of a project carrying part of its hour budget.
// Explicit phases have fixed dates; a recurring phase generates its dates
// from Pattern. A project has either explicit phases or one recurring
// phase, never both.
type Phase struct {
	ID              int64
	ProjectID       int64
	Name            string
	Kind            PhaseKind
	StartDate       time.Time // explicit only
	EndDate         time.Time // explicit only
	Pattern         *RecurrencePattern
	AllocationHours float64
}

// Frequency is the recurrence base unit.
type Frequency string

const (
	FreqDaily   Frequency = "daily"
	FreqWeekly  Frequency = "weekly"
	FreqMonthly Frequency = "monthly"
)

// RecurrencePattern describes when a recurring phase occurs.
// Monthly patterns use either MonthDay (date-of-month) or
// WeekOfMonth+Weekday (e.g. 2nd Tuesday); MonthDay takes precedence
// when both are set.
type RecurrencePattern struct {
	Freq        Frequency
	Interval    int // every N days/weeks/months
	Weekdays    []time.Weekday
	MonthDay    int
	WeekOfMonth int
	Weekday     time.Weekday

	// HoursPerOccurrence is the time budget attached to each generated
	// occurrence. Zero falls back to the phase's allocation hours.
	HoursPerOccurrence float64
}

// EventCategory distinguishes plain calendar events from habits and tasks.
// Only plain events participate in allocation.
type EventCategory string

const (
	CategoryEvent EventCategory = "event"
	CategoryHabit EventCategory = "habit"
	CategoryTask  EventCategory = "task"
)

// CalendarEvent is a concrete scheduled block. An event linked to a
// project (ProjectID != 0, Category == event) consumes its calendar date
// for that project: the date leaves the auto-estimate pool entirely.
type CalendarEvent struct {
	ID        int64
	ProjectID int64 // 0 = not linked to a project
	PhaseID   int64 // 0 = not linked to a phase
	Title     string
	Start     time.Time
	End       time.Time
	Completed bool
	Category  EventCategory
}

// Linked reports whether the event participates in project allocation.
func (e CalendarEvent) Linked() bool {
	return e.ProjectID != 0 && e.Category == CategoryEvent
}

// DurationHours returns the event length in hours.
func (e CalendarEvent) DurationHours() float64 {
	return e.End.Sub(e.Start).Hours()
}

// DateOf truncates a time to its calendar date (midnight UTC).
// All engine math treats dates at this granularity.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether two times fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// ParseClock parses "HH:MM" into minutes from midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	return h*60 + m, nil
}

// FormatClock formats minutes from midnight as "HH:MM".
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
