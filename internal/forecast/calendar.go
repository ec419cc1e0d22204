// Package forecast implements the time allocation and date-consistency
// engine: working-day and capacity calculation, recurring phase
// expansion, remaining-work math, auto-estimation, and project/phase
// date synchronization. Every function is a pure, deterministic
// function of its inputs; the caller supplies "today" and any horizon.
package forecast

import (
	"time"

	"foreplan/internal/model"
)

// CapacityInputs bundles the user-level availability data every
// calculation needs: weekly work slots, per-date exceptions, and
// holidays. Threaded explicitly through each call; there is no
// ambient settings state.
type CapacityInputs struct {
	Slots      []model.WorkSlot
	Exceptions []model.WorkHourException
	Holidays   []model.Holiday
}

// IsHoliday reports whether date falls within any holiday range.
func (in CapacityInputs) IsHoliday(date time.Time) bool {
	for _, h := range in.Holidays {
		if h.Contains(date) {
			return true
		}
	}
	return false
}

// slotsOn returns the slots applicable to a specific date, with
// exceptions for that exact date applied. Removed slots are dropped;
// time-modified slots carry the overridden times.
func (in CapacityInputs) slotsOn(date time.Time) []model.WorkSlot {
	var out []model.WorkSlot
	for _, s := range in.Slots {
		if s.Weekday != date.Weekday() {
			continue
		}
		slot := s
		removed := false
		for _, ex := range in.Exceptions {
			if ex.SlotID != s.ID || !model.SameDate(ex.Date, date) {
				continue
			}
			if ex.Removed {
				removed = true
				break
			}
			slot.StartMin = ex.StartMin
			slot.EndMin = ex.EndMin
		}
		if !removed {
			out = append(out, slot)
		}
	}
	return out
}

// IsWorkingDay reports whether date is a working day. overrides is an
// optional project-level day-of-week map; when it carries an entry for
// the weekday, that entry decides instead of the slot configuration.
// A holiday always wins, even over an override that would mark the day
// working. No slots configured means no working days.
func IsWorkingDay(date time.Time, in CapacityInputs, overrides map[time.Weekday]bool) bool {
	if in.IsHoliday(date) {
		return false
	}
	if overrides != nil {
		if working, ok := overrides[date.Weekday()]; ok {
			return working
		}
	}
	return len(in.slotsOn(date)) > 0
}

// CapacityForDate returns the available hours on one date: the summed
// durations of its applicable slots, or 0 on holidays.
func CapacityForDate(date time.Time, in CapacityInputs) float64 {
	if in.IsHoliday(date) {
		return 0
	}
	var hours float64
	for _, s := range in.slotsOn(date) {
		hours += s.DurationHours()
	}
	return hours
}

// CapacityForRange sums CapacityForDate over [start, end] inclusive.
// Each date is evaluated independently; there is no cross-day carry.
func CapacityForRange(start, end time.Time, in CapacityInputs) float64 {
	var hours float64
	for d := model.DateOf(start); !d.After(model.DateOf(end)); d = d.AddDate(0, 0, 1) {
		hours += CapacityForDate(d, in)
	}
	return hours
}
