package forecast

import (
	"time"

	"foreplan/internal/model"
)

// RemainingWork is the result of the remaining-work calculation: hours
// still to be done and the future working days available to do them on.
type RemainingWork struct {
	RemainingHours float64
	CompletedHours float64
	Days           []time.Time

	// Overcommitted flags remaining hours with no remaining working
	// days. A real schedule the user may be in, reported rather than thrown.
	Overcommitted bool
}

// RemainingForProject computes a project's remaining estimated hours and
// its remaining working days: working days strictly after today, up to
// the effective end, not already consumed by a linked calendar event.
// Completed hours beyond the estimate clamp the remainder at zero: a
// project can be ahead of schedule, never negative-remaining.
func RemainingForProject(project model.Project, phases []model.Phase, events []model.CalendarEvent, in CapacityInputs, today, horizon time.Time) (RemainingWork, error) {
	end, err := EffectiveEnd(project, phases, horizon)
	if err != nil {
		return RemainingWork{}, err
	}

	completed := completedHours(project.ID, 0, events)
	remaining := project.EstimatedHours - completed
	if remaining < 0 {
		remaining = 0
	}

	days := remainingDays(project, project.StartDate, end, events, in, today)
	return RemainingWork{
		RemainingHours: remaining,
		CompletedHours: completed,
		Days:           days,
		Overcommitted:  remaining > 0 && len(days) == 0,
	}, nil
}

// RemainingForPhase is the phase-scoped variant: the phase's own hour
// allocation, date range, and completed-hours subtraction.
func RemainingForPhase(project model.Project, phase model.Phase, events []model.CalendarEvent, in CapacityInputs, today time.Time) (RemainingWork, error) {
	if phase.ProjectID != project.ID {
		return RemainingWork{}, contractErrorf("phase %d does not belong to project %d", phase.ID, project.ID)
	}
	if phase.Kind != model.PhaseExplicit {
		return RemainingWork{}, contractErrorf("phase %d is not an explicit phase", phase.ID)
	}

	completed := phaseCompletedHours(phase, events)
	remaining := phase.AllocationHours - completed
	if remaining < 0 {
		remaining = 0
	}

	days := remainingDays(project, phase.StartDate, model.DateOf(phase.EndDate), events, in, today)
	return RemainingWork{
		RemainingHours: remaining,
		CompletedHours: completed,
		Days:           days,
		Overcommitted:  remaining > 0 && len(days) == 0,
	}, nil
}

// remainingDays collects the working days in (today, end] ∩ [start, end]
// that carry no linked event for the project. The holiday exclusion is
// re-asserted on top of the working-day check: a project day override
// could otherwise re-admit a holiday weekday.
func remainingDays(project model.Project, start, end time.Time, events []model.CalendarEvent, in CapacityInputs, today time.Time) []time.Time {
	first := model.DateOf(today).AddDate(0, 0, 1)
	if s := model.DateOf(start); s.After(first) {
		first = s
	}

	consumed := eventDates(project.ID, events)

	var days []time.Time
	for d := first; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !IsWorkingDay(d, in, project.AutoDayOverrides) {
			continue
		}
		if in.IsHoliday(d) {
			continue
		}
		if _, ok := consumed[d]; ok {
			continue
		}
		days = append(days, d)
	}
	return days
}

// eventDates returns the set of dates consumed by any linked event
// (planned or completed) for the project. A single event of any
// duration removes the whole day from the auto-estimate pool.
func eventDates(projectID int64, events []model.CalendarEvent) map[time.Time]struct{} {
	dates := make(map[time.Time]struct{})
	for _, e := range events {
		if e.Linked() && e.ProjectID == projectID {
			dates[model.DateOf(e.Start)] = struct{}{}
		}
	}
	return dates
}

// completedHours sums the durations of completed linked events for a
// project (phaseID 0) or one phase.
func completedHours(projectID, phaseID int64, events []model.CalendarEvent) float64 {
	var hours float64
	for _, e := range events {
		if !e.Linked() || !e.Completed || e.ProjectID != projectID {
			continue
		}
		if phaseID != 0 && e.PhaseID != phaseID {
			continue
		}
		hours += e.DurationHours()
	}
	return hours
}

// phaseCompletedHours counts events explicitly linked to the phase, plus
// unlinked project events that fall inside the phase's date range.
func phaseCompletedHours(phase model.Phase, events []model.CalendarEvent) float64 {
	var hours float64
	for _, e := range events {
		if !e.Linked() || !e.Completed || e.ProjectID != phase.ProjectID {
			continue
		}
		if e.PhaseID == phase.ID {
			hours += e.DurationHours()
			continue
		}
		if e.PhaseID == 0 {
			d := model.DateOf(e.Start)
			if !d.Before(model.DateOf(phase.StartDate)) && !d.After(model.DateOf(phase.EndDate)) {
				hours += e.DurationHours()
			}
		}
	}
	return hours
}
