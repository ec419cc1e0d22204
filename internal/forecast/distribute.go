package forecast

import (
	"sort"
	"time"

	"foreplan/internal/model"
)

// ComputeDayEstimates is the top-level allocation entry point. For each
// date in the project's scope it emits at most one DayEstimate: event
// days carry the event's hours (source "event"), remaining working days
// carry an even share of the remaining hours (source "phase-allocation"
// when the project has explicit phases, "project-auto-estimate"
// otherwise). Degenerate states (remaining hours with no remaining
// days) surface as warnings, never as a division by zero.
//
// Given identical inputs (including today), the output is identical:
// nothing here reads a clock or iterates a map in arbitrary order.
func ComputeDayEstimates(project model.Project, phases []model.Phase, events []model.CalendarEvent, in CapacityInputs, today, horizon time.Time) ([]model.DayEstimate, []model.Warning, error) {
	if err := project.Validate(); err != nil {
		return nil, nil, err
	}
	for _, ph := range phases {
		if ph.ProjectID != project.ID {
			return nil, nil, contractErrorf("phase %d does not belong to project %d", ph.ID, project.ID)
		}
	}

	end, err := EffectiveEnd(project, phases, horizon)
	if err != nil {
		return nil, nil, err
	}
	start := model.DateOf(project.StartDate)

	var estimates []model.DayEstimate
	var warnings []model.Warning

	if len(in.Slots) == 0 {
		warnings = append(warnings, model.Warning{Code: model.WarnNoCapacity, ProjectID: project.ID})
	}

	// Event days first: an event consumes its date for this project,
	// whatever else the estimation would have put there.
	estimates = append(estimates, eventEstimates(project, events, in, start, end)...)

	explicit, recurring := splitPhases(phases)
	switch {
	case recurring != nil:
		est, warn, err := distributeRecurring(project, *recurring, events, in, today, end)
		if err != nil {
			return nil, nil, err
		}
		estimates = append(estimates, est...)
		warnings = append(warnings, warn...)

	case len(explicit) > 0:
		// Each phase distributes against its own budget, range, and
		// completed hours. The whole-project estimate is not consulted.
		for _, ph := range explicit {
			rem, err := RemainingForPhase(project, ph, events, in, today)
			if err != nil {
				return nil, nil, err
			}
			if rem.Overcommitted {
				warnings = append(warnings, model.Warning{
					Code:           model.WarnOvercommitted,
					ProjectID:      project.ID,
					PhaseID:        ph.ID,
					RemainingHours: rem.RemainingHours,
				})
				continue
			}
			if len(rem.Days) == 0 {
				continue
			}
			share := rem.RemainingHours / float64(len(rem.Days))
			for _, d := range rem.Days {
				estimates = append(estimates, model.DayEstimate{
					Date:         d,
					ProjectID:    project.ID,
					PhaseID:      ph.ID,
					Hours:        share,
					Source:       model.SourcePhaseAllocation,
					IsWorkingDay: true,
				})
			}
		}

	default:
		rem, err := RemainingForProject(project, phases, events, in, today, horizon)
		if err != nil {
			return nil, nil, err
		}
		if rem.Overcommitted {
			warnings = append(warnings, model.Warning{
				Code:           model.WarnOvercommitted,
				ProjectID:      project.ID,
				RemainingHours: rem.RemainingHours,
			})
		} else if len(rem.Days) > 0 {
			share := rem.RemainingHours / float64(len(rem.Days))
			for _, d := range rem.Days {
				estimates = append(estimates, model.DayEstimate{
					Date:         d,
					ProjectID:    project.ID,
					Hours:        share,
					Source:       model.SourceProjectAuto,
					IsWorkingDay: true,
				})
			}
		}
	}

	sort.Slice(estimates, func(i, j int) bool {
		if !estimates[i].Date.Equal(estimates[j].Date) {
			return estimates[i].Date.Before(estimates[j].Date)
		}
		return estimates[i].PhaseID < estimates[j].PhaseID
	})
	return estimates, warnings, nil
}

// ComputeAllEstimates runs ComputeDayEstimates for every project in the
// snapshot and merges the results, sorted by date then project.
func ComputeAllEstimates(snap *model.Snapshot, today, horizon time.Time) ([]model.DayEstimate, []model.Warning, error) {
	in := CapacityInputs{Slots: snap.Slots, Exceptions: snap.Exceptions, Holidays: snap.Holidays}

	var estimates []model.DayEstimate
	var warnings []model.Warning
	for _, p := range snap.Projects {
		est, warn, err := ComputeDayEstimates(p, snap.PhasesOf(p.ID), snap.Events, in, today, horizon)
		if err != nil {
			return nil, nil, err
		}
		estimates = append(estimates, est...)
		warnings = append(warnings, warn...)
	}

	sort.Slice(estimates, func(i, j int) bool {
		if !estimates[i].Date.Equal(estimates[j].Date) {
			return estimates[i].Date.Before(estimates[j].Date)
		}
		if estimates[i].ProjectID != estimates[j].ProjectID {
			return estimates[i].ProjectID < estimates[j].ProjectID
		}
		return estimates[i].PhaseID < estimates[j].PhaseID
	})
	return estimates, warnings, nil
}

// eventEstimates emits one estimate per date carrying linked events,
// summing multi-event days into a single entry. The entry counts as
// completed only when every event that day is done.
func eventEstimates(project model.Project, events []model.CalendarEvent, in CapacityInputs, start, end time.Time) []model.DayEstimate {
	type dayAgg struct {
		hours     float64
		phaseID   int64
		completed bool
		any       bool
	}
	byDate := make(map[time.Time]*dayAgg)
	var order []time.Time

	for _, e := range events {
		if !e.Linked() || e.ProjectID != project.ID {
			continue
		}
		d := model.DateOf(e.Start)
		if d.Before(start) || d.After(end) {
			continue
		}
		agg, ok := byDate[d]
		if !ok {
			agg = &dayAgg{completed: true}
			byDate[d] = agg
			order = append(order, d)
		}
		agg.any = true
		agg.hours += e.DurationHours()
		if e.PhaseID != 0 {
			agg.phaseID = e.PhaseID
		}
		if !e.Completed {
			agg.completed = false
		}
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	out := make([]model.DayEstimate, 0, len(order))
	for _, d := range order {
		agg := byDate[d]
		out = append(out, model.DayEstimate{
			Date:           d,
			ProjectID:      project.ID,
			PhaseID:        agg.phaseID,
			Hours:          agg.hours,
			Source:         model.SourceEvent,
			IsWorkingDay:   IsWorkingDay(d, in, project.AutoDayOverrides),
			CompletedEvent: agg.completed,
		})
	}
	return out
}

// distributeRecurring allocates a recurring phase: remaining hours are
// spread evenly over the future occurrence dates that are event-free
// working days.
func distributeRecurring(project model.Project, phase model.Phase, events []model.CalendarEvent, in CapacityInputs, today, end time.Time) ([]model.DayEstimate, []model.Warning, error) {
	occ, err := ExpandPattern(phase, project.StartDate, end)
	if err != nil {
		return nil, nil, err
	}

	completed := completedHours(project.ID, phase.ID, events)
	remaining := phase.AllocationHours - completed
	if remaining < 0 {
		remaining = 0
	}

	consumed := eventDates(project.ID, events)
	var pool []time.Time
	for _, o := range occ {
		if !o.Date.After(model.DateOf(today)) {
			continue
		}
		if !IsWorkingDay(o.Date, in, project.AutoDayOverrides) || in.IsHoliday(o.Date) {
			continue
		}
		if _, ok := consumed[o.Date]; ok {
			continue
		}
		pool = append(pool, o.Date)
	}

	if len(pool) == 0 {
		if remaining > 0 {
			return nil, []model.Warning{{
				Code:           model.WarnOvercommitted,
				ProjectID:      project.ID,
				PhaseID:        phase.ID,
				RemainingHours: remaining,
			}}, nil
		}
		return nil, nil, nil
	}

	share := remaining / float64(len(pool))
	out := make([]model.DayEstimate, 0, len(pool))
	for _, d := range pool {
		out = append(out, model.DayEstimate{
			Date:         d,
			ProjectID:    project.ID,
			PhaseID:      phase.ID,
			Hours:        share,
			Source:       model.SourcePhaseAllocation,
			IsWorkingDay: true,
		})
	}
	return out, nil, nil
}

// splitPhases partitions phases into the explicit set and the (single)
// recurring phase, if any.
func splitPhases(phases []model.Phase) ([]model.Phase, *model.Phase) {
	var explicit []model.Phase
	var recurring *model.Phase
	for i, ph := range phases {
		if ph.Kind == model.PhaseRecurring {
			recurring = &phases[i]
		} else {
			explicit = append(explicit, ph)
		}
	}
	return explicit, recurring
}
