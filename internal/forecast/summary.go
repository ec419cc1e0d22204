package forecast

import (
	"sort"
	"time"

	"foreplan/internal/model"
)

// PaceStatus classifies a project's progress against elapsed time.
type PaceStatus string

const (
	PaceAhead   PaceStatus = "ahead"
	PaceOnTrack PaceStatus = "on-track"
	PaceBehind  PaceStatus = "behind"
)

// ProjectStatus is the per-project roll-up shown in listings and the
// dashboard: remaining work, the days left to do it on, and the hours
// per day that implies.
type ProjectStatus struct {
	Project        model.Project
	PhaseCount     int
	CompletedHours float64
	RemainingHours float64
	RemainingDays  int
	HoursPerDay    float64 // remaining / remaining days
	CapacityHours  float64 // capacity over the remaining days
	Pace           PaceStatus
	Overcommitted  bool
}

// DayLoad is one day of the combined schedule: everything allocated
// across all projects against the day's capacity.
type DayLoad struct {
	Date           time.Time
	EstimatedHours float64
	CapacityHours  float64
	IsWorkingDay   bool
}

// Overloaded reports whether more hours are allocated than available.
func (d DayLoad) Overloaded() bool {
	return d.IsWorkingDay && d.EstimatedHours > d.CapacityHours
}

// ProjectStatuses computes the status roll-up for every project in the
// snapshot, in project order.
func ProjectStatuses(snap *model.Snapshot, today, horizon time.Time) ([]ProjectStatus, error) {
	in := CapacityInputs{Slots: snap.Slots, Exceptions: snap.Exceptions, Holidays: snap.Holidays}

	statuses := make([]ProjectStatus, 0, len(snap.Projects))
	for _, p := range snap.Projects {
		phases := snap.PhasesOf(p.ID)
		rem, err := RemainingForProject(p, phases, snap.Events, in, today, horizon)
		if err != nil {
			return nil, err
		}

		st := ProjectStatus{
			Project:        p,
			PhaseCount:     len(phases),
			CompletedHours: rem.CompletedHours,
			RemainingHours: rem.RemainingHours,
			RemainingDays:  len(rem.Days),
			Overcommitted:  rem.Overcommitted,
		}
		if len(rem.Days) > 0 {
			st.HoursPerDay = rem.RemainingHours / float64(len(rem.Days))
			st.CapacityHours = CapacityForRange(rem.Days[0], rem.Days[len(rem.Days)-1], in)
		}
		st.Pace = pace(p, rem, in, today)
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// pace compares the share of the estimate completed with the share of
// the project's capacity already elapsed. Within five percentage
// points counts as on track.
func pace(p model.Project, rem RemainingWork, in CapacityInputs, today time.Time) PaceStatus {
	if p.EstimatedHours <= 0 || p.Continuous() {
		return PaceOnTrack
	}
	total := CapacityForRange(p.StartDate, *p.EndDate, in)
	if total <= 0 {
		return PaceOnTrack
	}
	elapsedEnd := model.DateOf(today)
	if elapsedEnd.After(model.DateOf(*p.EndDate)) {
		elapsedEnd = model.DateOf(*p.EndDate)
	}
	var elapsed float64
	if !elapsedEnd.Before(model.DateOf(p.StartDate)) {
		elapsed = CapacityForRange(p.StartDate, elapsedEnd, in)
	}

	expected := elapsed / total
	actual := rem.CompletedHours / p.EstimatedHours
	switch {
	case actual >= expected+0.05:
		return PaceAhead
	case actual <= expected-0.05:
		return PaceBehind
	default:
		return PaceOnTrack
	}
}

// ScheduleLoad combines every project's day estimates into a per-day
// load over [today+1, horizon], with capacity alongside so callers can
// spot overcommitted days.
func ScheduleLoad(snap *model.Snapshot, today, horizon time.Time) ([]DayLoad, []model.Warning, error) {
	estimates, warnings, err := ComputeAllEstimates(snap, today, horizon)
	if err != nil {
		return nil, nil, err
	}
	in := CapacityInputs{Slots: snap.Slots, Exceptions: snap.Exceptions, Holidays: snap.Holidays}

	byDate := make(map[time.Time]float64)
	for _, e := range estimates {
		if !e.Date.After(model.DateOf(today)) {
			continue
		}
		byDate[e.Date] += e.Hours
	}

	var loads []DayLoad
	for d := model.DateOf(today).AddDate(0, 0, 1); !d.After(model.DateOf(horizon)); d = d.AddDate(0, 0, 1) {
		loads = append(loads, DayLoad{
			Date:           d,
			EstimatedHours: byDate[d],
			CapacityHours:  CapacityForDate(d, in),
			IsWorkingDay:   IsWorkingDay(d, in, nil),
		})
	}

	sort.Slice(loads, func(i, j int) bool { return loads[i].Date.Before(loads[j].Date) })
	return loads, warnings, nil
}
