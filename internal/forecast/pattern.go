package forecast

import (
	"time"

	"foreplan/internal/model"
)

// Occurrence is one generated instance of a recurring phase.
type Occurrence struct {
	Date  time.Time
	Hours float64
}

// ExpandPattern expands a recurring phase into dated occurrences within
// [horizonStart, horizonEnd]. The expansion is a pure function (no
// cursor state survives between calls) and is always finite: a
// non-zero horizonEnd is required, since continuous projects have no
// natural end to bound it. The caller clips horizonEnd to the owning
// project's effective end, so no occurrence can outlive the project.
func ExpandPattern(phase model.Phase, horizonStart, horizonEnd time.Time) ([]Occurrence, error) {
	if phase.Kind != model.PhaseRecurring || phase.Pattern == nil {
		return nil, contractErrorf("phase %d is not a recurring phase", phase.ID)
	}
	if horizonEnd.IsZero() {
		return nil, contractErrorf("pattern expansion requires a horizon end")
	}

	p := phase.Pattern
	if p.Interval <= 0 {
		return nil, &InvalidPatternError{Reason: "interval must be > 0"}
	}

	hours := p.HoursPerOccurrence
	if hours == 0 {
		hours = phase.AllocationHours
	}

	anchor := model.DateOf(phase.StartDate)
	if phase.StartDate.IsZero() {
		anchor = model.DateOf(horizonStart)
	}
	from := model.DateOf(horizonStart)
	until := model.DateOf(horizonEnd)

	var dates []time.Time
	switch p.Freq {
	case model.FreqDaily:
		for d := anchor; !d.After(until); d = d.AddDate(0, 0, p.Interval) {
			dates = append(dates, d)
		}

	case model.FreqWeekly:
		weekdays := p.Weekdays
		if len(weekdays) == 0 {
			weekdays = []time.Weekday{anchor.Weekday()}
		}
		// Walk day by day from the anchor week; a week belongs to the
		// pattern when its index from the anchor week is a multiple of
		// the interval.
		weekStart := startOfWeek(anchor)
		for d := anchor; !d.After(until); d = d.AddDate(0, 0, 1) {
			weeks := int(startOfWeek(d).Sub(weekStart).Hours()/24) / 7
			if weeks%p.Interval != 0 {
				continue
			}
			for _, wd := range weekdays {
				if d.Weekday() == wd {
					dates = append(dates, d)
					break
				}
			}
		}

	case model.FreqMonthly:
		for m := 0; ; m += p.Interval {
			month := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, m, 0)
			if month.After(until) {
				break
			}
			d, ok := monthlyOccurrence(month, p, anchor)
			if !ok || d.Before(anchor) || d.After(until) {
				continue
			}
			dates = append(dates, d)
		}

	default:
		return nil, &InvalidPatternError{Reason: "unrecognized frequency " + string(p.Freq)}
	}

	occ := make([]Occurrence, 0, len(dates))
	for _, d := range dates {
		if d.Before(from) {
			continue
		}
		occ = append(occ, Occurrence{Date: d, Hours: hours})
	}
	return occ, nil
}

// monthlyOccurrence resolves the occurrence date within one month, or
// false when the month has no matching date (e.g. Feb 30, or no fifth
// Tuesday).
func monthlyOccurrence(month time.Time, p *model.RecurrencePattern, anchor time.Time) (time.Time, bool) {
	year, mon := month.Year(), month.Month()
	daysInMonth := time.Date(year, mon+1, 0, 0, 0, 0, 0, time.UTC).Day()

	switch {
	case p.MonthDay > 0:
		if p.MonthDay > daysInMonth {
			return time.Time{}, false
		}
		return time.Date(year, mon, p.MonthDay, 0, 0, 0, 0, time.UTC), true

	case p.WeekOfMonth > 0:
		// Nth weekday of the month.
		first := time.Date(year, mon, 1, 0, 0, 0, 0, time.UTC)
		offset := (int(p.Weekday) - int(first.Weekday()) + 7) % 7
		day := 1 + offset + (p.WeekOfMonth-1)*7
		if day > daysInMonth {
			return time.Time{}, false
		}
		return time.Date(year, mon, day, 0, 0, 0, 0, time.UTC), true

	default:
		// Same date-of-month as the anchor.
		if anchor.Day() > daysInMonth {
			return time.Time{}, false
		}
		return time.Date(year, mon, anchor.Day(), 0, 0, 0, 0, time.UTC), true
	}
}

// startOfWeek returns the Monday of the week containing d.
func startOfWeek(d time.Time) time.Time {
	offset := (int(d.Weekday()) - int(time.Monday) + 7) % 7
	return model.DateOf(d).AddDate(0, 0, -offset)
}

// EffectiveEnd resolves the end date an allocation should run to: the
// project end when set, otherwise the last phase end, clipped to the
// supplied horizon. Continuous projects with no phases depend entirely
// on the horizon.
func EffectiveEnd(project model.Project, phases []model.Phase, horizon time.Time) (time.Time, error) {
	var end time.Time
	if project.EndDate != nil {
		end = model.DateOf(*project.EndDate)
	} else {
		for _, ph := range phases {
			if ph.Kind == model.PhaseExplicit && model.DateOf(ph.EndDate).After(end) {
				end = model.DateOf(ph.EndDate)
			}
		}
	}

	if end.IsZero() {
		if horizon.IsZero() {
			return time.Time{}, contractErrorf("continuous project %d requires an explicit horizon", project.ID)
		}
		return model.DateOf(horizon), nil
	}
	if !horizon.IsZero() && model.DateOf(horizon).Before(end) {
		return model.DateOf(horizon), nil
	}
	return end, nil
}
