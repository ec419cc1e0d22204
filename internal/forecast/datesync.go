package forecast

import (
	"fmt"
	"sort"
	"time"

	"foreplan/internal/model"
)

// SyncConfig holds the tunables of the date-consistency checks.
type SyncConfig struct {
	// MinGapDays is the minimum number of days between one explicit
	// phase's end and the next phase's start. 1 allows back-to-back
	// days (end Jan 10, start Jan 11) and forbids sharing a date.
	MinGapDays int
}

// DefaultSyncConfig returns the default configuration.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{MinGapDays: 1}
}

// DateRange is an inclusive project or phase date span.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// SyncError is one invariant violation found while validating an edit.
// These are expected, recoverable user-input conditions: returned as
// data so the caller can present them, never panicked.
type SyncError struct {
	Code     string
	Message  string
	PhaseIDs []int64
}

// Violation codes.
const (
	CodeInvalidRange      = "invalid-range"
	CodePhaseOverlap      = "phase-overlap"
	CodePhaseGap          = "phase-gap"
	CodePhaseOutsideBound = "phase-outside-bounds"
	CodePhaseModeConflict = "phase-mode-conflict"
)

func (e SyncError) Error() string { return e.Message }

// Unwrap lets errors.Is match the mode-conflict sentinel.
func (e SyncError) Unwrap() error {
	if e.Code == CodePhaseModeConflict {
		return ErrPhaseModeConflict
	}
	return nil
}

// PhaseEditResult is the outcome of validating a phase add or edit.
// When accepted, UpdatedBounds carries the (possibly grown) project
// bounds the caller should persist alongside the phase: at most one
// corrective bound change, never a cascade.
type PhaseEditResult struct {
	Accepted      bool
	UpdatedBounds *DateRange
	Errors        []SyncError
	Suggestions   []model.DateSyncSuggestion
}

// ProjectEditResult is the outcome of validating a project date edit.
type ProjectEditResult struct {
	Accepted bool
	Errors   []SyncError
}

// ValidatePhaseEdit validates adding or editing one phase against its
// project and sibling phases. Project dates are derived from phases:
// a phase growing past the project bounds yields an accepted result
// with a suggestion to extend the project, while overlap, spacing, and
// mode violations reject the edit. The engine never shrinks or grows a
// phase to fit.
func ValidatePhaseEdit(project model.Project, phases []model.Phase, proposed model.Phase, cfg SyncConfig) PhaseEditResult {
	var res PhaseEditResult

	if proposed.ProjectID != project.ID {
		res.Errors = append(res.Errors, SyncError{
			Code:     CodeInvalidRange,
			Message:  fmt.Sprintf("phase %q belongs to a different project", proposed.Name),
			PhaseIDs: []int64{proposed.ID},
		})
		return res
	}

	// Mutual exclusivity: explicit phases and a recurring phase never
	// coexist on one project.
	for _, ph := range phases {
		if ph.ID == proposed.ID {
			continue
		}
		if ph.Kind != proposed.Kind || proposed.Kind == model.PhaseRecurring {
			res.Errors = append(res.Errors, SyncError{
				Code:     CodePhaseModeConflict,
				Message:  fmt.Sprintf("project %q already has a %s phase", project.Name, ph.Kind),
				PhaseIDs: []int64{proposed.ID, ph.ID},
			})
			return res
		}
	}

	if proposed.Kind == model.PhaseRecurring {
		if proposed.Pattern == nil || proposed.Pattern.Interval <= 0 {
			res.Errors = append(res.Errors, SyncError{
				Code:     CodeInvalidRange,
				Message:  fmt.Sprintf("phase %q has an invalid recurrence pattern", proposed.Name),
				PhaseIDs: []int64{proposed.ID},
			})
			return res
		}
		res.Accepted = true
		return res
	}

	start := model.DateOf(proposed.StartDate)
	end := model.DateOf(proposed.EndDate)
	if end.Before(start) {
		res.Errors = append(res.Errors, SyncError{
			Code:     CodeInvalidRange,
			Message:  fmt.Sprintf("phase %q ends before it starts", proposed.Name),
			PhaseIDs: []int64{proposed.ID},
		})
		return res
	}

	// Overlap and minimum spacing against every explicit sibling.
	for _, ph := range phases {
		if ph.ID == proposed.ID || ph.Kind != model.PhaseExplicit {
			continue
		}
		sibStart := model.DateOf(ph.StartDate)
		sibEnd := model.DateOf(ph.EndDate)

		if !start.After(sibEnd) && !sibStart.After(end) {
			res.Errors = append(res.Errors, SyncError{
				Code:     CodePhaseOverlap,
				Message:  fmt.Sprintf("phases %q and %q overlap", proposed.Name, ph.Name),
				PhaseIDs: []int64{proposed.ID, ph.ID},
			})
			continue
		}

		gap := 0
		if start.After(sibEnd) {
			gap = daysBetween(sibEnd, start)
		} else {
			gap = daysBetween(end, sibStart)
		}
		if gap < cfg.MinGapDays {
			res.Errors = append(res.Errors, SyncError{
				Code: CodePhaseGap,
				Message: fmt.Sprintf("phases %q and %q are closer than the minimum gap of %dd",
					proposed.Name, ph.Name, cfg.MinGapDays),
				PhaseIDs: []int64{proposed.ID, ph.ID},
			})
		}
	}

	if len(res.Errors) > 0 {
		return res
	}

	// Bounds: project dates follow phases, never the reverse. A phase
	// outside the current bounds produces a grow-the-project suggestion.
	bounds := DateRange{Start: model.DateOf(project.StartDate)}
	if project.EndDate != nil {
		bounds.End = model.DateOf(*project.EndDate)
	}

	if start.Before(bounds.Start) {
		res.Suggestions = append(res.Suggestions, model.DateSyncSuggestion{
			Field:     "startDate",
			Current:   bounds.Start,
			Suggested: start,
			Reason:    fmt.Sprintf("phase %q starts before the project", proposed.Name),
		})
		bounds.Start = start
	}
	if !bounds.End.IsZero() && end.After(bounds.End) {
		res.Suggestions = append(res.Suggestions, model.DateSyncSuggestion{
			Field:     "endDate",
			Current:   bounds.End,
			Suggested: end,
			Reason:    fmt.Sprintf("phase %q ends after the project", proposed.Name),
		})
		bounds.End = end
	}

	res.Accepted = true
	if len(res.Suggestions) > 0 {
		res.UpdatedBounds = &bounds
	}
	return res
}

// ValidateProjectEdit validates a proposed project date change against
// the existing phases. Phases are the unit of committed work; an edit
// that would strand one outside the new bounds is rejected, naming the
// offending phases, rather than silently adjusting them.
func ValidateProjectEdit(project model.Project, phases []model.Phase, proposed DateRange) ProjectEditResult {
	var res ProjectEditResult

	if !proposed.End.IsZero() && !proposed.End.After(proposed.Start) {
		res.Errors = append(res.Errors, SyncError{
			Code:    CodeInvalidRange,
			Message: "project end date must be after its start date",
		})
		return res
	}

	var outside []model.Phase
	for _, ph := range phases {
		switch ph.Kind {
		case model.PhaseExplicit:
			if model.DateOf(ph.StartDate).Before(model.DateOf(proposed.Start)) ||
				(!proposed.End.IsZero() && model.DateOf(ph.EndDate).After(model.DateOf(proposed.End))) {
				outside = append(outside, ph)
			}
		case model.PhaseRecurring:
			if !ph.StartDate.IsZero() && model.DateOf(ph.StartDate).Before(model.DateOf(proposed.Start)) {
				outside = append(outside, ph)
			}
		}
	}

	for _, ph := range outside {
		res.Errors = append(res.Errors, SyncError{
			Code:     CodePhaseOutsideBound,
			Message:  fmt.Sprintf("phase %q would fall outside the new project dates", ph.Name),
			PhaseIDs: []int64{ph.ID},
		})
	}

	res.Accepted = len(res.Errors) == 0
	return res
}

// RecomputePhaseBounds derives project bounds from the explicit phases
// after an add or delete: min start to max end. Returns false when no
// explicit phases remain; the project's dates become independent again
// and are left untouched.
func RecomputePhaseBounds(phases []model.Phase) (DateRange, bool) {
	var explicit []model.Phase
	for _, ph := range phases {
		if ph.Kind == model.PhaseExplicit {
			explicit = append(explicit, ph)
		}
	}
	if len(explicit) == 0 {
		return DateRange{}, false
	}

	sort.Slice(explicit, func(i, j int) bool {
		return explicit[i].StartDate.Before(explicit[j].StartDate)
	})

	bounds := DateRange{
		Start: model.DateOf(explicit[0].StartDate),
		End:   model.DateOf(explicit[0].EndDate),
	}
	for _, ph := range explicit[1:] {
		if e := model.DateOf(ph.EndDate); e.After(bounds.End) {
			bounds.End = e
		}
	}
	return bounds, true
}

// RecurringPhaseEnd resolves the effective end of a recurring phase:
// the date of its last occurrence within the horizon.
func RecurringPhaseEnd(phase model.Phase, horizon time.Time) (time.Time, error) {
	occ, err := ExpandPattern(phase, phase.StartDate, horizon)
	if err != nil {
		return time.Time{}, err
	}
	if len(occ) == 0 {
		return time.Time{}, nil
	}
	return occ[len(occ)-1].Date, nil
}

func daysBetween(a, b time.Time) int {
	return int(model.DateOf(b).Sub(model.DateOf(a)).Hours() / 24)
}
