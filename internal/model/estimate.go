package model

import "time"

// EstimateSource identifies how a DayEstimate was produced.
type EstimateSource string

const (
	// SourceEvent marks a day consumed by a scheduled calendar event.
	SourceEvent EstimateSource = "event"
	// SourcePhaseAllocation marks an auto-estimate computed per phase.
	SourcePhaseAllocation EstimateSource = "phase-allocation"
	// SourceProjectAuto marks an auto-estimate against the whole-project budget.
	SourceProjectAuto EstimateSource = "project-auto-estimate"
)

// DayEstimate is the engine's per-day output: how many hours a project
// should receive on a date, and why. Exactly one estimate exists per
// (date, project) pair; event days never carry an auto-estimate.
// Estimates are recomputed fresh on every request and never persisted.
type DayEstimate struct {
	Date           time.Time
	ProjectID      int64
	PhaseID        int64 // 0 unless Source == phase-allocation or the event is phase-linked
	Hours          float64
	Source         EstimateSource
	IsWorkingDay   bool
	CompletedEvent bool // Source == event only: the event was marked done
}

// DateSyncSuggestion is an advisory correction emitted when a project or
// phase edit would otherwise break a date invariant. The engine never
// applies it; the caller decides.
type DateSyncSuggestion struct {
	Field     string // "startDate" or "endDate"
	Current   time.Time
	Suggested time.Time
	Reason    string
}

// WarningCode classifies degenerate-but-valid schedule states.
type WarningCode string

const (
	// WarnOvercommitted: remaining hours with no remaining working days.
	WarnOvercommitted WarningCode = "overcommitted"
	// WarnNoCapacity: no work slots configured at all.
	WarnNoCapacity WarningCode = "no-capacity"
)

// Warning reports a schedule state the user is allowed to be in but
// probably wants to know about. Not an error.
type Warning struct {
	Code           WarningCode
	ProjectID      int64
	PhaseID        int64
	RemainingHours float64
}
