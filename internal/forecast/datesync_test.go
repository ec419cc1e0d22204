package forecast

import (
	"errors"
	"testing"
	"time"

	"foreplan/internal/model"
)

func phasedProject(t *testing.T) (model.Project, []model.Phase) {
	t.Helper()
	p := model.Project{
		ID:        1,
		Name:      "site",
		StartDate: mustDate(t, "2025-01-01"),
		EndDate:   datePtr(t, "2025-01-20"),
	}
	phases := []model.Phase{
		{
			ID: 1, ProjectID: 1, Name: "Phase A", Kind: model.PhaseExplicit,
			StartDate: mustDate(t, "2025-01-01"), EndDate: mustDate(t, "2025-01-10"),
			AllocationHours: 30,
		},
		{
			ID: 2, ProjectID: 1, Name: "Phase B", Kind: model.PhaseExplicit,
			StartDate: mustDate(t, "2025-01-11"), EndDate: mustDate(t, "2025-01-20"),
			AllocationHours: 30,
		},
	}
	return p, phases
}

func TestValidatePhaseEdit_GrowPastProjectEndSuggestsBounds(t *testing.T) {
	p, phases := phasedProject(t)

	edited := phases[1]
	edited.EndDate = mustDate(t, "2025-01-25")

	res := ValidatePhaseEdit(p, phases, edited, DefaultSyncConfig())
	if !res.Accepted {
		t.Fatalf("edit rejected: %v", res.Errors)
	}
	if res.UpdatedBounds == nil {
		t.Fatal("growing a phase past the project end must update the project bounds")
	}
	if !res.UpdatedBounds.End.Equal(mustDate(t, "2025-01-25")) {
		t.Fatalf("updated end = %s, want 2025-01-25", res.UpdatedBounds.End.Format("2006-01-02"))
	}
	if len(res.Suggestions) != 1 || res.Suggestions[0].Field != "endDate" {
		t.Fatalf("suggestions = %v, want one endDate suggestion", res.Suggestions)
	}
}

func TestValidatePhaseEdit_StartBeforeProjectSuggestsStart(t *testing.T) {
	p, phases := phasedProject(t)

	edited := phases[0]
	edited.StartDate = mustDate(t, "2024-12-29")

	res := ValidatePhaseEdit(p, phases, edited, DefaultSyncConfig())
	if !res.Accepted {
		t.Fatalf("edit rejected: %v", res.Errors)
	}
	if res.UpdatedBounds == nil || !res.UpdatedBounds.Start.Equal(mustDate(t, "2024-12-29")) {
		t.Fatalf("updated bounds = %+v, want start 2024-12-29", res.UpdatedBounds)
	}
}

func TestValidatePhaseEdit_InBoundsLeavesProjectAlone(t *testing.T) {
	p, phases := phasedProject(t)

	edited := phases[1]
	edited.EndDate = mustDate(t, "2025-01-18")

	res := ValidatePhaseEdit(p, phases, edited, DefaultSyncConfig())
	if !res.Accepted {
		t.Fatalf("edit rejected: %v", res.Errors)
	}
	if res.UpdatedBounds != nil {
		t.Fatalf("updated bounds = %+v, want nil for an in-bounds edit", res.UpdatedBounds)
	}
}

func TestValidatePhaseEdit_OverlapRejected(t *testing.T) {
	p, phases := phasedProject(t)

	edited := phases[1]
	edited.StartDate = mustDate(t, "2025-01-08")

	res := ValidatePhaseEdit(p, phases, edited, DefaultSyncConfig())
	if res.Accepted {
		t.Fatal("overlapping phases must be rejected")
	}
	if len(res.Errors) != 1 || res.Errors[0].Code != CodePhaseOverlap {
		t.Fatalf("errors = %v, want one %s", res.Errors, CodePhaseOverlap)
	}
}

func TestValidatePhaseEdit_MinGapEnforced(t *testing.T) {
	p, phases := phasedProject(t)
	cfg := SyncConfig{MinGapDays: 3}

	// Back-to-back days: gap of 1, below the configured minimum.
	res := ValidatePhaseEdit(p, phases, phases[1], cfg)
	if res.Accepted {
		t.Fatal("gap below the minimum must be rejected")
	}
	if res.Errors[0].Code != CodePhaseGap {
		t.Fatalf("code = %s, want %s", res.Errors[0].Code, CodePhaseGap)
	}

	edited := phases[1]
	edited.StartDate = mustDate(t, "2025-01-13")
	if res := ValidatePhaseEdit(p, phases, edited, cfg); !res.Accepted {
		t.Fatalf("gap of 3 days should satisfy MinGapDays=3: %v", res.Errors)
	}
}

func TestValidatePhaseEdit_DefaultGapAllowsAdjacentDays(t *testing.T) {
	p, phases := phasedProject(t)

	// Phase A ends Jan 10, Phase B starts Jan 11.
	res := ValidatePhaseEdit(p, phases, phases[1], DefaultSyncConfig())
	if !res.Accepted {
		t.Fatalf("back-to-back phases rejected under the default gap: %v", res.Errors)
	}
}

func TestValidatePhaseEdit_EndBeforeStartRejected(t *testing.T) {
	p, phases := phasedProject(t)

	edited := phases[0]
	edited.EndDate = mustDate(t, "2024-12-15")

	res := ValidatePhaseEdit(p, phases, edited, DefaultSyncConfig())
	if res.Accepted || res.Errors[0].Code != CodeInvalidRange {
		t.Fatalf("result = %+v, want %s rejection", res, CodeInvalidRange)
	}
}

func TestValidatePhaseEdit_ModeConflict(t *testing.T) {
	p, phases := phasedProject(t)

	recurring := model.Phase{
		ID: 3, ProjectID: 1, Name: "standup", Kind: model.PhaseRecurring,
		Pattern: &model.RecurrencePattern{Freq: model.FreqWeekly, Interval: 1},
	}

	res := ValidatePhaseEdit(p, phases, recurring, DefaultSyncConfig())
	if res.Accepted {
		t.Fatal("recurring phase on a project with explicit phases must be rejected")
	}
	if res.Errors[0].Code != CodePhaseModeConflict {
		t.Fatalf("code = %s, want %s", res.Errors[0].Code, CodePhaseModeConflict)
	}
	if !errors.Is(res.Errors[0], ErrPhaseModeConflict) {
		t.Fatal("mode-conflict error must match ErrPhaseModeConflict")
	}
}

func TestValidatePhaseEdit_RecurringOnEmptyProjectAccepted(t *testing.T) {
	p := model.Project{ID: 1, Name: "habits", StartDate: mustDate(t, "2025-01-01")}
	recurring := model.Phase{
		ID: 1, ProjectID: 1, Name: "review", Kind: model.PhaseRecurring,
		Pattern: &model.RecurrencePattern{Freq: model.FreqDaily, Interval: 2},
	}

	if res := ValidatePhaseEdit(p, nil, recurring, DefaultSyncConfig()); !res.Accepted {
		t.Fatalf("recurring phase on a phase-less project rejected: %v", res.Errors)
	}
}

func TestValidateProjectEdit_ShrinkPastPhaseRejected(t *testing.T) {
	p, phases := phasedProject(t)

	res := ValidateProjectEdit(p, phases, DateRange{
		Start: mustDate(t, "2025-01-01"),
		End:   mustDate(t, "2025-01-15"),
	})
	if res.Accepted {
		t.Fatal("shrinking the project past Phase B must be rejected")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly the stranded phase", res.Errors)
	}
	e := res.Errors[0]
	if e.Code != CodePhaseOutsideBound {
		t.Fatalf("code = %s, want %s", e.Code, CodePhaseOutsideBound)
	}
	if len(e.PhaseIDs) != 1 || e.PhaseIDs[0] != 2 {
		t.Fatalf("error names phases %v, want [2]", e.PhaseIDs)
	}
}

func TestValidateProjectEdit_GrowAccepted(t *testing.T) {
	p, phases := phasedProject(t)

	res := ValidateProjectEdit(p, phases, DateRange{
		Start: mustDate(t, "2024-12-01"),
		End:   mustDate(t, "2025-02-28"),
	})
	if !res.Accepted {
		t.Fatalf("growing the project rejected: %v", res.Errors)
	}
}

func TestValidateProjectEdit_RecurringAnchorChecked(t *testing.T) {
	p := model.Project{ID: 1, Name: "habits", StartDate: mustDate(t, "2025-01-01")}
	phases := []model.Phase{{
		ID: 1, ProjectID: 1, Name: "review", Kind: model.PhaseRecurring,
		StartDate: mustDate(t, "2025-01-06"),
		Pattern:   &model.RecurrencePattern{Freq: model.FreqWeekly, Interval: 1},
	}}

	res := ValidateProjectEdit(p, phases, DateRange{Start: mustDate(t, "2025-01-10")})
	if res.Accepted {
		t.Fatal("moving the project start past the recurrence anchor must be rejected")
	}
}

func TestRecomputePhaseBounds(t *testing.T) {
	_, phases := phasedProject(t)

	bounds, ok := RecomputePhaseBounds(phases)
	if !ok {
		t.Fatal("explicit phases present, want derived bounds")
	}
	if !bounds.Start.Equal(mustDate(t, "2025-01-01")) || !bounds.End.Equal(mustDate(t, "2025-01-20")) {
		t.Fatalf("bounds = %+v, want Jan 1 - Jan 20", bounds)
	}

	if _, ok := RecomputePhaseBounds(nil); ok {
		t.Fatal("no phases left, project dates must be left untouched")
	}

	recurring := []model.Phase{{Kind: model.PhaseRecurring}}
	if _, ok := RecomputePhaseBounds(recurring); ok {
		t.Fatal("a lone recurring phase must not drive project bounds")
	}
}

func TestRecurringPhaseEnd(t *testing.T) {
	phase := model.Phase{
		ID: 1, ProjectID: 1, Kind: model.PhaseRecurring,
		StartDate: mustDate(t, "2025-01-06"),
		Pattern: &model.RecurrencePattern{
			Freq:     model.FreqWeekly,
			Interval: 1,
			Weekdays: []time.Weekday{time.Monday},
		},
	}

	end, err := RecurringPhaseEnd(phase, mustDate(t, "2025-01-31"))
	if err != nil {
		t.Fatalf("RecurringPhaseEnd: %v", err)
	}
	if !end.Equal(mustDate(t, "2025-01-27")) {
		t.Fatalf("end = %s, want last Monday 2025-01-27", end.Format("2006-01-02"))
	}
}
