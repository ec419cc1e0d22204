package forecast

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"foreplan/internal/model"
)

func recurringPhase(t *testing.T, start string, p model.RecurrencePattern) model.Phase {
	t.Helper()
	return model.Phase{
		ID:              7,
		ProjectID:       1,
		Name:            "weekly review",
		Kind:            model.PhaseRecurring,
		StartDate:       mustDate(t, start),
		Pattern:         &p,
		AllocationHours: 2,
	}
}

func occurrenceDates(occ []Occurrence) []string {
	out := make([]string, len(occ))
	for i, o := range occ {
		out[i] = o.Date.Format("2006-01-02")
	}
	return out
}

func TestExpandPattern_Daily(t *testing.T) {
	ph := recurringPhase(t, "2025-01-01", model.RecurrencePattern{
		Freq:     model.FreqDaily,
		Interval: 3,
	})

	occ, err := ExpandPattern(ph, mustDate(t, "2025-01-01"), mustDate(t, "2025-01-10"))
	if err != nil {
		t.Fatalf("ExpandPattern: %v", err)
	}

	want := []string{"2025-01-01", "2025-01-04", "2025-01-07", "2025-01-10"}
	if got := occurrenceDates(occ); !reflect.DeepEqual(got, want) {
		t.Fatalf("daily occurrences = %v, want %v", got, want)
	}
	if occ[0].Hours != 2 {
		t.Fatalf("occurrence hours = %v, want phase allocation 2", occ[0].Hours)
	}
}

func TestExpandPattern_WeeklyWithWeekdays(t *testing.T) {
	// Every second week on Monday and Thursday, anchored in the week of
	// Jan 6 2025 (a Monday).
	ph := recurringPhase(t, "2025-01-06", model.RecurrencePattern{
		Freq:     model.FreqWeekly,
		Interval: 2,
		Weekdays: []time.Weekday{time.Monday, time.Thursday},
	})

	occ, err := ExpandPattern(ph, mustDate(t, "2025-01-06"), mustDate(t, "2025-02-02"))
	if err != nil {
		t.Fatalf("ExpandPattern: %v", err)
	}

	want := []string{"2025-01-06", "2025-01-09", "2025-01-20", "2025-01-23"}
	if got := occurrenceDates(occ); !reflect.DeepEqual(got, want) {
		t.Fatalf("weekly occurrences = %v, want %v", got, want)
	}
}

func TestExpandPattern_MonthlyByDate(t *testing.T) {
	ph := recurringPhase(t, "2025-01-31", model.RecurrencePattern{
		Freq:     model.FreqMonthly,
		Interval: 1,
		MonthDay: 31,
	})

	occ, err := ExpandPattern(ph, mustDate(t, "2025-01-01"), mustDate(t, "2025-05-31"))
	if err != nil {
		t.Fatalf("ExpandPattern: %v", err)
	}

	// February and April lack a 31st and are skipped.
	want := []string{"2025-01-31", "2025-03-31", "2025-05-31"}
	if got := occurrenceDates(occ); !reflect.DeepEqual(got, want) {
		t.Fatalf("monthly occurrences = %v, want %v", got, want)
	}
}

func TestExpandPattern_MonthlyNthWeekday(t *testing.T) {
	// Second Tuesday of every month.
	ph := recurringPhase(t, "2025-01-14", model.RecurrencePattern{
		Freq:        model.FreqMonthly,
		Interval:    1,
		WeekOfMonth: 2,
		Weekday:     time.Tuesday,
	})

	occ, err := ExpandPattern(ph, mustDate(t, "2025-01-01"), mustDate(t, "2025-03-31"))
	if err != nil {
		t.Fatalf("ExpandPattern: %v", err)
	}

	want := []string{"2025-01-14", "2025-02-11", "2025-03-11"}
	if got := occurrenceDates(occ); !reflect.DeepEqual(got, want) {
		t.Fatalf("nth-weekday occurrences = %v, want %v", got, want)
	}
}

func TestExpandPattern_NeverPastHorizon(t *testing.T) {
	ph := recurringPhase(t, "2025-01-01", model.RecurrencePattern{
		Freq:     model.FreqDaily,
		Interval: 1,
	})

	horizon := mustDate(t, "2025-01-05")
	occ, err := ExpandPattern(ph, mustDate(t, "2025-01-01"), horizon)
	if err != nil {
		t.Fatalf("ExpandPattern: %v", err)
	}
	for _, o := range occ {
		if o.Date.After(horizon) {
			t.Fatalf("occurrence %s is past the horizon", o.Date.Format("2006-01-02"))
		}
	}
}

func TestExpandPattern_Restartable(t *testing.T) {
	ph := recurringPhase(t, "2025-01-06", model.RecurrencePattern{
		Freq:     model.FreqWeekly,
		Interval: 1,
	})

	first, err := ExpandPattern(ph, mustDate(t, "2025-01-01"), mustDate(t, "2025-03-01"))
	if err != nil {
		t.Fatalf("ExpandPattern: %v", err)
	}
	second, err := ExpandPattern(ph, mustDate(t, "2025-01-01"), mustDate(t, "2025-03-01"))
	if err != nil {
		t.Fatalf("ExpandPattern (second call): %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expansion must not keep cursor state between calls")
	}
}

func TestExpandPattern_InvalidInterval(t *testing.T) {
	ph := recurringPhase(t, "2025-01-01", model.RecurrencePattern{
		Freq:     model.FreqDaily,
		Interval: 0,
	})

	_, err := ExpandPattern(ph, mustDate(t, "2025-01-01"), mustDate(t, "2025-02-01"))
	var patErr *InvalidPatternError
	if !errors.As(err, &patErr) {
		t.Fatalf("err = %v, want InvalidPatternError", err)
	}
}

func TestExpandPattern_UnrecognizedFrequency(t *testing.T) {
	ph := recurringPhase(t, "2025-01-01", model.RecurrencePattern{
		Freq:     "fortnightly",
		Interval: 1,
	})

	_, err := ExpandPattern(ph, mustDate(t, "2025-01-01"), mustDate(t, "2025-02-01"))
	var patErr *InvalidPatternError
	if !errors.As(err, &patErr) {
		t.Fatalf("err = %v, want InvalidPatternError", err)
	}
}

func TestExpandPattern_HorizonRequired(t *testing.T) {
	ph := recurringPhase(t, "2025-01-01", model.RecurrencePattern{
		Freq:     model.FreqDaily,
		Interval: 1,
	})

	_, err := ExpandPattern(ph, mustDate(t, "2025-01-01"), time.Time{})
	var cErr *ContractError
	if !errors.As(err, &cErr) {
		t.Fatalf("err = %v, want ContractError for missing horizon", err)
	}
}

func TestEffectiveEnd_ContinuousNeedsHorizon(t *testing.T) {
	p := model.Project{ID: 1, Name: "ops", StartDate: mustDate(t, "2025-01-01")}

	if _, err := EffectiveEnd(p, nil, time.Time{}); err == nil {
		t.Fatal("continuous project without horizon should fail the contract check")
	}

	end, err := EffectiveEnd(p, nil, mustDate(t, "2025-06-30"))
	if err != nil {
		t.Fatalf("EffectiveEnd: %v", err)
	}
	if !end.Equal(mustDate(t, "2025-06-30")) {
		t.Fatalf("effective end = %s, want horizon", end.Format("2006-01-02"))
	}
}

func TestEffectiveEnd_LastPhaseWins(t *testing.T) {
	p := model.Project{ID: 1, Name: "site", StartDate: mustDate(t, "2025-01-01")}
	phases := []model.Phase{
		{ID: 1, ProjectID: 1, Kind: model.PhaseExplicit, StartDate: mustDate(t, "2025-01-01"), EndDate: mustDate(t, "2025-01-10")},
		{ID: 2, ProjectID: 1, Kind: model.PhaseExplicit, StartDate: mustDate(t, "2025-01-12"), EndDate: mustDate(t, "2025-01-20")},
	}

	end, err := EffectiveEnd(p, phases, mustDate(t, "2025-12-31"))
	if err != nil {
		t.Fatalf("EffectiveEnd: %v", err)
	}
	if !end.Equal(mustDate(t, "2025-01-20")) {
		t.Fatalf("effective end = %s, want last phase end", end.Format("2006-01-02"))
	}
}
