package cli

import (
	"testing"
	"time"
)

func TestFormatHours(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{8, "8h"},
		{12.5, "12.5h"},
		{0, "0h"},
		{95.0 / 7.0, "13.6h"},
	}
	for _, c := range cases {
		if got := FormatHours(c.in); got != c.want {
			t.Errorf("FormatHours(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatDateRange(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	if got := FormatDateRange(start, &end); got != "2025-01-01 → 2025-01-10" {
		t.Errorf("FormatDateRange = %q", got)
	}
	if got := FormatDateRange(start, nil); got != "2025-01-01 → ongoing" {
		t.Errorf("FormatDateRange ongoing = %q", got)
	}
}

func TestFormatClockRange(t *testing.T) {
	if got := FormatClockRange(9*60, 17*60+30); got != "09:00-17:30" {
		t.Errorf("FormatClockRange = %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(1234567); got != "1,234,567" {
		t.Errorf("FormatNumber = %q", got)
	}
	if got := FormatNumber(-42); got != "-42" {
		t.Errorf("FormatNumber = %q", got)
	}
}
