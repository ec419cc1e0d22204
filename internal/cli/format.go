// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatHours formats an hour value compactly.
// e.g., 12.5 -> "12.5h", 8 -> "8h", 0.25 -> "0.3h"
func FormatHours(h float64) string {
	if h == float64(int64(h)) {
		return fmt.Sprintf("%dh", int64(h))
	}
	return fmt.Sprintf("%.1fh", h)
}

// FormatDate formats a date as "Mon Jan 2".
func FormatDate(t time.Time) string {
	return t.Format("Mon Jan 2")
}

// FormatDateISO formats a date as "2006-01-02".
func FormatDateISO(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDateRange formats an inclusive date range, eliding a missing end.
func FormatDateRange(start time.Time, end *time.Time) string {
	if end == nil {
		return FormatDateISO(start) + " → ongoing"
	}
	return FormatDateISO(start) + " → " + FormatDateISO(*end)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatHoursDelta formats an hour delta with its sign.
func FormatHoursDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatHours(delta)
	}
	return "-" + FormatHours(-delta)
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}

// FormatClockRange formats a start/end pair of minutes-from-midnight.
func FormatClockRange(startMin, endMin int) string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", startMin/60, startMin%60, endMin/60, endMin%60)
}
