package tui

import (
	"fmt"
	"strings"

	"foreplan/internal/cli"
	"foreplan/internal/forecast"
	"foreplan/internal/model"
	"foreplan/internal/tui/components"
	"foreplan/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// renderScheduleTab shows the day-by-day load over the horizon with a
// cursor, plus the selected day's allocations.
func (a App) renderScheduleTab(cw, contentH int) string {
	t := theme.Active

	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	if len(a.loads) == 0 {
		return components.ContentCard("Schedule", dimStyle.Render("No days in the forecast window."), cw)
	}

	innerW := components.CardInnerWidth(cw)

	// Detail card height is fixed; the day list gets the rest.
	selected := a.loads[a.schedCursor]
	detail := a.renderDayDetail(selected, innerW)
	detailCard := components.ContentCard("Selected Day", detail, cw)

	listRows := contentH - lipgloss.Height(detailCard) - 3 // list card borders + title
	if listRows < 5 {
		listRows = 5
	}

	// Window the day list around the cursor
	start := a.schedCursor - listRows/2
	if start > len(a.loads)-listRows {
		start = len(a.loads) - listRows
	}
	if start < 0 {
		start = 0
	}
	end := start + listRows
	if end > len(a.loads) {
		end = len(a.loads)
	}

	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	dateStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	selDateStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	offStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	dateW := len("Mon Jan 02")
	barW := innerW - dateW - 24
	if barW < 10 {
		barW = 10
	}

	var list strings.Builder
	for i := start; i < end; i++ {
		d := a.loads[i]
		dateStr := d.Date.Format("Mon Jan 02")

		if i == a.schedCursor {
			list.WriteString(markerStyle.Render("▸ "))
		} else {
			list.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
		}

		if !d.IsWorkingDay {
			label := "day off"
			if d.EstimatedHours > 0 {
				// Linked events can land on non-working days
				label = fmt.Sprintf("day off · %s scheduled", cli.FormatHours(d.EstimatedHours))
			}
			list.WriteString(offStyle.Render(fmt.Sprintf("%-*s %s", dateW, dateStr, label)))
			list.WriteString("\n")
			continue
		}

		ds := dateStyle
		if i == a.schedCursor {
			ds = selDateStyle
		}
		pct := 0.0
		if d.CapacityHours > 0 {
			pct = d.EstimatedHours / d.CapacityHours
		}
		list.WriteString(ds.Render(fmt.Sprintf("%-*s", dateW, dateStr)))
		list.WriteString(lipgloss.NewStyle().Background(t.Surface).Render(" "))
		list.WriteString(components.LoadBar(
			fmt.Sprintf("%s/%s", cli.FormatHours(d.EstimatedHours), cli.FormatHours(d.CapacityHours)),
			pct, 12, barW))
		list.WriteString("\n")
	}

	var b strings.Builder
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Schedule (%d of %d days)", a.schedCursor+1, len(a.loads)),
		strings.TrimRight(list.String(), "\n"), cw))
	b.WriteString("\n")
	b.WriteString(detailCard)
	return b.String()
}

// renderDayDetail lists every allocation on one date.
func (a App) renderDayDetail(day forecast.DayLoad, innerW int) string {
	t := theme.Active

	headStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	hoursStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	eventStyle := lipgloss.NewStyle().Foreground(t.Magenta)
	doneStyle := lipgloss.NewStyle().Foreground(t.Green)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	overStyle := lipgloss.NewStyle().Foreground(t.Red).Bold(true)

	var b strings.Builder
	b.WriteString(headStyle.Render(day.Date.Format("Monday, January 2 2006")))
	if day.Overloaded() {
		b.WriteString("  ")
		b.WriteString(overStyle.Render(fmt.Sprintf("overloaded by %s",
			cli.FormatHours(day.EstimatedHours-day.CapacityHours))))
	}
	b.WriteString("\n")

	if !day.IsWorkingDay {
		b.WriteString(labelStyle.Render("Not a working day."))
	} else {
		b.WriteString(labelStyle.Render(fmt.Sprintf("Capacity %s", cli.FormatHours(day.CapacityHours))))
	}
	b.WriteString("\n")

	found := false
	for _, est := range a.estimates {
		if !est.Date.Equal(day.Date) {
			continue
		}
		found = true

		name := "?"
		if p, ok := a.snap.ProjectByID(est.ProjectID); ok {
			name = p.Name
		}
		detail := ""
		if est.PhaseID != 0 {
			if ph, ok := a.snap.PhaseByID(est.PhaseID); ok {
				detail = " · " + ph.Name
			}
		}

		var tag string
		switch {
		case est.Source == model.SourceEvent && est.CompletedEvent:
			tag = doneStyle.Render("event done")
		case est.Source == model.SourceEvent:
			tag = eventStyle.Render("event")
		case est.Source == model.SourcePhaseAllocation:
			tag = labelStyle.Render("phase")
		default:
			tag = labelStyle.Render("auto")
		}

		fmt.Fprintf(&b, "  %s %s  %s %s\n",
			hoursStyle.Render(fmt.Sprintf("%7s", cli.FormatHours(est.Hours))),
			lipgloss.NewStyle().Foreground(t.TextPrimary).Render(truncStr(name+detail, innerW-24)),
			lipgloss.NewStyle().Foreground(t.TextDim).Render("·"),
			tag)
	}
	if !found {
		b.WriteString(dimStyle.Render("  Nothing allocated."))
	}

	return strings.TrimRight(b.String(), "\n")
}
