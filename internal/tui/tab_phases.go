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

// renderPhasesTab lists every phase across all projects with a cursor,
// plus a detail card showing the selected phase's budget and occurrences.
func (a App) renderPhasesTab(cw int) string {
	t := theme.Active
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	if a.snap == nil || len(a.snap.Phases) == 0 {
		return components.ContentCard("Phases",
			dimStyle.Render("No phases yet. Add one with `foreplan phases add`."), cw)
	}

	innerW := components.CardInnerWidth(cw)

	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selNameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	recurStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface)

	nameW := innerW / 4
	if nameW < 12 {
		nameW = 12
	}

	var list strings.Builder
	for i, ph := range a.snap.Phases {
		projName := "?"
		if p, ok := a.snap.ProjectByID(ph.ProjectID); ok {
			projName = p.Name
		}

		ns := nameStyle
		if i == a.phaseCursor {
			list.WriteString(markerStyle.Render("▸ "))
			ns = selNameStyle
		} else {
			list.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
		}

		var when string
		if ph.Kind == model.PhaseRecurring {
			when = recurStyle.Render(patternLabel(ph.Pattern))
		} else {
			end := ph.EndDate
			when = mutedStyle.Render(cli.FormatDateRange(ph.StartDate, &end))
		}

		fmt.Fprintf(&list, "%s %s %s %s\n",
			mutedStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(projName, nameW))),
			ns.Render(fmt.Sprintf("%-*s", nameW, truncStr(ph.Name, nameW))),
			mutedStyle.Render(fmt.Sprintf("%7s", cli.FormatHours(ph.AllocationHours))),
			when)
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Phases", strings.TrimRight(list.String(), "\n"), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Detail",
		a.renderPhaseDetail(a.snap.Phases[a.phaseCursor], innerW), cw))
	return b.String()
}

func (a App) renderPhaseDetail(ph model.Phase, innerW int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange)

	project, ok := a.snap.ProjectByID(ph.ProjectID)
	if !ok {
		return warnStyle.Render("Phase references a missing project.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n",
		labelStyle.Render("Project:  "),
		valueStyle.Render(project.Name))

	if ph.Kind == model.PhaseRecurring {
		fmt.Fprintf(&b, "%s %s\n",
			labelStyle.Render("Pattern:  "),
			valueStyle.Render(patternLabel(ph.Pattern)))

		occs, err := forecast.ExpandPattern(ph, a.today, a.horizon)
		if err == nil {
			upcoming := make([]string, 0, 4)
			for _, occ := range occs {
				if occ.Date.Before(a.today) {
					continue
				}
				upcoming = append(upcoming, occ.Date.Format("Jan 2"))
				if len(upcoming) == 4 {
					break
				}
			}
			if len(upcoming) > 0 {
				fmt.Fprintf(&b, "%s %s\n",
					labelStyle.Render("Upcoming: "),
					valueStyle.Render(strings.Join(upcoming, ", ")))
			}
		}
	} else {
		end := ph.EndDate
		fmt.Fprintf(&b, "%s %s\n",
			labelStyle.Render("Dates:    "),
			valueStyle.Render(cli.FormatDateRange(ph.StartDate, &end)))
	}

	in := forecast.CapacityInputs{
		Slots:      a.snap.Slots,
		Exceptions: a.snap.Exceptions,
		Holidays:   a.snap.Holidays,
	}
	rem, err := forecast.RemainingForPhase(project, ph, a.snap.Events, in, a.today)
	if err == nil {
		barW := innerW - 30
		if barW < 10 {
			barW = 10
		}
		total := rem.CompletedHours + rem.RemainingHours
		pct := 0.0
		if total > 0 {
			pct = rem.CompletedHours / total
		}
		fmt.Fprintf(&b, "%s %s %s\n",
			labelStyle.Render("Progress: "),
			components.ProgressBar(pct, barW),
			labelStyle.Render(fmt.Sprintf("%s / %s", cli.FormatHours(rem.CompletedHours), cli.FormatHours(total))))
		if rem.Overcommitted {
			fmt.Fprintf(&b, "%s\n", warnStyle.Render(fmt.Sprintf(
				"Overcommitted: %s left with no working days in range.",
				cli.FormatHours(rem.RemainingHours))))
		} else {
			fmt.Fprintf(&b, "%s %s\n",
				labelStyle.Render("Days:     "),
				valueStyle.Render(fmt.Sprintf("%d working days remaining", len(rem.Days))))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// patternLabel describes a recurrence pattern in one short phrase.
func patternLabel(p *model.RecurrencePattern) string {
	if p == nil {
		return "recurring"
	}

	interval := p.Interval
	if interval < 1 {
		interval = 1
	}

	switch p.Freq {
	case model.FreqDaily:
		if interval == 1 {
			return "every day"
		}
		return fmt.Sprintf("every %d days", interval)
	case model.FreqWeekly:
		days := make([]string, 0, len(p.Weekdays))
		for _, wd := range p.Weekdays {
			days = append(days, wd.String()[:3])
		}
		unit := "week"
		if interval > 1 {
			unit = fmt.Sprintf("%d weeks", interval)
		}
		if len(days) == 0 {
			return "every " + unit
		}
		return fmt.Sprintf("every %s on %s", unit, strings.Join(days, ", "))
	case model.FreqMonthly:
		if p.MonthDay > 0 {
			return fmt.Sprintf("monthly on day %d", p.MonthDay)
		}
		return fmt.Sprintf("monthly on %s %s", ordinal(p.WeekOfMonth), p.Weekday)
	}
	return string(p.Freq)
}

func ordinal(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return fmt.Sprintf("%dth", n)
	}
}
