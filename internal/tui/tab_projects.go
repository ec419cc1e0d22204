package tui

import (
	"fmt"
	"strings"
	"time"

	"foreplan/internal/cli"
	"foreplan/internal/forecast"
	"foreplan/internal/tui/components"
	"foreplan/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// renderProjectsTab lists every project's status roll-up with a cursor,
// and a detail card for the selected one.
func (a App) renderProjectsTab(cw int) string {
	t := theme.Active
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	if len(a.statuses) == 0 {
		return components.ContentCard("Projects",
			dimStyle.Render("No projects yet. Add one with `foreplan projects add`."), cw)
	}

	innerW := components.CardInnerWidth(cw)

	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selNameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	nameW := innerW / 3
	if nameW < 12 {
		nameW = 12
	}

	var list strings.Builder
	for i, st := range a.statuses {
		ns := nameStyle
		if i == a.projCursor {
			list.WriteString(markerStyle.Render("▸ "))
			ns = selNameStyle
		} else {
			list.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
		}

		days := fmt.Sprintf("%d days", st.RemainingDays)
		if st.Overcommitted {
			days = lipgloss.NewStyle().Foreground(t.Red).Bold(true).Render("0 days!")
		}

		fmt.Fprintf(&list, "%s %s %s %s %s\n",
			ns.Render(fmt.Sprintf("%-*s", nameW, truncStr(st.Project.Name, nameW))),
			mutedStyle.Render(fmt.Sprintf("%8s left", cli.FormatHours(st.RemainingHours))),
			mutedStyle.Render(fmt.Sprintf("%9s", days)),
			mutedStyle.Render(fmt.Sprintf("%8s/day", cli.FormatHours(st.HoursPerDay))),
			a.paceLabel(st))
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Projects", strings.TrimRight(list.String(), "\n"), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Detail",
		a.renderProjectDetail(a.statuses[a.projCursor], innerW), cw))
	return b.String()
}

func (a App) renderProjectDetail(st forecast.ProjectStatus, innerW int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	p := st.Project
	total := st.CompletedHours + st.RemainingHours

	barW := innerW - 30
	if barW < 10 {
		barW = 10
	}
	pct := 0.0
	if total > 0 {
		pct = st.CompletedHours / total
	}

	kind := "phased"
	if st.PhaseCount == 0 {
		kind = "flat"
	}
	if p.Continuous() {
		kind += " · continuous"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n",
		labelStyle.Render("Dates:    "),
		valueStyle.Render(cli.FormatDateRange(p.StartDate, p.EndDate)))
	fmt.Fprintf(&b, "%s %s\n",
		labelStyle.Render("Estimate: "),
		valueStyle.Render(fmt.Sprintf("%s (%s, %d phases)", cli.FormatHours(p.EstimatedHours), kind, st.PhaseCount)))
	fmt.Fprintf(&b, "%s %s %s\n",
		labelStyle.Render("Progress: "),
		components.ProgressBar(pct, barW),
		labelStyle.Render(fmt.Sprintf("%s / %s", cli.FormatHours(st.CompletedHours), cli.FormatHours(total))))
	fmt.Fprintf(&b, "%s %s\n",
		labelStyle.Render("Capacity: "),
		valueStyle.Render(fmt.Sprintf("%s over %d remaining days", cli.FormatHours(st.CapacityHours), st.RemainingDays)))

	if len(p.AutoDayOverrides) > 0 {
		var days []string
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			if p.AutoDayOverrides[wd] {
				days = append(days, wd.String()[:3])
			}
		}
		if len(days) > 0 {
			fmt.Fprintf(&b, "%s %s\n",
				labelStyle.Render("Days:     "),
				valueStyle.Render(strings.Join(days, ", ")))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
