package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"foreplan/internal/cli"
	"foreplan/internal/forecast"
	"foreplan/internal/model"
	"foreplan/internal/tui/components"
	"foreplan/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	// Row 1: Metric cards
	var remaining, completed, capacity float64
	overcommitted := 0
	for _, st := range a.statuses {
		remaining += st.RemainingHours
		completed += st.CompletedHours
		if st.Overcommitted {
			overcommitted++
		}
	}
	workingDays := 0
	overloadedDays := 0
	for _, d := range a.loads {
		capacity += d.CapacityHours
		if d.IsWorkingDay {
			workingDays++
		}
		if d.Overloaded() {
			overloadedDays++
		}
	}

	projDelta := "all on schedule"
	if overcommitted > 0 {
		projDelta = fmt.Sprintf("%d overcommitted", overcommitted)
	}
	capDelta := ""
	if workingDays > 0 {
		capDelta = cli.FormatHours(capacity/float64(workingDays)) + "/day avg"
	}

	metrics := []components.Metric{
		{Label: "Projects", Value: strconv.Itoa(len(a.statuses)), Delta: projDelta},
		{Label: "Remaining", Value: cli.FormatHours(remaining), Delta: cli.FormatHours(completed) + " done"},
		{Label: "Capacity", Value: cli.FormatHours(capacity), Delta: capDelta},
		{Label: "Overloaded", Value: strconv.Itoa(overloadedDays), Delta: fmt.Sprintf("of %d days", len(a.loads))},
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Row 2: Daily allocation chart over the horizon
	if len(a.loads) > 0 {
		chartVals := make([]float64, len(a.loads))
		for i, d := range a.loads {
			chartVals[i] = d.EstimatedHours
		}
		chartInnerW := components.CardInnerWidth(cw)
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Daily Allocation (%dd)", a.horizonDays()),
			components.HoursBarChart(chartVals, loadDateLabels(a.loads), t.Blue, chartInnerW, 10),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 3: Project pace + upcoming days
	halves := components.LayoutRow(cw, 2)

	paceCard := components.ContentCard("Pace",
		a.renderPaceList(components.CardInnerWidth(halves[0])), halves[0])
	upcomingCard := components.ContentCard("Next 7 Days",
		a.renderUpcoming(components.CardInnerWidth(halves[1])), halves[1])

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Pace",
			a.renderPaceList(components.CardInnerWidth(cw)), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Next 7 Days",
			a.renderUpcoming(components.CardInnerWidth(cw)), cw))
	} else {
		b.WriteString(components.CardRow([]string{paceCard, upcomingCard}))
	}

	// Warnings, if any
	if len(a.warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Warnings", a.renderWarnings(), cw))
	}

	return b.String()
}

// renderPaceList shows each project's completion bar and pace verdict.
func (a App) renderPaceList(innerW int) string {
	t := theme.Active

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	if len(a.statuses) == 0 {
		return dimStyle.Render("No projects yet. Add one with `foreplan projects add`.")
	}

	nameW := innerW / 3
	if nameW < 10 {
		nameW = 10
	}
	barW := innerW - nameW - 18
	if barW < 8 {
		barW = 8
	}

	var b strings.Builder
	for _, st := range a.statuses {
		total := st.CompletedHours + st.RemainingHours
		pct := 0.0
		if total > 0 {
			pct = st.CompletedHours / total
		}
		fmt.Fprintf(&b, "%s %s %s\n",
			nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(st.Project.Name, nameW))),
			components.ProgressBar(pct, barW),
			a.paceLabel(st))
	}
	return b.String()
}

func (a App) paceLabel(st forecast.ProjectStatus) string {
	t := theme.Active
	switch {
	case st.Overcommitted:
		return lipgloss.NewStyle().Foreground(t.Red).Bold(true).Render("no days left")
	case st.Pace == forecast.PaceAhead:
		return lipgloss.NewStyle().Foreground(t.Green).Render("ahead")
	case st.Pace == forecast.PaceBehind:
		return lipgloss.NewStyle().Foreground(t.Orange).Render("behind")
	default:
		return lipgloss.NewStyle().Foreground(t.TextMuted).Render("on track")
	}
}

// renderUpcoming lists the allocations for the next seven days.
func (a App) renderUpcoming(innerW int) string {
	t := theme.Active

	dateStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	hoursStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	eventStyle := lipgloss.NewStyle().Foreground(t.Magenta)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	cutoff := a.today.AddDate(0, 0, 7)
	var rows []model.DayEstimate
	for _, est := range a.estimates {
		if est.Date.After(cutoff) {
			break
		}
		rows = append(rows, est)
	}
	if len(rows) == 0 {
		return dimStyle.Render("Nothing scheduled this week.")
	}

	nameW := innerW - 18
	if nameW < 10 {
		nameW = 10
	}

	var b strings.Builder
	for _, est := range rows {
		name := "?"
		if p, ok := a.snap.ProjectByID(est.ProjectID); ok {
			name = p.Name
		}
		rendered := nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(name, nameW)))
		if est.Source == model.SourceEvent {
			rendered = eventStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(name+" (event)", nameW)))
		}
		fmt.Fprintf(&b, "%s %s %s\n",
			dateStyle.Render(est.Date.Format("Mon Jan 2")),
			rendered,
			hoursStyle.Render(cli.FormatHours(est.Hours)))
	}
	return b.String()
}

func (a App) renderWarnings() string {
	t := theme.Active
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange)

	var b strings.Builder
	for _, w := range a.warnings {
		name := ""
		if p, ok := a.snap.ProjectByID(w.ProjectID); ok {
			name = p.Name + ": "
		}
		switch w.Code {
		case model.WarnOvercommitted:
			fmt.Fprintf(&b, "%s\n", warnStyle.Render(fmt.Sprintf(
				"%s%s remaining with no working days left", name, cli.FormatHours(w.RemainingHours))))
		case model.WarnNoCapacity:
			fmt.Fprintf(&b, "%s\n", warnStyle.Render(
				"No work slots configured. Add them with `foreplan slots add` or in setup."))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// loadDateLabels builds compact X-axis labels for a chronological day
// series: month abbreviation at the start and on month boundaries, day
// numbers elsewhere.
func loadDateLabels(loads []forecast.DayLoad) []string {
	labels := make([]string, len(loads))
	prevMonth := time.Month(0)
	for i, d := range loads {
		m := d.Date.Month()
		switch {
		case i == 0, m != prevMonth:
			labels[i] = d.Date.Format("Jan")
		default:
			labels[i] = strconv.Itoa(d.Date.Day())
		}
		prevMonth = m
	}
	return labels
}
