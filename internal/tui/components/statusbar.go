package components

import (
	"fmt"

	"foreplan/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar. overloaded is the count of
// days in the horizon with more hours allocated than available.
func RenderStatusBar(width int, today string, overloaded int) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " [?]help  [q]uit"

	right := ""
	if overloaded > 0 {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		right = warnStyle.Render(fmt.Sprintf("%d overloaded ", overloaded)) + "· "
	}
	right += fmt.Sprintf("Today: %s ", today)

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	bar := left
	for i := 0; i < padding; i++ {
		bar += " "
	}
	bar += right

	return style.Render(bar)
}
