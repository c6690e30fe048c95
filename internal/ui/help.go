package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpEntry struct {
	Key  string
	What string
}

var helpEntries = []helpEntry{
	{"up/down, k/j", "scroll one line"},
	{"pgup/pgdown", "scroll one page"},
	{"g/G", "jump to top/bottom"},
	{"tab", "select next marker"},
	{"shift+tab", "select previous marker"},
	{"e", "jump to first error"},
	{"w", "jump to first warning"},
	{"E", "toggle only-errors filter"},
	{"/", "search"},
	{"esc", "cancel search / close help"},
	{"?", "toggle this help"},
	{"q, ctrl+c", "quit"},
}

// renderHelp draws the help overlay, grounded in the status/help split
// the original tool's widgets/help.rs and widgets/status.rs kept
// separate: a full-screen key reference distinct from the always-on
// status line.
func renderHelp(width, height int, version string) string {
	var b strings.Builder
	b.WriteString(helpKeyStyle.Render("nbuild keybindings"))
	b.WriteString("\n\n")
	for _, e := range helpEntries {
		b.WriteString(helpKeyStyle.Render(padRight(e.Key, 16)))
		b.WriteString(e.What)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(version))
	return lipgloss.NewStyle().Width(width).Height(height).Padding(1, 2).Render(b.String())
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-len(s))
}
