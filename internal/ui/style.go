package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/welschmorgan/nbuild/internal/rule"
)

// lipglossStyle converts a rule.Style -- the library-agnostic style
// object declared by rule config files -- into a lipgloss.Style used
// for rendering. Kept here, not in internal/rule, so the rule package
// never imports the rendering stack (see rule.Style's doc comment).
func lipglossStyle(s rule.Style) lipgloss.Style {
	out := lipgloss.NewStyle()
	if s.Fg != "" {
		out = out.Foreground(lipgloss.Color(s.Fg))
	}
	if s.Bg != "" {
		out = out.Background(lipgloss.Color(s.Bg))
	}
	if s.HasModifier(rule.ModBold) {
		out = out.Bold(true)
	}
	if s.HasModifier(rule.ModItalic) {
		out = out.Italic(true)
	}
	if s.HasModifier(rule.ModUnderline) {
		out = out.Underline(true)
	}
	if s.HasModifier(rule.ModDim) {
		out = out.Faint(true)
	}
	return out
}

var (
	statusBarStyle   = lipgloss.NewStyle().Bold(true).Reverse(true)
	helpKeyStyle     = lipgloss.NewStyle().Bold(true)
	searchStyle      = lipgloss.NewStyle().Reverse(true)
	selectedLineBase = lipgloss.NewStyle().Background(lipgloss.Color("237"))
	dimStyle         = lipgloss.NewStyle().Faint(true)
)
