package components

import (
	"charm.land/lipgloss/v2"

	"github.com/leap-app/leap/internal/ui/theme"
)

// Loading renders a centered loading line.
func Loading(text string, width int) string {
	return lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render("\n\n" + text)
}

// ErrorBox renders a centered error line with an optional retry hint.
func ErrorBox(text string, retryHint bool, width int) string {
	out := lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Error).
		Render("\n\n" + text)
	if retryHint {
		out += "\n\n" + lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).
			Render(theme.ButtonActive.Render("r  Retry"))
	}
	return out
}

// Empty renders a centered, dimmed empty-state line.
func Empty(text string, width int) string {
	return lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
		Render("\n\n" + text)
}

// Notice renders a one-line warning above content, for example a failed
// background refresh.
func Notice(text string) string {
	return lipgloss.NewStyle().Foreground(theme.Accent).Render("! " + text)
}
