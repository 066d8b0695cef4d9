package components

import (
	"github.com/leap-app/leap/internal/ui/theme"
)

// Button is a styled button component. Active means it has focus.
type Button struct {
	Label    string
	Active   bool
	Disabled bool
}

// NewButton creates a new button.
func NewButton(label string, active bool) Button {
	return Button{
		Label:  label,
		Active: active,
	}
}

// View renders the button.
func (b Button) View() string {
	if b.Disabled {
		return theme.ButtonInactive.Foreground(theme.TextDim).Render(b.Label)
	}
	if b.Active {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}
