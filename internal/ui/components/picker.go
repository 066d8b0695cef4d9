package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/leap-app/leap/internal/ui/theme"
)

// PickerOption is one choice in a Picker.
type PickerOption struct {
	Label string
	Value string
}

// Picker is a single-choice horizontal selector cycled with left/right.
type Picker struct {
	Label    string
	Options  []PickerOption
	Selected int
	Focused  bool
}

// NewPicker creates a picker with the first option selected.
func NewPicker(label string, options []PickerOption) Picker {
	return Picker{Label: label, Options: options}
}

// Update cycles the selection when focused.
func (p Picker) Update(msg tea.Msg) (Picker, tea.Cmd) {
	if !p.Focused || len(p.Options) == 0 {
		return p, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch kmsg.String() {
	case "left", "h":
		p.Prev()
	case "right", "l", "space":
		p.Next()
	}
	return p, nil
}

// Next selects the following option, wrapping around.
func (p *Picker) Next() {
	if len(p.Options) == 0 {
		return
	}
	p.Selected = (p.Selected + 1) % len(p.Options)
}

// Prev selects the preceding option, wrapping around.
func (p *Picker) Prev() {
	if len(p.Options) == 0 {
		return
	}
	p.Selected = (p.Selected - 1 + len(p.Options)) % len(p.Options)
}

// Value returns the selected option's value, or "" when empty.
func (p Picker) Value() string {
	if p.Selected < 0 || p.Selected >= len(p.Options) {
		return ""
	}
	return p.Options[p.Selected].Value
}

// Select moves the selection to the option with value v. It reports
// whether such an option exists.
func (p *Picker) Select(v string) bool {
	for i, o := range p.Options {
		if o.Value == v {
			p.Selected = i
			return true
		}
	}
	return false
}

// View renders the label and the options as chips.
func (p Picker) View() string {
	label := theme.Label.Render(p.Label)
	if p.Focused {
		label = theme.Selected.Render(p.Label)
	}

	chips := make([]string, 0, len(p.Options))
	for i, o := range p.Options {
		if i == p.Selected {
			chips = append(chips, theme.ChipActive.Render(o.Label))
		} else {
			chips = append(chips, theme.Chip.Render(o.Label))
		}
	}
	if len(chips) == 0 {
		chips = append(chips, theme.Hint.Render("(none)"))
	}

	if p.Label == "" {
		return strings.Join(chips, " ")
	}
	return label + "\n" + strings.Join(chips, " ")
}
