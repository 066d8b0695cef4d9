package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyPressMsg {
	switch s {
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func TestMenuSkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "off", Disabled: true},
		{Label: "a"},
		{Label: "skip", Disabled: true},
		{Label: "b"},
	})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(key("down"))
	assert.Equal(t, 3, m.Selected)

	m, _ = m.Update(key("up"))
	assert.Equal(t, 1, m.Selected)
}

func TestMenuEnterRunsAction(t *testing.T) {
	ran := false
	m := NewMenu([]MenuItem{{Label: "go", Action: func() tea.Cmd {
		ran = true
		return nil
	}}})
	m.Update(key("enter"))
	assert.True(t, ran)
}

func TestPickerCycles(t *testing.T) {
	p := NewPicker("Type", []PickerOption{
		{Label: "Article", Value: "article"},
		{Label: "Video", Value: "video"},
	})
	assert.Equal(t, "article", p.Value())

	p, _ = p.Update(key("right"))
	assert.Equal(t, "article", p.Value(), "unfocused picker ignores keys")

	p.Focused = true
	p, _ = p.Update(key("right"))
	assert.Equal(t, "video", p.Value())
	p, _ = p.Update(key("right"))
	assert.Equal(t, "article", p.Value())
	p, _ = p.Update(key("left"))
	assert.Equal(t, "video", p.Value())
}

func TestPickerSelect(t *testing.T) {
	p := NewPicker("", []PickerOption{{Label: "A", Value: "1"}, {Label: "B", Value: "2"}})
	require.True(t, p.Select("2"))
	assert.Equal(t, 1, p.Selected)
	assert.False(t, p.Select("9"))
	assert.Equal(t, 1, p.Selected)
}

func TestPickerEmpty(t *testing.T) {
	p := NewPicker("Category", nil)
	p.Next()
	p.Prev()
	assert.Equal(t, "", p.Value())
	assert.Contains(t, p.View(), "(none)")
}

func TestTextInputNumericOnly(t *testing.T) {
	ti := NewTextInput("Duration", "", true, 4)
	ti.Focus()
	ti, _ = ti.Update(key("x"))
	assert.Equal(t, "", ti.Value())
	ti, _ = ti.Update(key("4"))
	ti, _ = ti.Update(key("2"))
	assert.Equal(t, "42", ti.Value())
}

func TestButtonView(t *testing.T) {
	assert.Contains(t, NewButton("Submit", true).View(), "▸ Submit")
	assert.NotContains(t, NewButton("Submit", false).View(), "▸")
}
