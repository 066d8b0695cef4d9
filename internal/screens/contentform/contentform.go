package contentform

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/leap-app/leap/internal/api"
	"github.com/leap-app/leap/internal/forms"
	"github.com/leap-app/leap/internal/lifecycle"
	"github.com/leap-app/leap/internal/platform"
	"github.com/leap-app/leap/internal/router"
	"github.com/leap-app/leap/internal/screen"
	"github.com/leap-app/leap/internal/ui/components"
	"github.com/leap-app/leap/internal/ui/layout"
	"github.com/leap-app/leap/internal/ui/theme"
)

// Focus order: the text inputs, then the two pickers, then the button.
const (
	fieldTitle = iota
	fieldDescription
	fieldURL
	fieldAuthor
	fieldDuration
	fieldCategory
	fieldType
	fieldSubmit
	fieldCount
)

// FormScreen creates or edits a mind content item.
type FormScreen struct {
	svc       api.MindContentService
	nav       router.Navigator
	alerter   platform.Alerter
	mode      string
	contentID int

	categories *lifecycle.Controller[[]api.MindContentCategory]
	existing   *lifecycle.Controller[*api.MindContent]
	submission *lifecycle.Controller[*api.MindContent]

	inputs   []components.TextInput
	category components.Picker
	ctype    components.Picker
	focus    int
	// populated is set once edit-mode fields were filled from the server.
	populated bool
}

var _ screen.Screen = (*FormScreen)(nil)
var _ screen.KeyHintProvider = (*FormScreen)(nil)

// New creates a FormScreen. mode is router.ModeAdd or router.ModeEdit;
// contentID is only used in edit mode.
func New(svc api.MindContentService, nav router.Navigator, alerter platform.Alerter, mode string, contentID int) *FormScreen {
	if mode != router.ModeEdit {
		mode = router.ModeAdd
	}
	ctx := api.WithOrigin(context.Background(), "contentform")

	typeOptions := make([]components.PickerOption, 0, len(api.ContentTypes))
	for _, ct := range api.ContentTypes {
		typeOptions = append(typeOptions, components.PickerOption{Label: ct.Label(), Value: string(ct)})
	}

	s := &FormScreen{
		svc:       svc,
		nav:       nav,
		alerter:   alerter,
		mode:      mode,
		contentID: contentID,
		inputs: []components.TextInput{
			components.NewTextInput("Title", "Enter title", false, 200),
			components.NewTextInput("Description", "Enter description", false, 2000),
			components.NewTextInput("URL", "https://example.com", false, 500),
			components.NewTextInput("Author (optional)", "Enter author name", false, 200),
			components.NewTextInput("Duration in minutes (optional)", "e.g. 15", true, 6),
		},
		category: components.NewPicker("Category", nil),
		ctype:    components.NewPicker("Content Type", typeOptions),
	}
	s.inputs[fieldTitle].Focus()

	s.categories = lifecycle.New[[]api.MindContentCategory]("contentform.categories", svc.GetMindContentCategories,
		lifecycle.WithContext[[]api.MindContentCategory](ctx))
	s.existing = lifecycle.New[*api.MindContent]("contentform.existing",
		func(ctx context.Context) (*api.MindContent, error) {
			return svc.GetMindContentByID(ctx, contentID)
		},
		lifecycle.WithContext[*api.MindContent](ctx))
	s.submission = lifecycle.New[*api.MindContent]("contentform.submit", nil,
		lifecycle.WithContext[*api.MindContent](ctx),
		lifecycle.WithErrorText[*api.MindContent](api.Message))
	return s
}

func (s *FormScreen) editing() bool {
	return s.mode == router.ModeEdit
}

func (s *FormScreen) Init() tea.Cmd {
	if s.editing() {
		return tea.Batch(s.categories.Load(), s.existing.Load())
	}
	return s.categories.Load()
}

func (s *FormScreen) Title() string {
	if s.editing() {
		return "Edit Content"
	}
	return "Suggest New Content"
}

func (s *FormScreen) submitLabel() string {
	if s.editing() {
		return "Update Content"
	}
	return "Add Content"
}

func (s *FormScreen) KeyHints() []layout.KeyHint {
	if s.failed() {
		return []layout.KeyHint{{Key: "r", Description: "Retry"}, {Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "←→", Description: "Choose"},
		{Key: "Ctrl+S", Description: s.submitLabel()},
		{Key: "Esc", Description: "Cancel"},
	}
}

func (s *FormScreen) failed() bool {
	return s.categories.Phase() == lifecycle.PhaseError ||
		(s.editing() && s.existing.Phase() == lifecycle.PhaseError)
}

func (s *FormScreen) ready() bool {
	if _, ok := s.categories.Data(); !ok {
		return false
	}
	if s.editing() {
		_, ok := s.existing.Data()
		return ok
	}
	return true
}

func (s *FormScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.categories.Update(msg) {
		s.syncCategories()
		return s, nil
	}
	if s.existing.Update(msg) {
		s.populate()
		return s, nil
	}
	if s.submission.Update(msg) {
		return s, s.submitted()
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if !s.ready() {
		if kmsg.String() == "r" {
			var cmds []tea.Cmd
			cmds = append(cmds, s.categories.Retry())
			if s.editing() {
				cmds = append(cmds, s.existing.Retry())
			}
			return s, tea.Batch(cmds...)
		}
		return s, nil
	}

	switch kmsg.String() {
	case "ctrl+s":
		return s, s.submit()
	case "tab", "down":
		s.setFocus((s.focus + 1) % fieldCount)
		return s, nil
	case "shift+tab", "up":
		s.setFocus((s.focus - 1 + fieldCount) % fieldCount)
		return s, nil
	case "enter":
		if s.focus == fieldSubmit {
			return s, s.submit()
		}
		s.setFocus(s.focus + 1)
		return s, nil
	}

	switch {
	case s.focus < len(s.inputs):
		var cmd tea.Cmd
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		return s, cmd
	case s.focus == fieldCategory:
		s.category, _ = s.category.Update(msg)
	case s.focus == fieldType:
		s.ctype, _ = s.ctype.Update(msg)
	}
	return s, nil
}

func (s *FormScreen) setFocus(f int) {
	if f >= fieldCount {
		f = fieldSubmit
	}
	if s.focus < len(s.inputs) {
		s.inputs[s.focus].Blur()
	}
	s.category.Focused = false
	s.ctype.Focused = false

	s.focus = f
	switch {
	case f < len(s.inputs):
		s.inputs[f].Focus()
	case f == fieldCategory:
		s.category.Focused = true
	case f == fieldType:
		s.ctype.Focused = true
	}
}

// syncCategories fills the category picker. The first category is the
// default selection unless an edited item names another.
func (s *FormScreen) syncCategories() {
	cats, ok := s.categories.Data()
	if !ok {
		return
	}
	opts := make([]components.PickerOption, 0, len(cats))
	for _, c := range cats {
		opts = append(opts, components.PickerOption{Label: c.Name, Value: strconv.Itoa(c.ID)})
	}
	s.category.Options = opts
	s.category.Selected = 0
	if item, ok := s.existing.Data(); ok {
		s.category.Select(strconv.Itoa(item.CategoryID))
	}
}

func (s *FormScreen) populate() {
	item, ok := s.existing.Data()
	if !ok || s.populated {
		return
	}
	s.populated = true

	f := forms.FromContent(*item)
	s.inputs[fieldTitle].SetValue(f.Title)
	s.inputs[fieldDescription].SetValue(f.Description)
	s.inputs[fieldURL].SetValue(f.URL)
	s.inputs[fieldAuthor].SetValue(f.Author)
	s.inputs[fieldDuration].SetValue(f.Duration)
	s.ctype.Select(string(f.ContentType))
	s.category.Select(strconv.Itoa(f.CategoryID))
}

func (s *FormScreen) fields() forms.ContentFields {
	categoryID, _ := strconv.Atoi(s.category.Value())
	return forms.ContentFields{
		Title:       s.inputs[fieldTitle].Value(),
		Description: s.inputs[fieldDescription].Value(),
		URL:         s.inputs[fieldURL].Value(),
		Author:      s.inputs[fieldAuthor].Value(),
		Duration:    s.inputs[fieldDuration].Value(),
		ContentType: api.ContentType(s.ctype.Value()),
		CategoryID:  categoryID,
	}
}

func (s *FormScreen) submit() tea.Cmd {
	if s.submission.Loading() {
		return nil
	}
	input, err := forms.BuildContentInput(s.fields())
	if err != nil {
		var vErr *lifecycle.ValidationError
		if errors.As(err, &vErr) {
			return s.alerter.Alert(vErr.Title, vErr.Error())
		}
		return s.alerter.Alert("Error", err.Error())
	}

	if s.editing() {
		id := s.contentID
		return s.submission.Reload(func(ctx context.Context) (*api.MindContent, error) {
			return s.svc.UpdateMindContent(ctx, id, input)
		})
	}
	return s.submission.Reload(func(ctx context.Context) (*api.MindContent, error) {
		return s.svc.AddMindContent(ctx, input)
	})
}

func (s *FormScreen) submitted() tea.Cmd {
	switch s.submission.Phase() {
	case lifecycle.PhaseSuccess:
		msg := "Content added successfully!"
		if s.editing() {
			msg = "Content updated successfully!"
		}
		return s.alerter.AlertThen("Success", msg, s.nav.GoBack())
	case lifecycle.PhaseError:
		return s.alerter.Alert("Error", s.submission.Err())
	}
	return nil
}

func (s *FormScreen) View(width, height int) string {
	if s.failed() {
		msg := s.existing.Err()
		if msg == "" {
			msg = s.categories.Err()
		}
		return components.ErrorBox("Error: "+msg, true, width)
	}
	if !s.ready() {
		return components.Loading("Loading...", width)
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, in := range s.inputs {
		b.WriteString(in.View() + "\n\n")
	}
	b.WriteString(s.category.View() + "\n\n")
	b.WriteString(s.ctype.View() + "\n\n")

	button := components.NewButton(s.submitLabel(), s.focus == fieldSubmit)
	if s.submission.Loading() {
		button.Label = "Saving..."
		button.Disabled = true
	}
	b.WriteString(button.View())

	return lipgloss.NewStyle().Padding(0, 4).Foreground(theme.Text).Render(b.String())
}
