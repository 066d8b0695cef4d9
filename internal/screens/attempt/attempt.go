package attempt

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/leap-app/leap/internal/api"
	"github.com/leap-app/leap/internal/forms"
	"github.com/leap-app/leap/internal/lifecycle"
	"github.com/leap-app/leap/internal/platform"
	"github.com/leap-app/leap/internal/router"
	"github.com/leap-app/leap/internal/screen"
	"github.com/leap-app/leap/internal/textutil"
	"github.com/leap-app/leap/internal/ui/components"
	"github.com/leap-app/leap/internal/ui/layout"
	"github.com/leap-app/leap/internal/ui/theme"
)

const (
	submitLabel   = "Submit Completion"
	photoInfoText = "This challenge involves a photo upload. Photo uploads are not supported here yet; paste a link to your photo (optional) and submit."
)

// AttemptScreen loads one challenge template and submits a completion.
type AttemptScreen struct {
	svc     api.ChallengeService
	nav     router.Navigator
	alerter platform.Alerter
	id      int

	template   *lifecycle.Controller[*api.ChallengeTemplate]
	submission *lifecycle.Controller[*api.ChallengeCompletion]

	input  components.TextInput
	marked bool
}

var _ screen.Screen = (*AttemptScreen)(nil)
var _ screen.KeyHintProvider = (*AttemptScreen)(nil)

// New creates an AttemptScreen for the template with the given id.
func New(svc api.ChallengeService, nav router.Navigator, alerter platform.Alerter, challengeID int) *AttemptScreen {
	ctx := api.WithOrigin(context.Background(), "attempt")
	s := &AttemptScreen{
		svc:     svc,
		nav:     nav,
		alerter: alerter,
		id:      challengeID,
		input:   components.NewTextInput("Your response", "Enter your response", false, 2000),
	}
	s.template = lifecycle.New[*api.ChallengeTemplate]("attempt.template",
		func(ctx context.Context) (*api.ChallengeTemplate, error) {
			return svc.GetChallengeTemplateByID(ctx, challengeID)
		},
		lifecycle.WithContext[*api.ChallengeTemplate](ctx))
	s.submission = lifecycle.New[*api.ChallengeCompletion]("attempt.submit", nil,
		lifecycle.WithContext[*api.ChallengeCompletion](ctx),
		lifecycle.WithErrorText[*api.ChallengeCompletion](api.Message))
	return s
}

func (s *AttemptScreen) Init() tea.Cmd {
	return s.template.Load()
}

func (s *AttemptScreen) Title() string {
	return "Attempt Challenge"
}

func (s *AttemptScreen) KeyHints() []layout.KeyHint {
	tpl, ok := s.template.Data()
	if !ok {
		if s.template.Phase() == lifecycle.PhaseError {
			return []layout.KeyHint{{Key: "r", Description: "Retry"}, {Key: "Esc", Description: "Back"}}
		}
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	hints := []layout.KeyHint{}
	if tpl.ChallengeType == api.CheckboxCompletion {
		hints = append(hints, layout.KeyHint{Key: "Space", Description: "Toggle"})
	}
	return append(hints,
		layout.KeyHint{Key: "Enter", Description: submitLabel},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

func (s *AttemptScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.template.Update(msg) {
		if tpl, ok := s.template.Data(); ok && tpl.ChallengeType != api.CheckboxCompletion {
			if tpl.ChallengeType == api.PhotoUpload {
				s.input.Label = "Photo link (optional)"
				s.input.Model.Placeholder = "https://..."
			}
			s.input.Focus()
		}
		return s, nil
	}
	if s.submission.Update(msg) {
		return s, s.submitted()
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	tpl, loaded := s.template.Data()
	if !loaded {
		if kmsg.String() == "r" {
			return s, s.template.Retry()
		}
		return s, nil
	}

	switch kmsg.String() {
	case "enter", "ctrl+s":
		return s, s.submit(tpl)
	case "space":
		if tpl.ChallengeType == api.CheckboxCompletion {
			s.marked = !s.marked
			return s, nil
		}
	}

	if tpl.ChallengeType != api.CheckboxCompletion && !s.submission.Loading() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *AttemptScreen) submit(tpl *api.ChallengeTemplate) tea.Cmd {
	if s.submission.Loading() {
		return nil
	}
	req, err := forms.BuildCompletion(*tpl, s.input.Value(), s.marked)
	if err != nil {
		var vErr *lifecycle.ValidationError
		if errors.As(err, &vErr) {
			return s.alerter.Alert(vErr.Title, vErr.Error())
		}
		return s.alerter.Alert("Error", err.Error())
	}
	return s.submission.Reload(func(ctx context.Context) (*api.ChallengeCompletion, error) {
		return s.svc.SubmitChallengeCompletion(ctx, req)
	})
}

// submitted reports the outcome of a finished submission.
func (s *AttemptScreen) submitted() tea.Cmd {
	switch s.submission.Phase() {
	case lifecycle.PhaseSuccess:
		return s.alerter.AlertThen("Success", "Challenge completion submitted!", s.nav.GoBack())
	case lifecycle.PhaseError:
		return s.alerter.Alert("Error", s.submission.Err())
	}
	return nil
}

func (s *AttemptScreen) View(width, height int) string {
	switch s.template.Phase() {
	case lifecycle.PhaseIdle, lifecycle.PhaseLoading:
		return components.Loading("Loading challenge details...", width)
	case lifecycle.PhaseError:
		return components.ErrorBox("Error: "+s.template.Err(), true, width)
	}

	tpl, _ := s.template.Data()
	inner := width - 8
	if inner < 20 {
		inner = 20
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Render(tpl.Title) + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.DifficultyColor(string(tpl.Difficulty))).Render(tpl.Difficulty.Label()) +
		theme.Subtitle.Render("  ·  "+tpl.ChallengeType.Label()) + "\n\n")
	b.WriteString(theme.Body.Width(inner).Render(textutil.PlainText(tpl.Description)) + "\n\n")

	switch tpl.ChallengeType {
	case api.CheckboxCompletion:
		b.WriteString(theme.Label.Render("Mark as completed:") + "  ")
		if s.marked {
			b.WriteString(theme.Positive.Render("[x] Completed (Unmark)"))
		} else {
			b.WriteString(theme.Unselected.Render("[ ] Not Completed (Mark)"))
		}
		b.WriteString("\n\n")
	case api.PhotoUpload:
		b.WriteString(theme.Hint.Width(inner).Render(photoInfoText) + "\n\n")
		b.WriteString(s.input.View() + "\n\n")
	default:
		b.WriteString(s.input.View() + "\n\n")
	}

	button := components.NewButton(submitLabel, true)
	if s.submission.Loading() {
		button.Label = "Submitting..."
		button.Disabled = true
	}
	b.WriteString(button.View())

	return lipgloss.NewStyle().Padding(0, 4).Render(b.String())
}
