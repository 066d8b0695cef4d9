package completions

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/leap-app/leap/internal/api"
	"github.com/leap-app/leap/internal/lifecycle"
	"github.com/leap-app/leap/internal/screen"
	"github.com/leap-app/leap/internal/textutil"
	"github.com/leap-app/leap/internal/ui/components"
	"github.com/leap-app/leap/internal/ui/layout"
	"github.com/leap-app/leap/internal/ui/theme"
)

// CompletionsScreen displays the user's submitted challenge completions.
type CompletionsScreen struct {
	list     *lifecycle.Controller[[]api.ChallengeCompletion]
	selected int
	expanded map[int]bool
}

var _ screen.Screen = (*CompletionsScreen)(nil)
var _ screen.KeyHintProvider = (*CompletionsScreen)(nil)
var _ screen.Resumer = (*CompletionsScreen)(nil)

// New creates a new CompletionsScreen.
func New(svc api.ChallengeService) *CompletionsScreen {
	ctx := api.WithOrigin(context.Background(), "completions")
	return &CompletionsScreen{
		list: lifecycle.New[[]api.ChallengeCompletion]("completions.list", svc.GetMyChallengeCompletions,
			lifecycle.WithEmpty(lifecycle.SliceEmpty[api.ChallengeCompletion]),
			lifecycle.WithContext[[]api.ChallengeCompletion](ctx)),
		expanded: make(map[int]bool),
	}
}

func (s *CompletionsScreen) Init() tea.Cmd {
	return s.list.Load()
}

// Resume refreshes the list when the screen becomes visible again.
func (s *CompletionsScreen) Resume() tea.Cmd {
	if cmd := s.list.Resync(); cmd != nil {
		return cmd
	}
	if s.list.Phase() == lifecycle.PhaseSuccess {
		return s.list.Refresh()
	}
	return s.list.Load()
}

func (s *CompletionsScreen) Title() string {
	return "My Completions"
}

func (s *CompletionsScreen) KeyHints() []layout.KeyHint {
	if s.list.Phase() == lifecycle.PhaseError {
		return []layout.KeyHint{
			{Key: "r", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "r", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *CompletionsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.list.Update(msg) {
		items, _ := s.list.Data()
		if s.selected >= len(items) {
			s.selected = max(len(items)-1, 0)
		}
		return s, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "r":
		if s.list.Phase() == lifecycle.PhaseError {
			return s, s.list.Retry()
		}
		return s, s.list.Refresh()
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		items, _ := s.list.Data()
		if s.selected < len(items)-1 {
			s.selected++
		}
	case "enter":
		if items, ok := s.list.Data(); ok && len(items) > 0 {
			id := items[s.selected].ID
			s.expanded[id] = !s.expanded[id]
		}
	}
	return s, nil
}

func (s *CompletionsScreen) View(width, height int) string {
	switch s.list.Phase() {
	case lifecycle.PhaseIdle, lifecycle.PhaseLoading:
		return components.Loading("Loading your completions...", width)
	case lifecycle.PhaseError:
		return components.ErrorBox("Error: "+s.list.Err(), true, width)
	}
	if s.list.Empty() {
		return components.Empty("You haven't completed any challenges yet.", width)
	}

	items, _ := s.list.Data()

	var b strings.Builder
	b.WriteString("\n")
	if s.list.Refreshing() {
		b.WriteString("  " + theme.Hint.Render("Refreshing...") + "\n")
	}
	if e := s.list.RefreshErr(); e != "" {
		b.WriteString("  " + components.Notice("Refresh failed: "+e) + "\n")
	}

	for i, c := range items {
		title := api.Deref(c.ChallengeTitle)
		if title == "" {
			title = fmt.Sprintf("Challenge #%d", c.ChallengeTemplateID)
		}

		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}

		status := lipgloss.NewStyle().Foreground(theme.StatusColor(string(c.Status))).
			Render("Status: " + string(c.Status))

		date := ""
		if c.CompletedAt != nil {
			date = theme.Subtitle.Render("  " + textutil.FormatDate(*c.CompletedAt))
		}

		b.WriteString(prefix + style.Render(title) + "  " + status + date + "\n")

		response := api.Deref(c.UserResponse)
		if response == "" {
			continue
		}
		if s.expanded[c.ID] {
			b.WriteString(lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Width(width-8).
				PaddingLeft(4).
				Render("Response: "+response) + "\n")
		} else {
			b.WriteString("    " + theme.Hint.Render("Response: "+textutil.Truncate(response, width-20)) + "\n")
		}
	}

	return b.String()
}
