package challenges

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/leap-app/leap/internal/api"
	"github.com/leap-app/leap/internal/lifecycle"
	"github.com/leap-app/leap/internal/router"
	"github.com/leap-app/leap/internal/screen"
	"github.com/leap-app/leap/internal/textutil"
	"github.com/leap-app/leap/internal/ui/components"
	"github.com/leap-app/leap/internal/ui/layout"
	"github.com/leap-app/leap/internal/ui/theme"
)

const linesPerItem = 3

// ChallengesScreen lists practice challenge templates with a difficulty
// filter.
type ChallengesScreen struct {
	svc  api.ChallengeService
	nav  router.Navigator
	ctx  context.Context
	list *lifecycle.Controller[[]api.ChallengeTemplate]

	// pending is the filter being edited; applied is the one last fetched.
	pending  api.TemplateFilter
	applied  api.TemplateFilter
	selected int
	// skills holds every associated skill id seen so far, sorted.
	skills []int
}

var _ screen.Screen = (*ChallengesScreen)(nil)
var _ screen.KeyHintProvider = (*ChallengesScreen)(nil)

// New creates a ChallengesScreen.
func New(svc api.ChallengeService, nav router.Navigator) *ChallengesScreen {
	s := &ChallengesScreen{
		svc: svc,
		nav: nav,
		ctx: api.WithOrigin(context.Background(), "challenges"),
	}
	s.list = lifecycle.New[[]api.ChallengeTemplate]("challenges.list", s.fetcher(s.applied),
		lifecycle.WithEmpty(lifecycle.SliceEmpty[api.ChallengeTemplate]),
		lifecycle.WithContext[[]api.ChallengeTemplate](s.ctx))
	return s
}

func (s *ChallengesScreen) fetcher(filter api.TemplateFilter) lifecycle.Fetcher[[]api.ChallengeTemplate] {
	return func(ctx context.Context) ([]api.ChallengeTemplate, error) {
		return s.svc.GetChallengeTemplates(ctx, filter)
	}
}

func (s *ChallengesScreen) Init() tea.Cmd {
	return s.list.Load()
}

func (s *ChallengesScreen) Title() string {
	return "Practice Challenges"
}

func (s *ChallengesScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "1/2/3/0", Description: "Difficulty"},
		{Key: "s", Description: "Skill"},
		{Key: "a", Description: "Apply Filters"},
	}
	switch s.list.Phase() {
	case lifecycle.PhaseError:
		hints = append(hints, layout.KeyHint{Key: "r", Description: "Retry"})
	case lifecycle.PhaseSuccess:
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Navigate"},
			layout.KeyHint{Key: "Enter", Description: "Attempt Challenge"},
			layout.KeyHint{Key: "r", Description: "Refresh"},
		)
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *ChallengesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.list.Update(msg) {
		s.clampSelection()
		s.collectSkills()
		return s, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "1":
		s.pending.Difficulty = api.Easy
	case "2":
		s.pending.Difficulty = api.Medium
	case "3":
		s.pending.Difficulty = api.Hard
	case "0":
		s.pending.Difficulty = ""
	case "s":
		s.pending.AssociatedSkillID = s.nextSkill(s.pending.AssociatedSkillID)
	case "a":
		s.applied = s.pending
		s.selected = 0
		return s, s.list.Reload(s.fetcher(s.applied))
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
		items, ok := s.list.Data()
		if !ok || len(items) == 0 {
			return s, nil
		}
		return s, s.nav.Navigate(router.ChallengeAttempt, router.Params{ChallengeID: items[s.selected].ID})
	}
	return s, nil
}

func (s *ChallengesScreen) clampSelection() {
	items, _ := s.list.Data()
	if s.selected >= len(items) {
		s.selected = len(items) - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
}

func (s *ChallengesScreen) collectSkills() {
	items, _ := s.list.Data()
	for _, t := range items {
		if t.AssociatedSkillID == nil {
			continue
		}
		if i, found := slices.BinarySearch(s.skills, *t.AssociatedSkillID); !found {
			s.skills = slices.Insert(s.skills, i, *t.AssociatedSkillID)
		}
	}
}

// nextSkill cycles Any (0) through the known skill ids and back to Any.
func (s *ChallengesScreen) nextSkill(current int) int {
	if current == 0 {
		if len(s.skills) == 0 {
			return 0
		}
		return s.skills[0]
	}
	i, found := slices.BinarySearch(s.skills, current)
	if found {
		i++
	}
	if i >= len(s.skills) {
		return 0
	}
	return s.skills[i]
}

func (s *ChallengesScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(s.filterBar())
	b.WriteString("\n")

	switch s.list.Phase() {
	case lifecycle.PhaseIdle, lifecycle.PhaseLoading:
		b.WriteString(components.Loading("Loading challenges...", width))
		return b.String()
	case lifecycle.PhaseError:
		b.WriteString(components.ErrorBox("Error: "+s.list.Err(), true, width))
		return b.String()
	}

	if s.list.Empty() {
		b.WriteString(components.Empty("No challenges found for the selected filters.", width))
		return b.String()
	}

	if s.list.Refreshing() {
		b.WriteString("  " + theme.Hint.Render("Refreshing...") + "\n")
	}
	if e := s.list.RefreshErr(); e != "" {
		b.WriteString(components.Notice("Refresh failed: "+e) + "\n")
	}

	items, _ := s.list.Data()
	visible := (height - 3) / linesPerItem
	if visible < 1 {
		visible = 1
	}
	start := 0
	if s.selected >= visible {
		start = s.selected - visible + 1
	}
	end := start + visible
	if end > len(items) {
		end = len(items)
	}

	for i := start; i < end; i++ {
		b.WriteString(s.renderItem(items[i], i == s.selected, width))
	}
	if end < len(items) {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  … %d more", len(items)-end)))
	}
	return b.String()
}

func (s *ChallengesScreen) filterBar() string {
	chips := make([]string, 0, len(api.Difficulties)+1)
	for _, d := range append([]api.Difficulty{""}, api.Difficulties...) {
		if d == s.pending.Difficulty {
			chips = append(chips, theme.ChipActive.Render(d.Label()))
		} else {
			chips = append(chips, theme.Chip.Render(d.Label()))
		}
	}
	skill := "Any"
	if s.pending.AssociatedSkillID != 0 {
		skill = "#" + strconv.Itoa(s.pending.AssociatedSkillID)
	}
	line := "  " + theme.Label.Render("Difficulty ") + strings.Join(chips, " ") +
		"   " + theme.Label.Render("Skill ") + theme.ChipActive.Render(skill)
	if s.pending != s.applied {
		line += "  " + theme.Hint.Render("press a to apply")
	}
	return line + "\n"
}

func (s *ChallengesScreen) renderItem(t api.ChallengeTemplate, selected bool, width int) string {
	prefix := "  "
	titleStyle := theme.Unselected
	if selected {
		prefix = "▸ "
		titleStyle = theme.Selected
	}

	meta := lipgloss.NewStyle().Foreground(theme.DifficultyColor(string(t.Difficulty))).Render(t.Difficulty.Label()) +
		theme.Subtitle.Render("  ·  "+t.ChallengeType.Label())

	desc := textutil.Truncate(textutil.PlainText(t.Description), width-6)

	return prefix + titleStyle.Render(t.Title) + "  " + meta + "\n" +
		"    " + theme.Subtitle.Render(desc) + "\n\n"
}
