package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/leap-app/leap/internal/router"
	"github.com/leap-app/leap/internal/screen"
	"github.com/leap-app/leap/internal/ui/components"
	"github.com/leap-app/leap/internal/ui/layout"
	"github.com/leap-app/leap/internal/ui/theme"
)

const tagline = "Small daily challenges. Better thinking."

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(nav router.Navigator) *HomeScreen {
	to := func(route string, params router.Params) func() tea.Cmd {
		return func() tea.Cmd { return nav.Navigate(route, params) }
	}

	items := []components.MenuItem{
		{Label: "Practice Challenges", Description: "browse and attempt", Action: to(router.PracticeChallenges, router.Params{})},
		{Label: "My Completions", Description: "what you've done so far", Action: to(router.MyCompletions, router.Params{})},
		{Label: "Mind Content Library", Description: "articles, videos, books", Action: to(router.MindContentLibrary, router.Params{})},
		{Label: "Suggest New Content", Description: "share a resource", Action: to(router.MindContentForm, router.Params{Mode: router.ModeAdd})},
		{Label: "Health Check", Description: "backend status", Action: to(router.HealthCheck, router.Params{})},
		{Label: "Exit", Action: func() tea.Cmd { return tea.Quit }},
	}

	return &HomeScreen{menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	if !layout.IsCompactHeight(height + layout.HeaderHeight + layout.FooterHeight) {
		sections = append(sections, theme.Title.Render("L E A P"))
	}
	sections = append(sections, theme.Subtitle.Render(tagline))
	sections = append(sections, theme.Card.Render(h.menu.View()))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.TrimRight(content, "\n"))
}

func (h *HomeScreen) Title() string {
	return "Home"
}
