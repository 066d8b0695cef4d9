package library

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/leap-app/leap/internal/api"
	"github.com/leap-app/leap/internal/lifecycle"
	"github.com/leap-app/leap/internal/platform"
	"github.com/leap-app/leap/internal/router"
	"github.com/leap-app/leap/internal/screen"
	"github.com/leap-app/leap/internal/textutil"
	"github.com/leap-app/leap/internal/ui/components"
	"github.com/leap-app/leap/internal/ui/layout"
	"github.com/leap-app/leap/internal/ui/theme"
)

const linesPerItem = 4

// LibraryScreen browses the mind content library with search and filters.
type LibraryScreen struct {
	svc     api.MindContentService
	nav     router.Navigator
	alerter platform.Alerter
	opener  platform.URLOpener

	categories *lifecycle.Controller[[]api.MindContentCategory]
	content    *lifecycle.Controller[[]api.MindContent]

	search      components.TextInput
	editing     bool
	categoryIdx int // 0 is "All"
	typeIdx     int // 0 is "All"
	applied     api.ContentFilter
	selected    int
}

var _ screen.Screen = (*LibraryScreen)(nil)
var _ screen.KeyHintProvider = (*LibraryScreen)(nil)
var _ screen.Resumer = (*LibraryScreen)(nil)
var _ screen.InputCapturer = (*LibraryScreen)(nil)

// New creates a LibraryScreen.
func New(svc api.MindContentService, nav router.Navigator, alerter platform.Alerter, opener platform.URLOpener) *LibraryScreen {
	ctx := api.WithOrigin(context.Background(), "library")
	s := &LibraryScreen{
		svc:     svc,
		nav:     nav,
		alerter: alerter,
		opener:  opener,
		search:  components.NewTextInput("", "Search title or description...", false, 200),
	}
	s.categories = lifecycle.New[[]api.MindContentCategory]("library.categories", svc.GetMindContentCategories,
		lifecycle.WithContext[[]api.MindContentCategory](ctx))
	s.content = lifecycle.New[[]api.MindContent]("library.content", s.fetcher(s.applied),
		lifecycle.WithEmpty(lifecycle.SliceEmpty[api.MindContent]),
		lifecycle.WithContext[[]api.MindContent](ctx))
	return s
}

func (s *LibraryScreen) fetcher(filter api.ContentFilter) lifecycle.Fetcher[[]api.MindContent] {
	return func(ctx context.Context) ([]api.MindContent, error) {
		return s.svc.GetMindContent(ctx, filter)
	}
}

// Init fetches categories and content concurrently.
func (s *LibraryScreen) Init() tea.Cmd {
	return tea.Batch(s.categories.Load(), s.content.Load())
}

// Resume re-issues any fetch whose result was dropped while the screen
// was covered, then refreshes the content list to pick up items added or
// edited on the form screen.
func (s *LibraryScreen) Resume() tea.Cmd {
	var cmds []tea.Cmd
	if cmd := s.categories.Resync(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	cmd := s.content.Resync()
	if cmd == nil {
		cmd = s.content.Refresh()
	}
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

// CapturingInput reports whether the search box is being edited.
func (s *LibraryScreen) CapturingInput() bool {
	return s.editing
}

func (s *LibraryScreen) Title() string {
	return "Mind Content Library"
}

func (s *LibraryScreen) KeyHints() []layout.KeyHint {
	if s.editing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Apply Search"},
			{Key: "Esc", Description: "Done"},
		}
	}
	if s.failed() {
		return []layout.KeyHint{{Key: "r", Description: "Retry"}, {Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "/", Description: "Search"},
		{Key: "←→", Description: "Category"},
		{Key: "t", Description: "Type"},
		{Key: "a", Description: "Apply"},
		{Key: "Enter", Description: "Go to Content"},
		{Key: "n", Description: "Suggest"},
		{Key: "e", Description: "Edit"},
	}
}

func (s *LibraryScreen) failed() bool {
	return s.categories.Phase() == lifecycle.PhaseError || s.content.Phase() == lifecycle.PhaseError
}

func (s *LibraryScreen) loading() bool {
	switch s.categories.Phase() {
	case lifecycle.PhaseIdle, lifecycle.PhaseLoading:
		return true
	}
	switch s.content.Phase() {
	case lifecycle.PhaseIdle, lifecycle.PhaseLoading:
		return true
	}
	return false
}

func (s *LibraryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.categories.Update(msg) {
		cats, _ := s.categories.Data()
		if s.categoryIdx > len(cats) {
			s.categoryIdx = 0
		}
		return s, nil
	}
	if s.content.Update(msg) {
		items, _ := s.content.Data()
		if s.selected >= len(items) {
			s.selected = max(len(items)-1, 0)
		}
		return s, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if s.editing {
		switch kmsg.String() {
		case "esc":
			s.editing = false
			s.search.Blur()
			return s, nil
		case "enter":
			s.editing = false
			s.search.Blur()
			return s, s.apply()
		}
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		return s, cmd
	}

	switch kmsg.String() {
	case "r":
		var cmds []tea.Cmd
		if s.categories.Phase() == lifecycle.PhaseError {
			cmds = append(cmds, s.categories.Retry())
		}
		if s.content.Phase() == lifecycle.PhaseError {
			cmds = append(cmds, s.content.Retry())
		} else if len(cmds) == 0 {
			cmds = append(cmds, s.content.Refresh())
		}
		return s, tea.Batch(cmds...)
	case "/":
		s.editing = true
		s.search.Focus()
	case "left", "h":
		cats, _ := s.categories.Data()
		s.categoryIdx = (s.categoryIdx - 1 + len(cats) + 1) % (len(cats) + 1)
	case "right", "l":
		cats, _ := s.categories.Data()
		s.categoryIdx = (s.categoryIdx + 1) % (len(cats) + 1)
	case "t":
		s.typeIdx = (s.typeIdx + 1) % (len(api.ContentTypes) + 1)
	case "a":
		return s, s.apply()
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		items, _ := s.content.Data()
		if s.selected < len(items)-1 {
			s.selected++
		}
	case "enter":
		if item, ok := s.current(); ok {
			return s, s.open(item.URL)
		}
	case "n":
		return s, s.nav.Navigate(router.MindContentForm, router.Params{Mode: router.ModeAdd})
	case "e":
		if item, ok := s.current(); ok {
			return s, s.nav.Navigate(router.MindContentForm, router.Params{Mode: router.ModeEdit, ContentID: item.ID})
		}
	}
	return s, nil
}

// pendingFilter merges every active control into one filter.
func (s *LibraryScreen) pendingFilter() api.ContentFilter {
	f := api.ContentFilter{Search: strings.TrimSpace(s.search.Value())}
	if cats, _ := s.categories.Data(); s.categoryIdx > 0 && s.categoryIdx <= len(cats) {
		f.CategoryID = cats[s.categoryIdx-1].ID
	}
	if s.typeIdx > 0 {
		f.ContentType = api.ContentTypes[s.typeIdx-1]
	}
	return f
}

func (s *LibraryScreen) apply() tea.Cmd {
	s.applied = s.pendingFilter()
	s.selected = 0
	return s.content.Reload(s.fetcher(s.applied))
}

func (s *LibraryScreen) current() (api.MindContent, bool) {
	items, ok := s.content.Data()
	if !ok || s.selected >= len(items) {
		return api.MindContent{}, false
	}
	return items[s.selected], true
}

func (s *LibraryScreen) open(url string) tea.Cmd {
	if !s.opener.CanOpen(url) {
		return s.alerter.Alert("Error", fmt.Sprintf("Don't know how to open this URL: %s", url))
	}
	if err := s.opener.Open(url); err != nil {
		return s.alerter.Alert("Error", err.Error())
	}
	return nil
}

func (s *LibraryScreen) categoryName(id int) string {
	cats, _ := s.categories.Data()
	for _, c := range cats {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

func (s *LibraryScreen) View(width, height int) string {
	if s.failed() {
		msg := s.content.Err()
		if msg == "" {
			msg = s.categories.Err()
		}
		return components.ErrorBox("Error: "+msg, true, width)
	}
	if s.loading() {
		return components.Loading("Loading Content Library...", width)
	}

	var b strings.Builder
	b.WriteString(s.filterBar())
	b.WriteString("\n")

	if s.content.Empty() {
		b.WriteString(components.Empty("No content found for the selected criteria.", width))
		return b.String()
	}
	if e := s.content.RefreshErr(); e != "" {
		b.WriteString("  " + components.Notice("Refresh failed: "+e) + "\n")
	}

	items, _ := s.content.Data()
	visible := (height - 6) / linesPerItem
	if visible < 1 {
		visible = 1
	}
	start := 0
	if s.selected >= visible {
		start = s.selected - visible + 1
	}
	end := min(start+visible, len(items))

	for i := start; i < end; i++ {
		b.WriteString(s.renderItem(items[i], i == s.selected, width))
	}
	if end < len(items) {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  … %d more", len(items)-end)))
	}
	return b.String()
}

func (s *LibraryScreen) filterBar() string {
	cats, _ := s.categories.Data()
	category := "All"
	if s.categoryIdx > 0 && s.categoryIdx <= len(cats) {
		category = cats[s.categoryIdx-1].Name
	}
	contentType := api.ContentType("")
	if s.typeIdx > 0 {
		contentType = api.ContentTypes[s.typeIdx-1]
	}

	searchLine := "  " + s.search.View()
	if s.editing {
		searchLine = "  " + theme.Selected.Render("/") + " " + s.search.View()
	}

	line := "  " + theme.Label.Render("Category ") + theme.ChipActive.Render("‹ "+category+" ›") +
		"   " + theme.Label.Render("Type ") + theme.ChipActive.Render(contentType.Label())
	if s.pendingFilter() != s.applied {
		line += "  " + theme.Hint.Render("press a to Apply Search & Filters")
	}
	return searchLine + "\n" + line + "\n"
}

func (s *LibraryScreen) renderItem(c api.MindContent, selected bool, width int) string {
	prefix := "  "
	titleStyle := theme.Unselected
	if selected {
		prefix = "▸ "
		titleStyle = theme.Selected
	}

	meta := []string{c.ContentType.Label()}
	if name := s.categoryName(c.CategoryID); name != "" {
		meta = append(meta, name)
	}
	if author := api.Deref(c.AuthorName); author != "" {
		meta = append(meta, "by "+author)
	}
	if c.DurationMinutes != nil {
		meta = append(meta, strconv.Itoa(*c.DurationMinutes)+" min")
	}

	desc := textutil.Truncate(textutil.PlainText(c.Description), width-6)

	return prefix + titleStyle.Render(c.Title) + "  " + theme.Subtitle.Render(strings.Join(meta, " · ")) + "\n" +
		"    " + lipgloss.NewStyle().Foreground(theme.Text).Render(desc) + "\n" +
		"    " + theme.Link.Render(c.URL) + "\n\n"
}
