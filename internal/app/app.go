package app

import (
	"fmt"
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/leap-app/leap/internal/api"
	"github.com/leap-app/leap/internal/logging"
	"github.com/leap-app/leap/internal/platform"
	"github.com/leap-app/leap/internal/router"
	"github.com/leap-app/leap/internal/screen"
	"github.com/leap-app/leap/internal/screens/attempt"
	"github.com/leap-app/leap/internal/screens/challenges"
	"github.com/leap-app/leap/internal/screens/completions"
	"github.com/leap-app/leap/internal/screens/contentform"
	"github.com/leap-app/leap/internal/screens/health"
	"github.com/leap-app/leap/internal/screens/home"
	"github.com/leap-app/leap/internal/screens/library"
	"github.com/leap-app/leap/internal/ui/layout"
)

// Options holds dependencies for the app.
type Options struct {
	Services api.Services
	Opener   platform.URLOpener
	Alerter  platform.Alerter
	Logger   *slog.Logger
	// Host is shown in the header.
	Host string
	// StartRoute opens a screen on top of home at startup, if set.
	StartRoute string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router   *router.Router
	registry *router.Registry
	logger   *slog.Logger
	host     string
	start    string
	alerts   []platform.AlertMsg
	width    int
	height   int
}

// NewRegistry binds every route to its screen factory.
func NewRegistry(opts Options) *router.Registry {
	reg := router.NewRegistry()
	svc := opts.Services

	reg.Register(router.Home, func(router.Params) (screen.Screen, error) {
		return home.New(reg), nil
	})
	reg.Register(router.HealthCheck, func(router.Params) (screen.Screen, error) {
		return health.New(svc.Health), nil
	})
	reg.Register(router.PracticeChallenges, func(router.Params) (screen.Screen, error) {
		return challenges.New(svc.Challenges, reg), nil
	})
	reg.Register(router.ChallengeAttempt, func(p router.Params) (screen.Screen, error) {
		if p.ChallengeID <= 0 {
			return nil, fmt.Errorf("challenge attempt needs a challenge id")
		}
		return attempt.New(svc.Challenges, reg, opts.Alerter, p.ChallengeID), nil
	})
	reg.Register(router.MyCompletions, func(router.Params) (screen.Screen, error) {
		return completions.New(svc.Challenges), nil
	})
	reg.Register(router.MindContentLibrary, func(router.Params) (screen.Screen, error) {
		return library.New(svc.Content, reg, opts.Alerter, opts.Opener), nil
	})
	reg.Register(router.MindContentForm, func(p router.Params) (screen.Screen, error) {
		if p.Mode == router.ModeEdit && p.ContentID <= 0 {
			return nil, fmt.Errorf("edit mode needs a content id")
		}
		return contentform.New(svc.Content, reg, opts.Alerter, p.Mode, p.ContentID), nil
	})
	return reg
}

// NewModel creates the root model with the home screen at the bottom of
// the stack.
func NewModel(opts Options) AppModel {
	if opts.Alerter == nil {
		opts.Alerter = platform.TeaAlerter{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Opener == nil {
		opts.Opener = platform.NewBrowserOpener(opts.Logger)
	}

	reg := NewRegistry(opts)
	homeScreen, _ := reg.Build(router.Home, router.Params{})
	return AppModel{
		router:   router.New(homeScreen),
		registry: reg,
		logger:   opts.Logger,
		host:     opts.Host,
		start:    opts.StartRoute,
	}
}

func (m AppModel) Init() tea.Cmd {
	if m.start != "" && m.start != router.Home {
		return m.registry.Navigate(m.start, router.Params{})
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case platform.AlertMsg:
		m.alerts = append(m.alerts, msg)
		return m, nil

	case router.NavErrorMsg:
		m.logger.Warn("navigation failed", "route", msg.Route, "error", msg.Err)
		m.alerts = append(m.alerts, platform.AlertMsg{Title: "Error", Message: msg.Err.Error()})
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// An open alert swallows the key that dismisses it.
		if len(m.alerts) > 0 {
			dismissed := m.alerts[0]
			m.alerts = m.alerts[1:]
			return m, dismissed.OnDismiss
		}
		if msg.String() == "esc" && !m.capturing() {
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) capturing() bool {
	c, ok := m.router.Active().(screen.InputCapturer)
	return ok && c.CapturingInput()
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.host, m.width)

	var footerHints []layout.KeyHint
	switch {
	case len(m.alerts) > 0:
		footerHints = []layout.KeyHint{{Key: "Any key", Description: "Dismiss"}}
	case active != nil:
		if p, ok := active.(screen.KeyHintProvider); ok {
			footerHints = p.KeyHints()
		}
	}
	if footerHints == nil {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	var content string
	if len(m.alerts) > 0 {
		a := m.alerts[0]
		content = layout.RenderDialog(a.Title, a.Message, m.width, contentHeight)
	} else {
		content = m.router.View(m.width, contentHeight)
	}
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts))
	if _, err := p.Run(); err != nil {
		if opts.Logger != nil {
			opts.Logger.Error("program exited", "error", err)
		}
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
