package health

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

// HealthScreen shows the backend health probe.
type HealthScreen struct {
	status *lifecycle.Controller[*api.HealthStatus]
}

var _ screen.Screen = (*HealthScreen)(nil)
var _ screen.KeyHintProvider = (*HealthScreen)(nil)

// New creates a HealthScreen that probes svc.
func New(svc api.HealthChecker) *HealthScreen {
	ctx := api.WithOrigin(context.Background(), "health")
	return &HealthScreen{
		status: lifecycle.New[*api.HealthStatus]("health.status", svc.Health,
			lifecycle.WithContext[*api.HealthStatus](ctx)),
	}
}

func (s *HealthScreen) Init() tea.Cmd {
	return s.status.Load()
}

func (s *HealthScreen) Title() string {
	return "Health Check"
}

func (s *HealthScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{}
	switch s.status.Phase() {
	case lifecycle.PhaseError:
		hints = append(hints, layout.KeyHint{Key: "r", Description: "Retry"})
	case lifecycle.PhaseSuccess:
		hints = append(hints, layout.KeyHint{Key: "r", Description: "Refresh"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *HealthScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.status.Update(msg) {
		return s, nil
	}

	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "r" {
		if s.status.Phase() == lifecycle.PhaseError {
			return s, s.status.Retry()
		}
		return s, s.status.Refresh()
	}
	return s, nil
}

func (s *HealthScreen) View(width, height int) string {
	switch s.status.Phase() {
	case lifecycle.PhaseIdle, lifecycle.PhaseLoading:
		return components.Loading("Loading Health Status...", width)
	case lifecycle.PhaseError:
		return components.ErrorBox("Error fetching status: "+s.status.Err(), true, width)
	}

	hs, _ := s.status.Data()
	var b strings.Builder
	b.WriteString("\n\n")

	statusStyle := theme.Positive
	if !strings.EqualFold(hs.Status, "ok") && !strings.EqualFold(hs.Status, "healthy") {
		statusStyle = theme.Negative
	}
	b.WriteString(theme.Body.Render("Status: ") + statusStyle.Render(hs.Status) + "\n")
	if hs.Timestamp != "" {
		ts := hs.Timestamp
		if t, ok := textutil.ParseTimestamp(hs.Timestamp); ok {
			ts = t.Local().Format("Jan 02, 2006 15:04:05")
		}
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Server time: %s", ts)) + "\n")
	}
	if s.status.Refreshing() {
		b.WriteString("\n" + theme.Hint.Render("Refreshing..."))
	}
	if e := s.status.RefreshErr(); e != "" {
		b.WriteString("\n" + components.Notice("Refresh failed: "+e))
	}

	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(b.String())
}
