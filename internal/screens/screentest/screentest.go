// Package screentest drives screens in tests without a running program.
package screentest

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/leap-app/leap/internal/api"
	"github.com/leap-app/leap/internal/platform"
	"github.com/leap-app/leap/internal/router"
	"github.com/leap-app/leap/internal/screen"
)

// Key builds a key press for names like "enter", "esc", "up", "ctrl+s" or
// a single printable character.
func Key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "shift+tab":
		return tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

// Type sends each rune of text to s as a key press and discards the
// resulting commands.
func Type(s screen.Screen, text string) screen.Screen {
	for _, r := range text {
		s, _ = s.Update(Key(string(r)))
	}
	return s
}

// Collect runs cmd and flattens batches into the produced messages.
func Collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// Outbox holds the messages a screen emitted for the app shell.
type Outbox struct {
	Alerts []platform.AlertMsg
	Pushes []router.PushScreenMsg
	Pops   int
	Quit   bool
	Other  []tea.Msg
}

// LastAlert returns the most recent alert, failing the test if none.
func (o *Outbox) LastAlert(t *testing.T) platform.AlertMsg {
	t.Helper()
	if len(o.Alerts) == 0 {
		t.Fatal("expected an alert, got none")
	}
	return o.Alerts[len(o.Alerts)-1]
}

const maxRounds = 32

// Run executes cmd, feeds every message meant for the screen back into
// it and repeats with the commands it returns. Messages addressed to the
// app shell are captured in the returned Outbox. Dismissing alerts is
// simulated by running their OnDismiss command.
func Run(t *testing.T, s screen.Screen, cmd tea.Cmd) (screen.Screen, *Outbox) {
	t.Helper()
	out := &Outbox{}
	queue := []tea.Cmd{cmd}

	for round := 0; len(queue) > 0; round++ {
		if round > maxRounds {
			t.Fatal("screen kept producing commands")
		}
		next := queue[0]
		queue = queue[1:]

		for _, msg := range Collect(next) {
			switch m := msg.(type) {
			case platform.AlertMsg:
				out.Alerts = append(out.Alerts, m)
				if m.OnDismiss != nil {
					queue = append(queue, m.OnDismiss)
				}
			case router.PushScreenMsg:
				out.Pushes = append(out.Pushes, m)
			case router.PopScreenMsg:
				out.Pops++
			case tea.QuitMsg:
				out.Quit = true
			case router.NavErrorMsg:
				out.Other = append(out.Other, m)
			default:
				var c tea.Cmd
				s, c = s.Update(m)
				if c != nil {
					queue = append(queue, c)
				}
			}
		}
	}
	return s, out
}

// Nav records navigation requests.
type Nav struct {
	Routes []string
	Params []router.Params
	Backs  int
}

var _ router.Navigator = (*Nav)(nil)

// Navigate records the request and emits nothing.
func (n *Nav) Navigate(name string, params router.Params) tea.Cmd {
	n.Routes = append(n.Routes, name)
	n.Params = append(n.Params, params)
	return nil
}

// GoBack records the request and emits a PopScreenMsg.
func (n *Nav) GoBack() tea.Cmd {
	n.Backs++
	return func() tea.Msg { return router.PopScreenMsg{} }
}

// Opener is a URLOpener stub.
type Opener struct {
	Allow  bool
	Opened []string
	Err    error
}

// CanOpen returns o.Allow.
func (o *Opener) CanOpen(string) bool { return o.Allow }

// Open records u and returns o.Err.
func (o *Opener) Open(u string) error {
	o.Opened = append(o.Opened, u)
	return o.Err
}

// Services builds a client over a mock transport with the given canned
// responses.
func Services(responses ...api.MockResponse) (api.Services, *api.MockTransport) {
	mt := api.NewMockTransport(responses...)
	return api.NewClient(mt).Services(), mt
}

// JSON is a 200 response with body.
func JSON(body string) api.MockResponse {
	return api.MockResponse{StatusCode: 200, Body: body}
}

// Status is an error response with the given code.
func Status(code int) api.MockResponse {
	return api.MockResponse{StatusCode: code}
}
