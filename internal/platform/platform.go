// Package platform holds the host-facing collaborators screens depend on:
// modal alerts and opening external links.
package platform

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/pkg/browser"

	"github.com/leap-app/leap/internal/logging"
)

// AlertMsg asks the app shell to show a modal dialog. The dialog stays up
// until the user dismisses it with a key press.
type AlertMsg struct {
	Title   string
	Message string
	// OnDismiss runs after the dialog is dismissed, if set.
	OnDismiss tea.Cmd
}

// Alerter presents blocking alerts.
type Alerter interface {
	Alert(title, message string) tea.Cmd
	AlertThen(title, message string, then tea.Cmd) tea.Cmd
}

// TeaAlerter delivers alerts as AlertMsg through the Bubble Tea loop.
type TeaAlerter struct{}

// Alert returns a command that shows title/message.
func (TeaAlerter) Alert(title, message string) tea.Cmd {
	return func() tea.Msg {
		return AlertMsg{Title: title, Message: message}
	}
}

// AlertThen shows title/message and runs then once the alert is dismissed.
func (TeaAlerter) AlertThen(title, message string, then tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		return AlertMsg{Title: title, Message: message, OnDismiss: then}
	}
}

// URLOpener opens external links after a capability check.
type URLOpener interface {
	CanOpen(rawURL string) bool
	Open(rawURL string) error
}

// BrowserOpener opens http and https links in the system browser.
type BrowserOpener struct {
	// open defaults to browser.OpenURL.
	open func(string) error
}

// NewBrowserOpener returns an opener backed by the system browser. Output
// of the launched helper (xdg-open, open) goes to logger at debug level
// instead of the terminal the TUI is drawing on.
func NewBrowserOpener(logger *slog.Logger) *BrowserOpener {
	if logger == nil {
		logger = logging.Discard()
	}
	out := slog.NewLogLogger(logger.Handler(), slog.LevelDebug).Writer()
	browser.Stdout = out
	browser.Stderr = out
	return &BrowserOpener{open: browser.OpenURL}
}

// CanOpen reports whether rawURL is an absolute http(s) URL with a host.
func (b *BrowserOpener) CanOpen(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// Open launches rawURL. It fails without launching anything when CanOpen
// is false.
func (b *BrowserOpener) Open(rawURL string) error {
	if !b.CanOpen(rawURL) {
		return fmt.Errorf("Don't know how to open this URL: %s", rawURL)
	}
	open := b.open
	if open == nil {
		open = browser.OpenURL
	}
	if err := open(strings.TrimSpace(rawURL)); err != nil {
		return fmt.Errorf("open %s: %w", rawURL, err)
	}
	return nil
}
