package router

import (
	"fmt"
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/leap-app/leap/internal/screen"
)

// Route names.
const (
	Home               = "Home"
	HealthCheck        = "HealthCheck"
	PracticeChallenges = "PracticeChallenges"
	ChallengeAttempt   = "ChallengeAttempt"
	MyCompletions      = "MyCompletions"
	MindContentLibrary = "MindContentLibrary"
	MindContentForm    = "MindContentForm"
)

// Form modes for MindContentForm.
const (
	ModeAdd  = "add"
	ModeEdit = "edit"
)

// Params are the route parameters a screen is opened with.
type Params struct {
	ChallengeID int
	ContentID   int
	Mode        string
}

// Navigator moves between named screens. Screens receive one explicitly
// at construction time.
type Navigator interface {
	Navigate(name string, params Params) tea.Cmd
	GoBack() tea.Cmd
}

// Factory builds the screen for a route.
type Factory func(params Params) (screen.Screen, error)

// NavErrorMsg reports a navigation request that could not be served.
type NavErrorMsg struct {
	Route string
	Err   error
}

// Registry maps route names to screen factories and implements Navigator
// by emitting stack messages for the Router.
type Registry struct {
	mu     sync.RWMutex
	routes map[string]Factory
}

var _ Navigator = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{routes: make(map[string]Factory)}
}

// Register binds name to f, replacing any earlier binding.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[name] = f
}

// Build constructs the screen for name.
func (r *Registry) Build(name string, params Params) (screen.Screen, error) {
	r.mu.RLock()
	f, ok := r.routes[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown route %q", name)
	}
	return f(params)
}

// Navigate pushes the screen registered for name.
func (r *Registry) Navigate(name string, params Params) tea.Cmd {
	return func() tea.Msg {
		s, err := r.Build(name, params)
		if err != nil {
			return NavErrorMsg{Route: name, Err: err}
		}
		return PushScreenMsg{Screen: s}
	}
}

// GoBack pops the current screen.
func (r *Registry) GoBack() tea.Cmd {
	return func() tea.Msg { return PopScreenMsg{} }
}
