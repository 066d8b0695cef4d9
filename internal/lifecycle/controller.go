// Package lifecycle drives the load, retry and refresh cycle every screen
// runs against the backend.
//
// A Controller owns at most one logical request at a time. Each issued
// fetch is tagged with a monotonically increasing sequence number; a
// result whose sequence is not the latest issued is discarded, so a slow
// response can never overwrite the outcome of a newer request.
package lifecycle

import (
	"context"

	tea "charm.land/bubbletea/v2"
)

// Phase is the controller's primary state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Fetcher performs the request a controller manages.
type Fetcher[T any] func(ctx context.Context) (T, error)

// ResultMsg carries the outcome of one fetch back through the update loop.
type ResultMsg[T any] struct {
	Key  string
	Seq  uint64
	Data T
	Err  error
}

// Option configures a Controller.
type Option[T any] func(*Controller[T])

// WithEmpty sets the predicate that marks a successful result as empty.
func WithEmpty[T any](isEmpty func(T) bool) Option[T] {
	return func(c *Controller[T]) {
		c.isEmpty = isEmpty
	}
}

// WithContext sets the base context handed to every fetch.
func WithContext[T any](ctx context.Context) Option[T] {
	return func(c *Controller[T]) {
		c.ctx = ctx
	}
}

// WithErrorText sets how a failed fetch is turned into the error message.
// The default is err.Error().
func WithErrorText[T any](text func(error) string) Option[T] {
	return func(c *Controller[T]) {
		c.errText = text
	}
}

// Controller is the request lifecycle state machine for one screen
// resource. It is not safe for concurrent use; all mutation happens on the
// Bubble Tea update loop.
type Controller[T any] struct {
	key     string
	fetch   Fetcher[T]
	isEmpty func(T) bool
	errText func(error) string
	ctx     context.Context

	phase      Phase
	data       T
	errMsg     string
	refreshing bool
	refreshErr string

	seq            uint64
	pendingRefresh bool
}

// New creates an idle controller. key must be unique among the controllers
// sharing an update loop.
func New[T any](key string, fetch Fetcher[T], opts ...Option[T]) *Controller[T] {
	c := &Controller[T]{
		key:     key,
		fetch:   fetch,
		errText: func(err error) string { return err.Error() },
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load enters loading from any state and issues the fetch. Previously
// shown data and errors are cleared.
func (c *Controller[T]) Load() tea.Cmd {
	if c.fetch == nil {
		return nil
	}
	var zero T
	c.phase = PhaseLoading
	c.data = zero
	c.errMsg = ""
	c.refreshing = false
	c.refreshErr = ""
	return c.issue(false)
}

// Reload swaps the fetcher (for example after new filters are applied)
// and loads.
func (c *Controller[T]) Reload(fetch Fetcher[T]) tea.Cmd {
	c.fetch = fetch
	return c.Load()
}

// Retry re-issues the same request. It only acts from the error state.
func (c *Controller[T]) Retry() tea.Cmd {
	if c.phase != PhaseError {
		return nil
	}
	return c.Load()
}

// Refresh re-issues the request while keeping the current data on screen.
// It only acts from the success state and when no refresh is in flight.
func (c *Controller[T]) Refresh() tea.Cmd {
	if c.phase != PhaseSuccess || c.refreshing || c.fetch == nil {
		return nil
	}
	c.refreshing = true
	c.refreshErr = ""
	return c.issue(true)
}

// Resync re-issues a request whose result never arrived, for example
// because the router dropped it while the screen was covered. A pending
// load restarts from loading and an in-flight refresh is sent again over
// the data on screen. Settled states return nil.
func (c *Controller[T]) Resync() tea.Cmd {
	if c.fetch == nil {
		return nil
	}
	switch {
	case c.phase == PhaseIdle || c.phase == PhaseLoading:
		return c.Load()
	case c.phase == PhaseSuccess && c.refreshing:
		c.refreshErr = ""
		return c.issue(true)
	}
	return nil
}

func (c *Controller[T]) issue(refresh bool) tea.Cmd {
	c.seq++
	c.pendingRefresh = refresh

	key, seq, fetch, ctx := c.key, c.seq, c.fetch, c.ctx
	return func() tea.Msg {
		data, err := fetch(ctx)
		return ResultMsg[T]{Key: key, Seq: seq, Data: data, Err: err}
	}
}

// Update applies msg if it is a result for this controller. It reports
// whether msg belonged to this controller, including stale results that
// were discarded.
func (c *Controller[T]) Update(msg tea.Msg) bool {
	res, ok := msg.(ResultMsg[T])
	if !ok || res.Key != c.key {
		return false
	}
	if res.Seq != c.seq {
		return true
	}

	refresh := c.pendingRefresh
	c.pendingRefresh = false

	if res.Err != nil {
		if refresh {
			// A failed refresh keeps the data already on screen.
			c.refreshing = false
			c.refreshErr = c.errText(res.Err)
			return true
		}
		var zero T
		c.phase = PhaseError
		c.data = zero
		c.errMsg = c.errText(res.Err)
		return true
	}

	c.phase = PhaseSuccess
	c.data = res.Data
	c.errMsg = ""
	c.refreshing = false
	c.refreshErr = ""
	return true
}

// Key returns the controller's message key.
func (c *Controller[T]) Key() string { return c.key }

// Phase returns the current primary state.
func (c *Controller[T]) Phase() Phase { return c.phase }

// Data returns the last successful result and whether there is one.
func (c *Controller[T]) Data() (T, bool) {
	return c.data, c.phase == PhaseSuccess
}

// Err returns the error message in the error state, otherwise "".
func (c *Controller[T]) Err() string { return c.errMsg }

// Refreshing reports whether a refresh is in flight over shown data.
func (c *Controller[T]) Refreshing() bool { return c.refreshing }

// RefreshErr returns the message of the last failed refresh, cleared by
// the next successful load or refresh.
func (c *Controller[T]) RefreshErr() string { return c.refreshErr }

// Loading reports whether the controller is in the loading state.
func (c *Controller[T]) Loading() bool { return c.phase == PhaseLoading }

// Empty reports whether the controller succeeded with an empty result.
func (c *Controller[T]) Empty() bool {
	if c.phase != PhaseSuccess || c.isEmpty == nil {
		return false
	}
	return c.isEmpty(c.data)
}

// Seq returns the sequence number of the latest issued fetch.
func (c *Controller[T]) Seq() uint64 { return c.seq }

// SliceEmpty is the emptiness predicate for list results.
func SliceEmpty[E any](items []E) bool { return len(items) == 0 }
