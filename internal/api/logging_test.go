package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leap-app/leap/internal/logging"
	"github.com/leap-app/leap/internal/store"
)

type recordingRepo struct {
	mu     sync.Mutex
	events []store.RequestEventData
	err    error
}

func (r *recordingRepo) AppendRequest(_ context.Context, data store.RequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

func (r *recordingRepo) QueryRequests(context.Context, store.QueryOpts) ([]store.RequestEventRecord, error) {
	return nil, nil
}

func (r *recordingRepo) GetRequest(context.Context, int) (*store.RequestEventRecord, error) {
	return nil, nil
}

func (r *recordingRepo) UsageByPath(context.Context) ([]store.PathStats, error) {
	return nil, nil
}

func TestLogging_RecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockTransport(MockResponse{StatusCode: 201, Body: `{}`})
	tr := WithLogging(mock, repo, logging.Discard())

	ctx := WithOrigin(context.Background(), "attempt")
	_, err := tr.Do(ctx, Request{Method: http.MethodPost, Path: "/api/practice_challenges/complete", ID: "req-1"})
	require.NoError(t, err)

	require.Len(t, repo.events, 1)
	ev := repo.events[0]
	assert.Equal(t, "req-1", ev.RequestID)
	assert.Equal(t, "attempt", ev.Origin)
	assert.Equal(t, 201, ev.StatusCode)
	assert.True(t, ev.Success)
	assert.Empty(t, ev.ErrorMessage)
}

func TestLogging_RecordsFailure(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockTransport(MockResponse{StatusCode: 500})
	tr := WithLogging(mock, repo, logging.Discard())

	_, err := tr.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/health"})
	require.Error(t, err)

	require.Len(t, repo.events, 1)
	ev := repo.events[0]
	assert.Equal(t, "unknown", ev.Origin)
	assert.Equal(t, 500, ev.StatusCode)
	assert.False(t, ev.Success)
	assert.Equal(t, "HTTP error! status: 500", ev.ErrorMessage)
	assert.NotEmpty(t, ev.RequestID)
}

func TestLogging_RepoFailureDoesNotFailRequest(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	mock := NewMockTransport(MockResponse{Body: `{}`})
	tr := WithLogging(mock, repo, logging.Discard())

	_, err := tr.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/health"})
	assert.NoError(t, err)
}

func TestLogging_EachRetryAttemptRecorded(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockTransport(
		MockResponse{StatusCode: 502},
		MockResponse{Body: `{}`},
	)
	// caller → retry → logging → base
	tr := WithRetry(WithLogging(mock, repo, logging.Discard()), retryConfig())

	_, err := tr.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/health", ID: "same"})
	require.NoError(t, err)

	require.Len(t, repo.events, 2)
	assert.False(t, repo.events[0].Success)
	assert.True(t, repo.events[1].Success)
	assert.Equal(t, repo.events[0].RequestID, repo.events[1].RequestID)
}
