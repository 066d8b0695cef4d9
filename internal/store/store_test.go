package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "leap.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestOpenTwiceKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leap.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.EventRepo().AppendRequest(context.Background(), RequestEventData{
		RequestID: "a", Method: "GET", Path: "/api/health", Success: true,
	}))
	require.NoError(t, s.Close())

	// Second open finds migrations already applied.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	events, err := s.EventRepo().QueryRequests(context.Background(), QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSequenceMonotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		n, err := s.seq.Next(ctx)
		require.NoError(t, err)
		if i > 0 && n != last+1 {
			t.Fatalf("sequence %d after %d", n, last)
		}
		last = n
	}
}

func TestAppendAndQueryRequests(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	inputs := []RequestEventData{
		{RequestID: "r1", Method: "GET", Path: "/api/health", Origin: "health", StatusCode: 200, LatencyMs: 12, Success: true},
		{RequestID: "r2", Method: "GET", Path: "/api/practice_challenges/templates", Origin: "challenges", StatusCode: 500, LatencyMs: 40, ErrorMessage: "HTTP error! status: 500"},
		{RequestID: "r3", Method: "POST", Path: "/api/practice_challenges/complete", Origin: "attempt", StatusCode: 201, LatencyMs: 30, Success: true},
	}
	for _, in := range inputs {
		require.NoError(t, repo.AppendRequest(ctx, in))
	}

	events, err := repo.QueryRequests(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 3)

	// Newest first.
	assert.Equal(t, "r3", events[0].RequestID)
	assert.Equal(t, "r1", events[2].RequestID)
	assert.Greater(t, events[0].Sequence, events[1].Sequence)
	assert.Greater(t, events[1].Sequence, events[2].Sequence)

	failed := events[1]
	assert.False(t, failed.Success)
	assert.Equal(t, 500, failed.StatusCode)
	assert.Equal(t, "HTTP error! status: 500", failed.ErrorMessage)
	assert.Equal(t, "challenges", failed.Origin)
	assert.WithinDuration(t, time.Now(), failed.Timestamp, time.Minute)
}

func TestQueryRequestsOpts(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.AppendRequest(ctx, RequestEventData{
			RequestID: "r", Method: "GET", Path: "/api/health", Success: true,
		}))
	}

	limited, err := repo.QueryRequests(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	all, err := repo.QueryRequests(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 5)

	pivot := all[2].Sequence
	after, err := repo.QueryRequests(ctx, QueryOpts{After: pivot})
	require.NoError(t, err)
	assert.Len(t, after, 2)

	before, err := repo.QueryRequests(ctx, QueryOpts{Before: pivot})
	require.NoError(t, err)
	assert.Len(t, before, 2)

	future, err := repo.QueryRequests(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, future)
}

func TestGetRequest(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendRequest(ctx, RequestEventData{
		RequestID: "only", Method: "PUT", Path: "/api/mind_content/4", StatusCode: 200, Success: true,
	}))
	events, err := repo.QueryRequests(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)

	got, err := repo.GetRequest(ctx, events[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "PUT", got.Method)
	assert.Equal(t, "/api/mind_content/4", got.Path)

	missing, err := repo.GetRequest(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUsageByPath(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	add := func(path string, ok bool, ms int64) {
		require.NoError(t, repo.AppendRequest(ctx, RequestEventData{
			RequestID: "x", Method: "GET", Path: path, Success: ok, LatencyMs: ms,
		}))
	}
	add("/api/health", true, 10)
	add("/api/health", false, 30)
	add("/api/health", true, 20)
	add("/api/mind_content", true, 50)

	stats, err := repo.UsageByPath(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "/api/health", stats[0].Path)
	assert.Equal(t, 3, stats[0].Calls)
	assert.Equal(t, 1, stats[0].Failures)
	assert.Equal(t, int64(20), stats[0].AvgLatencyMs)
	assert.Equal(t, "/api/mind_content", stats[1].Path)
}
