package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// RequestEventData captures a single HTTP request made to the Leap API.
type RequestEventData struct {
	RequestID    string
	Method       string
	Path         string
	Origin       string // screen or command that issued the request
	StatusCode   int    // 0 when no response arrived
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// RequestEventRecord is a stored request event.
type RequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	RequestEventData
}

// PathStats aggregates request events per endpoint.
type PathStats struct {
	Method       string
	Path         string
	Calls        int
	Failures     int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to request events.
type EventRepo interface {
	// AppendRequest records an API call event.
	AppendRequest(ctx context.Context, data RequestEventData) error

	// QueryRequests returns events newest first.
	QueryRequests(ctx context.Context, opts QueryOpts) ([]RequestEventRecord, error)

	// GetRequest returns one event by id, or nil if it does not exist.
	GetRequest(ctx context.Context, id int) (*RequestEventRecord, error)

	// UsageByPath aggregates calls per method and path, busiest first.
	UsageByPath(ctx context.Context) ([]PathStats, error)
}
