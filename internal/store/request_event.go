package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// eventRepo implements EventRepo with raw SQL and the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

const requestColumns = `id, sequence, timestamp, request_id, method, path, origin,
	status_code, latency_ms, success, error_message`

func (r *eventRepo) AppendRequest(ctx context.Context, data RequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO request_events (sequence, timestamp, request_id, method, path, origin,
			status_code, latency_ms, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum,
		time.Now().UTC().UnixMilli(),
		data.RequestID,
		data.Method,
		data.Path,
		data.Origin,
		data.StatusCode,
		data.LatencyMs,
		data.Success,
		data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryRequests(ctx context.Context, opts QueryOpts) ([]RequestEventRecord, error) {
	var where []string
	var args []any

	if opts.After > 0 {
		where = append(where, "sequence > ?")
		args = append(args, opts.After)
	}
	if opts.Before > 0 {
		where = append(where, "sequence < ?")
		args = append(args, opts.Before)
	}
	if !opts.From.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, opts.From.UTC().UnixMilli())
	}
	if !opts.To.IsZero() {
		where = append(where, "timestamp <= ?")
		args = append(args, opts.To.UTC().UnixMilli())
	}

	query := "SELECT " + requestColumns + " FROM request_events"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY sequence DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query request events: %w", err)
	}
	defer rows.Close()

	var records []RequestEventRecord
	for rows.Next() {
		rec, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (r *eventRepo) GetRequest(ctx context.Context, id int) (*RequestEventRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+requestColumns+" FROM request_events WHERE id = ?", id)
	rec, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *eventRepo) UsageByPath(ctx context.Context) ([]PathStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT method, path, COUNT(*), SUM(CASE WHEN success THEN 0 ELSE 1 END),
			CAST(AVG(latency_ms) AS INTEGER)
		FROM request_events
		GROUP BY method, path
		ORDER BY COUNT(*) DESC, path ASC`)
	if err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}
	defer rows.Close()

	var stats []PathStats
	for rows.Next() {
		var s PathStats
		if err := rows.Scan(&s.Method, &s.Path, &s.Calls, &s.Failures, &s.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(s scanner) (*RequestEventRecord, error) {
	var rec RequestEventRecord
	var ts int64
	err := s.Scan(
		&rec.ID,
		&rec.Sequence,
		&ts,
		&rec.RequestID,
		&rec.Method,
		&rec.Path,
		&rec.Origin,
		&rec.StatusCode,
		&rec.LatencyMs,
		&rec.Success,
		&rec.ErrorMessage,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan request event: %w", err)
	}
	rec.Timestamp = time.UnixMilli(ts).UTC()
	return &rec, nil
}
