// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package session

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
)

// Status is a Session's lifecycle state. It flows ACTIVE -> ENDED and
// never reverses.
type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusEnded  Status = "ENDED"
)

// Session is the one active proctoring context for a
// (tenant_id, exam_schedule_id, user_id, attempt_no) identity tuple.
type Session struct {
	ID               string
	TenantID         string
	ExamScheduleID   string
	UserID           string
	AttemptNo        int
	Status           Status
	StartedAt        time.Time
	EndedAt          *time.Time
	LastHeartbeatAt  time.Time
	CurrentRiskScore float64
	// Version is an optimistic-concurrency token incremented on every
	// CurrentRiskScore update, so concurrent heartbeat/rules writers can
	// retry instead of taking a row lock.
	Version        int64
	ConfigSnapshot json.RawMessage
}

// ErrNotFound is returned when no session matches the requested key.
var ErrNotFound = errors.New("session: not found")

// ErrEnded is returned by Heartbeat when the session has already ended.
var ErrEnded = errors.New("session: already ended")

// ErrVersionConflict is returned by the Store when a compare-and-swap
// update loses a race to a concurrent writer; callers retry.
var ErrVersionConflict = errors.New("session: version conflict")

// Store persists Session rows. Implementations must enforce the unique
// index on the identity tuple as a second line of defense behind the
// application-level idempotent start.
type Store interface {
	// GetByIdentity returns the session for the identity tuple, or
	// ErrNotFound if none exists.
	GetByIdentity(ctx context.Context, tenantID, examScheduleID, userID string, attemptNo int) (*Session, error)

	// Get returns the session by ID, or ErrNotFound.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Create inserts a new ACTIVE session. Implementations treat a
	// unique-constraint violation on the identity tuple as a benign race:
	// they insert nothing and return nil, and Manager.Start re-reads the
	// row that won.
	Create(ctx context.Context, s *Session) error

	// UpdateStatus transitions the session's status and, when ending,
	// stamps endedAt.
	UpdateStatus(ctx context.Context, sessionID string, status Status, endedAt *time.Time) error

	// UpdateHeartbeat refreshes last_heartbeat_at on an ACTIVE session.
	UpdateHeartbeat(ctx context.Context, sessionID string, at time.Time) error

	// CompareAndSwapRiskScore updates current_risk_score only if the
	// row's version still equals expectedVersion, incrementing version
	// on success. Returns ErrVersionConflict on a lost race.
	CompareAndSwapRiskScore(ctx context.Context, sessionID string, expectedVersion int64, newScore float64) error

	// SweepStale transitions ACTIVE sessions whose last_heartbeat_at is
	// older than staleBefore to ENDED, returning the count affected. Must
	// be idempotent -- safe to call repeatedly with overlapping ranges.
	SweepStale(ctx context.Context, staleBefore time.Time) (int, error)
}
