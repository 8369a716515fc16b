// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/examguard/proctoring/internal/credential"
)

// maxRiskScoreRetries bounds the optimistic-concurrency retry loop on
// current_risk_score updates.
const maxRiskScoreRetries = 3

// Manager implements the session lifecycle operations against a Store.
type Manager struct {
	store Store
}

// NewManager builds a Manager backed by store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Start is idempotent on the identity tuple: if a session already exists
// for it, ACTIVE or ENDED, it is returned unchanged; otherwise a new
// ACTIVE session is created with the given config snapshot.
func (m *Manager) Start(ctx context.Context, claims *credential.Claims, configSnapshot []byte) (*Session, error) {
	existing, err := m.store.GetByIdentity(ctx, claims.TenantID, claims.ExamScheduleID, claims.UserID, claims.AttemptNo)
	switch {
	case err == nil:
		if existing.Status == StatusActive {
			return existing, nil
		}
		// A prior attempt under the same tuple has ended; a fresh attempt
		// number is the caller's responsibility, so we still return the
		// existing (ended) row rather than silently reviving it.
		return existing, nil
	case errors.Is(err, ErrNotFound):
		// fall through to create
	default:
		return nil, fmt.Errorf("session: resolving identity: %w", err)
	}

	now := time.Now()
	s := &Session{
		ID:              uuid.NewString(),
		TenantID:        claims.TenantID,
		ExamScheduleID:  claims.ExamScheduleID,
		UserID:          claims.UserID,
		AttemptNo:       claims.AttemptNo,
		Status:          StatusActive,
		StartedAt:       now,
		LastHeartbeatAt: now,
		ConfigSnapshot:  configSnapshot,
	}

	if err := m.store.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("session: creating session: %w", err)
	}

	// A concurrent Start for the same tuple may have won the race; Create
	// is expected to resolve that by returning the winning row via a
	// subsequent GetByIdentity when the store detects the unique-index
	// conflict. Re-fetch defensively so callers always see one canonical
	// row per identity tuple.
	return m.store.GetByIdentity(ctx, claims.TenantID, claims.ExamScheduleID, claims.UserID, claims.AttemptNo)
}

// End transitions an ACTIVE session to ENDED. Ending an already-ENDED
// session is a no-op success.
func (m *Manager) End(ctx context.Context, claims *credential.Claims) (*Session, error) {
	s, err := m.store.GetByIdentity(ctx, claims.TenantID, claims.ExamScheduleID, claims.UserID, claims.AttemptNo)
	if err != nil {
		return nil, err
	}
	if s.Status == StatusEnded {
		return s, nil
	}

	endedAt := time.Now()
	if err := m.store.UpdateStatus(ctx, s.ID, StatusEnded, &endedAt); err != nil {
		return nil, fmt.Errorf("session: ending session: %w", err)
	}
	s.Status = StatusEnded
	s.EndedAt = &endedAt
	return s, nil
}

// Heartbeat refreshes last_heartbeat_at on an ACTIVE session. Returns
// ErrEnded if the session has already ended.
func (m *Manager) Heartbeat(ctx context.Context, claims *credential.Claims) (*Session, error) {
	s, err := m.store.GetByIdentity(ctx, claims.TenantID, claims.ExamScheduleID, claims.UserID, claims.AttemptNo)
	if err != nil {
		return nil, err
	}
	if s.Status != StatusActive {
		return nil, ErrEnded
	}

	now := time.Now()
	if err := m.store.UpdateHeartbeat(ctx, s.ID, now); err != nil {
		return nil, fmt.Errorf("session: recording heartbeat: %w", err)
	}
	s.LastHeartbeatAt = now
	return s, nil
}

// Lookup returns the session by ID, or ErrNotFound.
func (m *Manager) Lookup(ctx context.Context, sessionID string) (*Session, error) {
	return m.store.Get(ctx, sessionID)
}

// ApplyDelta implements rules.RiskScoreUpdater: current_risk_score :=
// max(0, current*0.98 + delta), retried up to maxRiskScoreRetries times
// on a lost optimistic-concurrency race.
func (m *Manager) ApplyDelta(ctx context.Context, sessionID string, delta float64) (float64, error) {
	const decayFactor = 0.98

	var lastErr error
	for attempt := 0; attempt < maxRiskScoreRetries; attempt++ {
		s, err := m.store.Get(ctx, sessionID)
		if err != nil {
			return 0, err
		}

		next := s.CurrentRiskScore*decayFactor + delta
		if next < 0 {
			next = 0
		}

		if err := m.store.CompareAndSwapRiskScore(ctx, sessionID, s.Version, next); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				lastErr = err
				continue
			}
			return 0, fmt.Errorf("session: applying risk delta: %w", err)
		}
		return next, nil
	}
	return 0, fmt.Errorf("session: risk score update lost the race %d times: %w", maxRiskScoreRetries, lastErr)
}

// SweepStale transitions ACTIVE sessions idle longer than staleThreshold
// to ENDED. Intended to be called periodically by a supervisor service.
func (m *Manager) SweepStale(ctx context.Context, staleThreshold time.Duration) (int, error) {
	return m.store.SweepStale(ctx, time.Now().Add(-staleThreshold))
}
