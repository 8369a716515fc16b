// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/examguard/proctoring/internal/rules"
	"github.com/examguard/proctoring/internal/session"
	"github.com/examguard/proctoring/internal/writer"
)

// Store is the pgx-backed implementation of every durable-storage
// interface the proctoring pipeline needs: session.Store,
// writer.EventStore, rules.AlertSink and rules.SnapshotSink.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects a pgxpool.Pool against databaseURL. Callers should call
// Close during graceful shutdown.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: opening pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// --- session.Store ---

func (s *Store) GetByIdentity(ctx context.Context, tenantID, examScheduleID, userID string, attemptNo int) (*session.Session, error) {
	const q = `
SELECT id, tenant_id, exam_schedule_id, user_id, attempt_no, status, started_at,
       ended_at, last_heartbeat_at, current_risk_score, version, config_snapshot
FROM sessions
WHERE tenant_id = $1 AND exam_schedule_id = $2 AND user_id = $3 AND attempt_no = $4`
	return s.scanSession(s.pool.QueryRow(ctx, q, tenantID, examScheduleID, userID, attemptNo))
}

func (s *Store) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	const q = `
SELECT id, tenant_id, exam_schedule_id, user_id, attempt_no, status, started_at,
       ended_at, last_heartbeat_at, current_risk_score, version, config_snapshot
FROM sessions WHERE id = $1`
	return s.scanSession(s.pool.QueryRow(ctx, q, sessionID))
}

func (s *Store) scanSession(row pgx.Row) (*session.Session, error) {
	var sess session.Session
	var config []byte
	err := row.Scan(&sess.ID, &sess.TenantID, &sess.ExamScheduleID, &sess.UserID, &sess.AttemptNo,
		&sess.Status, &sess.StartedAt, &sess.EndedAt, &sess.LastHeartbeatAt, &sess.CurrentRiskScore,
		&sess.Version, &config)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: scanning session: %w", err)
	}
	sess.ConfigSnapshot = json.RawMessage(config)
	return &sess, nil
}

func (s *Store) Create(ctx context.Context, sess *session.Session) error {
	const q = `
INSERT INTO sessions (id, tenant_id, exam_schedule_id, user_id, attempt_no, status,
                       started_at, last_heartbeat_at, current_risk_score, version, config_snapshot)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0, $9)
ON CONFLICT (tenant_id, exam_schedule_id, user_id, attempt_no) DO NOTHING`
	_, err := s.pool.Exec(ctx, q, sess.ID, sess.TenantID, sess.ExamScheduleID, sess.UserID, sess.AttemptNo,
		sess.Status, sess.StartedAt, sess.LastHeartbeatAt, []byte(sess.ConfigSnapshot))
	if err != nil {
		return fmt.Errorf("postgres: inserting session: %w", err)
	}
	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, sessionID string, status session.Status, endedAt *time.Time) error {
	const q = `UPDATE sessions SET status = $2, ended_at = $3 WHERE id = $1`
	tag, err := s.pool.Exec(ctx, q, sessionID, status, endedAt)
	if err != nil {
		return fmt.Errorf("postgres: updating session status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateHeartbeat(ctx context.Context, sessionID string, at time.Time) error {
	const q = `UPDATE sessions SET last_heartbeat_at = $2 WHERE id = $1`
	tag, err := s.pool.Exec(ctx, q, sessionID, at)
	if err != nil {
		return fmt.Errorf("postgres: updating heartbeat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (s *Store) CompareAndSwapRiskScore(ctx context.Context, sessionID string, expectedVersion int64, newScore float64) error {
	const q = `UPDATE sessions SET current_risk_score = $3, version = version + 1
WHERE id = $1 AND version = $2`
	tag, err := s.pool.Exec(ctx, q, sessionID, expectedVersion, newScore)
	if err != nil {
		return fmt.Errorf("postgres: updating risk score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrVersionConflict
	}
	return nil
}

func (s *Store) SweepStale(ctx context.Context, staleBefore time.Time) (int, error) {
	const q = `UPDATE sessions SET status = $2, ended_at = now()
WHERE status = $3 AND last_heartbeat_at < $1`
	tag, err := s.pool.Exec(ctx, q, staleBefore, session.StatusEnded, session.StatusActive)
	if err != nil {
		return 0, fmt.Errorf("postgres: sweeping stale sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// --- writer.EventStore ---

func (s *Store) InsertEvent(ctx context.Context, event *writer.AnomalyEvent) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: beginning event transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var status session.Status
	if err := tx.QueryRow(ctx, `SELECT status FROM sessions WHERE id = $1 FOR UPDATE`, event.SessionID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.ErrNotFound
		}
		return fmt.Errorf("postgres: checking session status: %w", err)
	}
	if status != session.StatusActive {
		return writer.ErrSessionEnded
	}

	const q = `
INSERT INTO anomaly_events (event_id, session_id, type, event_time, received_at, confidence, severity, details)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (event_id) DO NOTHING`
	if _, err := tx.Exec(ctx, q, event.EventID, event.SessionID, event.Type, event.EventTime, event.ReceivedAt,
		event.Confidence, event.Severity, []byte(event.Details)); err != nil {
		return fmt.Errorf("postgres: inserting event: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: committing event transaction: %w", err)
	}
	return nil
}

func (s *Store) InsertEvidence(ctx context.Context, evidence *writer.Evidence) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: beginning evidence transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertQ = `
INSERT INTO evidence (id, session_id, event_id, content_type, size_bytes, sha256, locator, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := tx.Exec(ctx, insertQ, evidence.ID, evidence.SessionID, evidence.EventID, evidence.ContentType,
		evidence.SizeBytes, evidence.SHA256, evidence.Locator, evidence.CreatedAt); err != nil {
		return fmt.Errorf("postgres: inserting evidence: %w", err)
	}

	const linkQ = `UPDATE anomaly_events SET evidence_id = $2 WHERE event_id = $1`
	if _, err := tx.Exec(ctx, linkQ, evidence.EventID, evidence.ID); err != nil {
		return fmt.Errorf("postgres: linking evidence: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: committing evidence transaction: %w", err)
	}
	return nil
}

func (s *Store) IsSessionActive(ctx context.Context, sessionID string) (bool, error) {
	var status session.Status
	err := s.pool.QueryRow(ctx, `SELECT status FROM sessions WHERE id = $1`, sessionID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("postgres: checking session active: %w", err)
	}
	return status == session.StatusActive, nil
}

// --- rules.AlertSink / rules.SnapshotSink ---

func (s *Store) SaveAlert(ctx context.Context, alert *rules.Alert) error {
	const q = `
INSERT INTO alerts (id, session_id, type, severity, created_at, triggering_event_id, evidence_id, details)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)`
	if _, err := s.pool.Exec(ctx, q, alert.ID, alert.SessionID, alert.Type, alert.Severity.String(), alert.CreatedAt,
		alert.TriggeringEventID, alert.EvidenceID, []byte(alert.Details)); err != nil {
		return fmt.Errorf("postgres: inserting alert: %w", err)
	}
	return nil
}

func (s *Store) SaveSnapshot(ctx context.Context, snapshot *rules.RiskScoreSnapshot) error {
	const q = `
INSERT INTO risk_score_snapshots (id, session_id, score, created_at, details)
VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.pool.Exec(ctx, q, snapshot.ID, snapshot.SessionID, snapshot.Score, snapshot.CreatedAt,
		[]byte(snapshot.Details)); err != nil {
		return fmt.Errorf("postgres: inserting snapshot: %w", err)
	}
	return nil
}

// SnapshotSession reads the session's current risk score and appends a
// snapshot row. Satisfies the rules.Engine's optional snapshot capability
// so the engine does not need to track scores itself.
func (s *Store) SnapshotSession(ctx context.Context, sessionID string) error {
	var score float64
	if err := s.pool.QueryRow(ctx, `SELECT current_risk_score FROM sessions WHERE id = $1`, sessionID).Scan(&score); err != nil {
		return fmt.Errorf("postgres: reading risk score for snapshot: %w", err)
	}
	return s.SaveSnapshot(ctx, &rules.RiskScoreSnapshot{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Score:     score,
		CreatedAt: time.Now(),
	})
}
