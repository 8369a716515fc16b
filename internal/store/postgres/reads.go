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
	"github.com/jackc/pgx/v5"

	"github.com/examguard/proctoring/internal/rules"
	"github.com/examguard/proctoring/internal/writer"
)

// ErrNotFound is returned by read queries that find no matching row.
var ErrNotFound = errors.New("postgres: not found")

// ListAlerts returns every alert for sessionID ordered by creation time.
func (s *Store) ListAlerts(ctx context.Context, sessionID string) ([]*rules.Alert, error) {
	const q = `
SELECT id, session_id, type, severity, created_at, triggering_event_id, COALESCE(evidence_id::text, ''), details
FROM alerts WHERE session_id = $1 ORDER BY created_at`
	rows, err := s.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*rules.Alert
	for rows.Next() {
		var a rules.Alert
		var severity string
		var details []byte
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Type, &severity, &a.CreatedAt, &a.TriggeringEventID, &a.EvidenceID, &details); err != nil {
			return nil, fmt.Errorf("postgres: scanning alert: %w", err)
		}
		a.Severity = rules.ParseSeverity(severity)
		a.Details = json.RawMessage(details)
		alerts = append(alerts, &a)
	}
	return alerts, rows.Err()
}

// ListEvents returns every event for sessionID ordered by receive time.
func (s *Store) ListEvents(ctx context.Context, sessionID string) ([]*writer.AnomalyEvent, error) {
	const q = `
SELECT event_id, session_id, type, event_time, received_at, confidence, severity, details, evidence_id
FROM anomaly_events WHERE session_id = $1 ORDER BY received_at`
	rows, err := s.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing events: %w", err)
	}
	defer rows.Close()

	var events []*writer.AnomalyEvent
	for rows.Next() {
		var e writer.AnomalyEvent
		var details []byte
		var evidenceID *string
		if err := rows.Scan(&e.EventID, &e.SessionID, &e.Type, &e.EventTime, &e.ReceivedAt, &e.Confidence, &e.Severity, &details, &evidenceID); err != nil {
			return nil, fmt.Errorf("postgres: scanning event: %w", err)
		}
		e.Details = json.RawMessage(details)
		e.EvidenceID = evidenceID
		events = append(events, &e)
	}
	return events, rows.Err()
}

// GetEvidence returns evidence metadata by ID.
func (s *Store) GetEvidence(ctx context.Context, evidenceID string) (*writer.Evidence, error) {
	const q = `
SELECT id, session_id, event_id, content_type, size_bytes, sha256, locator, created_at
FROM evidence WHERE id = $1`
	var e writer.Evidence
	err := s.pool.QueryRow(ctx, q, evidenceID).Scan(&e.ID, &e.SessionID, &e.EventID, &e.ContentType, &e.SizeBytes, &e.SHA256, &e.Locator, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: getting evidence: %w", err)
	}
	return &e, nil
}

// ListEvidence returns every evidence row for sessionID ordered by
// creation time.
func (s *Store) ListEvidence(ctx context.Context, sessionID string) ([]*writer.Evidence, error) {
	const q = `
SELECT id, session_id, event_id, content_type, size_bytes, sha256, locator, created_at
FROM evidence WHERE session_id = $1 ORDER BY created_at`
	rows, err := s.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing evidence: %w", err)
	}
	defer rows.Close()

	var evidence []*writer.Evidence
	for rows.Next() {
		var e writer.Evidence
		if err := rows.Scan(&e.ID, &e.SessionID, &e.EventID, &e.ContentType, &e.SizeBytes, &e.SHA256, &e.Locator, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scanning evidence: %w", err)
		}
		evidence = append(evidence, &e)
	}
	return evidence, rows.Err()
}

// NearestEvidence returns the Evidence row in sessionID whose created_at
// is closest to around; ties break toward the earlier Evidence. Used by
// the summary builder's post-hoc evidence-linkage repair.
func (s *Store) NearestEvidence(ctx context.Context, sessionID string, around time.Time) (*writer.Evidence, error) {
	const q = `
SELECT id, session_id, event_id, content_type, size_bytes, sha256, locator, created_at
FROM evidence
WHERE session_id = $1
ORDER BY ABS(EXTRACT(EPOCH FROM (created_at - $2::timestamptz))), created_at
LIMIT 1`
	var e writer.Evidence
	err := s.pool.QueryRow(ctx, q, sessionID, around).Scan(&e.ID, &e.SessionID, &e.EventID, &e.ContentType, &e.SizeBytes, &e.SHA256, &e.Locator, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: finding nearest evidence: %w", err)
	}
	return &e, nil
}

// BindAlertEvidence persists the evidence-linkage repair for one alert.
func (s *Store) BindAlertEvidence(ctx context.Context, alertID, evidenceID string) error {
	const q = `UPDATE alerts SET evidence_id = $2 WHERE id = $1`
	if _, err := s.pool.Exec(ctx, q, alertID, evidenceID); err != nil {
		return fmt.Errorf("postgres: binding alert evidence: %w", err)
	}
	return nil
}
