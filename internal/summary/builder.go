// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package summary

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/goccy/go-json"

	"github.com/examguard/proctoring/internal/logging"
	"github.com/examguard/proctoring/internal/rules"
	"github.com/examguard/proctoring/internal/session"
	"github.com/examguard/proctoring/internal/writer"
)

// Builder assembles Summary reports, repairing any orphaned
// alert-to-evidence linkage it encounters along the way.
type Builder struct {
	sessions SessionLookup
	alerts   AlertLister
	evidence EvidenceLister
	repair   EvidenceRepairer
}

// New builds a Builder from its collaborators.
func New(sessions SessionLookup, alerts AlertLister, evidence EvidenceLister, repair EvidenceRepairer) *Builder {
	return &Builder{sessions: sessions, alerts: alerts, evidence: evidence, repair: repair}
}

// GetSummary returns the operator-facing report for sessionID, scoped to
// tenantID. A session that exists but belongs to a different tenant is
// reported as ErrNotFound rather than a permissions error, so the
// response gives no signal about cross-tenant existence.
func (b *Builder) GetSummary(ctx context.Context, sessionID, tenantID string) (*Summary, error) {
	sess, err := b.sessions.Lookup(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("summary: looking up session: %w", err)
	}
	if sess.TenantID != tenantID {
		return nil, ErrNotFound
	}

	alerts, err := b.alerts.ListAlerts(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("summary: listing alerts: %w", err)
	}

	b.repairEvidenceLinks(ctx, sessionID, alerts)

	evidence, err := b.evidence.ListEvidence(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("summary: listing evidence: %w", err)
	}

	out := &Summary{
		SessionID:      sess.ID,
		TenantID:       sess.TenantID,
		ExamScheduleID: sess.ExamScheduleID,
		UserID:         sess.UserID,
		AttemptNo:      sess.AttemptNo,
		Status:         sess.Status,
		StartedAt:      sess.StartedAt,
		EndedAt:        sess.EndedAt,
		TrustScore:     trustScore(alerts),
		AlertCounts:    countAlerts(alerts),
		Evidence:       toEvidenceEntries(evidence),
	}
	return out, nil
}

// repairEvidenceLinks binds any alert whose EvidenceID is still empty to
// the nearest-in-time evidence for the session, persisting the bind so
// future requests see it already resolved. Failures are logged and
// skipped -- the alert is still included in the summary unlinked.
func (b *Builder) repairEvidenceLinks(ctx context.Context, sessionID string, alerts []*rules.Alert) {
	for _, a := range alerts {
		if a.EvidenceID != "" {
			continue
		}
		ev, err := b.repair.NearestEvidence(ctx, sessionID, a.CreatedAt)
		if err != nil {
			logging.Warn().Err(err).Str("session_id", sessionID).Str("alert_id", a.ID).Msg("no evidence available to repair alert linkage")
			continue
		}
		if err := b.repair.BindAlertEvidence(ctx, a.ID, ev.ID); err != nil {
			logging.Warn().Err(err).Str("session_id", sessionID).Str("alert_id", a.ID).Msg("failed to persist alert evidence linkage")
			continue
		}
		a.EvidenceID = ev.ID
	}
}

// trustScore computes round(100 * mean(confidence_i)) over the alerts
// whose details carry a numeric confidence, defaulting to 100 (full
// trust) when no alert reports one.
func trustScore(alerts []*rules.Alert) int {
	var sum float64
	var count int
	for _, a := range alerts {
		c, ok := confidenceOf(a.Details)
		if !ok {
			continue
		}
		sum += c
		count++
	}
	if count == 0 {
		return 100
	}
	return int(math.Round(100 * sum / float64(count)))
}

// confidenceOf extracts a numeric "confidence" key from an alert's
// opaque details, if present.
func confidenceOf(details json.RawMessage) (float64, bool) {
	if len(details) == 0 {
		return 0, false
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(details, &parsed); err != nil {
		return 0, false
	}
	v, ok := parsed["confidence"]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// countAlerts groups alerts by type, preserving first-seen order.
func countAlerts(alerts []*rules.Alert) []AlertCount {
	order := make([]string, 0)
	counts := make(map[string]int)
	for _, a := range alerts {
		t := string(a.Type)
		if _, ok := counts[t]; !ok {
			order = append(order, t)
		}
		counts[t]++
	}
	out := make([]AlertCount, 0, len(order))
	for _, t := range order {
		out = append(out, AlertCount{Type: t, Count: counts[t]})
	}
	return out
}

func toEvidenceEntries(evidence []*writer.Evidence) []EvidenceEntry {
	out := make([]EvidenceEntry, 0, len(evidence))
	for _, e := range evidence {
		out = append(out, EvidenceEntry{ID: e.ID, EventID: e.EventID, CreatedAt: e.CreatedAt})
	}
	return out
}
