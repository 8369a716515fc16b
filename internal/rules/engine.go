// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package rules

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/examguard/proctoring/internal/cache"
	"github.com/examguard/proctoring/internal/logging"
)

// Engine evaluates admitted events against the sliding-window severity
// policy, emits cooldown-gated alerts, updates the decaying per-session
// risk score, and takes periodic snapshots. One Engine instance is
// shared by the synchronous inline hook and the asynchronous stream
// consumer so both paths see identical windowing and cooldown state.
type Engine struct {
	windows *cache.SlidingWindowStore

	alerts    AlertSink
	snapshots SnapshotSink
	risk      RiskScoreUpdater
	cooldown  CooldownGate
	dedupe    DedupeMarker

	mu           sync.Mutex
	lastSnapshot map[string]time.Time
}

// New builds an Engine. windowMaxSessions bounds memory use by capping
// the number of distinct (session,type) sliding-window counters retained
// concurrently (0 = unbounded).
func New(alerts AlertSink, snapshots SnapshotSink, risk RiskScoreUpdater, cooldown CooldownGate, dedupe DedupeMarker, windowMaxSessions int) *Engine {
	return &Engine{
		windows:      cache.NewSlidingWindowStore(evaluationWindow, windowNumBuckets, windowMaxSessions),
		alerts:       alerts,
		snapshots:    snapshots,
		risk:         risk,
		cooldown:     cooldown,
		dedupe:       dedupe,
		lastSnapshot: make(map[string]time.Time),
	}
}

// windowKey identifies a (session,type) sliding-window counter.
func windowKey(sessionID string, t EventType) string {
	return sessionID + "|" + string(t)
}

// cooldownKey identifies a (session,type) alert cooldown gate.
func cooldownKey(sessionID string, t EventType) string {
	return sessionID + ":" + string(t)
}

// Process evaluates a single admitted event. It is idempotent: processing
// the same EventID twice (once per execution path) updates the window
// and risk score exactly once and never double-emits an alert.
func (e *Engine) Process(ctx context.Context, event Event) (*Alert, error) {
	if event.EventID != "" {
		seen, err := e.dedupe.MarkReplay(ctx, "rules-seen:"+event.EventID, dedupeTTL)
		if err != nil {
			return nil, fmt.Errorf("rules: dedupe check: %w", err)
		}
		if seen {
			return nil, nil
		}
	}

	policy := policyFor(event.Type)

	var windowFires bool
	var computed Severity
	switch {
	case policy.never:
		// LOW_LIGHT and unrecognized types: recorded only, no rule fires.
	case policy.immediate:
		windowFires = true
		computed = policy.severity
	default:
		key := windowKey(event.SessionID, event.Type)
		e.windows.Increment(key)
		count := e.windows.Count(key)
		if count >= policy.threshold {
			windowFires = true
			computed = policy.severity
		}
	}

	declared := SeverityLow
	if event.Severity != nil {
		declared = *event.Severity
	}

	// Risk score applies to every event regardless of alert emission.
	delta := e.riskDelta(event.Type, event.Confidence)
	if _, err := e.risk.ApplyDelta(ctx, event.SessionID, delta); err != nil {
		return nil, fmt.Errorf("rules: applying risk delta: %w", err)
	}
	e.maybeSnapshot(ctx, event.SessionID)

	emit := windowFires || (event.Severity != nil && declared >= SeverityHigh)
	if !emit {
		return nil, nil
	}

	ck := cooldownKey(event.SessionID, event.Type)
	inCooldown, err := e.cooldown.InCooldown(ctx, ck)
	if err != nil {
		return nil, fmt.Errorf("rules: checking cooldown: %w", err)
	}
	if inCooldown {
		return nil, nil
	}

	finalSeverity := maxSeverity(declared, computed)
	alert := &Alert{
		ID:                uuid.NewString(),
		SessionID:         event.SessionID,
		Type:              event.Type,
		Severity:          finalSeverity,
		CreatedAt:         time.Now(),
		TriggeringEventID: event.EventID,
		Details:           withConfidence(event.Details, event.Confidence),
	}

	if err := e.alerts.SaveAlert(ctx, alert); err != nil {
		return nil, fmt.Errorf("rules: saving alert: %w", err)
	}
	if err := e.cooldown.StartCooldown(ctx, ck, alertCooldown); err != nil {
		logging.Warn().Err(err).Str("session_id", event.SessionID).Msg("failed to start alert cooldown")
	}

	return alert, nil
}

// riskDelta computes this event's contribution to the risk score:
// base(type) scaled by confidence, defaulting confidence to 1.0 (full
// weight) when the event does not report one.
func (e *Engine) riskDelta(t EventType, confidence *float64) float64 {
	base, ok := riskBase[t]
	if !ok {
		base = unknownRiskBase
	}
	weight := 1.0
	if confidence != nil {
		weight = *confidence
	}
	return base * weight
}

// maybeSnapshot appends a RiskScoreSnapshot if at least snapshotInterval
// has elapsed since the session's last one, or this is its first event.
func (e *Engine) maybeSnapshot(ctx context.Context, sessionID string) {
	e.mu.Lock()
	last, ok := e.lastSnapshot[sessionID]
	due := !ok || time.Since(last) >= snapshotInterval
	if due {
		e.lastSnapshot[sessionID] = time.Now()
	}
	e.mu.Unlock()

	if !due {
		return
	}

	// The updated score itself is read back by the snapshot writer
	// (RiskScoreUpdater.ApplyDelta already persisted it); the snapshot
	// sink is responsible for reading the session's current value.
	if snapper, ok := e.snapshots.(interface {
		SnapshotSession(ctx context.Context, sessionID string) error
	}); ok {
		if err := snapper.SnapshotSession(ctx, sessionID); err != nil {
			logging.Warn().Err(err).Str("session_id", sessionID).Msg("failed to write risk score snapshot")
		}
	}
}

// withConfidence copies the triggering event's confidence into the
// alert's details under the "confidence" key, so the trust-score formula
// (mean confidence over alerts) can read it without re-joining events.
// Falls back to the untouched details when confidence is absent or
// details is not a JSON object.
func withConfidence(details json.RawMessage, confidence *float64) json.RawMessage {
	if confidence == nil {
		return details
	}

	merged := map[string]interface{}{}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &merged); err != nil {
			merged = map[string]interface{}{}
		}
	}
	merged["confidence"] = *confidence

	out, err := json.Marshal(merged)
	if err != nil {
		return details
	}
	return out
}
