// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package rules

import (
	"context"
	"time"

	"github.com/goccy/go-json"
)

// EventType identifies the kind of proctoring anomaly an event reports.
type EventType string

// EventType values, per the v1 event type enum. A type outside this set
// is admitted but attracts no rule -- stored for audit only.
const (
	EventTypeMultiPerson      EventType = "MULTI_PERSON"
	EventTypeFaceMissing      EventType = "FACE_MISSING"
	EventTypeCameraBlocked    EventType = "CAMERA_BLOCKED"
	EventTypeTabSwitch        EventType = "TAB_SWITCH"
	EventTypeLookAway         EventType = "LOOK_AWAY"
	EventTypeLowLight         EventType = "LOW_LIGHT"
	EventTypeSuspiciousObject EventType = "SUSPICIOUS_OBJECT"
)

// Severity ranks an event or alert's severity. Ordered so the higher of
// two severities can be picked with a plain comparison.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String renders the severity in the wire format used throughout the API.
func (s Severity) String() string {
	switch s {
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "LOW"
	}
}

// ParseSeverity parses the wire representation of a severity, defaulting
// to SeverityLow for an empty or unrecognized string.
func ParseSeverity(s string) Severity {
	switch s {
	case "MEDIUM":
		return SeverityMedium
	case "HIGH":
		return SeverityHigh
	case "CRITICAL":
		return SeverityCritical
	default:
		return SeverityLow
	}
}

func maxSeverity(a, b Severity) Severity {
	if b > a {
		return b
	}
	return a
}

// Event is the rules engine's view of an admitted AnomalyEvent. Details
// is carried as opaque JSON and type-narrowed locally only where a rule
// needs a specific key (e.g. confidence), per the schema-loose payload
// design.
type Event struct {
	EventID    string
	SessionID  string
	Type       EventType
	EventTime  time.Time
	Confidence *float64
	Severity   *Severity // declared by the client, nil if omitted
	Details    json.RawMessage
}

// Alert is a rule-derived, severity-classified notification.
type Alert struct {
	ID                string
	SessionID         string
	Type              EventType
	Severity          Severity
	CreatedAt         time.Time
	TriggeringEventID string
	EvidenceID        string
	Details           json.RawMessage
}

// RiskScoreSnapshot is an append-only point-in-time capture of a
// session's decaying risk score.
type RiskScoreSnapshot struct {
	ID        string
	SessionID string
	Score     float64
	CreatedAt time.Time
	Details   json.RawMessage
}

// AlertSink persists emitted alerts.
type AlertSink interface {
	SaveAlert(ctx context.Context, alert *Alert) error
}

// SnapshotSink persists periodic risk-score snapshots.
type SnapshotSink interface {
	SaveSnapshot(ctx context.Context, snapshot *RiskScoreSnapshot) error
}

// RiskScoreUpdater applies the decaying risk-score update to a session
// row, handling the optimistic-concurrency retry internally (the session
// row may be mutated concurrently by heartbeats and by both rules
// execution paths).
type RiskScoreUpdater interface {
	ApplyDelta(ctx context.Context, sessionID string, delta float64) (newScore float64, err error)
}

// CooldownGate gates alert emission so a sustained condition produces at
// most one alert per cooldown epoch.
type CooldownGate interface {
	InCooldown(ctx context.Context, key string) (bool, error)
	StartCooldown(ctx context.Context, key string, ttl time.Duration) error
}

// DedupeMarker prevents the same event_id from being evaluated twice by
// the engine when both the inline and async execution paths run for the
// same event. MarkReplay returns true if the key was already present.
type DedupeMarker interface {
	MarkReplay(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
