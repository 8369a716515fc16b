// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package streaming

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/examguard/proctoring/internal/rules"
)

// wireEvent is the JSON envelope an admitted rules.Event is serialized to
// on the wire. Severity is carried as its string form since the zero
// value of rules.Severity (SeverityLow) is indistinguishable from "not
// declared" once round-tripped through an int.
type wireEvent struct {
	EventID    string          `json:"eventId"`
	SessionID  string          `json:"sessionId"`
	Type       string          `json:"type"`
	EventTime  time.Time       `json:"eventTime"`
	Confidence *float64        `json:"confidence,omitempty"`
	Severity   string          `json:"severity,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
}

func encodeEvent(event rules.Event) ([]byte, error) {
	w := wireEvent{
		EventID:    event.EventID,
		SessionID:  event.SessionID,
		Type:       string(event.Type),
		EventTime:  event.EventTime,
		Confidence: event.Confidence,
		Details:    event.Details,
	}
	if event.Severity != nil {
		w.Severity = event.Severity.String()
	}
	return json.Marshal(w)
}

func decodeEvent(data []byte) (rules.Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return rules.Event{}, err
	}
	event := rules.Event{
		EventID:    w.EventID,
		SessionID:  w.SessionID,
		Type:       rules.EventType(w.Type),
		EventTime:  w.EventTime,
		Confidence: w.Confidence,
		Details:    w.Details,
	}
	if w.Severity != "" {
		sev := rules.ParseSeverity(w.Severity)
		event.Severity = &sev
	}
	return event, nil
}

// subject returns the per-session publish subject an event is routed on.
func subject(sessionID string) string {
	return Subject + "." + sessionID
}
