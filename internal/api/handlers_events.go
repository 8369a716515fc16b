// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/examguard/proctoring/internal/session"
	"github.com/examguard/proctoring/internal/writer"
)

// eventWire is one AnomalyEvent's wire representation.
type eventWire struct {
	EventID    string          `json:"eventId"`
	Type       string          `json:"type"`
	EventTime  time.Time       `json:"timestamp"`
	ReceivedAt time.Time       `json:"receivedAt"`
	Confidence *float64        `json:"confidence,omitempty"`
	Severity   *string         `json:"severity,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
	EvidenceID *string         `json:"evidenceId,omitempty"`
}

// ListEvents handles GET /proctoring/sessions/{id}/events.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := GetHandlerContext(r)
	if err := hctx.RequireAuthenticated(); err != nil {
		WriteKindError(rw, err)
		return
	}

	sessionID := chi.URLParam(r, "id")
	sess, err := h.sessions.Lookup(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			WriteKindError(rw, ErrSessionNotFound)
			return
		}
		WriteKindError(rw, ErrInternal)
		return
	}
	if !hctx.OwnsSession(sess.TenantID, sess.ExamScheduleID, sess.UserID, sess.AttemptNo) {
		WriteKindError(rw, ErrSessionNotFound)
		return
	}

	events, err := h.events.ListEvents(r.Context(), sessionID)
	if err != nil {
		WriteKindError(rw, ErrInternal)
		return
	}

	rw.Success(map[string]interface{}{"events": toEventWire(events)})
}

func toEventWire(events []*writer.AnomalyEvent) []eventWire {
	out := make([]eventWire, 0, len(events))
	for _, e := range events {
		out = append(out, eventWire{
			EventID:    e.EventID,
			Type:       e.Type,
			EventTime:  e.EventTime,
			ReceivedAt: e.ReceivedAt,
			Confidence: e.Confidence,
			Severity:   e.Severity,
			Details:    e.Details,
			EvidenceID: e.EvidenceID,
		})
	}
	return out
}
