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

	"github.com/examguard/proctoring/internal/rules"
	"github.com/examguard/proctoring/internal/session"
)

// alertWire is one Alert's wire representation.
type alertWire struct {
	ID                string          `json:"id"`
	Type              string          `json:"type"`
	Severity          string          `json:"severity"`
	CreatedAt         time.Time       `json:"createdAt"`
	TriggeringEventID string          `json:"triggeringEventId"`
	EvidenceID        string          `json:"evidenceId,omitempty"`
	Details           json.RawMessage `json:"details,omitempty"`
}

// ListAlerts handles GET /proctoring/sessions/{id}/alerts.
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
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

	alerts, err := h.alerts.ListAlerts(r.Context(), sessionID)
	if err != nil {
		WriteKindError(rw, ErrInternal)
		return
	}

	rw.Success(map[string]interface{}{"alerts": toAlertWire(alerts)})
}

func toAlertWire(alerts []*rules.Alert) []alertWire {
	out := make([]alertWire, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, alertWire{
			ID:                a.ID,
			Type:              string(a.Type),
			Severity:          a.Severity.String(),
			CreatedAt:         a.CreatedAt,
			TriggeringEventID: a.TriggeringEventID,
			EvidenceID:        a.EvidenceID,
			Details:           a.Details,
		})
	}
	return out
}
