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

	"github.com/examguard/proctoring/internal/session"
	"github.com/examguard/proctoring/internal/summary"
)

// summaryWire is the Summary's wire representation for the operator dashboard.
type summaryWire struct {
	SessionID      string                 `json:"sessionId"`
	TenantID       string                 `json:"tenantId"`
	ExamScheduleID string                 `json:"examScheduleId"`
	UserID         string                 `json:"userId"`
	AttemptNo      int                    `json:"attemptNo"`
	Status         session.Status         `json:"status"`
	StartedAt      time.Time              `json:"startedAt"`
	EndedAt        *time.Time             `json:"endedAt,omitempty"`
	TrustScore     int                    `json:"trustScore"`
	AlertCounts    []summary.AlertCount   `json:"alertCounts"`
	Evidence       []summary.EvidenceEntry `json:"evidence"`
}

// GetSummary handles GET /dashboard/sessions/{id}/summary. Scoped to the
// authenticated tenant only (not the full identity tuple) since this is
// the operator-facing dashboard read, not the exam client's own session
// view.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := GetHandlerContext(r)
	if err := hctx.RequireAuthenticated(); err != nil {
		WriteKindError(rw, err)
		return
	}

	sessionID := chi.URLParam(r, "id")
	out, err := h.summaries.GetSummary(r.Context(), sessionID, hctx.TenantID())
	if err != nil {
		if errors.Is(err, summary.ErrNotFound) {
			WriteKindError(rw, ErrNotFound)
			return
		}
		WriteKindError(rw, ErrInternal)
		return
	}

	rw.Success(summaryWire{
		SessionID:      out.SessionID,
		TenantID:       out.TenantID,
		ExamScheduleID: out.ExamScheduleID,
		UserID:         out.UserID,
		AttemptNo:      out.AttemptNo,
		Status:         out.Status,
		StartedAt:      out.StartedAt,
		EndedAt:        out.EndedAt,
		TrustScore:     out.TrustScore,
		AlertCounts:    out.AlertCounts,
		Evidence:       out.Evidence,
	})
}
