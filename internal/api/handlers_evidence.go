// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/examguard/proctoring/internal/logging"
	"github.com/examguard/proctoring/internal/session"
	"github.com/examguard/proctoring/internal/store/postgres"
)

// GetEvidence handles GET /proctoring/evidence/{id}, streaming the stored
// thumbnail back as a binary response rather than the JSON envelope --
// the spec names this endpoint's response as the raw JPEG, not a
// wrapped object.
func (h *Handler) GetEvidence(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := GetHandlerContext(r)
	if err := hctx.RequireAuthenticated(); err != nil {
		WriteKindError(rw, err)
		return
	}

	evidenceID := chi.URLParam(r, "id")
	ev, err := h.evidence.GetEvidence(r.Context(), evidenceID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			WriteKindError(rw, ErrNotFound)
			return
		}
		WriteKindError(rw, ErrInternal)
		return
	}

	sess, err := h.sessions.Lookup(r.Context(), ev.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			WriteKindError(rw, ErrNotFound)
			return
		}
		WriteKindError(rw, ErrInternal)
		return
	}
	if !hctx.OwnsSession(sess.TenantID, sess.ExamScheduleID, sess.UserID, sess.AttemptNo) {
		WriteKindError(rw, ErrNotFound)
		return
	}

	data, err := h.blobs.Get(r.Context(), ev.Locator)
	if err != nil {
		logging.Error().Err(err).Str("evidence_id", evidenceID).Str("locator", ev.Locator).Msg("evidence: reading blob failed")
		WriteKindError(rw, ErrInternal)
		return
	}

	w.Header().Set("Content-Type", ev.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(int64(len(data)), 10))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
