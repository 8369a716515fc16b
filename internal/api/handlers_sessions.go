// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/examguard/proctoring/internal/session"
)

// startSessionRequest is the wire body of POST /proctoring/sessions/start.
type startSessionRequest struct {
	ExamConfig json.RawMessage `json:"examConfig,omitempty"`
}

// sessionResponse is the shared wire shape for start/end.
type sessionResponse struct {
	SessionID string        `json:"sessionId"`
	Status    session.Status `json:"status"`
}

// heartbeatResponse is the wire shape of POST /proctoring/sessions/heartbeat.
type heartbeatResponse struct {
	SessionID     string    `json:"sessionId"`
	LastHeartbeat time.Time `json:"lastHeartbeat"`
}

// StartSession handles POST /proctoring/sessions/start. Idempotent per
// identity tuple: a repeat call against an already-ACTIVE session returns
// that same session unchanged.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := GetHandlerContext(r)
	if err := hctx.RequireAuthenticated(); err != nil {
		WriteKindError(rw, err)
		return
	}

	var req startSessionRequest
	if r.ContentLength != 0 {
		body, err := io.ReadAll(io.LimitReader(r.Body, 65536))
		if err != nil {
			WriteKindError(rw, ErrPayloadInvalid)
			return
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				WriteKindError(rw, ErrPayloadInvalid)
				return
			}
		}
	}

	sess, err := h.sessions.Start(r.Context(), hctx.Claims, req.ExamConfig)
	if err != nil {
		WriteKindError(rw, ErrInternal)
		return
	}

	rw.Success(sessionResponse{SessionID: sess.ID, Status: sess.Status})
}

// EndSession handles POST /proctoring/sessions/end.
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := GetHandlerContext(r)
	if err := hctx.RequireAuthenticated(); err != nil {
		WriteKindError(rw, err)
		return
	}

	sess, err := h.sessions.End(r.Context(), hctx.Claims)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			WriteKindError(rw, ErrSessionNotFound)
			return
		}
		WriteKindError(rw, ErrInternal)
		return
	}

	rw.Success(sessionResponse{SessionID: sess.ID, Status: sess.Status})
}

// Heartbeat handles POST /proctoring/sessions/heartbeat.
func (h *Handler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := GetHandlerContext(r)
	if err := hctx.RequireAuthenticated(); err != nil {
		WriteKindError(rw, err)
		return
	}

	sess, err := h.sessions.Heartbeat(r.Context(), hctx.Claims)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			WriteKindError(rw, ErrSessionNotFound)
			return
		}
		if errors.Is(err, session.ErrEnded) {
			WriteKindError(rw, ErrSessionEnded)
			return
		}
		WriteKindError(rw, ErrInternal)
		return
	}

	rw.Success(heartbeatResponse{
		SessionID:     sess.ID,
		LastHeartbeat: sess.LastHeartbeatAt,
	})
}
