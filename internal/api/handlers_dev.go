// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/examguard/proctoring/internal/validation"
)

// issueDevCredentialRequest is the wire body for the development-only
// credential issuance endpoint.
type issueDevCredentialRequest struct {
	TenantID       string `json:"tenantId" validate:"required"`
	ExamScheduleID string `json:"examScheduleId" validate:"required"`
	UserID         string `json:"userId" validate:"required"`
	AttemptNo      int    `json:"attemptNo" validate:"gte=0"`
}

// IssueDevCredential mints an unsigned-strength HS256 development
// credential for exercising the admission pipeline without a real exam
// platform. SetupChi registers this route only when the Handler holds a
// DevIssuer, which cmd/server builds only in the "local" and "docker"
// profiles; when devIssuer is nil the handler itself also refuses, so a
// misrouted registration never silently succeeds.
func (h *Handler) IssueDevCredential(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.devIssuer == nil {
		WriteKindError(rw, ErrNotFound)
		return
	}

	var req issueDevCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteKindError(rw, ErrPayloadInvalid)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		WriteKindError(rw, ErrPayloadInvalid)
		return
	}

	token, err := h.devIssuer.Issue(req.TenantID, req.ExamScheduleID, req.UserID, req.AttemptNo)
	if err != nil {
		WriteKindError(rw, ErrInternal)
		return
	}

	rw.Success(map[string]string{"token": token})
}
