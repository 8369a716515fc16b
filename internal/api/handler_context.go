// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

/*
handler_context.go - Request Context Helpers for Tenant/Session Identity

This file provides helpers for extracting the credential claims attached to
a request by the credential verification middleware. Every proctoring
endpoint is scoped by the (tenant_id, exam_schedule_id, user_id, attempt_no)
identity tuple carried in the verified credential; there is no role
hierarchy here, only tenant and session scoping.

Usage:

	func (h *Handler) SomeHandler(w http.ResponseWriter, r *http.Request) {
	    hctx := GetHandlerContext(r)
	    if err := hctx.RequireAuthenticated(); err != nil {
	        WriteKindError(rw, err)
	        return
	    }
	    if hctx.TenantID() != session.TenantID {
	        WriteKindError(rw, ErrNotFound) // tenant mismatch reads as not_found
	        return
	    }
	}
*/

package api

import (
	"net/http"

	"github.com/examguard/proctoring/internal/credential"
)

// HandlerContext carries the verified credential's identity claims for the
// lifetime of a single request.
type HandlerContext struct {
	// Claims is the verified credential payload. Nil for unauthenticated
	// requests (dev-issuance endpoint, health checks).
	Claims *credential.Claims

	// RequestID is the unique identifier for this request, for logging.
	RequestID string
}

// GetHandlerContext extracts the credential claims previously attached to
// the request context by the credential verification middleware. It never
// returns nil; when no claims are present, the returned context's Claims
// field is nil.
func GetHandlerContext(r *http.Request) *HandlerContext {
	claims := credential.ClaimsFromContext(r.Context())

	hctx := &HandlerContext{
		Claims:    claims,
		RequestID: r.Header.Get("X-Request-ID"),
	}

	return hctx
}

// IsAuthenticated returns true if the request carries verified claims.
func (hctx *HandlerContext) IsAuthenticated() bool {
	return hctx != nil && hctx.Claims != nil
}

// TenantID returns the authenticated tenant, or "" if unauthenticated.
func (hctx *HandlerContext) TenantID() string {
	if hctx == nil || hctx.Claims == nil {
		return ""
	}
	return hctx.Claims.TenantID
}

// OwnsSession reports whether the authenticated identity tuple matches the
// given session's identity tuple exactly. Any mismatch (tenant, exam
// schedule, user, or attempt number) must be surfaced to the caller as
// session_not_found, never as a more specific error, so a leaked session ID
// cannot be used to enumerate another tenant's or user's sessions.
func (hctx *HandlerContext) OwnsSession(tenantID, examScheduleID, userID string, attemptNo int) bool {
	if hctx == nil || hctx.Claims == nil {
		return false
	}
	c := hctx.Claims
	return c.TenantID == tenantID &&
		c.ExamScheduleID == examScheduleID &&
		c.UserID == userID &&
		c.AttemptNo == attemptNo
}

// RequireAuthenticated returns ErrCredentialInvalid if the request has no
// verified claims attached.
func (hctx *HandlerContext) RequireAuthenticated() error {
	if !hctx.IsAuthenticated() {
		return ErrCredentialInvalid
	}
	return nil
}
