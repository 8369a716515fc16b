// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

// Package api provides HTTP handlers for the Cartographus application.
//
// errors.go - Sentinel error kinds for the proctoring API.
//
// Every handler-level failure is classified into one of these Kinds. The
// Kind maps 1:1 to an APIError.Code and an HTTP status via KindStatus.
package api

import "errors"

// Kind classifies an API-facing error. Handlers compare against these
// sentinels with errors.Is; internal packages wrap them with fmt.Errorf("%w").
type Kind string

const (
	KindCredentialInvalid   Kind = "credential_invalid"
	KindIdentityMismatch    Kind = "identity_mismatch"
	KindSessionNotFound     Kind = "session_not_found"
	KindSessionEnded        Kind = "session_ended"
	KindBatchTooLarge       Kind = "batch_too_large"
	KindRateLimited         Kind = "rate_limited"
	KindTimestampOutOfRange Kind = "timestamp_out_of_range"
	KindDuplicate           Kind = "duplicate"
	KindPayloadInvalid      Kind = "payload_invalid"
	KindNotFound            Kind = "not_found"
	KindInternal            Kind = "internal_error"
)

// KindStatus maps an error Kind to the HTTP status code the admission and
// read APIs require.
var KindStatus = map[Kind]int{
	KindCredentialInvalid:   401,
	KindIdentityMismatch:    401,
	KindSessionNotFound:     404,
	KindSessionEnded:        409,
	KindBatchTooLarge:       413,
	KindRateLimited:         429,
	KindTimestampOutOfRange: 400,
	KindDuplicate:           200,
	KindPayloadInvalid:      400,
	KindNotFound:            404,
	KindInternal:            500,
}

// KindError is an error carrying a classification Kind and a human-readable
// message, letting a handler translate a domain error into a response
// without re-deriving the status code.
type KindError struct {
	Kind    Kind
	Message string
	Details interface{}
}

func (e *KindError) Error() string { return e.Message }

// NewKindError builds a KindError for the given classification.
func NewKindError(kind Kind, message string) *KindError {
	return &KindError{Kind: kind, Message: message}
}

// WithDetails attaches structured detail (e.g. validation field errors) and
// returns the receiver for chaining at the call site.
func (e *KindError) WithDetails(details interface{}) *KindError {
	e.Details = details
	return e
}

// Is allows errors.Is(err, ErrSessionNotFound) to match any *KindError with
// the same Kind, so callers can wrap with extra context and still compare.
func (e *KindError) Is(target error) bool {
	t, ok := target.(*KindError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is comparisons in internal packages that don't need
// per-instance messages.
var (
	ErrCredentialInvalid   = &KindError{Kind: KindCredentialInvalid, Message: "credential is invalid or expired"}
	ErrIdentityMismatch    = &KindError{Kind: KindIdentityMismatch, Message: "credential identity does not match request"}
	ErrSessionNotFound     = &KindError{Kind: KindSessionNotFound, Message: "session not found"}
	ErrSessionEnded        = &KindError{Kind: KindSessionEnded, Message: "session has already ended"}
	ErrBatchTooLarge       = &KindError{Kind: KindBatchTooLarge, Message: "event batch exceeds maximum size"}
	ErrRateLimited         = &KindError{Kind: KindRateLimited, Message: "rate limit exceeded"}
	ErrTimestampOutOfRange = &KindError{Kind: KindTimestampOutOfRange, Message: "event timestamp outside accepted window"}
	ErrPayloadInvalid      = &KindError{Kind: KindPayloadInvalid, Message: "request payload is invalid"}
	ErrNotFound            = &KindError{Kind: KindNotFound, Message: "resource not found"}
	ErrInternal            = &KindError{Kind: KindInternal, Message: "internal error"}
)

// AsKindError unwraps err looking for a *KindError, returning ok=false if
// none is found (callers should then treat it as an internal error).
func AsKindError(err error) (*KindError, bool) {
	var ke *KindError
	if errors.As(err, &ke) {
		return ke, true
	}
	return nil, false
}

// WriteKindError writes the appropriate status/code/message for a
// classified error, falling back to 500/internal_error for anything else.
func WriteKindError(rw *ResponseWriter, err error) {
	ke, ok := AsKindError(err)
	if !ok {
		rw.Error(500, string(KindInternal), "internal error")
		return
	}
	status, known := KindStatus[ke.Kind]
	if !known {
		status = 500
	}
	rw.ErrorWithDetails(status, string(ke.Kind), ke.Message, ke.Details)
}
