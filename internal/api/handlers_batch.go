// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/examguard/proctoring/internal/admission"
	"github.com/examguard/proctoring/internal/logging"
)

// batchResponse is the wire shape of POST /proctoring/events/batch.
type batchResponse struct {
	AcceptedEventIDs []string          `json:"acceptedEventIds"`
	RejectedEventIDs []string          `json:"rejectedEventIds"`
	ReasonByEventID  map[string]string `json:"reasonByEventId"`
}

// SubmitBatch handles POST /proctoring/events/batch, the admission
// pipeline's HTTP boundary. A whole-batch rejection (size guard, identity
// mismatch, unknown or ended session) maps to the corresponding HTTP
// status; per-event outcomes are always returned inside a 200 body, per
// the spec's "partial failures inside body" mapping.
func (h *Handler) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := GetHandlerContext(r)
	if err := hctx.RequireAuthenticated(); err != nil {
		WriteKindError(rw, err)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, int64(admission.DefaultConfig().MaxBatchBytes)+1))
	if err != nil {
		WriteKindError(rw, ErrPayloadInvalid)
		return
	}

	result, err := h.batches.Admit(r.Context(), hctx.Claims, body)
	if err != nil {
		WriteKindError(rw, mapAdmissionError(err))
		return
	}

	rw.Success(batchResponse{
		AcceptedEventIDs: orEmpty(result.AcceptedEventIDs),
		RejectedEventIDs: orEmpty(result.RejectedEventIDs),
		ReasonByEventID:  flattenReasons(result.ReasonByEventID),
	})
}

// mapAdmissionError classifies an admission-package sentinel into the
// API's error Kind vocabulary. Anything unrecognized is logged and
// surfaced as internal_error rather than guessed at.
func mapAdmissionError(err error) error {
	switch {
	case errors.Is(err, admission.ErrBatchTooLarge):
		return ErrBatchTooLarge
	case errors.Is(err, admission.ErrPayloadInvalid):
		return ErrPayloadInvalid
	case errors.Is(err, admission.ErrIdentityMismatch):
		return ErrIdentityMismatch
	case errors.Is(err, admission.ErrSessionNotFound):
		return ErrSessionNotFound
	case errors.Is(err, admission.ErrSessionEnded):
		return ErrSessionEnded
	default:
		logging.Error().Err(err).Msg("admission: unclassified batch rejection")
		return ErrInternal
	}
}

// flattenReasons inverts the admission package's reason->eventIds grouping
// into the per-event eventId->reason map the wire format names.
func flattenReasons(byReason map[admission.Reason][]string) map[string]string {
	out := make(map[string]string, len(byReason))
	for reason, ids := range byReason {
		for _, id := range ids {
			out[id] = string(reason)
		}
	}
	return out
}

// orEmpty returns ids, or an empty (non-nil) slice if ids is nil, so the
// wire response always carries `[]` rather than `null`.
func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
