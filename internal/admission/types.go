// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package admission

import (
	"errors"
	"time"

	"github.com/goccy/go-json"
)

// Reason is the stable per-event rejection tag surfaced to clients.
type Reason string

const (
	ReasonDuplicate            Reason = "duplicate"
	ReasonTimestampOutOfRange  Reason = "timestamp_out_of_range"
	ReasonRateLimited          Reason = "rate_limited"
	ReasonInternalError        Reason = "internal_error"
)

// IncomingEvent is one wire-format event from a batch submission.
type IncomingEvent struct {
	EventID    string          `json:"eventId"`
	Type       string          `json:"type"`
	Timestamp  time.Time       `json:"timestamp"`
	Confidence *float64        `json:"confidence,omitempty"`
	Severity   *string         `json:"severity,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
}

// IncomingThumbnail is one wire-format thumbnail paired to an event by ID.
type IncomingThumbnail struct {
	EventID     string `json:"eventId"`
	ContentType string `json:"contentType"`
	DataBase64  string `json:"dataBase64"`
	SizeBytes   int64  `json:"sizeBytes"`
}

// BatchRequest is the decoded wire body of POST /proctoring/events/batch.
type BatchRequest struct {
	SessionID  string              `json:"sessionId"`
	Events     []IncomingEvent     `json:"events"`
	Thumbnails []IncomingThumbnail `json:"thumbnails"`
}

// BatchResult is the HTTP-agnostic outcome of one batch admission.
type BatchResult struct {
	AcceptedEventIDs []string
	RejectedEventIDs []string
	ReasonByEventID  map[Reason][]string
}

func newBatchResult() *BatchResult {
	return &BatchResult{ReasonByEventID: make(map[Reason][]string)}
}

func (r *BatchResult) accept(eventID string) {
	r.AcceptedEventIDs = append(r.AcceptedEventIDs, eventID)
}

func (r *BatchResult) reject(eventID string, reason Reason) {
	r.RejectedEventIDs = append(r.RejectedEventIDs, eventID)
	r.ReasonByEventID[reason] = append(r.ReasonByEventID[reason], eventID)
}

// ErrBatchTooLarge is returned when the serialized request exceeds the
// configured size guard. The whole batch is rejected.
var ErrBatchTooLarge = errors.New("admission: batch exceeds maximum size")

// ErrIdentityMismatch is returned when the session resolved by session_id
// does not belong to the claims presented.
var ErrIdentityMismatch = errors.New("admission: identity does not match session")

// ErrSessionNotFound is returned when session_id does not resolve.
var ErrSessionNotFound = errors.New("admission: session not found")

// ErrSessionEnded is returned when the batch targets a session that has
// already ended; the whole batch is rejected rather than processed
// per-event, since no event in it can ever be durably admitted.
var ErrSessionEnded = errors.New("admission: session has ended")

// ErrPayloadInvalid is returned when the batch body does not decode as a
// BatchRequest.
var ErrPayloadInvalid = errors.New("admission: payload is invalid")
