// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package writer

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
)

// AnomalyEvent is the durable record of one ingested proctoring event.
type AnomalyEvent struct {
	EventID    string
	SessionID  string
	Type       string
	EventTime  time.Time
	ReceivedAt time.Time
	Confidence *float64
	Severity   *string
	Details    json.RawMessage
	EvidenceID *string
}

// Evidence is a stored thumbnail blob, addressed by an opaque Locator.
type Evidence struct {
	ID          string
	SessionID   string
	EventID     string
	ContentType string
	SizeBytes   int64
	SHA256      string
	Locator     string
	CreatedAt   time.Time
}

// ErrSessionEnded is returned when a write targets a session that has
// already transitioned to ENDED.
var ErrSessionEnded = errors.New("writer: session has ended")

// EventStore is the durable relational boundary for events and evidence.
type EventStore interface {
	// InsertEvent persists a single event transactionally. Returns
	// ErrSessionEnded if the owning session is not ACTIVE.
	InsertEvent(ctx context.Context, event *AnomalyEvent) error

	// InsertEvidence inserts the Evidence row and back-links its ID onto
	// the owning event in one transaction.
	InsertEvidence(ctx context.Context, evidence *Evidence) error

	// IsSessionActive reports whether sessionID is currently ACTIVE. The
	// admission pipeline does not call it; InsertEvent checks the
	// session's status itself.
	IsSessionActive(ctx context.Context, sessionID string) (bool, error)
}

// BlobStore is a content-addressable put/get boundary that does not leak
// whether the backing implementation is a local filesystem or an object
// store.
type BlobStore interface {
	// Put writes data and returns an opaque locator.
	Put(ctx context.Context, data []byte) (locator string, err error)

	// Get reads back the bytes stored at locator.
	Get(ctx context.Context, locator string) ([]byte, error)
}
