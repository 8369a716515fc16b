// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

/*
Package api provides HTTP handlers for the Cartographus application.

handler.go - Handler wires the proctoring domain packages (session,
admission, summary, credential dev-issuance) to the 8 HTTP endpoints
named in the external interface. It holds no business logic itself;
every handler method translates one HTTP request into a call against
an already-built domain package and classifies the result into a
KindError the response envelope understands.
*/
package api

import (
	"context"

	"github.com/examguard/proctoring/internal/admission"
	"github.com/examguard/proctoring/internal/credential"
	"github.com/examguard/proctoring/internal/rules"
	"github.com/examguard/proctoring/internal/session"
	"github.com/examguard/proctoring/internal/summary"
	"github.com/examguard/proctoring/internal/writer"
)

// SessionLifecycle is the subset of session.Manager the handlers need.
type SessionLifecycle interface {
	Start(ctx context.Context, claims *credential.Claims, configSnapshot []byte) (*session.Session, error)
	End(ctx context.Context, claims *credential.Claims) (*session.Session, error)
	Heartbeat(ctx context.Context, claims *credential.Claims) (*session.Session, error)
	Lookup(ctx context.Context, sessionID string) (*session.Session, error)
}

// BatchAdmitter is the subset of admission.Pipeline the batch handler needs.
type BatchAdmitter interface {
	Admit(ctx context.Context, claims *credential.Claims, rawBody []byte) (*admission.BatchResult, error)
}

// SummaryBuilder is the subset of summary.Builder the summary handler needs.
type SummaryBuilder interface {
	GetSummary(ctx context.Context, sessionID, tenantID string) (*summary.Summary, error)
}

// AlertReader lists the alerts recorded for a session.
type AlertReader interface {
	ListAlerts(ctx context.Context, sessionID string) ([]*rules.Alert, error)
}

// EventReader lists the durable events recorded for a session.
type EventReader interface {
	ListEvents(ctx context.Context, sessionID string) ([]*writer.AnomalyEvent, error)
}

// EvidenceReader resolves evidence metadata by ID.
type EvidenceReader interface {
	GetEvidence(ctx context.Context, evidenceID string) (*writer.Evidence, error)
}

// Handler implements the 8 proctoring HTTP endpoints named in the
// external interface section of the specification.
type Handler struct {
	sessions  SessionLifecycle
	batches   BatchAdmitter
	summaries SummaryBuilder
	alerts    AlertReader
	events    EventReader
	evidence  EvidenceReader
	blobs     writer.BlobStore
	devIssuer *credential.DevIssuer // nil outside local/docker deployment profiles
}

// NewHandler builds a Handler from its collaborators. devIssuer may be
// nil; when nil, SetupChi registers no dev credential route, and
// IssueDevCredential itself also responds not_found if it is called.
func NewHandler(sessions SessionLifecycle, batches BatchAdmitter, summaries SummaryBuilder, alerts AlertReader, events EventReader, evidence EvidenceReader, blobs writer.BlobStore, devIssuer *credential.DevIssuer) *Handler {
	return &Handler{
		sessions:  sessions,
		batches:   batches,
		summaries: summaries,
		alerts:    alerts,
		events:    events,
		evidence:  evidence,
		blobs:     blobs,
		devIssuer: devIssuer,
	}
}
