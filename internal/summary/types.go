// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package summary

import (
	"context"
	"errors"
	"time"

	"github.com/examguard/proctoring/internal/rules"
	"github.com/examguard/proctoring/internal/session"
	"github.com/examguard/proctoring/internal/writer"
)

// ErrNotFound is returned on tenant mismatch or an unknown session,
// mirroring the read API's refusal to distinguish the two.
var ErrNotFound = errors.New("summary: not found")

// AlertCount is the number of alerts of one type within a session.
type AlertCount struct {
	Type  string
	Count int
}

// EvidenceEntry is one evidence item in the summary's ordered timeline.
type EvidenceEntry struct {
	ID        string
	EventID   string
	CreatedAt time.Time
}

// Summary is the operator-facing session report built by GetSummary.
type Summary struct {
	SessionID      string
	TenantID       string
	ExamScheduleID string
	UserID         string
	AttemptNo      int
	Status         session.Status
	StartedAt      time.Time
	EndedAt        *time.Time
	TrustScore     int
	AlertCounts    []AlertCount
	Evidence       []EvidenceEntry
}

// SessionLookup resolves a session by ID.
type SessionLookup interface {
	Lookup(ctx context.Context, sessionID string) (*session.Session, error)
}

// AlertLister returns every alert for a session.
type AlertLister interface {
	ListAlerts(ctx context.Context, sessionID string) ([]*rules.Alert, error)
}

// EvidenceLister returns every evidence row for a session.
type EvidenceLister interface {
	ListEvidence(ctx context.Context, sessionID string) ([]*writer.Evidence, error)
}

// EvidenceRepairer resolves and persists the nearest-evidence linkage for
// an alert whose evidence_id is null.
type EvidenceRepairer interface {
	NearestEvidence(ctx context.Context, sessionID string, around time.Time) (*writer.Evidence, error)
	BindAlertEvidence(ctx context.Context, alertID, evidenceID string) error
}
