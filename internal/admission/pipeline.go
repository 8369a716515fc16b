// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package admission

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/examguard/proctoring/internal/credential"
	"github.com/examguard/proctoring/internal/logging"
	"github.com/examguard/proctoring/internal/rules"
	"github.com/examguard/proctoring/internal/session"
	"github.com/examguard/proctoring/internal/writer"
)

// Config holds the admission pipeline's named, defaulted tunables.
type Config struct {
	MaxBatchBytes      int
	MaxEventsPerMinute int64
	ReplayTTL          time.Duration
	TimeSkew           time.Duration
}

// DefaultConfig returns the defaults named in the external interface spec.
func DefaultConfig() Config {
	return Config{
		MaxBatchBytes:      65536,
		MaxEventsPerMinute: 600,
		ReplayTTL:          time.Hour,
		TimeSkew:           300 * time.Second,
	}
}

// ReplayChecker performs the atomic set-if-absent replay check.
type ReplayChecker interface {
	MarkReplay(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseReplay(ctx context.Context, key string) error
}

// RateLimiter performs the atomic per-window increment.
type RateLimiter interface {
	IncrementRateCounter(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// SessionResolver is the subset of session.Manager the pipeline needs.
type SessionResolver interface {
	Lookup(ctx context.Context, sessionID string) (*session.Session, error)
}

// RulesHook is the inline evaluation entry point into the rules engine.
type RulesHook interface {
	Process(ctx context.Context, event rules.Event) (*rules.Alert, error)
}

// EventPublisher hands an admitted event to the asynchronous rules
// consumer (internal/streaming). It is best-effort: a publish failure is
// logged but never fails the batch, since the event is already durably
// written and the inline RulesHook (if configured) already saw it.
type EventPublisher interface {
	Publish(ctx context.Context, event rules.Event) error
}

// Pipeline is the batch admission boundary described in section 4.3.
type Pipeline struct {
	sessions SessionResolver
	events   writer.EventStore
	blobs    writer.BlobStore
	replay   ReplayChecker
	rate     RateLimiter
	rules    RulesHook      // nil disables inline rule evaluation
	stream   EventPublisher // nil disables the async rules path
	cfg      Config
}

// New builds a Pipeline. rulesHook may be nil if the deployment only runs
// the async rules consumer; stream may be nil if the deployment only
// runs the inline one. A deployment running neither never evaluates
// rules at all, which is a valid but alert-less configuration.
func New(sessions SessionResolver, events writer.EventStore, blobs writer.BlobStore, replay ReplayChecker, rate RateLimiter, rulesHook RulesHook, stream EventPublisher, cfg Config) *Pipeline {
	return &Pipeline{
		sessions: sessions,
		events:   events,
		blobs:    blobs,
		replay:   replay,
		rate:     rate,
		rules:    rulesHook,
		stream:   stream,
		cfg:      cfg,
	}
}

// Admit decodes and processes one batch submission. A non-nil error means
// the whole batch was rejected (size guard, identity mismatch, not-found,
// ended session); otherwise the returned BatchResult carries per-event
// outcomes and is always a success from the HTTP caller's point of view.
func (p *Pipeline) Admit(ctx context.Context, claims *credential.Claims, rawBody []byte) (*BatchResult, error) {
	if len(rawBody) > p.cfg.MaxBatchBytes {
		return nil, ErrBatchTooLarge
	}

	var req BatchRequest
	if err := json.Unmarshal(rawBody, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadInvalid, err)
	}

	sess, err := p.sessions.Lookup(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("admission: resolving session: %w", err)
	}
	if sess.TenantID != claims.TenantID || sess.ExamScheduleID != claims.ExamScheduleID ||
		sess.UserID != claims.UserID || sess.AttemptNo != claims.AttemptNo {
		return nil, ErrIdentityMismatch
	}
	if sess.Status != session.StatusActive {
		return nil, ErrSessionEnded
	}

	result := newBatchResult()
	now := time.Now()

	for _, ev := range req.Events {
		if ev.EventID == "" {
			continue
		}
		p.admitOne(ctx, sess.ID, ev, now, result)
	}

	accepted := make(map[string]bool, len(result.AcceptedEventIDs))
	for _, id := range result.AcceptedEventIDs {
		accepted[id] = true
	}
	for _, thumb := range req.Thumbnails {
		if !accepted[thumb.EventID] {
			continue
		}
		p.admitThumbnail(ctx, sess.ID, thumb, now)
	}

	return result, nil
}

func (p *Pipeline) admitOne(ctx context.Context, sessionID string, ev IncomingEvent, now time.Time, result *BatchResult) {
	replay, err := p.replay.MarkReplay(ctx, ev.EventID, p.cfg.ReplayTTL)
	if err != nil {
		logging.Error().Err(err).Str("event_id", ev.EventID).Msg("admission: replay check failed")
		result.reject(ev.EventID, ReasonInternalError)
		return
	}
	if replay {
		result.reject(ev.EventID, ReasonDuplicate)
		return
	}

	skew := now.Sub(ev.Timestamp)
	if skew < 0 {
		skew = -skew
	}
	if skew > p.cfg.TimeSkew {
		result.reject(ev.EventID, ReasonTimestampOutOfRange)
		return
	}

	rateKey := fmt.Sprintf("%s:%d", sessionID, now.Unix()/60)
	count, err := p.rate.IncrementRateCounter(ctx, rateKey, 2*time.Minute)
	if err != nil {
		logging.Error().Err(err).Str("event_id", ev.EventID).Msg("admission: rate counter failed")
		result.reject(ev.EventID, ReasonInternalError)
		return
	}
	if count > p.cfg.MaxEventsPerMinute {
		result.reject(ev.EventID, ReasonRateLimited)
		return
	}

	record := &writer.AnomalyEvent{
		EventID:    ev.EventID,
		SessionID:  sessionID,
		Type:       ev.Type,
		EventTime:  ev.Timestamp,
		ReceivedAt: now,
		Confidence: ev.Confidence,
		Severity:   ev.Severity,
		Details:    ev.Details,
	}
	if err := p.events.InsertEvent(ctx, record); err != nil {
		logging.Error().Err(err).Str("event_id", ev.EventID).Msg("admission: persist failed")
		if releaseErr := p.replay.ReleaseReplay(ctx, ev.EventID); releaseErr != nil {
			logging.Error().Err(releaseErr).Str("event_id", ev.EventID).Msg("admission: releasing replay marker failed")
		}
		result.reject(ev.EventID, ReasonInternalError)
		return
	}

	if p.rules != nil || p.stream != nil {
		var declared *rules.Severity
		if ev.Severity != nil {
			sev := rules.ParseSeverity(*ev.Severity)
			declared = &sev
		}
		ruleEvent := rules.Event{
			EventID:    ev.EventID,
			SessionID:  sessionID,
			Type:       rules.EventType(ev.Type),
			EventTime:  ev.Timestamp,
			Confidence: ev.Confidence,
			Severity:   declared,
			Details:    ev.Details,
		}

		if p.rules != nil {
			if _, err := p.rules.Process(ctx, ruleEvent); err != nil {
				logging.Warn().Err(err).Str("event_id", ev.EventID).Msg("admission: inline rule evaluation failed")
			}
		}
		if p.stream != nil {
			if err := p.stream.Publish(ctx, ruleEvent); err != nil {
				logging.Warn().Err(err).Str("event_id", ev.EventID).Msg("admission: async rule publish failed")
			}
		}
	}

	result.accept(ev.EventID)
}

func (p *Pipeline) admitThumbnail(ctx context.Context, sessionID string, thumb IncomingThumbnail, now time.Time) {
	data, err := base64.StdEncoding.DecodeString(thumb.DataBase64)
	if err != nil {
		logging.Warn().Err(err).Str("event_id", thumb.EventID).Msg("admission: thumbnail decode failed")
		return
	}

	locator, err := p.blobs.Put(ctx, data)
	if err != nil {
		logging.Warn().Err(err).Str("event_id", thumb.EventID).Msg("admission: thumbnail blob write failed")
		return
	}

	evidence := &writer.Evidence{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		EventID:     thumb.EventID,
		ContentType: thumb.ContentType,
		SizeBytes:   thumb.SizeBytes,
		SHA256:      writer.SHA256Hex(data),
		Locator:     locator,
		CreatedAt:   now,
	}
	if err := p.events.InsertEvidence(ctx, evidence); err != nil {
		logging.Warn().Err(err).Str("event_id", thumb.EventID).Msg("admission: evidence write failed")
	}
}
