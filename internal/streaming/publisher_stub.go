// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

//go:build !nats

package streaming

import (
	"context"

	"github.com/examguard/proctoring/internal/rules"
)

// Publisher is a stub when NATS dependencies are not linked in.
// Build with -tags=nats to enable the JetStream publisher.
type Publisher struct{}

// NewPublisher returns ErrStreamingNotEnabled. Build with -tags=nats.
func NewPublisher(cfg PublisherConfig, logger interface{}) (*Publisher, error) {
	return nil, ErrStreamingNotEnabled
}

// Publish is a stub that returns ErrStreamingNotEnabled.
func (p *Publisher) Publish(ctx context.Context, event rules.Event) error {
	return ErrStreamingNotEnabled
}

// Close is a no-op stub.
func (p *Publisher) Close() error {
	return nil
}
