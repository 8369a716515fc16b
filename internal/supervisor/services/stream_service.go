// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package services

import "context"

// StreamConsumer matches internal/streaming.Consumer's lifecycle. The
// interface keeps this package free of a direct build-tag-gated import.
type StreamConsumer interface {
	Run(ctx context.Context) error
	Close() error
}

// StreamConsumerService wraps the async rules-engine stream consumer as
// a supervised service, so a dropped NATS connection restarts the
// consumer under the same backoff policy as the rest of the tree instead
// of silently stopping rule evaluation for every event published after
// the disconnect.
type StreamConsumerService struct {
	consumer StreamConsumer
	name     string
}

// NewStreamConsumerService wraps consumer for supervision.
func NewStreamConsumerService(consumer StreamConsumer) *StreamConsumerService {
	return &StreamConsumerService{consumer: consumer, name: "stream-consumer"}
}

// Serve implements suture.Service.
func (s *StreamConsumerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.consumer.Run(ctx) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		if err := s.consumer.Close(); err != nil {
			return err
		}
		<-errCh
		return ctx.Err()
	}
}

// String implements fmt.Stringer for logging.
func (s *StreamConsumerService) String() string {
	return s.name
}
