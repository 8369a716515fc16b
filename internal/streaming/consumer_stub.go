// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

//go:build !nats

package streaming

import "context"

// RulesEngine is the subset of rules.Engine the consumer drives.
type RulesEngine interface {
	Process(ctx context.Context, event interface{}) (interface{}, error)
}

// Consumer is a stub when NATS dependencies are not linked in.
// Build with -tags=nats to enable the JetStream consumer.
type Consumer struct{}

// NewConsumer returns ErrStreamingNotEnabled. Build with -tags=nats.
func NewConsumer(cfg ConsumerConfig, engine interface{}, logger interface{}) (*Consumer, error) {
	return nil, ErrStreamingNotEnabled
}

// Run is a stub that returns ErrStreamingNotEnabled immediately.
func (c *Consumer) Run(ctx context.Context) error {
	return ErrStreamingNotEnabled
}

// Close is a no-op stub.
func (c *Consumer) Close() error {
	return nil
}
