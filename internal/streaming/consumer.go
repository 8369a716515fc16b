// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

//go:build nats

package streaming

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"

	"github.com/examguard/proctoring/internal/logging"
	"github.com/examguard/proctoring/internal/metrics"
	"github.com/examguard/proctoring/internal/rules"
)

// RulesEngine is the subset of rules.Engine the consumer drives.
type RulesEngine interface {
	Process(ctx context.Context, event rules.Event) (*rules.Alert, error)
}

// Consumer subscribes to every session's event subject and runs rules
// evaluation out of process from admission, so a slow or backed-up rules
// pass never adds latency to the ingest path.
type Consumer struct {
	subscriber message.Subscriber
	engine     RulesEngine
	logger     watermill.LoggerAdapter
}

// NewConsumer dials NATS and binds a durable JetStream subscription over
// the whole proctoring.events.> wildcard.
func NewConsumer(cfg ConsumerConfig, engine RulesEngine, logger watermill.LoggerAdapter) (*Consumer, error) {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}
	if engine == nil {
		return nil, fmt.Errorf("streaming: consumer requires a non-nil rules engine")
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("streaming consumer disconnected", err, nil)
			}
		}),
	}

	subOpts := []natsgo.SubOpt{
		natsgo.MaxDeliver(cfg.MaxDeliver),
		natsgo.MaxAckPending(cfg.MaxAckPending),
		natsgo.AckWait(cfg.AckWaitTimeout),
		natsgo.DeliverNew(),
	}
	autoProvision := true
	if cfg.StreamName != "" {
		subOpts = append(subOpts, natsgo.BindStream(cfg.StreamName))
		autoProvision = false
	}

	wmConfig := wmNats.SubscriberConfig{
		URL:              cfg.URL,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: cfg.SubscribersCount,
		AckWaitTimeout:   cfg.AckWaitTimeout,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:         false,
			AutoProvision:    autoProvision,
			AckAsync:         false,
			SubscribeOptions: subOpts,
			DurablePrefix:    cfg.DurableName,
		},
	}

	sub, err := wmNats.NewSubscriber(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("streaming: create watermill subscriber: %w", err)
	}

	return &Consumer{subscriber: sub, engine: engine, logger: logger}, nil
}

// Run evaluates events off proctoring.events.> until ctx is canceled.
// A failed decode or rule evaluation nacks the message for redelivery up
// to MaxDeliver times rather than dropping it.
func (c *Consumer) Run(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, Subject+".>")
	if err != nil {
		return fmt.Errorf("streaming: subscribe: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			c.handle(ctx, msg)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg *message.Message) {
	metrics.RecordNATSConsume()

	event, err := decodeEvent(msg.Payload)
	if err != nil {
		metrics.RecordNATSParseFailed()
		logging.Error().Err(err).Str("message_uuid", msg.UUID).Msg("streaming: decode event failed")
		msg.Nack()
		return
	}

	if _, err := c.engine.Process(ctx, event); err != nil {
		logging.Warn().Err(err).Str("event_id", event.EventID).Msg("streaming: async rule evaluation failed")
		msg.Nack()
		return
	}

	metrics.RecordNATSProcessed()
	msg.Ack()
}

// Close gracefully shuts the consumer down.
func (c *Consumer) Close() error {
	return c.subscriber.Close()
}
