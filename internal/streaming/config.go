// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package streaming

import (
	"errors"
	"time"
)

// ErrStreamingNotEnabled is returned by the publisher and consumer stubs
// used in builds without the nats tag.
var ErrStreamingNotEnabled = errors.New("streaming: not available, build with -tags=nats")

// Subject is the NATS subject prefix events are published under, one
// subject per session: Subject + "." + sessionID. The consumer binds a
// wildcard subscription over the whole prefix.
const Subject = "proctoring.events"

// PublisherConfig configures the JetStream publisher side of the async
// rules path.
type PublisherConfig struct {
	URL              string
	MaxReconnects    int
	ReconnectWait    time.Duration
	ReconnectBuffer  int
	EnableTrackMsgID bool
}

// DefaultPublisherConfig returns production defaults for the publisher.
func DefaultPublisherConfig(url string) PublisherConfig {
	return PublisherConfig{
		URL:              url,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
		ReconnectBuffer:  8 * 1024 * 1024,
		EnableTrackMsgID: true,
	}
}

// ConsumerConfig configures the JetStream consumer side of the async
// rules path.
type ConsumerConfig struct {
	URL              string
	DurableName      string
	QueueGroup       string
	SubscribersCount int
	AckWaitTimeout   time.Duration
	MaxDeliver       int
	MaxAckPending    int
	CloseTimeout     time.Duration
	MaxReconnects    int
	ReconnectWait    time.Duration
	StreamName       string
}

// DefaultConsumerConfig returns production defaults for the consumer.
func DefaultConsumerConfig(url string) ConsumerConfig {
	return ConsumerConfig{
		URL:              url,
		DurableName:      "proctoring-rules",
		QueueGroup:       "rules-engine",
		SubscribersCount: 4,
		AckWaitTimeout:   30 * time.Second,
		MaxDeliver:       5,
		MaxAckPending:    1000,
		CloseTimeout:     30 * time.Second,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
		StreamName:       "PROCTORING_EVENTS",
	}
}
