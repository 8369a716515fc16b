// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

/*
Package supervisor provides process supervision for the proctoring server
using suture v4.

This package implements a hierarchical supervisor tree that manages the
lifecycle of every long-running service in the process. It provides
Erlang/OTP-style supervision with automatic restart, failure isolation,
and graceful shutdown.

# Overview

The supervisor tree organizes services into three layers for failure
isolation:

	RootSupervisor ("proctoring-server")
	├── BackgroundSupervisor ("background-layer")
	│   └── SessionSweeperService
	├── StreamSupervisor ("stream-layer")
	│   └── StreamConsumerService (if NATS configured, build tag: nats)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

This hierarchy ensures that a stalled stream consumer doesn't take
ingestion down with it, and a crashed background job doesn't affect the
API layer's ability to keep serving reads.

# Key Features

Automatic Restart:
  - Crashed services are automatically restarted
  - Exponential backoff prevents restart storms
  - Configurable failure thresholds and decay rates

Failure Isolation:
  - Services are organized into logical groups
  - Child supervisor failures don't propagate upward
  - Each layer has independent failure counting

Graceful Shutdown:
  - Context cancellation triggers orderly shutdown
  - Configurable shutdown timeout per service
  - UnstoppedServiceReport for debugging hangs

Structured Logging:
  - Integration with slog for structured events
  - Logs service starts, stops, failures, and restarts
  - Event hooks via sutureslog adapter

# Usage Example

Basic setup in cmd/server:

	import (
	    "log/slog"
	    "github.com/examguard/proctoring/internal/supervisor"
	    "github.com/examguard/proctoring/internal/supervisor/services"
	)

	tree, err := supervisor.NewSupervisorTree(slog.Default(), supervisor.DefaultTreeConfig())
	if err != nil {
	    log.Fatal(err)
	}

	tree.AddAPIService(services.NewHTTPServerService(httpServer, 10*time.Second))
	if consumer != nil {
	    tree.AddStreamService(services.NewStreamConsumerService(consumer))
	}

	if err := tree.Serve(ctx); err != nil {
	    log.Printf("supervisor stopped: %v", err)
	}

# Configuration

The TreeConfig controls restart behavior:

	config := supervisor.TreeConfig{
	    FailureThreshold: 5.0,             // Failures before backoff
	    FailureDecay:     30.0,            // Seconds for failures to decay
	    FailureBackoff:   15 * time.Second, // Backoff duration
	    ShutdownTimeout:  10 * time.Second, // Per-service shutdown timeout
	}

Default values match suture's production-ready defaults.

# Failure Handling

1. Each service failure increments a counter.
2. The counter decays exponentially over FailureDecay seconds.
3. When the counter exceeds FailureThreshold, the supervisor backs off.
4. During backoff, restarts are delayed by FailureBackoff.

# Service Interface

All services must implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Return nil for a clean stop (no restart), an error to trigger a
restart, or return promptly on context cancellation for shutdown.

# Build Tags

The stream consumer service is only meaningful when built with
-tags=nats. Without it, cmd/server leaves the stream layer empty when
streaming is disabled, and exits at startup when streaming is enabled,
because internal/streaming's stub constructors return
ErrStreamingNotEnabled.

# Debugging Shutdown Issues

	report, err := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    log.Printf("service didn't stop: %v", svc)
	}

# See Also

  - internal/supervisor/services: service wrappers
  - github.com/thejerf/suture/v4: underlying library
*/
package supervisor
