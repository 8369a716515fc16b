// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

// Package main is the entry point for the proctoring server.
//
// The proctoring server ingests anomaly-detection events from an exam
// client, evaluates them against a sliding-window rules engine, and
// exposes session lifecycle, alert, event, and evidence endpoints to an
// operator dashboard.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and a
//     config file (Koanf v2)
//  2. Logging: Initialize zerolog with the configured level and format
//  3. Credential verification: Build a Verifier for exam-platform
//     bearer tokens, plus a DevIssuer when the deployment profile
//     permits development credentials
//  4. Stores: Open the ephemeral (BadgerDB) store for replay/rate/
//     cooldown state and the durable Postgres store for sessions,
//     events, alerts, and evidence, running pending migrations
//  5. Domain: Wire the session manager, rules engine, admission
//     pipeline, summary builder, and filesystem blob store
//  6. Streaming (optional): When configured, start the NATS JetStream
//     publisher/consumer pair that runs rule evaluation asynchronously
//  7. HTTP Server: REST API exposing the 8 proctoring endpoints
//  8. Supervisor tree: Every long-running component runs as a
//     suture-supervised service so a crash in one layer restarts in
//     isolation instead of taking the whole process down
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (SERVER_*, POSTGRES_*, EPHEMERAL_*, BLOB_*,
//     CREDENTIAL_*, SECURITY_*, STREAMING_*, LOGGING_*)
//   - Config file (config.yaml, or the path named by CONFIG_PATH)
//   - Built-in defaults
//
// # Build Tags
//
// The asynchronous rules path requires building with the nats tag:
//
//	go build -tags nats ./cmd/server
//
// Without it, internal/streaming's stub constructors return
// ErrStreamingNotEnabled: with STREAMING_ENABLED=true the server exits at
// startup, and with streaming disabled only the inline rules hook
// evaluates events.
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, waits up to 10s for in-flight requests to
// complete, and closes the ephemeral and durable stores.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/examguard/proctoring/internal/admission"
	"github.com/examguard/proctoring/internal/api"
	"github.com/examguard/proctoring/internal/config"
	"github.com/examguard/proctoring/internal/credential"
	"github.com/examguard/proctoring/internal/ephemeral"
	"github.com/examguard/proctoring/internal/logging"
	"github.com/examguard/proctoring/internal/rules"
	"github.com/examguard/proctoring/internal/session"
	"github.com/examguard/proctoring/internal/store/postgres"
	"github.com/examguard/proctoring/internal/streaming"
	"github.com/examguard/proctoring/internal/summary"
	"github.com/examguard/proctoring/internal/supervisor"
	"github.com/examguard/proctoring/internal/supervisor/services"
	"github.com/examguard/proctoring/internal/writer"
)

// windowMaxSessions bounds the number of distinct (session,type)
// sliding-window counters the rules engine retains concurrently.
const windowMaxSessions = 10000

// sessionSweepInterval is how often stale ACTIVE sessions are swept to
// ENDED by the background sweeper service.
const sessionSweepInterval = 5 * time.Minute

// sessionStaleThreshold is how long a session may go without a
// heartbeat before the sweeper ends it.
const sessionStaleThreshold = 15 * time.Minute

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("Invalid configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Str("profile", cfg.Server.Profile).Msg("Starting proctoring server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DevIssuer is only ever non-nil in local/docker profiles; config.Validate
	// already rejects CREDENTIAL_MODE=dev under SERVER_PROFILE=production, but
	// main.go gates on profile again here so a misconfigured dev secret never
	// gets a live route in production regardless of how Validate evolves.
	var verifier credential.Verifier
	var devIssuer *credential.DevIssuer
	if cfg.Credential.Mode == "dev" {
		if cfg.Server.Profile == "production" {
			logging.Fatal().Msg("CREDENTIAL_MODE=dev is not permitted when SERVER_PROFILE=production")
		}
		verifier = credential.NewDevVerifier(cfg.Credential.DevSecret)
		devIssuer = credential.NewDevIssuer(cfg.Credential.DevSecret, cfg.Credential.DevTokenTTL)
		logging.Warn().Str("profile", cfg.Server.Profile).Msg("Development credential issuance is ENABLED -- do not use in production")
	} else {
		v, err := credential.NewVerifier(credential.Config{
			Mode:          credential.Mode(cfg.Credential.Mode),
			StaticKeyPath: cfg.Credential.StaticKeyPath,
			JWKSURI:       cfg.Credential.JWKSURI,
		})
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize credential verifier")
		}
		verifier = v
	}
	authenticator := credential.NewAuthenticator(verifier)

	ephemeralStore, err := ephemeral.Open(cfg.Ephemeral.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open ephemeral store")
	}
	defer func() {
		if err := ephemeralStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing ephemeral store")
		}
	}()
	logging.Info().Str("path", cfg.Ephemeral.Path).Msg("Ephemeral store opened")

	if err := postgres.RunMigrations(cfg.Postgres.DSN, cfg.Postgres.MigrationsDir); err != nil {
		logging.Fatal().Err(err).Msg("Failed to run database migrations")
	}
	store, err := postgres.Open(ctx, cfg.Postgres.DSN)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open database")
	}
	defer store.Close()
	logging.Info().Msg("Database opened and migrated")

	blobs, err := writer.NewFSBlobStore(cfg.Blob.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open blob store")
	}

	manager := session.NewManager(store)
	engine := rules.New(store, store, manager, ephemeralStore, ephemeralStore, windowMaxSessions)

	var eventPublisher admission.EventPublisher
	var streamConsumer *streaming.Consumer
	if cfg.Streaming.Enabled {
		pub, err := streaming.NewPublisher(streaming.DefaultPublisherConfig(cfg.Streaming.URL), nil)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize streaming publisher")
		}
		eventPublisher = pub
		defer func() {
			if err := pub.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing streaming publisher")
			}
		}()

		streamConsumer, err = streaming.NewConsumer(streaming.DefaultConsumerConfig(cfg.Streaming.URL), engine, nil)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize streaming consumer")
		}
		logging.Info().Str("url", cfg.Streaming.URL).Msg("Streaming enabled")
	} else {
		logging.Info().Msg("Streaming disabled -- events are evaluated inline only")
	}

	pipeline := admission.New(manager, store, blobs, ephemeralStore, ephemeralStore, engine, eventPublisher, admission.DefaultConfig())
	builder := summary.New(manager, store, store, store)

	handler := api.NewHandler(manager, pipeline, builder, store, store, store, blobs, devIssuer)
	router := api.NewRouter(handler, authenticator, cfg.Security.CORSOrigins, cfg.Security.RateLimitDisabled)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	slogLogger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddBackgroundService(newSweeperService(manager))
	logging.Info().Msg("Session sweeper added to supervisor tree")

	if streamConsumer != nil {
		tree.AddStreamService(services.NewStreamConsumerService(streamConsumer))
		logging.Info().Msg("Stream consumer added to supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Proctoring server stopped gracefully")
}

// sweeper periodically ends ACTIVE sessions that have gone quiet,
// running as its own supervised background service.
type sweeper struct {
	manager *session.Manager
}

func newSweeperService(manager *session.Manager) *sweeper {
	return &sweeper{manager: manager}
}

// Serve implements suture.Service.
func (s *sweeper) Serve(ctx context.Context) error {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := s.manager.SweepStale(ctx, sessionStaleThreshold)
			if err != nil {
				logging.Warn().Err(err).Msg("session sweep failed")
				continue
			}
			if n > 0 {
				logging.Info().Int("count", n).Msg("swept stale sessions")
			}
		}
	}
}

// String implements fmt.Stringer for logging.
func (s *sweeper) String() string {
	return "session-sweeper"
}
