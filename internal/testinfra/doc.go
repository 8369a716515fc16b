// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

// Package testinfra provides test infrastructure for integration testing
// with containers.
//
// This package uses testcontainers-go to manage Docker containers for
// integration tests, providing realistic testing environments that
// closely match production.
//
// # Postgres Container
//
// PostgresContainer provides a real Postgres instance for testing
// internal/store/postgres against a real server rather than a mock:
//
//	pg, err := testinfra.NewPostgresContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer pg.Terminate(ctx)
//
// # CI Considerations
//
// These tests require Docker and network access and are gated behind the
// integration build tag; use SkipIfNoDocker to degrade gracefully when
// Docker is unavailable.
package testinfra
