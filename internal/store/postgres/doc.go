// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

// Package postgres is the durable relational store for sessions, anomaly
// events, evidence, alerts and risk-score snapshots, backed by pgx. It
// implements session.Store, writer.EventStore, rules.AlertSink and
// rules.SnapshotSink against one pgxpool.Pool.
package postgres
