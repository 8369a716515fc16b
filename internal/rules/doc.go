// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

// Package rules is the anomaly rules engine: per-(session, event type)
// sliding windows, severity classification, alert emission with cooldown,
// and a decaying per-session risk score with periodic snapshots.
//
// Two execution paths feed the same Engine.Process: the synchronous
// inline hook called from the admission pipeline for low-latency
// alerting, and an asynchronous stream consumer for durable
// re-evaluation. Both share one Engine so the contract -- windowing,
// severity, cooldown, idempotency -- is identical regardless of path,
// mirroring the teacher's detection.Engine shared between its HTTP
// handler stub and its NATS consumer.
package rules
