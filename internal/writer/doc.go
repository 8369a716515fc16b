// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

// Package writer is the durable write boundary for anomaly events and
// thumbnail evidence: one transaction per event insert, one transaction
// per (Evidence insert + event back-link) pair, and content-addressable
// blob storage behind an opaque locator.
package writer
