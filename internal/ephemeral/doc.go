// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

// Package ephemeral holds the admission pipeline's restart-surviving,
// TTL-bound state: replay markers, per-session rate counters, and alert
// cooldown gates. It is backed by BadgerDB's native per-key TTL so a
// process restart during an exam does not silently widen the replay
// window or reset a cooldown early.
package ephemeral
