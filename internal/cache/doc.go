// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

/*
Package cache provides the sliding-window event counter the rules engine
uses to evaluate rate-based anomaly rules (e.g. N tab switches within a
window) without a database round trip per event.

SlidingWindowCounter divides a window into fixed-size buckets and sums
them for an O(k) count, where k is the bucket count (typically 10-60).
SlidingWindowStore fans this out per key so the rules engine can
hold one counter per (session_id, rule) pair. Memory stays bounded by
maxKeys: adding a new key at capacity evicts an arbitrary existing
counter. Idle counters are not expired on a TTL; CleanupInactive
removes those with no counts left in the window when it is called.

See internal/rules for the rules that drive this package.
*/
package cache
