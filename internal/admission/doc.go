// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

// Package admission is the batch ingest boundary for proctoring anomaly
// events: size guard, identity binding, per-event replay suppression,
// time-skew check, per-session rate limiting, durable persist, the
// inline rules hook, and thumbnail evidence linking.
//
// Per-event failures are reported back in the batch result, not as
// errors (rate limiting included); only whole-batch failures (oversized
// or malformed payload, identity mismatch, unknown or ended session)
// return an error from Admit.
package admission
