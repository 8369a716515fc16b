// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

// Package summary builds the operator-facing Summary for a proctoring
// session: identity and timing, derived trust score, grouped alert
// counts, and the evidence timeline, including the one-time post-hoc
// repair that binds orphaned alerts to the nearest evidence in time.
package summary
