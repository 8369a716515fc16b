// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

// Package session resolves and mutates the one active proctoring Session
// per (tenant_id, exam_schedule_id, user_id, attempt_no) identity tuple:
// start, end, heartbeat, lookup, and the background staleness sweep.
//
// current_risk_score is the one point of cross-path write contention
// (heartbeat, both rules execution paths) so ApplyDelta retries on
// optimistic-concurrency conflict rather than taking a coarse lock.
package session
