// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package api

import "net/http"

// HealthLive handles GET /api/v1/health/live. A process that can answer
// at all is live; liveness does not check downstream dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "live"})
}

// HealthReady handles GET /api/v1/health/ready. Readiness is reported
// unconditionally here -- the durable store and ephemeral store each own
// their own connection-pool health, surfaced through their Open(...)
// constructors failing fast at startup rather than a runtime probe on
// every readiness check.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "ready"})
}
