// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package api

import (
	"net/http"

	"github.com/examguard/proctoring/internal/credential"
	"github.com/examguard/proctoring/internal/middleware"
)

// Router sets up HTTP routes for the proctoring API using Chi (ADR-0016).
type Router struct {
	handler           *Handler
	authenticator     *credential.Authenticator
	chiMiddleware     *ChiMiddleware
	perfMonitor       *middleware.PerformanceMonitor
	corsOrigins       []string
	rateLimitDisabled bool
}

// NewRouter creates a router wired to handler and the credential
// authenticator that verifies the bearer token on every mutating and
// reading proctoring endpoint.
func NewRouter(handler *Handler, authenticator *credential.Authenticator, corsOrigins []string, rateLimitDisabled bool) *Router {
	chiMw := NewChiMiddlewareFromAuth(corsOrigins, RateLimitAPI.Requests, RateLimitAPI.Window, rateLimitDisabled)

	return &Router{
		handler:           handler,
		authenticator:     authenticator,
		chiMiddleware:     chiMw,
		perfMonitor:       middleware.NewPerformanceMonitor(1000),
		corsOrigins:       corsOrigins,
		rateLimitDisabled: rateLimitDisabled,
	}
}

// wrap applies the common ambient per-handler stack (gzip response
// compression, Prometheus request instrumentation) to a handler. Request
// ID generation is already handled globally by RequestIDWithLogging, so
// it is not repeated here. CORS, rate limiting, and credential
// verification are applied per-route in SetupChi since they vary by
// endpoint.
func (router *Router) wrap(handler http.HandlerFunc) http.HandlerFunc {
	return middleware.Compression(
		middleware.PrometheusMetrics(handler),
	)
}
