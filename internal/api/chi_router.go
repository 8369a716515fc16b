// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

// Package api provides HTTP routing using Chi router (ADR-0016).
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// SetupChi configures the 8 proctoring HTTP routes named in the external
// interface section, plus the development-only credential issuance route
// when a DevIssuer was wired in.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(RequestIDWithLogging())
	r.Use(E2EDebugLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(APISecurityHeaders())
	r.Use(router.perfMonitor.Middleware)

	// ========================
	// Health
	// ========================
	r.With(router.chiMiddleware.RateLimitHealth()).Get("/api/v1/health/live", router.wrap(router.handler.HealthLive))
	r.With(router.chiMiddleware.RateLimitHealth()).Get("/api/v1/health/ready", router.wrap(router.handler.HealthReady))

	// ========================
	// Proctoring ingest and lifecycle -- every route requires a verified
	// credential (RequireAuthMiddleware), per the spec's "bearer
	// credential required on every mutating or reading endpoint" rule.
	// ========================
	r.Route("/proctoring", func(r chi.Router) {
		r.Use(router.authenticator.Middleware)
		r.Use(RequireAuthMiddleware())

		r.Route("/sessions", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimitWrite()).Post("/start", router.wrap(router.handler.StartSession))
			r.With(router.chiMiddleware.RateLimitWrite()).Post("/end", router.wrap(router.handler.EndSession))
			r.With(router.chiMiddleware.RateLimitBurst()).Post("/heartbeat", router.wrap(router.handler.Heartbeat))
			r.With(router.chiMiddleware.RateLimitCustom(RateLimitAPI)).Get("/{id}/alerts", router.wrap(router.handler.ListAlerts))
			r.With(router.chiMiddleware.RateLimitCustom(RateLimitAPI)).Get("/{id}/events", router.wrap(router.handler.ListEvents))
		})

		r.Route("/events", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimitBurst()).Post("/batch", router.wrap(router.handler.SubmitBatch))
		})

		r.Route("/evidence", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimitCustom(RateLimitAPI)).Get("/{id}", router.wrap(router.handler.GetEvidence))
		})
	})

	// ========================
	// Operator dashboard read
	// ========================
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(router.authenticator.Middleware)
		r.Use(RequireAuthMiddleware())
		r.With(router.chiMiddleware.RateLimitCustom(RateLimitAPI)).Get("/sessions/{id}/summary", router.wrap(router.handler.GetSummary))
	})

	// ========================
	// Development-only credential issuance. Only registered at all when
	// router.handler was built with a non-nil DevIssuer; cmd/server is
	// responsible for leaving that nil outside the local/docker profile.
	// ========================
	if router.handler.devIssuer != nil {
		r.With(router.chiMiddleware.RateLimitAuth()).Post("/dev/credential", router.wrap(router.handler.IssueDevCredential))
	}

	return r
}
