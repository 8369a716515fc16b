// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

/*
Package api provides the HTTP REST API layer for the proctoring
anomaly-ingest service.

It exposes the 8 endpoints named in the external interface: session
lifecycle (start/end/heartbeat), batch event admission, per-session
alert and event reads, evidence retrieval, and the operator dashboard
summary. A development-only credential issuance route is registered
only when the deployment profile is "local" or "docker".

Key Components:

  - Router: HTTP route configuration and middleware stack integration
  - Handler: request handlers wired to the session, admission, and
    summary packages
  - Response formatting: standardized JSON envelope with metadata
  - Error handling: KindError classification mapped to HTTP status
  - Credential integration: bearer JWT verification via
    internal/credential, attached to the request context by
    credential.Authenticator.Middleware
  - Rate limiting: per-endpoint go-chi/httprate limiters
  - CORS: go-chi/cors for frontend dashboard compatibility

Endpoints:

	POST /proctoring/sessions/start
	POST /proctoring/sessions/end
	POST /proctoring/sessions/heartbeat
	POST /proctoring/events/batch
	GET  /proctoring/sessions/{id}/alerts
	GET  /proctoring/sessions/{id}/events
	GET  /proctoring/evidence/{id}
	GET  /dashboard/sessions/{id}/summary

Usage Example:

	import (
	    "github.com/examguard/proctoring/internal/api"
	    "github.com/examguard/proctoring/internal/credential"
	)

	authenticator := credential.NewAuthenticator(verifier)
	handler := api.NewHandler(sessions, admissionPipeline, summaryBuilder, store, store, store, blobs, devIssuer)
	router := api.NewRouter(handler, authenticator, corsOrigins, rateLimitDisabled)

	http.ListenAndServe(":3857", router.SetupChi())

Security:

  - Bearer credential required on every route except the dev-issuance
    endpoint; tenant mismatch on a session lookup reads as 404, never
    403, to avoid leaking cross-tenant session existence.
  - Rate limiting tuned per endpoint (write vs. burst vs. read paths).

See Also:

  - internal/credential: bearer credential verification
  - internal/session: session lifecycle and risk score
  - internal/admission: batch ingest pipeline
  - internal/summary: operator dashboard report assembly
*/
package api
