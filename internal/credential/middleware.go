// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package credential

import (
	"errors"
	"net/http"
	"strings"
)

// ErrNoCredentials is returned when a request carries no bearer token.
var ErrNoCredentials = errors.New("credential: no bearer token presented")

// Authenticator extracts and verifies the bearer token on incoming
// requests, attaching the resulting claims to the request context.
type Authenticator struct {
	verifier Verifier
}

// NewAuthenticator wraps verifier in request middleware.
func NewAuthenticator(verifier Verifier) *Authenticator {
	return &Authenticator{verifier: verifier}
}

// Middleware verifies the Authorization header on every request and
// attaches the resulting Claims to the request context. It does not
// itself reject unauthenticated requests -- handlers decide whether a
// given endpoint requires a credential, since session-start requires one
// but health checks do not.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := a.verifier.Verify(r.Context(), token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		r = r.WithContext(ContextWithClaims(r.Context(), claims))
		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
