// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package credential

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity tuple a verified proctoring credential carries.
// It embeds jwt.RegisteredClaims so expiry/issuer checks are handled by
// the jwt/v5 parser rather than hand-rolled comparisons.
type Claims struct {
	jwt.RegisteredClaims

	TenantID       string `json:"tenant_id"`
	ExamScheduleID string `json:"exam_schedule_id"`
	UserID         string `json:"user_id"`
	AttemptNo      int    `json:"attempt_no"`
}

type contextKey int

const claimsContextKey contextKey = iota

// ContextWithClaims returns a copy of ctx carrying the verified claims.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext retrieves the claims attached by the verification
// middleware, or nil if the request was not authenticated.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsContextKey).(*Claims)
	return claims
}
