// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package credential

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DevIssuer mints short-lived HS256 development credentials so the
// admission pipeline can be exercised without a real exam platform. It
// must only ever be wired up when the deployment profile is "local" or
// "docker" -- cmd/server refuses to register its route otherwise.
type DevIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewDevIssuer builds a DevIssuer signing with secret.
func NewDevIssuer(secret string, ttl time.Duration) *DevIssuer {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &DevIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue mints a development token for the given identity tuple.
func (d *DevIssuer) Issue(tenantID, examScheduleID, userID string, attemptNo int) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d.ttl)),
		},
		TenantID:       tenantID,
		ExamScheduleID: examScheduleID,
		UserID:         userID,
		AttemptNo:      attemptNo,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(d.secret)
	if err != nil {
		return "", fmt.Errorf("credential: signing dev token: %w", err)
	}
	return signed, nil
}

// devVerifier verifies HS256 development tokens minted by DevIssuer. It
// is composed into a Verifier only in local/docker profiles.
type devVerifier struct {
	secret []byte
}

// NewDevVerifier builds a Verifier that accepts only HS256 dev tokens.
func NewDevVerifier(secret string) Verifier {
	return &devVerifier{secret: []byte(secret)}
}

func (v *devVerifier) Verify(_ context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("credential: unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	if claims.TenantID == "" || claims.ExamScheduleID == "" || claims.UserID == "" {
		return nil, fmt.Errorf("credential: token missing required identity claims")
	}
	return claims, nil
}
