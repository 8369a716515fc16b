// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package credential

import (
	"context"
	"crypto/rsa"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a bearer token string and returns the claims it
// carries, or an error if the token is malformed, expired, or the
// signature does not check out.
type Verifier interface {
	Verify(ctx context.Context, tokenString string) (*Claims, error)
}

// Mode selects how the exam platform's signing key is obtained.
type Mode string

const (
	// ModeStaticKey reads a single RSA public key from a PEM file on disk.
	ModeStaticKey Mode = "static_key"
	// ModeJWKS fetches and caches keys from a remote JWKS endpoint, keyed
	// by kid, so the platform can rotate signing keys without a redeploy.
	ModeJWKS Mode = "jwks"
)

// Config configures a Verifier.
type Config struct {
	Mode Mode

	// StaticKeyPath is the PEM-encoded RSA public key file, used when
	// Mode is ModeStaticKey.
	StaticKeyPath string

	// JWKSURI is the remote JWKS endpoint, used when Mode is ModeJWKS.
	JWKSURI string
}

// jwtVerifier implements Verifier for RS256-signed exam-platform tokens.
type jwtVerifier struct {
	staticKey *rsa.PublicKey
	jwksCache *JWKSCache
}

// NewVerifier builds a Verifier from cfg.
func NewVerifier(cfg Config) (Verifier, error) {
	switch cfg.Mode {
	case ModeStaticKey:
		keyBytes, err := os.ReadFile(cfg.StaticKeyPath)
		if err != nil {
			return nil, fmt.Errorf("credential: reading static key: %w", err)
		}
		key, err := jwt.ParseRSAPublicKeyFromPEM(keyBytes)
		if err != nil {
			return nil, fmt.Errorf("credential: parsing static key: %w", err)
		}
		return &jwtVerifier{staticKey: key}, nil
	case ModeJWKS:
		if cfg.JWKSURI == "" {
			return nil, fmt.Errorf("credential: jwks mode requires JWKSURI")
		}
		return &jwtVerifier{jwksCache: NewJWKSCache(cfg.JWKSURI, nil, 0)}, nil
	default:
		return nil, fmt.Errorf("credential: unknown verification mode %q", cfg.Mode)
	}
}

// Verify parses and validates tokenString, returning the embedded claims.
func (v *jwtVerifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("credential: unexpected signing method %v", token.Header["alg"])
		}

		if v.staticKey != nil {
			return v.staticKey, nil
		}

		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("credential: token missing kid header")
		}
		return v.jwksCache.GetKey(ctx, kid)
	}, jwt.WithValidMethods([]string{"RS256"}))

	if err != nil {
		return nil, err
	}

	if claims.TenantID == "" || claims.ExamScheduleID == "" || claims.UserID == "" {
		return nil, fmt.Errorf("credential: token missing required identity claims")
	}

	return claims, nil
}
