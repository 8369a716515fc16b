// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

// Package credential verifies the bearer credential attached to every
// proctoring request and extracts the (tenant_id, exam_schedule_id,
// user_id, attempt_no) identity tuple it carries.
//
// Two verification modes are supported, selected by configuration:
//
//   - Static RSA key: the deployment holds the exam platform's public key
//     directly (file path), used when the platform issues long-lived RS256
//     credentials out of band.
//   - Remote JWKS: keys are fetched from a JWKS endpoint and cached by kid,
//     refreshed once the cache TTL has elapsed, mirroring the rotation-aware
//     caching the teacher's JWKS client uses for its identity provider. A
//     kid that is missing from a still-fresh cache is not refetched.
//
// A third mode issues HS256 (shared-secret) development tokens so the
// admission pipeline can be exercised without a real exam platform. It is
// the mode the default configuration selects, and config validation
// rejects it under the production deployment profile, so it is only
// available in the local/docker profiles.
package credential
