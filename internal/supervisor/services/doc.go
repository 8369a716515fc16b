// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

/*
Package services adapts long-running proctoring-server components to
suture.Service so cmd/server can run them under one supervisor tree
(internal/supervisor): the HTTP API server and, when a deployment has
NATS configured, the asynchronous rules-engine stream consumer.
*/
package services
