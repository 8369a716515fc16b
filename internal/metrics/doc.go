// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

/*
Package metrics defines the service's Prometheus collectors and small
helpers that record them.

Every collector in metrics.go is registered on the default Prometheus
registry at package initialisation (promauto); there is no Init function.
This package does not serve the collectors, and no /metrics handler is
registered anywhere in the service.

# Collectors That Are Recorded

  - api_requests_total (counter; labels method, endpoint, status_code) and
    api_request_duration_seconds (histogram; labels method, endpoint):
    recorded by RecordAPIRequest, which middleware.PrometheusMetrics calls
    for every API handler wrapped by internal/api. The endpoint label is
    the raw request path and status_code is the exact status code.
  - api_active_requests (gauge): moved by TrackActiveRequest from the
    same middleware.
  - nats_messages_published_total, nats_messages_consumed_total,
    nats_messages_processed_total and nats_messages_parse_failed_total:
    recorded by internal/streaming when it is built with the nats tag.

The other collectors (database, tile/geolocation/general cache, sync,
WebSocket, circuit breaker, DLQ, report and PAT metrics, and their
Record*/Update* helpers) are defined and registered, but no other
package of this service records them. circuit_breaker_state uses
0=closed, 1=half-open, 2=open.

# Error Labels

RecordDBQuery truncates the error text to 50 characters for its
error_type label. RecordSyncOperation and RecordWrappedGeneration
classify error text with contains, which is a prefix match: "database
write failed" is classified as database, "write to database failed" is
not.

# Thread Safety

All metric recording functions are thread-safe and designed for concurrent use
from multiple goroutines. The Prometheus client library handles synchronization
internally.

# Best Practices

When adding new metrics:

 1. Use appropriate metric types:
    - Counter: Monotonically increasing values (requests, errors)
    - Gauge: Point-in-time values (connections, queue size)
    - Histogram: Distribution of values (latency, size)

 2. Choose descriptive names:
    - Use underscore separation: http_request_duration_seconds
    - Include units: _seconds, _bytes, _total
    - Follow Prometheus naming conventions

 3. Add helpful documentation:
    - Include HELP text describing the metric
    - Document all label dimensions
    - Specify units in metric name

 4. Minimize cardinality:
    - Avoid high-cardinality labels (user IDs, timestamps)
    - Normalize endpoint paths
    - Use fixed error type constants

 5. Test performance impact:
    - Benchmark metric recording overhead
    - Monitor memory usage with many time series
    - Validate scrape duration <1s

# See Also

  - internal/middleware: HTTP middleware with metrics integration
  - internal/streaming: NATS publish/consume metrics recording
  - https://prometheus.io/docs/practices/naming/: Metric naming conventions
  - https://prometheus.io/docs/practices/instrumentation/: Instrumentation guide
*/
package metrics
