// Package http provides the HTTP REST API implementation.
//
// The HTTP server exposes endpoints for:
//   - Entry submission (accepted asynchronously)
//   - Filtered and paginated entry listings
//   - Single-entry lookup
//   - Health checks
//   - Prometheus metrics
package http
