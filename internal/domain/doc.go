// Package domain defines the core types of the activity log service.
//
// An Entry records a single user action (a visited place, a rating, a
// piece of feedback). Entries are accepted over the HTTP API, persisted
// asynchronously by the ingest pool, and queried back with filtering
// and pagination.
package domain
