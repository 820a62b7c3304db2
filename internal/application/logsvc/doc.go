// Package logsvc implements the application core of the log service.
//
// The service validates incoming entries, hands them to the ingest
// pool for background persistence, and answers queries (by id, or
// filtered and paginated listings) against the entry store.
package logsvc
