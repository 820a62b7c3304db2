// Package ingest implements the write-behind persistence pipeline.
//
// Accepted entries are queued on a bounded channel and drained by a
// pool of worker goroutines. Workers stamp the creation time, persist
// the entry through the store port with retries, and publish an
// entry.stored event on the bus. A health monitor samples worker
// status on an interval and exports pool gauges.
package ingest
