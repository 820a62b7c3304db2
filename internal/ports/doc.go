// Package ports defines the interfaces between the application core and
// its adapters (storage, events, metrics).
//
// Implementations:
//   - storage: memory (default), redis, mysql
//   - events: memory (default), redis streams
//   - metrics: prometheus
package ports
