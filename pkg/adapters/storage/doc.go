// Package storage provides entry store implementations.
//
// Implementations:
//   - memory: in-memory map (default backend)
//   - redis: Redis with JSON serialization, INCR id sequence, and a
//     sorted-set index for newest-first listings
//   - mysql: MySQL (Cloud SQL) over database/sql
package storage
