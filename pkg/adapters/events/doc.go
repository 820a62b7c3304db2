// Package events provides event bus implementations.
//
// Implementations:
//   - memory: in-process fanout (default)
//   - redis: Redis Streams with consumer groups
package events
