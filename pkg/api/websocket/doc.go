// Package websocket provides real-time entry streaming via WebSocket.
//
// Clients can connect to /logs/stream to receive each newly persisted
// entry as JSON, optionally filtered by user_id.
package websocket
