// Package timeouts defines shared timeout constants used across the server.
// Centralizing these values prevents drift between layers and makes the
// durations discoverable.
package timeouts

import "time"

// ReadRequest limits how long the server waits for a single request line
// from a connected client.
const ReadRequest = 30 * time.Second

// WriteResponse limits how long the server spends writing one response
// line back to a client.
const WriteResponse = 10 * time.Second

// Dispatch caps the time allowed for one message to validate, authorize,
// and execute against the store.
const Dispatch = 10 * time.Second

// Shutdown limits how long the server waits for in-flight connections
// during graceful shutdown.
const Shutdown = 5 * time.Second
