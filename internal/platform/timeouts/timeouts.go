// Package timeouts defines shared timeout constants used across services.
// Centralizing these values prevents drift between service boundaries and
// makes the durations discoverable.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Idle limits how long an HTTP keep-alive connection may sit unused.
const Idle = 120 * time.Second

// Shutdown is the default grace period during which in-flight connections
// may finish before they are force-closed.
const Shutdown = 5 * time.Second

// TelemetryShutdown caps the time spent flushing telemetry on exit.
const TelemetryShutdown = 5 * time.Second

// HealthCheck caps a single health probe issued by tests and tooling.
const HealthCheck = time.Second
