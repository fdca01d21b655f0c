// Package metrics provides operational metrics for the bootstrap lifecycle.
//
// # Metric Categories
//
//   - Connections: accepted total and currently active per listener
//   - Shutdown: connections force-closed after the grace period
//   - Lifecycle: the current bootstrap state as a gauge
//
// # Integration
//
// Each service owns a Prometheus registry. The HTTP service exposes it at
// /metrics; the gRPC service keeps it for in-process inspection.
package metrics
