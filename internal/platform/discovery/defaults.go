// Package discovery centralizes the one-service-one-port convention.
//
// Every service identity owns a distinct static default port. A deployment may
// replace the table with a YAML catalog, but the distinct-port rule still holds.
package discovery

import (
	"strconv"
	"strings"
)

const (
	// ServiceWeb is the HTTP probe service identity.
	ServiceWeb = "web"
	// ServiceRPC is the gRPC health service identity.
	ServiceRPC = "rpc"
)

// Transport names the wire protocol a service listens with.
type Transport string

const (
	// TransportHTTP serves HTTP/1.1 over the listener.
	TransportHTTP Transport = "http"
	// TransportGRPC serves gRPC over the listener.
	TransportGRPC Transport = "grpc"
)

// Entry describes one service in the catalog.
type Entry struct {
	Port        int       `yaml:"port"`
	Transport   Transport `yaml:"transport"`
	Description string    `yaml:"description"`
}

var defaultEntries = map[string]Entry{
	ServiceWeb: {Port: 3000, Transport: TransportHTTP, Description: "HTTP liveness and metrics probe"},
	ServiceRPC: {Port: 3001, Transport: TransportGRPC, Description: "gRPC health service"},
}

// DefaultPort returns the build-time default port for a service, or 0 when the
// service is unknown.
func DefaultPort(service string) int {
	entry, ok := defaultEntries[strings.TrimSpace(service)]
	if !ok {
		return 0
	}
	return entry.Port
}

// DefaultAddr returns the canonical in-network address for a service.
func DefaultAddr(service string) string {
	service = strings.TrimSpace(service)
	port := DefaultPort(service)
	if port <= 0 {
		return ""
	}
	return service + ":" + strconv.Itoa(port)
}

// OrDefaultAddr returns value when set, otherwise the service convention.
func OrDefaultAddr(value, service string) string {
	value = strings.TrimSpace(value)
	if value != "" {
		return value
	}
	return DefaultAddr(service)
}

// Defaults returns a copy of the built-in catalog.
func Defaults() Catalog {
	services := make(map[string]Entry, len(defaultEntries))
	for name, entry := range defaultEntries {
		services[name] = entry
	}
	return Catalog{Services: services}
}
