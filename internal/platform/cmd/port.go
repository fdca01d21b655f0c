package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/louisbranch/portico/internal/bootstrap"
	"github.com/louisbranch/portico/internal/platform/discovery"
)

// ResolveServicePort returns the listen port for service.
//
// The default comes from the catalog at catalogPath, or the built-in table
// when the path is empty. A usable override replaces it; an unusable one is
// logged as a warning and the default is kept. Only an unreadable or invalid
// catalog is an error.
func ResolveServicePort(service, override, catalogPath string, logf func(string, ...any)) (int, error) {
	service = strings.TrimSpace(service)
	if service == "" {
		return 0, fmt.Errorf("service name is required")
	}
	if logf == nil {
		logf = log.Printf
	}

	catalog, err := discovery.LoadCatalogOrDefault(catalogPath)
	if err != nil {
		return 0, fmt.Errorf("load service catalog: %w", err)
	}
	fallback := catalog.Port(service, discovery.DefaultPort(service))
	if fallback == 0 {
		return 0, fmt.Errorf("service %s has no default port", service)
	}

	port, err := bootstrap.ResolvePortDetail(override, fallback)
	if err != nil {
		logf("%s: warning: %v", service, err)
	}
	return port, nil
}
