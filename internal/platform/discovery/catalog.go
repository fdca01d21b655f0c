package discovery

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog maps service identities to their listen settings.
type Catalog struct {
	Services map[string]Entry `yaml:"services"`
}

// LoadCatalog reads a YAML catalog from path and validates it.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read service catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return Catalog{}, fmt.Errorf("parse service catalog: %w", err)
	}
	if err := catalog.Validate(); err != nil {
		return Catalog{}, err
	}
	return catalog, nil
}

// LoadCatalogOrDefault loads the catalog at path, or returns the built-in
// defaults when path is empty.
func LoadCatalogOrDefault(path string) (Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Defaults(), nil
	}
	return LoadCatalog(path)
}

// Validate checks that every service has a legal, distinct port and a known
// transport. An empty transport is read as HTTP.
func (c Catalog) Validate() error {
	if len(c.Services) == 0 {
		return fmt.Errorf("service catalog is empty")
	}

	owners := make(map[int]string, len(c.Services))
	for _, name := range c.Names() {
		entry := c.Services[name]
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("service catalog: service name is required")
		}
		if entry.Port < 1 || entry.Port > 65535 {
			return fmt.Errorf("service %s: port %d out of range", name, entry.Port)
		}
		switch entry.Transport {
		case "", TransportHTTP, TransportGRPC:
		default:
			return fmt.Errorf("service %s: unknown transport %q", name, entry.Transport)
		}
		if owner, taken := owners[entry.Port]; taken {
			return fmt.Errorf("service %s: port %d already assigned to %s", name, entry.Port, owner)
		}
		owners[entry.Port] = name
	}
	return nil
}

// Names returns the service identities in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c.Services))
	for name := range c.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Port returns the catalog port for service, or fallback when the service is
// not listed.
func (c Catalog) Port(service string, fallback int) int {
	entry, ok := c.Services[strings.TrimSpace(service)]
	if !ok || entry.Port <= 0 {
		return fallback
	}
	return entry.Port
}
