package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveServicePort(t *testing.T) {
	tests := []struct {
		name     string
		service  string
		override string
		want     int
		warned   bool
	}{
		{name: "web default", service: ServiceWeb, want: 3000},
		{name: "rpc default", service: ServiceRPC, want: 3001},
		{name: "valid override", service: ServiceWeb, override: "8080", want: 8080},
		{name: "non-numeric override", service: ServiceWeb, override: "http", want: 3000, warned: true},
		{name: "out of range override", service: ServiceRPC, override: "70000", want: 3001, warned: true},
		{name: "zero override", service: ServiceRPC, override: "0", want: 3001, warned: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lines []string
			logf := func(format string, args ...any) {
				lines = append(lines, fmt.Sprintf(format, args...))
			}
			got, err := ResolveServicePort(tt.service, tt.override, "", logf)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got != tt.want {
				t.Fatalf("port = %d, want %d", got, tt.want)
			}
			if warned := len(lines) > 0; warned != tt.warned {
				t.Fatalf("warned = %v, want %v (%v)", warned, tt.warned, lines)
			}
			if tt.warned && !strings.Contains(lines[0], "PORT_INVALID") && !strings.Contains(lines[0], "using default") {
				t.Fatalf("warning should explain the fallback, got %q", lines[0])
			}
		})
	}
}

func TestResolveServicePortUsesCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.yaml")
	data := "services:\n  web:\n    port: 9000\n    transport: http\n  rpc:\n    port: 9001\n    transport: grpc\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	got, err := ResolveServicePort(ServiceRPC, "", path, func(string, ...any) {})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != 9001 {
		t.Fatalf("port = %d, want 9001", got)
	}

	got, err = ResolveServicePort(ServiceRPC, "bogus", path, func(string, ...any) {})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != 9001 {
		t.Fatalf("invalid override should fall back to the catalog port, got %d", got)
	}
}

func TestResolveServicePortErrors(t *testing.T) {
	if _, err := ResolveServicePort("", "", "", nil); err == nil {
		t.Fatal("expected error for missing service")
	}
	if _, err := ResolveServicePort("unknown", "", "", nil); err == nil {
		t.Fatal("expected error for service without a default port")
	}
	if _, err := ResolveServicePort(ServiceWeb, "", filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Fatal("expected error for missing catalog file")
	}
}
