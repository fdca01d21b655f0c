package bootstrap

import (
	"fmt"
	"strconv"
	"strings"

	platformerrors "github.com/louisbranch/portico/internal/platform/errors"
)

const (
	// MinPort is the lowest bindable TCP port.
	MinPort = 1
	// MaxPort is the highest bindable TCP port.
	MaxPort = 65535
)

// ResolvePort returns the port named by override when it is an integer in
// [MinPort, MaxPort], otherwise fallback. It never fails.
func ResolvePort(override string, fallback int) int {
	port, _ := ResolvePortDetail(override, fallback)
	return port
}

// ResolvePortDetail resolves like ResolvePort and also reports why a present
// override was rejected. The error carries CodePortInvalid and is recoverable:
// the returned port is already the fallback.
func ResolvePortDetail(override string, fallback int) (int, error) {
	raw := strings.TrimSpace(override)
	if raw == "" {
		return fallback, nil
	}

	metadata := map[string]string{"value": override, "fallback": strconv.Itoa(fallback)}
	port, err := strconv.Atoi(raw)
	if err != nil {
		return fallback, platformerrors.WrapWithMetadata(
			platformerrors.CodePortInvalid,
			fmt.Sprintf("invalid port value %q, using default %d", override, fallback),
			metadata,
			err,
		)
	}
	if !validPort(port) {
		return fallback, platformerrors.WithMetadata(
			platformerrors.CodePortInvalid,
			fmt.Sprintf("port %d out of range [%d, %d], using default %d", port, MinPort, MaxPort, fallback),
			metadata,
		)
	}
	return port, nil
}

func validPort(port int) bool {
	return port >= MinPort && port <= MaxPort
}
