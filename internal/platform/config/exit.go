package config

import (
	"fmt"
	"os"

	platformerrors "github.com/louisbranch/portico/internal/platform/errors"
)

// Exitf writes a formatted error message to stderr and exits with code 1.
// It provides a consistent fatal-exit pattern for CLI entry points.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// ExitOnError writes a single diagnostic line for err and exits with the
// status its code maps to. A nil error returns without exiting.
func ExitOnError(prefix string, err error) {
	if err == nil {
		return
	}
	code := platformerrors.CodeOf(err).ExitCode()
	if code == 0 {
		code = 1
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", prefix, err)
	os.Exit(code)
}
