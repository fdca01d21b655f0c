// Package errors provides coded errors for the bootstrap lifecycle.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Configuration errors
	CodePortInvalid          Code = "PORT_INVALID"
	CodeInvalidConfiguration Code = "INVALID_CONFIGURATION"

	// Bind errors
	CodePortInUse            Code = "PORT_IN_USE"
	CodePortPermissionDenied Code = "PORT_PERMISSION_DENIED"
	CodeBindFailed           Code = "BIND_FAILED"

	// Lifecycle errors
	CodeAlreadyStarted  Code = "ALREADY_STARTED"
	CodeShutdownTimeout Code = "SHUTDOWN_TIMEOUT"
)

// Fatal reports whether the code must terminate the process.
//
// An invalid port override falls back to the default port and a shutdown
// timeout only means connections were force-closed, so neither is fatal.
func (c Code) Fatal() bool {
	switch c {
	case CodePortInvalid, CodeShutdownTimeout:
		return false
	default:
		return true
	}
}

// ExitCode maps a code to the process exit status used by service commands.
func (c Code) ExitCode() int {
	if c.Fatal() {
		return 1
	}
	return 0
}
