package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Wrap(CodePortInUse, "port in use", stderrors.New("bind: address already in use"))
	want := "port in use: bind: address already in use"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if got := New(CodeAlreadyStarted, "already started").Error(); got != "already started" {
		t.Fatalf("Error() = %q, want %q", got, "already started")
	}
}

func TestErrorIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("start web: %w", WithMetadata(CodePortInUse, "port in use", map[string]string{"port": "3000"}))

	if !stderrors.Is(err, &Error{Code: CodePortInUse}) {
		t.Fatal("expected errors.Is to match by code through wrapping")
	}
	if stderrors.Is(err, &Error{Code: CodeBindFailed}) {
		t.Fatal("expected errors.Is to reject a different code")
	}
	if !HasCode(err, CodePortInUse) {
		t.Fatal("expected HasCode to find the wrapped code")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := Wrap(CodePortPermissionDenied, "permission denied binding port", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause to be reachable through Unwrap")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain", err: stderrors.New("boom"), want: CodeUnknown},
		{name: "coded", err: New(CodeInvalidConfiguration, "bad"), want: CodeInvalidConfiguration},
		{name: "wrapped", err: fmt.Errorf("outer: %w", New(CodeBindFailed, "bind")), want: CodeBindFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Fatalf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodeExitCode(t *testing.T) {
	tests := map[Code]int{
		CodePortInvalid:          0,
		CodeShutdownTimeout:      0,
		CodePortInUse:            1,
		CodePortPermissionDenied: 1,
		CodeBindFailed:           1,
		CodeAlreadyStarted:       1,
		CodeInvalidConfiguration: 1,
		CodeUnknown:              1,
	}
	for code, want := range tests {
		if got := code.ExitCode(); got != want {
			t.Fatalf("%s.ExitCode() = %d, want %d", code, got, want)
		}
	}
}
