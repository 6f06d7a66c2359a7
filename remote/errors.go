package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// NetworkError covers timeouts and connectivity failures. Retryable by an
// explicit user action, never auto-retried.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerRejection is a non-success status from a collaborator. The remote
// message is surfaced verbatim when available.
type ServerRejection struct {
	Op      string
	Status  int
	Message string
}

func (e *ServerRejection) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s rejected (%d): %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s rejected with status %d", e.Op, e.Status)
}

// IsNetworkError reports whether err is a transport-level failure.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsServerRejection reports whether err is a remote non-success status.
func IsServerRejection(err error) bool {
	var sr *ServerRejection
	return errors.As(err, &sr)
}

// transportError classifies a round-trip failure. Deadline expiry counts as
// a network failure, not a hang.
func transportError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &NetworkError{Op: op, Err: fmt.Errorf("request timed out: %w", err)}
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return &NetworkError{Op: op, Err: fmt.Errorf("request timed out: %w", err)}
	}
	return &NetworkError{Op: op, Err: err}
}
