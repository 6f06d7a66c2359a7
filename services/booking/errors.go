package booking

import (
	"fmt"
	"sort"
	"strings"

	"garagio/models"
)

// ValidationError reports locally violated preconditions. Every violated
// field is listed at once; nothing is sent to the network.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// KycRequiredError is a redirect signal, not a failure: the flow must
// detour through identity verification before details can be collected.
type KycRequiredError struct {
	CustomerID string
}

func (e *KycRequiredError) Error() string {
	return fmt.Sprintf("identity verification required for customer %s", e.CustomerID)
}

// ReservationError means the booking identifier could not be reserved.
// Terminal for the session: with no booking id nothing can proceed, so it
// surfaces distinctly from later failures.
type ReservationError struct {
	Err error
}

func (e *ReservationError) Error() string {
	return fmt.Sprintf("could not reserve a booking id: %v", e.Err)
}

func (e *ReservationError) Unwrap() error { return e.Err }

// StateError is an operation fired against the wrong workflow state.
type StateError struct {
	Op    string
	State models.SessionState
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s not allowed in state %q", e.Op, e.State)
}

// SessionNotFoundError means the session expired or was never started.
type SessionNotFoundError struct {
	BookingID string
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("booking session %s not found or expired", e.BookingID)
}
