package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured
// error code. Codes are grouped by subsystem (STATE, SNAP, LIFE,
// ROUTE, BNDL, AUTH, SYS, ARG) with an HTTP-flavored numeric suffix.
type DomainError struct {
	Code    string // Error code (e.g., "NK-SNAP-5001")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Wrap wraps an error with this domain error as the cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return e.WithCause(cause)
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// State Errors (STATE)
// ============================================================================

var (
	// ErrStateValidation indicates navigation state validation failed.
	ErrStateValidation = NewDomainError("NK-STATE-4001", "navigation state validation failed")

	// ErrStateNotFound indicates no persisted navigation state exists.
	ErrStateNotFound = NewDomainError("NK-STATE-4040", "no persisted navigation state")
)

// ============================================================================
// Snapshot Errors (SNAP)
// ============================================================================

var (
	// ErrSnapshotCorrupt indicates the persisted record cannot be trusted.
	// Readers treat the record as absent; it is never partially applied.
	ErrSnapshotCorrupt = NewDomainError("NK-SNAP-4220", "persisted navigation state corrupt")

	// ErrSnapshotWrite indicates the snapshot could not be persisted.
	ErrSnapshotWrite = NewDomainError("NK-SNAP-5001", "snapshot write failed")

	// ErrSnapshotRead indicates the snapshot could not be read back.
	ErrSnapshotRead = NewDomainError("NK-SNAP-5002", "snapshot read failed")
)

// ============================================================================
// Lifecycle Errors (LIFE)
// ============================================================================

var (
	// ErrUnknownLifecycleEvent indicates an unrecognized host event name.
	ErrUnknownLifecycleEvent = NewDomainError("NK-LIFE-4000", "unknown lifecycle event")

	// ErrMonitorNotRunning indicates events arrived before Start or after Stop.
	ErrMonitorNotRunning = NewDomainError("NK-LIFE-5030", "lifecycle monitor not running")

	// ErrEventOverflow indicates the event buffer was full and an event
	// was dropped rather than blocking the host thread.
	ErrEventOverflow = NewDomainError("NK-LIFE-4290", "event buffer full, event dropped")
)

// ============================================================================
// Route Errors (ROUTE)
// ============================================================================

var (
	// ErrRouteInvalid indicates a route name violates naming constraints.
	ErrRouteInvalid = NewDomainError("NK-ROUTE-4000", "invalid route name")

	// ErrRouteParams indicates required route parameters are missing.
	ErrRouteParams = NewDomainError("NK-ROUTE-4001", "missing required route parameters")

	// ErrRouteUnknown indicates the route is not registered with the navigator.
	ErrRouteUnknown = NewDomainError("NK-ROUTE-4040", "unknown route")
)

// ============================================================================
// Bundle Errors (BNDL)
// ============================================================================

var (
	// ErrBundleCorrupt indicates an export bundle failed integrity checks.
	ErrBundleCorrupt = NewDomainError("NK-BNDL-4220", "export bundle corrupt")

	// ErrBundleWrite indicates an export bundle could not be written.
	ErrBundleWrite = NewDomainError("NK-BNDL-5001", "export bundle write failed")

	// ErrBundleRead indicates an export bundle could not be read.
	ErrBundleRead = NewDomainError("NK-BNDL-5002", "export bundle read failed")
)

// ============================================================================
// Authentication Errors (AUTH)
// ============================================================================

var (
	// ErrAuthMissing indicates no bearer token was provided.
	ErrAuthMissing = NewDomainError("NK-AUTH-4010", "bearer token not provided")

	// ErrAuthInvalid indicates the bearer token does not match.
	ErrAuthInvalid = NewDomainError("NK-AUTH-4011", "invalid bearer token")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("NK-SYS-5000", "internal server error")

	// ErrStorageError indicates a storage layer error.
	ErrStorageError = NewDomainError("NK-SYS-5001", "storage error")

	// ErrServiceUnavailable indicates the service is temporarily unavailable.
	ErrServiceUnavailable = NewDomainError("NK-SYS-5030", "service unavailable")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("NK-SYS-4000", "bad request")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("NK-SYS-4290", "too many requests")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("NK-ARG-1001", "invalid argument")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("NK-ARG-1002", "missing required argument")

	// ErrArgumentConflict indicates conflicting arguments.
	ErrArgumentConflict = NewDomainError("NK-ARG-1003", "argument conflict")
)
