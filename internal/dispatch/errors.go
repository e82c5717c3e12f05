package dispatch

import (
	"errors"
	"fmt"
)

// ErrInvalidParameters marks a handler failure caused by invalid
// request data. A handler error carrying this sentinel anywhere in its
// chain produces a 400 response; every other handler failure produces a
// 500.
var ErrInvalidParameters = errors.New("invalid parameters")

// InvalidParametersError is a structured validation failure. Handlers
// return it (or wrap it) to signal that request data failed validation.
type InvalidParametersError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *InvalidParametersError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid parameters: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid parameters: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *InvalidParametersError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *InvalidParametersError) Is(target error) bool {
	if target == ErrInvalidParameters {
		return true
	}
	_, ok := target.(*InvalidParametersError)
	return ok || errors.Is(e.Cause, target)
}

// NewInvalidParametersError creates a new InvalidParametersError.
func NewInvalidParametersError(message string) *InvalidParametersError {
	return &InvalidParametersError{Message: message}
}

// NewInvalidParametersErrorWithCause creates a new
// InvalidParametersError with a cause.
func NewInvalidParametersErrorWithCause(message string, cause error) *InvalidParametersError {
	return &InvalidParametersError{Message: message, Cause: cause}
}

// PatternError reports an invalid path pattern at registration time.
type PatternError struct {
	Pattern string
	Message string
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid route pattern %q: %s", e.Pattern, e.Message)
}

// Is checks if the error matches the target.
func (e *PatternError) Is(target error) bool {
	_, ok := target.(*PatternError)
	return ok
}

// RouteConflictError reports a registration that overlaps an already
// registered route. Conflicts are configuration errors in the host
// application and are never resolved at dispatch time.
type RouteConflictError struct {
	Method   Method
	Pattern  string
	Existing string
}

// Error implements the error interface.
func (e *RouteConflictError) Error() string {
	return fmt.Sprintf("route %s %s conflicts with registered route %s",
		e.Method, e.Pattern, e.Existing)
}

// Is checks if the error matches the target.
func (e *RouteConflictError) Is(target error) bool {
	_, ok := target.(*RouteConflictError)
	return ok
}
