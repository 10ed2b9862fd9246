package meetpg

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an Error. The values mirror the procedure error codes
// returned to API clients.
type Code string

const (
	// CodeBadRequest indicates input that failed validation.
	CodeBadRequest Code = "BAD_REQUEST"

	// CodeUnauthorized indicates a request without a caller identity.
	CodeUnauthorized Code = "UNAUTHORIZED"

	// CodeForbidden indicates a write attempted in read-only mode.
	CodeForbidden Code = "FORBIDDEN"

	// CodeNotFound indicates a row that does not exist or is not owned by the caller.
	CodeNotFound Code = "NOT_FOUND"

	// CodeTooManyRequests indicates the caller exceeded its rate limit.
	CodeTooManyRequests Code = "TOO_MANY_REQUESTS"

	// CodeInternal indicates an unclassified failure, usually from the store.
	CodeInternal Code = "INTERNAL_SERVER_ERROR"
)

// HTTPStatus returns the HTTP status code for the error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Sentinel errors for errors.Is checks against an *Error of the same code.
var (
	ErrBadRequest      = errors.New("bad request")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrTooManyRequests = errors.New("too many requests")
	ErrInternal        = errors.New("internal server error")
)

// Error is a classified failure returned by the procedures.
type Error struct {
	Code    Code   // Classification
	Message string // Human-readable message, safe to show to the caller
	Field   string // Offending input field for validation failures
	Err     error  // Underlying error, if any
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's code.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrBadRequest:
		return e.Code == CodeBadRequest
	case ErrUnauthorized:
		return e.Code == CodeUnauthorized
	case ErrForbidden:
		return e.Code == CodeForbidden
	case ErrNotFound:
		return e.Code == CodeNotFound
	case ErrTooManyRequests:
		return e.Code == CodeTooManyRequests
	case ErrInternal:
		return e.Code == CodeInternal
	}
	return false
}

// BadRequest creates a validation error for field.
func BadRequest(field, message string) *Error {
	return &Error{Code: CodeBadRequest, Field: field, Message: message}
}

// NotFound creates a NOT_FOUND error with a fixed message.
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// Unauthorized creates an UNAUTHORIZED error.
func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// Forbidden creates a FORBIDDEN error.
func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// Internal wraps an unclassified error.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "internal server error", Err: err}
}

// AsError converts any error into an *Error. Errors that are not already
// classified become CodeInternal.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
