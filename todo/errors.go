package todo

import (
	"errors"
	"fmt"
	"maps"
	"net/http"

	"github.com/gaborage/todo-bricks/database/statement"
	"github.com/gaborage/todo-bricks/validation"
)

var (
	// ErrNotFound is returned when no row matches the id and owner.
	ErrNotFound = errors.New("not found")

	// ErrNoChanges is returned for update requests where every field is NoOp.
	ErrNoChanges = errors.New("no changes requested")

	// ErrMultipleRows is returned when a write keyed by primary key touched
	// more than one row. The transaction is rolled back.
	ErrMultipleRows = errors.New("statement affected more than one row")
)

// IAPIError defines the interface for errors with structured API information.
type IAPIError interface {
	error
	ErrorCode() string
	Message() string
	HTTPStatus() int
	Details() map[string]any
}

// BaseAPIError provides a basic implementation of IAPIError.
type BaseAPIError struct {
	code       string
	message    string
	httpStatus int
	details    map[string]any
	cause      error
}

// NewBaseAPIError creates a new base API error.
func NewBaseAPIError(code, message string, httpStatus int) *BaseAPIError {
	return &BaseAPIError{
		code:       code,
		message:    message,
		httpStatus: httpStatus,
		details:    make(map[string]any),
	}
}

// ErrorCode returns the error code.
func (e *BaseAPIError) ErrorCode() string {
	return e.code
}

// Message returns the error message.
func (e *BaseAPIError) Message() string {
	return e.message
}

// HTTPStatus returns the HTTP status code.
func (e *BaseAPIError) HTTPStatus() int {
	return e.httpStatus
}

// Details returns additional error details.
func (e *BaseAPIError) Details() map[string]any {
	if e.details == nil {
		return nil
	}
	cp := make(map[string]any, len(e.details))
	maps.Copy(cp, e.details)
	return cp
}

// WithDetails adds details to the error.
func (e *BaseAPIError) WithDetails(key string, value any) *BaseAPIError {
	e.details[key] = value
	return e
}

func (e *BaseAPIError) withCause(err error) *BaseAPIError {
	e.cause = err
	return e
}

// Error returns a concise representation suitable for logs.
func (e *BaseAPIError) Error() string {
	if e == nil {
		return ""
	}
	if e.code == "" {
		return e.message
	}
	return e.code + ": " + e.message
}

// Unwrap returns the error the API error was derived from, if any.
func (e *BaseAPIError) Unwrap() error {
	return e.cause
}

// NotFoundError represents resource not found errors.
type NotFoundError struct {
	*BaseAPIError
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource string) *NotFoundError {
	message := fmt.Sprintf("%s not found", resource)
	return &NotFoundError{
		BaseAPIError: NewBaseAPIError("NOT_FOUND", message, http.StatusNotFound),
	}
}

// BadRequestError represents bad request errors.
type BadRequestError struct {
	*BaseAPIError
}

// NewBadRequestError creates a new bad request error.
func NewBadRequestError(message string) *BadRequestError {
	return &BadRequestError{
		BaseAPIError: NewBaseAPIError("BAD_REQUEST", message, http.StatusBadRequest),
	}
}

// ValidationError is a bad request carrying field-level failures.
type ValidationError struct {
	*BaseAPIError
}

// NewValidationError converts validator failures into an API error.
func NewValidationError(ve *validation.ValidationError) *ValidationError {
	base := NewBaseAPIError("VALIDATION_ERROR", "request validation failed", http.StatusBadRequest)
	if ve != nil {
		base.WithDetails("fields", ve.Fields())
	}
	return &ValidationError{BaseAPIError: base}
}

// InternalServerError represents internal server errors.
type InternalServerError struct {
	*BaseAPIError
}

// NewInternalServerError creates a new internal server error.
func NewInternalServerError(message string) *InternalServerError {
	if message == "" {
		message = "An internal error occurred"
	}
	return &InternalServerError{
		BaseAPIError: NewBaseAPIError("INTERNAL_ERROR", message, http.StatusInternalServerError),
	}
}

// AsAPIError classifies a service error. Errors that already carry API
// information are returned as is; anything unrecognised is an internal error
// that keeps the original error reachable through errors.Is.
func AsAPIError(err error, resource string) IAPIError {
	if err == nil {
		return nil
	}

	var apiErr IAPIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var ve *validation.ValidationError
	switch {
	case errors.As(err, &ve):
		e := NewValidationError(ve)
		e.withCause(err)
		return e
	case errors.Is(err, ErrNotFound):
		e := NewNotFoundError(resource)
		e.withCause(err)
		return e
	case errors.Is(err, ErrNoChanges):
		e := NewBadRequestError(ErrNoChanges.Error())
		e.withCause(err)
		return e
	case errors.Is(err, statement.ErrEmptyStatement):
		e := NewInternalServerError("statement has no columns")
		e.withCause(err)
		return e
	default:
		e := NewInternalServerError("")
		e.withCause(err)
		return e
	}
}

// Compile-time interface assertions
var (
	_ IAPIError = (*BaseAPIError)(nil)
	_ IAPIError = (*NotFoundError)(nil)
	_ IAPIError = (*ValidationError)(nil)
)
