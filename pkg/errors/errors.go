package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorType is the machine-readable error code sent to clients.
type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound        ErrorType = "NOT_FOUND"
	ErrorTypeDuplicateEntity ErrorType = "DUPLICATE_ENTITY"
	ErrorTypeDatabase        ErrorType = "DATABASE_ERROR"
	ErrorTypeUnauthorized    ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden       ErrorType = "FORBIDDEN"
	ErrorTypeInternal        ErrorType = "INTERNAL_SERVER_ERROR"
)

// FieldError is a single schema violation. Field is a dotted path with numeric
// segments for array elements, e.g. "Profile.1.FieldName".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType
	Message    string
	Details    map[string]interface{}
	Cause      error
	StackTrace string
	HTTPStatus int
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails merges details into the error
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{}, len(details))
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// ValidationErrors returns the per-field violations carried by a validation error.
func (e *AppError) ValidationErrors() []FieldError {
	if e.Details == nil {
		return nil
	}
	fields, _ := e.Details["validationErrors"].([]FieldError)
	return fields
}

// statusByType maps each error kind to its HTTP status.
var statusByType = map[ErrorType]int{
	ErrorTypeValidation:      http.StatusBadRequest,
	ErrorTypeNotFound:        http.StatusNotFound,
	ErrorTypeDuplicateEntity: http.StatusConflict,
	ErrorTypeDatabase:        http.StatusInternalServerError,
	ErrorTypeUnauthorized:    http.StatusUnauthorized,
	ErrorTypeForbidden:       http.StatusForbidden,
	ErrorTypeInternal:        http.StatusInternalServerError,
}

// newAppError records the stack of the exported constructor's caller.
func newAppError(t ErrorType, message string) *AppError {
	status, ok := statusByType[t]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &AppError{
		Type:       t,
		Message:    message,
		HTTPStatus: status,
		StackTrace: captureStackTrace(),
	}
}

func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	// Skip runtime.Callers, captureStackTrace, newAppError and the New*Error wrapper.
	n := runtime.Callers(4, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var b strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return b.String()
}

// NewValidationError carries the per-field violations under details.validationErrors.
func NewValidationError(message string, fields []FieldError) *AppError {
	if fields == nil {
		fields = []FieldError{}
	}
	return newAppError(ErrorTypeValidation, message).
		WithDetails(map[string]interface{}{"validationErrors": fields})
}

// NewNotFoundError creates a not found error. The message should name the resource.
func NewNotFoundError(message string) *AppError {
	return newAppError(ErrorTypeNotFound, message)
}

func NewDuplicateEntityError(message string) *AppError {
	return newAppError(ErrorTypeDuplicateEntity, message)
}

// NewDatabaseError wraps a failed store operation. The cause is only shown
// to clients outside production.
func NewDatabaseError(operation string, err error) *AppError {
	return newAppError(ErrorTypeDatabase, fmt.Sprintf("database operation '%s' failed", operation)).
		WithDetails(map[string]interface{}{"operation": operation}).
		WithCause(err)
}

func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return newAppError(ErrorTypeUnauthorized, message)
}

// NewForbiddenError lists the roles that would have granted access.
func NewForbiddenError(message string, requiredRoles []string) *AppError {
	if message == "" {
		message = "forbidden"
	}
	err := newAppError(ErrorTypeForbidden, message)
	if len(requiredRoles) > 0 {
		err.WithDetails(map[string]interface{}{"requiredRoles": requiredRoles})
	}
	return err
}

func NewInternalError(message string) *AppError {
	return newAppError(ErrorTypeInternal, message)
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType reports whether err wraps an AppError of the given kind.
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

func IsDuplicate(err error) bool {
	return IsType(err, ErrorTypeDuplicateEntity)
}

func IsDatabase(err error) bool {
	return IsType(err, ErrorTypeDatabase)
}
