package errors

import (
	"fmt"
)

type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    make(map[string]interface{}),
	}
}

func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// ValidationError collects field-keyed validation messages accumulated by
// the save pipeline. The "base" field carries record-level messages.
type ValidationError struct {
	Fields map[string][]string `json:"fields"`
}

// BaseField is the pseudo-field for record-level validation messages.
const BaseField = "base"

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add appends a message for the given field.
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// AddBase appends a record-level message.
func (e *ValidationError) AddBase(message string) {
	e.Add(BaseField, message)
}

// HasErrors reports whether any message was accumulated.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// AsAppError converts the accumulated messages into a 422-class AppError
// whose details carry the field map for JSON callers.
func (e *ValidationError) AsAppError() *AppError {
	details := make(map[string]interface{}, len(e.Fields))
	for field, messages := range e.Fields {
		details[field] = messages
	}
	return &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Validation failed",
		Details:    details,
		StatusCode: 422,
	}
}
