// Package apierror provides the standardized error envelope for API
// responses. All 4xx/5xx responses go through this package so that internal
// details (stack traces, SQL errors) never reach clients.
package apierror

// APIError is the canonical error envelope.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors from request binding.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validación", Fields: fields}
}
