package apierrors

import (
	"fmt"
	"net/http"
)

// Error codes returned to API clients
const (
	CodeInternalError      = "INTERNAL_ERROR"
	CodeTelephonyError     = "TELEPHONY_ERROR"
	CodeAgentServiceError  = "AGENT_SERVICE_ERROR"
	CodeEmailServiceError  = "EMAIL_SERVICE_ERROR"
	CodeSearchServiceError = "SEARCH_SERVICE_ERROR"
)

// APIError is an error that knows how it should be rendered over HTTP.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ServiceUnavailable wraps a failing upstream dependency
func ServiceUnavailable(code, message string, err error) *APIError {
	return &APIError{StatusCode: http.StatusServiceUnavailable, Code: code, Message: message, Err: err}
}

// InternalError never exposes internal details to the client
func InternalError(err error) *APIError {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternalError,
		Message:    "An internal error occurred. Please try again later.",
		Err:        err,
	}
}
