package apierrors

import (
	"errors"
	"strings"
)

// MapError converts errors to APIErrors.
//
// If the error is already an APIError, it returns it as-is.
// Upstream service failures become 503s; anything else is a sanitized 500.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	return mapExternalServiceError(err)
}

// mapExternalServiceError identifies external service errors by message
// content and maps them to service-specific responses.
func mapExternalServiceError(err error) *APIError {
	errMsg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errMsg, "twiml") || strings.Contains(errMsg, "twilio"):
		return ServiceUnavailable(CodeTelephonyError, "Telephony instructions could not be generated.", err)
	case strings.Contains(errMsg, "agent"):
		return ServiceUnavailable(CodeAgentServiceError, "Voice agent is temporarily unavailable. Please try again later.", err)
	case strings.Contains(errMsg, "resend") || strings.Contains(errMsg, "email"):
		return ServiceUnavailable(CodeEmailServiceError, "Email service is temporarily unavailable. Please try again later.", err)
	case strings.Contains(errMsg, "search"):
		return ServiceUnavailable(CodeSearchServiceError, "Product search is temporarily unavailable. Please try again later.", err)
	}

	return InternalError(err)
}
