package embedding

import (
	"net/http"

	"ai-journaling-be/internal/apperr"
)

// classifyStatus maps a provider HTTP status to an application error code.
// Only network-class failures are retriable downstream.
func classifyStatus(status int) apperr.Code {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperr.CodeAuthError
	case status == http.StatusTooManyRequests:
		return apperr.CodeQuotaExceeded
	case status >= 500:
		return apperr.CodeNetworkError
	default:
		return apperr.CodeInvalidRequest
	}
}
