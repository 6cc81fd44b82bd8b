package google

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

// mapAPIError converts a non-2xx Google response into a domain error.
// The well-known statuses map directly; everything else is classified as
// a provider failure carrying Google's own error message when the body
// parses as the standard error envelope.
func mapAPIError(status int, body []byte) *domain.Error {
	switch status {
	case http.StatusUnauthorized:
		return domain.NewError(domain.KindAuthentication, "Invalid or expired token")
	case http.StatusForbidden:
		return domain.NewError(domain.KindPermissionDenied, "Insufficient permissions")
	case http.StatusNotFound:
		return domain.NewError(domain.KindEventNotFound, "Resource not found")
	case http.StatusTooManyRequests:
		return domain.NewError(domain.KindRateLimit, "Rate limit exceeded")
	}

	if msg := parseErrorMessage(status, body); msg != "" {
		return domain.Errorf(domain.KindProvider, "Google API error: %s", msg)
	}
	return domain.Errorf(domain.KindProvider, "Google API error: HTTP %d - %s", status, body)
}

// parseErrorMessage extracts the message from Google's error envelope
// {"error": {"code", "message", "status"}}. Returns "" when the body
// does not parse.
func parseErrorMessage(status int, body []byte) string {
	res := &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
	err := googleapi.CheckResponse(res)

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Message
	}
	return ""
}

// retryableStatus reports whether an HTTP status is worth retrying.
// Server-side failures and rate limiting are transient; other 4xx
// responses will not improve on retry.
func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
