package errors

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrorDetail contains error information for API responses
type ErrorDetail struct {
	Display string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse is the standard error envelope returned by the API
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// NewErrorResponse builds the API error envelope. Only hints and safe
// details reach the client; internal messages and stack traces stay in
// the logs.
func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Display: displayMessage(err),
			Details: reportableDetails(err),
		},
	}
}

func displayMessage(err error) string {
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		return hints[0]
	}

	var internal *InternalError
	if errors.As(err, &internal) {
		return internal.Message
	}

	return "An unexpected error occurred"
}

const jsonDetailPrefix = "__json__:"

func reportableDetails(err error) map[string]any {
	for _, payload := range errors.GetAllSafeDetails(err) {
		for _, detail := range payload.SafeDetails {
			if !strings.HasPrefix(detail, jsonDetailPrefix) {
				continue
			}
			var details map[string]any
			if jsonErr := json.Unmarshal([]byte(strings.TrimPrefix(detail, jsonDetailPrefix)), &details); jsonErr == nil {
				return details
			}
		}
	}
	return nil
}
