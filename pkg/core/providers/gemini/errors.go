package gemini

import (
	"errors"

	"google.golang.org/genai"

	"github.com/medisage-ai/medisage-go/pkg/core"
)

// classifyError maps a generation error onto the shared error taxonomy so
// callers can make retry and fallback decisions without provider knowledge.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		return coreErr
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return core.NewProviderError("gemini", err)
	}

	switch apiErr.Code {
	case 429:
		return core.NewRateLimitError(apiErr.Message, 0)
	case 503:
		return core.NewOverloadedError(apiErr.Message)
	case 500, 502, 504:
		return core.NewAPIError(apiErr.Message)
	case 400:
		return core.NewInvalidRequestError(apiErr.Message)
	case 404:
		return core.NewNotFoundError(apiErr.Message)
	case 401:
		return core.NewAuthenticationError(apiErr.Message)
	case 403:
		return core.NewPermissionError(apiErr.Message)
	}

	// Fall back to the canonical status string when the HTTP code is absent.
	switch apiErr.Status {
	case "RESOURCE_EXHAUSTED":
		return core.NewRateLimitError(apiErr.Message, 0)
	case "UNAVAILABLE":
		return core.NewOverloadedError(apiErr.Message)
	case "INTERNAL":
		return core.NewAPIError(apiErr.Message)
	case "INVALID_ARGUMENT", "FAILED_PRECONDITION":
		return core.NewInvalidRequestError(apiErr.Message)
	case "NOT_FOUND":
		return core.NewNotFoundError(apiErr.Message)
	case "UNAUTHENTICATED":
		return core.NewAuthenticationError(apiErr.Message)
	case "PERMISSION_DENIED":
		return core.NewPermissionError(apiErr.Message)
	}

	return core.NewProviderError("gemini", err)
}
