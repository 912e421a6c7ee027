package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/capstone-insurance/portal/internal/gwerrors"
)

// APIError is returned for every response with a non-2xx status.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       []byte
	// Message is the error message sent by the backend, if any
	Message string
}

func newAPIError(method, path string, statusCode int, body []byte) *APIError {
	output := APIError{StatusCode: statusCode, Method: method, Path: path, Body: body}
	payload := struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}{}
	if json.Unmarshal(body, &payload) == nil {
		output.Message = payload.Message
		if output.Message == "" {
			output.Message = payload.Error
		}
	}
	return &output
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s returned status %d", e.Method, e.Path, e.StatusCode)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case gwerrors.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case gwerrors.ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	default:
		return false
	}
}

// UserMessage is the text shown to users: the backend message when there is one.
func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.StatusCode)
}

// RefreshError is delivered to the request that started a failed refresh and to every request queued behind it.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("cannot refresh the session: %s", e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

func (e *RefreshError) Is(target error) bool {
	return target == gwerrors.ErrSessionExpired
}
