package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnavailable marks network-level failures reaching the upstream API.
	ErrUnavailable = errors.New("upstream unavailable")

	// ErrMalformed marks a successful status whose body is not JSON.
	ErrMalformed = errors.New("malformed upstream response")
)

// maxErrorBody bounds how much of a non-JSON error body is quoted back.
const maxErrorBody = 256

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("upstream returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// parseStatusError prefers the upstream's own {"error": "..."} message.
func parseStatusError(statusCode int, body []byte) error {
	var errResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return &StatusError{StatusCode: statusCode, Message: errResp.Error}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}
	return &StatusError{StatusCode: statusCode, Message: msg}
}
