// Package remote holds the response handling shared by the backend clients.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxErrorBody = 64 * 1024

// ErrorMessage extracts a human-readable message from a non-2xx response.
// It looks at the message, error and detail fields of a JSON payload and
// falls back to a short plain-text body or the status text.
func ErrorMessage(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err == nil {
		for _, key := range []string{"message", "error", "detail"} {
			if s, ok := payload[key].(string); ok && s != "" {
				return s
			}
		}
	}

	if text := strings.TrimSpace(string(raw)); text != "" && !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "<") && len(text) < 200 {
		return text
	}
	return fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}

// TransportMessage describes a request that never produced a response.
func TransportMessage(err error, service string) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || IsTimeout(err):
		return service + " request timed out"
	case errors.Is(err, context.Canceled):
		return service + " request canceled"
	default:
		return "could not reach " + service
	}
}

// IsTimeout reports whether err is a network or deadline timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// OK reports whether the status code is 2xx.
func OK(status int) bool {
	return status >= 200 && status <= 299
}
