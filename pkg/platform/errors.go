package platform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrTransport wraps network-level failures (DNS, refused, timeout).
	ErrTransport = errors.New("platform unreachable")
	// ErrDecode wraps responses that could not be decoded.
	ErrDecode = errors.New("unexpected platform response")
)

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	// Message is the body's "message" field, or the raw body when absent.
	Message string
	Body    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("platform returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("platform returned status %d: %s", e.StatusCode, e.Message)
}

func newAPIError(status int, body []byte) *APIError {
	raw := strings.TrimSpace(string(body))
	msg := raw
	if gjson.Valid(raw) {
		if m := gjson.Get(raw, "message"); m.Exists() && m.String() != "" {
			msg = m.String()
		}
	}
	return &APIError{StatusCode: status, Message: msg, Body: raw}
}
