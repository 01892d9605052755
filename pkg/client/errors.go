package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// DefaultMessagePath is the JMESPath expression used to pull a human-readable
// message out of an error body.
const DefaultMessagePath = "detail || message || error || non_field_errors[0]"

// ErrSessionExpired is returned when a 401 could not be recovered by refreshing
// the access token. The stored session has been cleared by the time it is seen.
var ErrSessionExpired = errors.New("session expired")

// ErrNoRefreshToken is the refresh failure when no refresh token is stored.
var ErrNoRefreshToken = errors.New("no refresh token stored")

// ErrorKind classifies a failed call.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNetwork
	KindAuthentication
	KindAuthorization
	KindValidation
	KindNotFound
	KindClient
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	}
	return "unknown"
}

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
	// Body is the raw response body, kept for callers that render per-field errors.
	Body json.RawMessage
	// FieldErrors maps a field name to its validation messages.
	FieldErrors map[string][]string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Kind classifies the response status.
func (e *HTTPError) Kind() ErrorKind {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return KindAuthentication
	case e.StatusCode == http.StatusForbidden:
		return KindAuthorization
	case e.StatusCode == http.StatusNotFound:
		return KindNotFound
	case e.StatusCode >= 500:
		return KindServer
	case len(e.FieldErrors) > 0 || e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity:
		return KindValidation
	case e.StatusCode >= 400:
		return KindClient
	}
	return KindUnknown
}

// NetworkError wraps a transport failure: no response was received.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// KindOf classifies any error returned by the client.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, ErrSessionExpired) {
		return KindAuthentication
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Kind()
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return KindNetwork
	}
	return KindUnknown
}

// ErrorBody returns the raw error payload carried by err, or nil.
func ErrorBody(err error) json.RawMessage {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Body
	}
	return nil
}

// FieldErrors decodes per-field validation messages from an error payload
// such as Result.Details. It returns nil when there are none.
func FieldErrors(raw json.RawMessage) map[string][]string {
	if len(raw) == 0 {
		return nil
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil
	}
	return fieldErrors(data)
}

// ValidateMessagePath reports whether expr is a usable JMESPath expression.
func ValidateMessagePath(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return errors.New("empty expression")
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return fmt.Errorf("invalid JMESPath %q: %w", expr, err)
	}
	return nil
}

// newHTTPError builds an HTTPError from a response status and body.
func newHTTPError(status int, body []byte, messagePath string) *HTTPError {
	e := &HTTPError{StatusCode: status}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		e.Message = http.StatusText(status)
		return e
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		e.Message = trimmed
		return e
	}
	e.Body = json.RawMessage(body)
	e.FieldErrors = fieldErrors(data)

	if msg := searchMessage(messagePath, data); msg != "" {
		e.Message = msg
		return e
	}
	if len(e.FieldErrors) > 0 {
		e.Message = summarizeFieldErrors(e.FieldErrors)
		return e
	}
	e.Message = trimmed
	return e
}

func searchMessage(expr string, data any) string {
	if expr == "" {
		expr = DefaultMessagePath
	}
	v, err := jmespath.Search(expr, data)
	if err != nil {
		return ""
	}
	switch m := v.(type) {
	case string:
		return m
	case []any:
		if len(m) > 0 {
			if s, ok := m[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// fieldErrors extracts DRF-style {"field": ["msg", ...]} entries.
func fieldErrors(data any) map[string][]string {
	obj, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string][]string)
	for field, v := range obj {
		list, ok := v.([]any)
		if !ok {
			continue
		}
		var msgs []string
		for _, item := range list {
			if s, ok := item.(string); ok {
				msgs = append(msgs, s)
			}
		}
		if len(msgs) > 0 {
			out[field] = msgs
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func summarizeFieldErrors(fe map[string][]string) string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(fe[f], " "))
	}
	return strings.Join(parts, "; ")
}
