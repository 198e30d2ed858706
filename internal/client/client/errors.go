package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRejected     = errors.New("request rejected")
	ErrServer       = errors.New("server error")
)

// ErrorKind is the user-facing class of a failed call.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindTransport
	KindRejected
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRejected:
		return "rejected"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Detail)
}

// Is lets callers match an APIError against the sentinel classes.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrRejected:
		return e.StatusCode >= 400 && e.StatusCode < 500
	case ErrServer:
		return e.StatusCode >= 500
	}
	return false
}

// Classify maps err onto the three failure classes shown to users.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrUnavailable):
		return KindTransport
	case errors.Is(err, ErrServer):
		return KindServer
	case errors.Is(err, ErrRejected):
		return KindRejected
	default:
		return KindUnknown
	}
}

// Detail returns the server-provided message carried by err, or err's text.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{StatusCode: status, Detail: parseDetail(body)}
}

// parseDetail extracts a human message from the error shapes the API uses:
//
//	{"detail": "..."}
//	{"data": {"detail"|"message": "..."}}
//	{"data": {"field": ["msg", ...]}}
//	{"type": "...", "errors": [{"attr": "field", "detail": "..."}]}
func parseDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var top struct {
		Detail  string          `json:"detail"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
		Errors  []struct {
			Attr   string `json:"attr"`
			Detail string `json:"detail"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &top); err != nil {
		return strings.TrimSpace(string(body))
	}

	switch {
	case top.Detail != "":
		return top.Detail
	case top.Message != "":
		return top.Message
	case len(top.Errors) > 0:
		parts := make([]string, 0, len(top.Errors))
		for _, e := range top.Errors {
			if e.Attr != "" {
				parts = append(parts, e.Attr+": "+e.Detail)
			} else {
				parts = append(parts, e.Detail)
			}
		}
		return strings.Join(parts, "; ")
	case len(top.Data) > 0:
		return parseDataDetail(top.Data)
	}
	return ""
}

func parseDataDetail(raw json.RawMessage) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return s
		}
		return ""
	}

	for _, key := range []string{"detail", "message"} {
		var s string
		if v, ok := fields[key]; ok && json.Unmarshal(v, &s) == nil && s != "" {
			return s
		}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		var msgs []string
		if json.Unmarshal(fields[k], &msgs) == nil && len(msgs) > 0 {
			parts = append(parts, k+": "+strings.Join(msgs, " "))
		}
	}
	return strings.Join(parts, "; ")
}
