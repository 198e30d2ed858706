// Package netx holds small HTTP helpers shared by the API client.
//
// Response bodies are always read through a size bound so a misbehaving
// server cannot make the client allocate without limit. Auth API responses
// are tiny JSON documents; the bound only protects against pathological
// replies.
package netx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// MaxResponseSize bounds every response body read: 1 MB.
const MaxResponseSize int64 = 1 << 20

// ReadResponse reads a response body up to MaxResponseSize bytes.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// DecodeResponse reads a bounded response body and JSON-decodes it into v.
// An empty body leaves v untouched.
func DecodeResponse(body io.Reader, v any) error {
	data, err := ReadResponse(body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// EncodeBody marshals v for use as a JSON request body. A nil v yields a nil
// body.
func EncodeBody(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// CookieValue returns the value of the named cookie from jar for req's URL,
// or "" when the jar is nil or holds no such cookie.
func CookieValue(jar http.CookieJar, req *http.Request, name string) string {
	if jar == nil {
		return ""
	}
	for _, c := range jar.Cookies(req.URL) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// IsSuccess reports whether code is a 2xx status.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}
