package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/furbaby/internal/client/session"
	"github.com/dmitrijs2005/furbaby/internal/logging"
	"github.com/dmitrijs2005/furbaby/internal/netx"
	"github.com/google/uuid"
)

const (
	CSRFCookieName  = "csrftoken"
	CSRFHeaderName  = "X-CSRFToken"
	RequestIDHeader = "X-Request-ID"
)

// HTTPClient talks to the furbaby REST API over HTTP. Every request is
// credentialed through the shared cookie jar and carries the CSRF header
// derived from the csrftoken cookie.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	jar     http.CookieJar
	logger  logging.Logger
}

// NewHTTPClient builds a client for baseURL. A nil jar disables cookies,
// which makes every call anonymous; the application always passes one.
func NewHTTPClient(baseURL string, jar http.CookieJar, timeout time.Duration, logger logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse base url: unsupported scheme %q", u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Jar: jar, Timeout: timeout},
		jar:     jar,
		logger:  logger,
	}, nil
}

// BaseURL returns the API root every path is resolved against.
func (c *HTTPClient) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

type response struct {
	status int
	body   []byte
}

// envelope is the {"data": {...}} wrapper the API puts around payloads.
type envelope struct {
	Data struct {
		User  *session.User `json:"user"`
		Email string        `json:"email"`
	} `json:"data"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any) (*response, error) {
	body, err := netx.EncodeBody(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", path, err)
	}

	target := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, target.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if token := netx.CookieValue(c.jar, req, CSRFCookieName); token != "" {
		req.Header.Set(CSRFHeaderName, token)
	}

	log := c.logger.With("method", method, "path", path, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug(ctx, "request failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := netx.ReadResponse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrUnavailable, err)
	}
	log.Debug(ctx, "request finished", "status", resp.StatusCode)

	if !netx.IsSuccess(resp.StatusCode) {
		return nil, newAPIError(resp.StatusCode, data)
	}
	return &response{status: resp.StatusCode, body: data}, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload any) (*response, error) {
	return c.do(ctx, http.MethodPost, path, payload)
}

func decodeEnvelope(r *response) envelope {
	var env envelope
	// A 2xx without a parseable envelope is still a success; callers only
	// lose the optional payload.
	_ = netx.DecodeResponse(bytes.NewReader(r.body), &env)
	return env
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// Ping reports whether the API host answers at all. Any HTTP response,
// error statuses included, counts as reachable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, PathIndex, nil)
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) error {
	_, err := c.post(ctx, PathRegister, req)
	return err
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (*session.User, error) {
	resp, err := c.post(ctx, PathLogin, map[string]string{
		"email":    email,
		"password": string(password),
	})
	if err != nil {
		return nil, err
	}
	return decodeEnvelope(resp).Data.User, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	_, err := c.post(ctx, PathLogout, nil)
	return err
}

func (c *HTTPClient) Session(ctx context.Context) (*session.User, error) {
	resp, err := c.post(ctx, PathSession, nil)
	if err != nil {
		return nil, err
	}
	return decodeEnvelope(resp).Data.User, nil
}

// WhoAmI returns the email the server reports for the session, which may
// be empty.
func (c *HTTPClient) WhoAmI(ctx context.Context) (string, error) {
	resp, err := c.post(ctx, PathWhoAmI, nil)
	if err != nil {
		return "", err
	}
	return decodeEnvelope(resp).Data.Email, nil
}

func (c *HTTPClient) PasswordResetInit(ctx context.Context, email string) error {
	_, err := c.post(ctx, PathPasswordResetInit, map[string]string{"email": email})
	return err
}

func (c *HTTPClient) PasswordResetValidateToken(ctx context.Context, token string) error {
	_, err := c.post(ctx, PathPasswordResetVerify, map[string]string{"token": token})
	return err
}

func (c *HTTPClient) PasswordResetConfirm(ctx context.Context, password []byte, token string) error {
	_, err := c.post(ctx, PathPasswordResetConfirm, map[string]string{
		"password": string(password),
		"token":    token,
	})
	return err
}

func (c *HTTPClient) DeleteUser(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, PathUser, nil)
	return err
}
