// Package jar provides the cookie jar shared by every API call. It behaves
// like net/http/cookiejar and additionally mirrors the API host's cookies
// into the local metadata store, so a session survives a client restart the
// way a browser session survives a page reload.
package jar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/furbaby/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/furbaby/internal/logging"
	"golang.org/x/net/publicsuffix"
)

// SessionCookieName is the cookie the API uses for the server-side session.
const SessionCookieName = "sessionid"

type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty"`
}

// Jar is an http.CookieJar persisted through a metadata.Repository.
type Jar struct {
	base   *url.URL
	repo   metadata.Repository
	logger logging.Logger
	now    func() time.Time

	mu    sync.Mutex
	inner *cookiejar.Jar
	known map[string]storedCookie
}

// New creates an empty jar for the API at base.
func New(base *url.URL, repo metadata.Repository, logger logging.Logger) (*Jar, error) {
	inner, err := newInner()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Jar{
		base:   base,
		repo:   repo,
		logger: logger,
		now:    time.Now,
		inner:  inner,
		known:  make(map[string]storedCookie),
	}, nil
}

func newInner() (*cookiejar.Jar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

// Load restores the persisted API cookies. Expired entries are dropped.
func (j *Jar) Load(ctx context.Context) error {
	raw, err := j.repo.Get(ctx, metadata.KeyCookies)
	if err != nil {
		return fmt.Errorf("load cookies: %w", err)
	}
	if len(raw) == 0 {
		return nil
	}

	var stored []storedCookie
	if err := json.Unmarshal(raw, &stored); err != nil {
		return fmt.Errorf("decode cookies: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, sc := range stored {
		if !sc.Expires.IsZero() && sc.Expires.Before(now) {
			continue
		}
		j.known[sc.Name] = sc
		cookies = append(cookies, &http.Cookie{
			Name:     sc.Name,
			Value:    sc.Value,
			Path:     sc.Path,
			Expires:  sc.Expires,
			Secure:   sc.Secure,
			HttpOnly: sc.HttpOnly,
		})
	}
	j.inner.SetCookies(j.base, cookies)
	return nil
}

// SetCookies implements http.CookieJar. Cookies for the API host are
// persisted before it returns.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.inner.SetCookies(u, cookies)
	if u.Host != j.base.Host {
		return
	}

	now := j.now()
	for _, c := range cookies {
		expired := c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(now))
		if expired {
			delete(j.known, c.Name)
			continue
		}
		expires := c.Expires
		if c.MaxAge > 0 {
			expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		j.known[c.Name] = storedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Expires:  expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
	}

	if err := j.persist(context.Background(), j.snapshotLocked()); err != nil {
		j.logger.Warn(context.Background(), "persisting cookies failed", "error", err)
	}
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner.Cookies(u)
}

// HasSession reports whether a session cookie is held for the API host.
func (j *Jar) HasSession() bool {
	for _, c := range j.Cookies(j.base) {
		if c.Name == SessionCookieName && c.Value != "" {
			return true
		}
	}
	return false
}

// Clear forgets every cookie, in memory and on disk.
func (j *Jar) Clear(ctx context.Context) error {
	inner, err := newInner()
	if err != nil {
		return err
	}

	j.mu.Lock()
	j.inner = inner
	j.known = make(map[string]storedCookie)
	j.mu.Unlock()

	if err := j.repo.Delete(ctx, metadata.KeyCookies); err != nil {
		return fmt.Errorf("clear cookies: %w", err)
	}
	return nil
}

func (j *Jar) snapshotLocked() []storedCookie {
	out := make([]storedCookie, 0, len(j.known))
	for _, c := range j.known {
		out = append(out, c)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

func (j *Jar) persist(ctx context.Context, cookies []storedCookie) error {
	if len(cookies) == 0 {
		return j.repo.Delete(ctx, metadata.KeyCookies)
	}
	raw, err := json.Marshal(cookies)
	if err != nil {
		return err
	}
	return j.repo.Set(ctx, metadata.KeyCookies, raw)
}
