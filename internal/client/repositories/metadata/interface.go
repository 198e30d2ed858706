package metadata

import (
	"context"
)

// Keys under which the client keeps its local state.
const (
	// KeyCookies holds the JSON-encoded API cookies (session and CSRF).
	KeyCookies = "cookies"
	// KeyLastPath holds the last protected path the user asked for.
	KeyLastPath = "last_path"
)

// Repository is a small key/value store for client-local state that must
// survive restarts. Get returns (nil, nil) for an absent key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
