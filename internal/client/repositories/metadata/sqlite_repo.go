package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/furbaby/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}

// PathStore adapts a Repository to the router's last-path persistence.
type PathStore struct {
	repo Repository
}

func NewPathStore(repo Repository) *PathStore {
	return &PathStore{repo: repo}
}

// LoadLastPath returns the stored path, or "" when none was saved.
func (p *PathStore) LoadLastPath(ctx context.Context) (string, error) {
	v, err := p.repo.Get(ctx, KeyLastPath)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// SaveLastPath stores path; an empty path removes the entry.
func (p *PathStore) SaveLastPath(ctx context.Context, path string) error {
	if path == "" {
		return p.repo.Delete(ctx, KeyLastPath)
	}
	return p.repo.Set(ctx, KeyLastPath, []byte(path))
}

// Purge deletes keys in one transaction, so a crash never leaves half of
// an account's local state behind.
func Purge(ctx context.Context, db *sql.DB, keys ...string) error {
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		for _, k := range keys {
			if err := repo.Delete(ctx, k); err != nil {
				return err
			}
		}
		return nil
	})
}
