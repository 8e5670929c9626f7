// Package sqlite persists session tokens in a SQLite file so sessions survive restarts.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"club_admin_backend/internal/session"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// TokenStore implements session.TokenStore on a single SQLite table.
type TokenStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ session.TokenStore = (*TokenStore)(nil)

// Open creates (or reopens) the token database at path.
func Open(path string) (*TokenStore, error) {
	if path == "" {
		path = "sessions.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS session_tokens (
		token TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create session_tokens table: %w", err)
	}
	return &TokenStore{db: db, now: time.Now}, nil
}

func (s *TokenStore) Save(ctx context.Context, token, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_tokens(token, user_id, created_at) VALUES(?, ?, ?)
		ON CONFLICT(token) DO UPDATE SET user_id = excluded.user_id, created_at = excluded.created_at`,
		token, userID, s.now().Unix())
	if err != nil {
		return fmt.Errorf("save session token: %w", err)
	}
	return nil
}

func (s *TokenStore) Lookup(ctx context.Context, token string) (string, error) {
	var userID string
	err := s.db.QueryRowContext(ctx, `SELECT user_id FROM session_tokens WHERE token = ?`, token).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", session.ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup session token: %w", err)
	}
	return userID, nil
}

func (s *TokenStore) Delete(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_tokens WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete session token: %w", err)
	}
	return nil
}

// Purge removes tokens created before cutoff and returns how many were dropped.
func (s *TokenStore) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM session_tokens WHERE created_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("purge session tokens: %w", err)
	}
	return res.RowsAffected()
}

func (s *TokenStore) Close() error {
	return s.db.Close()
}
