// Package postgres stores user profiles in PostgreSQL through the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	advisor "github.com/ourstudio-se/shopping-advisor"
	"github.com/ourstudio-se/shopping-advisor/profile"
)

// Store implements advisor.ProfileStore with PostgreSQL.
type Store struct {
	db        *sql.DB
	tableName string
}

// Option configures the store
type Option func(*Store)

// WithTableName sets a custom table name
func WithTableName(name string) Option {
	return func(s *Store) {
		s.tableName = name
	}
}

// New creates a store on an open database handle.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:        db,
		tableName: profile.TableName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open connects to dsn with the pgx driver and verifies the connection.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open profile db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping profile db: %w", err)
	}
	return New(db, opts...), nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the profile table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Migration(s.tableName)); err != nil {
		return fmt.Errorf("migrating profiles: %w", err)
	}
	return nil
}

func (s *Store) SaveProfile(ctx context.Context, p advisor.UserProfile) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, preferences, history)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			preferences = EXCLUDED.preferences,
			history = EXCLUDED.history,
			updated_at = NOW()
	`, s.tableName)

	if _, err := s.db.ExecContext(ctx, query, p.UserID, p.Preferences, p.History); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

func (s *Store) GetProfile(ctx context.Context, userID string) (*advisor.UserProfile, error) {
	query := fmt.Sprintf(`SELECT user_id, preferences, history FROM %s WHERE user_id = $1`, s.tableName)

	var p advisor.UserProfile
	var prefs, history sql.NullString
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&p.UserID, &prefs, &history)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, advisor.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning profile: %w", err)
	}
	p.Preferences = prefs.String
	p.History = history.String
	return &p, nil
}

// Migration returns the SQL to create the profiles table.
func Migration(tableName string) string {
	if tableName == "" {
		tableName = profile.TableName
	}
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id BIGSERIAL PRIMARY KEY,
	user_id TEXT NOT NULL UNIQUE,
	preferences TEXT,
	history TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`, tableName)
}
