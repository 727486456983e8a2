// Package sqlite stores user profiles in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	advisor "github.com/ourstudio-se/shopping-advisor"
	"github.com/ourstudio-se/shopping-advisor/profile"
)

// Store implements advisor.ProfileStore with SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and creates the profile table if absent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open profile db: %w", err)
	}
	// WAL mode for concurrent readers.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate profile db: %w", err)
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS ` + profile.TableName + ` (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     TEXT UNIQUE NOT NULL,
			preferences TEXT,
			history     TEXT
		)
	`)
	return err
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SaveProfile(ctx context.Context, p advisor.UserProfile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO `+profile.TableName+` (user_id, preferences, history)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			preferences = excluded.preferences,
			history = excluded.history
	`, p.UserID, p.Preferences, p.History)
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

func (s *Store) GetProfile(ctx context.Context, userID string) (*advisor.UserProfile, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT user_id, preferences, history FROM "+profile.TableName+" WHERE user_id = ?", userID,
	)

	var p advisor.UserProfile
	var prefs, history sql.NullString
	err := row.Scan(&p.UserID, &prefs, &history)
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
