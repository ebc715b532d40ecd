package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// GetSetting returns the stored value for key, or fallback when the key
// is absent.
func (s *Store) GetSetting(ctx context.Context, key, fallback string) (string, error) {
	var value sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	if !value.Valid {
		return fallback, nil
	}
	return value.String, nil
}

// SetSetting stores or replaces a setting value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}
