package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Repository handles persistence of shopping checklist progress.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping progress repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// LoadChecked returns the checked item keys for a user's week, nil when nothing was stored.
func (r *Repository) LoadChecked(ctx context.Context, userID, weekKey string) ([]string, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT checked_items FROM shopping_progress WHERE user_id = ? AND week_key = ?`,
		userID, weekKey,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shopping progress: %w", err)
	}

	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checked items: %w", err)
	}
	return keys, nil
}

// SaveChecked replaces the checked item keys for a user's week. Last write wins.
func (r *Repository) SaveChecked(ctx context.Context, userID, weekKey string, keys []string) error {
	if keys == nil {
		keys = []string{}
	}
	itemsJSON, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("failed to marshal checked items: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO shopping_progress (user_id, week_key, checked_items, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, week_key)
		DO UPDATE SET checked_items = excluded.checked_items, updated_at = excluded.updated_at`,
		userID, weekKey, string(itemsJSON), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save shopping progress: %w", err)
	}
	return nil
}

// DeleteWeek clears the progress of a week, used when its plan is regenerated.
func (r *Repository) DeleteWeek(ctx context.Context, userID, weekKey string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM shopping_progress WHERE user_id = ? AND week_key = ?`, userID, weekKey)
	if err != nil {
		return fmt.Errorf("failed to delete shopping progress: %w", err)
	}
	return nil
}
