package exercise

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ProgramRepository keeps one exercise program snapshot per user and week.
type ProgramRepository struct {
	db *sql.DB
}

func NewProgramRepository(d *sql.DB) *ProgramRepository {
	return &ProgramRepository{db: d}
}

// Save stores the program of a user's week, replacing the previous one.
func (r *ProgramRepository) Save(ctx context.Context, userID, weekKey string, program *Program) error {
	data, err := json.Marshal(program)
	if err != nil {
		return fmt.Errorf("failed to marshal exercise program: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO exercise_programs (user_id, week_start, program_data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, week_start)
		DO UPDATE SET program_data = excluded.program_data, updated_at = excluded.updated_at`,
		userID, weekKey, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save exercise program for user %s: %w", userID, err)
	}
	return nil
}

// ByWeek returns the stored program of a user's week, nil when there is none.
func (r *ProgramRepository) ByWeek(ctx context.Context, userID, weekKey string) (*Program, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT program_data FROM exercise_programs WHERE user_id = ? AND week_start = ?`,
		userID, weekKey,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get exercise program for user %s: %w", userID, err)
	}

	var program Program
	if err := json.Unmarshal([]byte(raw), &program); err != nil {
		return nil, fmt.Errorf("failed to unmarshal exercise program: %w", err)
	}
	return &program, nil
}
