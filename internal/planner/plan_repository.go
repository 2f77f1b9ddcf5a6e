package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PlanRepository is a database-backed repository for meal plans, one
// snapshot per user and week.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{db: d}
}

// Save stores the plan of a user's week, replacing the previous one.
func (r *PlanRepository) Save(ctx context.Context, userID, weekKey string, plan *WeeklyPlan) error {
	planData, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal meal plan: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO meal_plans (user_id, week_start, plan_data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, week_start)
		DO UPDATE SET plan_data = excluded.plan_data, updated_at = excluded.updated_at`,
		userID, weekKey, string(planData), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save meal plan for user %s: %w", userID, err)
	}
	return nil
}

// ByWeek returns the stored plan of a user's week, nil when there is none.
func (r *PlanRepository) ByWeek(ctx context.Context, userID, weekKey string) (*WeeklyPlan, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT plan_data FROM meal_plans WHERE user_id = ? AND week_start = ?`,
		userID, weekKey,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meal plan for user %s: %w", userID, err)
	}

	var plan WeeklyPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal plan: %w", err)
	}
	plan.Recompute()
	return &plan, nil
}
