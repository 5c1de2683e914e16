package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fitcoach/coach/internal/db"
	"github.com/fitcoach/coach/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, userID, goalID string) (*model.Goal, error)
	Active(ctx context.Context, userID string) (*model.Goal, error)
	Goals(ctx context.Context, userID string) ([]*model.Goal, error)
	Update(ctx context.Context, goal *model.Goal) error
	SetStatus(ctx context.Context, userID, goalID string, status model.GoalStatus) error
	Delete(ctx context.Context, userID, goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

// Create archives every ACTIVE goal of the owner and inserts the new goal,
// in one transaction, so a user never ends up with two ACTIVE goals.
func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	return db.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		archive := `UPDATE goals SET status = $1, updated_at = $2 WHERE user_id = $3 AND status = $4`
		_, err := tx.ExecContext(ctx, archive, model.GoalStatusArchived, goal.CreatedAt, goal.UserID, model.GoalStatusActive)
		if err != nil {
			return err
		}

		query := `INSERT INTO goals (id, user_id, goal_type, description, start_date, target_date, start_weight_kg, target_weight_kg, constraints, preferences, status, created_at, updated_at)
		          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
		_, err = tx.ExecContext(ctx, query,
			goal.ID,
			goal.UserID,
			goal.GoalType,
			goal.Description,
			goal.StartDate,
			goal.TargetDate,
			goal.StartWeightKg,
			goal.TargetWeightKg,
			jsonOrEmpty(goal.Constraints),
			jsonOrEmpty(goal.Preferences),
			goal.Status,
			goal.CreatedAt,
			goal.UpdatedAt,
		)
		return err
	})
}

func (r *goalRepository) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, goal, query, goalID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// Active returns the newest ACTIVE goal of the user.
func (r *goalRepository) Active(ctx context.Context, userID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC LIMIT 1`

	err := r.db.GetContext(ctx, goal, query, userID, model.GoalStatusActive)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) Goals(ctx context.Context, userID string) ([]*model.Goal, error) {
	goals := []*model.Goal{}
	query := `SELECT * FROM goals WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) Update(ctx context.Context, goal *model.Goal) error {
	goal.UpdatedAt = time.Now().UTC()
	query := `UPDATE goals
	          SET goal_type = $1, description = $2, target_date = $3, start_weight_kg = $4, target_weight_kg = $5,
	              constraints = $6, preferences = $7, updated_at = $8
	          WHERE id = $9 AND user_id = $10`

	result, err := r.db.ExecContext(ctx, query,
		goal.GoalType,
		goal.Description,
		goal.TargetDate,
		goal.StartWeightKg,
		goal.TargetWeightKg,
		jsonOrEmpty(goal.Constraints),
		jsonOrEmpty(goal.Preferences),
		goal.UpdatedAt,
		goal.ID,
		goal.UserID,
	)
	return affectedOrNotFound(result, err, ErrGoalNotFound)
}

func (r *goalRepository) SetStatus(ctx context.Context, userID, goalID string, status model.GoalStatus) error {
	query := `UPDATE goals SET status = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`

	result, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), goalID, userID)
	return affectedOrNotFound(result, err, ErrGoalNotFound)
}

func (r *goalRepository) Delete(ctx context.Context, userID, goalID string) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, goalID, userID)
	return affectedOrNotFound(result, err, ErrGoalNotFound)
}
