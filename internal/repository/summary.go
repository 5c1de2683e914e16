package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fitcoach/coach/internal/db"
	"github.com/fitcoach/coach/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrSummaryNotFound = errors.New("summary not found")
)

type SummaryRepository interface {
	Replace(ctx context.Context, summary *model.Summary) error
	Active(ctx context.Context, userID string, scope model.ScopeType) (*model.Summary, error)
	Summaries(ctx context.Context, userID string) ([]*model.Summary, error)
}

type summaryRepository struct {
	db *sqlx.DB
}

func NewSummaryRepository(db *sqlx.DB) SummaryRepository {
	return &summaryRepository{db: db}
}

// Replace marks the user's ACTIVE summaries of the same scope STALE and inserts the new one.
func (r *summaryRepository) Replace(ctx context.Context, summary *model.Summary) error {
	return db.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		stale := `UPDATE summaries SET status = $1 WHERE user_id = $2 AND scope_type = $3 AND status = $4`
		_, err := tx.ExecContext(ctx, stale, model.SummaryStatusStale, summary.UserID, summary.ScopeType, model.SummaryStatusActive)
		if err != nil {
			return err
		}

		query := `INSERT INTO summaries (id, user_id, scope_type, period_start, period_end, summary_text, metrics, status, created_at)
		          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		_, err = tx.ExecContext(ctx, query,
			summary.ID,
			summary.UserID,
			summary.ScopeType,
			summary.PeriodStart,
			summary.PeriodEnd,
			summary.SummaryText,
			jsonOrEmpty(summary.Metrics),
			summary.Status,
			summary.CreatedAt,
		)
		return err
	})
}

func (r *summaryRepository) Active(ctx context.Context, userID string, scope model.ScopeType) (*model.Summary, error) {
	summary := &model.Summary{}
	query := `SELECT * FROM summaries WHERE user_id = $1 AND scope_type = $2 AND status = $3 ORDER BY created_at DESC LIMIT 1`

	err := r.db.GetContext(ctx, summary, query, userID, scope, model.SummaryStatusActive)
	if err == sql.ErrNoRows {
		return nil, ErrSummaryNotFound
	}
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// Summaries returns every summary of the user, newest first.
func (r *summaryRepository) Summaries(ctx context.Context, userID string) ([]*model.Summary, error) {
	summaries := []*model.Summary{}
	query := `SELECT * FROM summaries WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &summaries, query, userID)
	if err != nil {
		return nil, err
	}

	return summaries, nil
}
