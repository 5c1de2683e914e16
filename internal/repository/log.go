package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fitcoach/coach/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
)

// DefaultRecentLimit is used when Recent is called without a positive limit.
const DefaultRecentLimit = 50

var (
	ErrLogNotFound = errors.New("log not found")
)

type LogRepository interface {
	Create(ctx context.Context, log *model.Log) error
	ByID(ctx context.Context, userID, logID string) (*model.Log, error)
	Recent(ctx context.Context, userID string, limit int) ([]*model.Log, error)
	Between(ctx context.Context, userID string, from *time.Time, to time.Time) ([]*model.Log, error)
	SetAIStatus(ctx context.Context, logID string, status model.AIStatus, remark *types.JSONText) error
}

type logRepository struct {
	db *sqlx.DB
}

func NewLogRepository(db *sqlx.DB) LogRepository {
	return &logRepository{db: db}
}

func (r *logRepository) Create(ctx context.Context, log *model.Log) error {
	if log.AIStatus == "" {
		log.AIStatus = model.AIStatusPending
	}
	if len(log.StructuredData) == 0 {
		log.StructuredData = types.JSONText("{}")
	}
	if log.ResourceIDs == nil {
		log.ResourceIDs = model.StringList{}
	}
	if log.Tags == nil {
		log.Tags = model.StringList{}
	}

	query := `INSERT INTO master_logs (id, user_id, goal_id, log_timestamp, created_at, log_type, source, raw_text, structured_data, resource_ids, ai_status, ai_coach_remark, validation_meta, tags)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.UserID,
		log.GoalID,
		log.LogTimestamp,
		log.CreatedAt,
		log.LogType,
		log.Source,
		log.RawText,
		log.StructuredData,
		log.ResourceIDs,
		log.AIStatus,
		log.AICoachRemark,
		log.ValidationMeta,
		log.Tags,
	)

	return err
}

func (r *logRepository) ByID(ctx context.Context, userID, logID string) (*model.Log, error) {
	log := &model.Log{}
	query := `SELECT * FROM master_logs WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, log, query, logID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrLogNotFound
	}
	if err != nil {
		return nil, err
	}

	return log, nil
}

// Recent returns the newest logs of the user, newest first.
func (r *logRepository) Recent(ctx context.Context, userID string, limit int) ([]*model.Log, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	logs := []*model.Log{}
	query := `SELECT * FROM master_logs WHERE user_id = $1 ORDER BY log_timestamp DESC LIMIT $2`

	err := r.db.SelectContext(ctx, &logs, query, userID, limit)
	if err != nil {
		return nil, err
	}

	return logs, nil
}

// Between returns logs with from <= log_timestamp <= to, oldest first.
// A nil from means since the first log.
func (r *logRepository) Between(ctx context.Context, userID string, from *time.Time, to time.Time) ([]*model.Log, error) {
	logs := []*model.Log{}

	var err error
	if from == nil {
		query := `SELECT * FROM master_logs WHERE user_id = $1 AND log_timestamp <= $2 ORDER BY log_timestamp ASC`
		err = r.db.SelectContext(ctx, &logs, query, userID, to)
	} else {
		query := `SELECT * FROM master_logs WHERE user_id = $1 AND log_timestamp >= $2 AND log_timestamp <= $3 ORDER BY log_timestamp ASC`
		err = r.db.SelectContext(ctx, &logs, query, userID, *from, to)
	}
	if err != nil {
		return nil, err
	}

	return logs, nil
}

func (r *logRepository) SetAIStatus(ctx context.Context, logID string, status model.AIStatus, remark *types.JSONText) error {
	query := `UPDATE master_logs SET ai_status = $1, ai_coach_remark = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, remark, logID)
	return affectedOrNotFound(result, err, ErrLogNotFound)
}
