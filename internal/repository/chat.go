package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fitcoach/coach/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrChatNotFound = errors.New("chat not found")
)

type ChatRepository interface {
	Create(ctx context.Context, chat *model.Chat) error
	ByID(ctx context.Context, userID, chatID string) (*model.Chat, error)
	ForLog(ctx context.Context, userID, logID string) (*model.Chat, error)
	Global(ctx context.Context, userID string) (*model.Chat, error)
}

type chatRepository struct {
	db *sqlx.DB
}

func NewChatRepository(db *sqlx.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, chat *model.Chat) error {
	query := `INSERT INTO chats (id, user_id, goal_id, master_log_id, title, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		chat.ID,
		chat.UserID,
		chat.GoalID,
		chat.MasterLogID,
		chat.Title,
		chat.CreatedAt,
		chat.UpdatedAt,
	)

	return err
}

func (r *chatRepository) ByID(ctx context.Context, userID, chatID string) (*model.Chat, error) {
	return r.get(ctx, `SELECT * FROM chats WHERE id = $1 AND user_id = $2`, chatID, userID)
}

// ForLog returns the chat bound to a log.
func (r *chatRepository) ForLog(ctx context.Context, userID, logID string) (*model.Chat, error) {
	return r.get(ctx, `SELECT * FROM chats WHERE master_log_id = $1 AND user_id = $2 ORDER BY created_at ASC LIMIT 1`, logID, userID)
}

// Global returns the user's oldest chat that is not bound to a log.
func (r *chatRepository) Global(ctx context.Context, userID string) (*model.Chat, error) {
	return r.get(ctx, `SELECT * FROM chats WHERE user_id = $1 AND master_log_id IS NULL ORDER BY created_at ASC LIMIT 1`, userID)
}

func (r *chatRepository) get(ctx context.Context, query string, args ...any) (*model.Chat, error) {
	chat := &model.Chat{}

	err := r.db.GetContext(ctx, chat, query, args...)
	if err == sql.ErrNoRows {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}

	return chat, nil
}
