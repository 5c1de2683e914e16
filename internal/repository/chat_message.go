package repository

import (
	"context"
	"time"

	"github.com/fitcoach/coach/internal/model"
	"github.com/jmoiron/sqlx"
)

type ChatMessageRepository interface {
	Add(ctx context.Context, message *model.ChatMessage) error
	Messages(ctx context.Context, chatID string) ([]*model.ChatMessage, error)
}

type chatMessageRepository struct {
	db *sqlx.DB
}

func NewChatMessageRepository(db *sqlx.DB) ChatMessageRepository {
	return &chatMessageRepository{db: db}
}

// Add inserts the message and touches the chat's updated_at.
func (r *chatMessageRepository) Add(ctx context.Context, message *model.ChatMessage) error {
	query := `INSERT INTO chat_messages (id, chat_id, user_id, sender_type, content, metadata, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		message.ID,
		message.ChatID,
		message.UserID,
		message.SenderType,
		message.Content,
		jsonOrEmpty(message.Metadata),
		message.CreatedAt,
	)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `UPDATE chats SET updated_at = $1 WHERE id = $2`, time.Now().UTC(), message.ChatID)
	return err
}

// Messages returns the chat's messages, oldest first.
func (r *chatMessageRepository) Messages(ctx context.Context, chatID string) ([]*model.ChatMessage, error) {
	messages := []*model.ChatMessage{}
	query := `SELECT * FROM chat_messages WHERE chat_id = $1 ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &messages, query, chatID)
	if err != nil {
		return nil, err
	}

	return messages, nil
}
