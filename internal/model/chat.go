package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

type SenderType string

const (
	SenderUser   SenderType = "USER"
	SenderAI     SenderType = "AI"
	SenderSystem SenderType = "SYSTEM"
)

type Chat struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	GoalID      *string   `db:"goal_id" json:"goal_id"`
	MasterLogID *string   `db:"master_log_id" json:"master_log_id"`
	Title       *string   `db:"title" json:"title"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type ChatMessage struct {
	ID         string         `db:"id" json:"id"`
	ChatID     string         `db:"chat_id" json:"chat_id"`
	UserID     string         `db:"user_id" json:"user_id"`
	SenderType SenderType     `db:"sender_type" json:"sender_type"`
	Content    string         `db:"content" json:"content"`
	Metadata   types.JSONText `db:"metadata" json:"metadata"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}
