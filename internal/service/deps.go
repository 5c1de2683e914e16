package service

import (
	"context"
	"time"

	"github.com/fitcoach/coach/internal/coach"
	"github.com/fitcoach/coach/internal/model"
	"github.com/jmoiron/sqlx/types"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=service_test

type coachClient interface {
	Reply(ctx context.Context, req coach.Request) coach.Reply
}

type userStore interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByGoogleSub(ctx context.Context, sub string) (*model.User, error)
	LinkGoogle(ctx context.Context, userID, sub string) error
}

type logStore interface {
	Create(ctx context.Context, log *model.Log) error
	ByID(ctx context.Context, userID, logID string) (*model.Log, error)
	Recent(ctx context.Context, userID string, limit int) ([]*model.Log, error)
	Between(ctx context.Context, userID string, from *time.Time, to time.Time) ([]*model.Log, error)
	SetAIStatus(ctx context.Context, logID string, status model.AIStatus, remark *types.JSONText) error
}
