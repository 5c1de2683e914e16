package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/fitcoach/coach/internal/db/dbtest"
	"github.com/fitcoach/coach/internal/metrics"
	"github.com/fitcoach/coach/internal/model"
	"github.com/fitcoach/coach/internal/repository"
	"github.com/fitcoach/coach/internal/service"
	"github.com/fitcoach/coach/internal/storage"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var pngHeader = []byte("\x89PNG\x0D\x0A\x1A\x0A\x00\x00\x00\x0DIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type testEnv struct {
	db        *sqlx.DB
	users     repository.UserRepository
	goals     repository.GoalRepository
	logs      repository.LogRepository
	chats     repository.ChatRepository
	messages  repository.ChatMessageRepository
	resources repository.ResourceRepository
	summaries repository.SummaryRepository
	storage   *storage.Memory
	metrics   *metrics.Manager
	coach     *MockcoachClient
	email     *service.EmailService

	goalService     *service.GoalService
	resourceService *service.ResourceService
	chatService     *service.ChatService
	logService      *service.LogService
	summaryService  *service.SummaryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := dbtest.New(t)
	ctrl := gomock.NewController(t)

	env := &testEnv{
		db:        database,
		users:     repository.NewUserRepository(database),
		goals:     repository.NewGoalRepository(database),
		logs:      repository.NewLogRepository(database),
		chats:     repository.NewChatRepository(database),
		messages:  repository.NewChatMessageRepository(database),
		resources: repository.NewResourceRepository(database),
		summaries: repository.NewSummaryRepository(database),
		storage:   storage.NewMemory(),
		metrics:   metrics.NewTestManager(),
		coach:     NewMockcoachClient(ctrl),
		email:     service.NewEmailService("", "coach@example.com", "http://localhost:8090", "Coach", true),
	}

	env.goalService = service.NewGoalService(env.goals, env.users, env.email)
	env.resourceService = service.NewResourceService(env.resources, env.storage)
	env.chatService = service.NewChatService(env.chats, env.messages, env.goals, env.logs, env.users,
		env.coach, env.metrics, 10*time.Millisecond, service.DefaultRecentLogLimit)
	env.logService = service.NewLogService(env.logs, env.users, env.goalService, env.resourceService,
		env.chatService, env.coach, env.metrics)
	env.summaryService = service.NewSummaryService(env.summaries, env.logs, env.users, env.goals,
		env.coach, env.email, env.metrics)

	return env
}

func (e *testEnv) createUser(t *testing.T, email string) *model.User {
	t.Helper()
	now := time.Now().UTC()
	name := model.DefaultName(email)
	user := &model.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      &name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) createLog(t *testing.T, userID string, logType model.LogType, at time.Time, data string) *model.Log {
	t.Helper()
	entry := &model.Log{
		ID:             uuid.New().String(),
		UserID:         userID,
		LogTimestamp:   at,
		CreatedAt:      at,
		LogType:        logType,
		StructuredData: []byte(data),
	}
	require.NoError(t, e.logs.Create(context.Background(), entry))
	return entry
}

func ptr[T any](v T) *T {
	return &v
}

func (e *testEnv) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}
