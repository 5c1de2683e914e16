package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fitcoach/coach/internal/auth"
	"github.com/fitcoach/coach/internal/coach"
	"github.com/fitcoach/coach/internal/ctxkeys"
	"github.com/fitcoach/coach/internal/db/dbtest"
	"github.com/fitcoach/coach/internal/handler"
	"github.com/fitcoach/coach/internal/markdown"
	"github.com/fitcoach/coach/internal/metrics"
	"github.com/fitcoach/coach/internal/model"
	"github.com/fitcoach/coach/internal/repository"
	"github.com/fitcoach/coach/internal/service"
	"github.com/fitcoach/coach/internal/storage"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\x0D\x0A\x1A\x0A\x00\x00\x00\x0DIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// cannedCoach answers every request with the same reply.
type cannedCoach struct {
	reply coach.Reply
}

func (c cannedCoach) Reply(context.Context, coach.Request) coach.Reply {
	return c.reply
}

type testEnv struct {
	db      *sqlx.DB
	users   repository.UserRepository
	storage *storage.Memory

	authService     *service.AuthService
	profileService  *service.ProfileService
	goalService     *service.GoalService
	chatService     *service.ChatService
	logService      *service.LogService
	summaryService  *service.SummaryService
	resourceService *service.ResourceService
}

func newTestEnv(t *testing.T, reply coach.Reply) *testEnv {
	t.Helper()
	database := dbtest.New(t)
	m := metrics.NewTestManager()
	email := service.NewEmailService("", "coach@example.com", "http://localhost:8090", "Coach", true)
	coachClient := cannedCoach{reply: reply}

	users := repository.NewUserRepository(database)
	goals := repository.NewGoalRepository(database)
	logs := repository.NewLogRepository(database)
	chats := repository.NewChatRepository(database)
	messages := repository.NewChatMessageRepository(database)

	env := &testEnv{
		db:      database,
		users:   users,
		storage: storage.NewMemory(),
	}

	notifier := auth.NewNotifier()
	verifier := auth.NewTokenVerifier("secret")
	provider := auth.NewLocalProvider(users, repository.NewCredentialRepository(database), verifier, time.Hour)
	env.authService = service.NewAuthService(provider, verifier, users, notifier, 10*time.Millisecond, false, false)
	env.goalService = service.NewGoalService(goals, users, email)
	env.profileService = service.NewProfileService(users, env.goalService, email, notifier)
	env.resourceService = service.NewResourceService(repository.NewResourceRepository(database), env.storage)
	env.chatService = service.NewChatService(chats, messages, goals, logs, users,
		coachClient, m, 10*time.Millisecond, service.DefaultRecentLogLimit)
	env.logService = service.NewLogService(logs, users, env.goalService, env.resourceService,
		env.chatService, coachClient, m)
	env.summaryService = service.NewSummaryService(repository.NewSummaryRepository(database), logs, users, goals,
		coachClient, email, m)

	return env
}

func (e *testEnv) createUser(t *testing.T) *model.User {
	t.Helper()
	now := time.Now().UTC()
	email := uuid.NewString()[:8] + "@example.com"
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

func (e *testEnv) chatHandler() *handler.ChatHandler {
	return handler.NewChatHandler(e.chatService, markdown.NewParser())
}

// serve runs h for user the way the auth middleware would.
func serve(h http.HandlerFunc, user *model.User, req *http.Request) *httptest.ResponseRecorder {
	if user != nil {
		req = req.WithContext(ctxkeys.WithUser(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var r io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

var okReply = coach.Reply{Text: "Nice **work**!", Outcome: coach.OutcomeOK}
