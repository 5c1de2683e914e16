package repository

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/fitcoach/coach/internal/db/dbtest"
	"github.com/fitcoach/coach/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, database *sqlx.DB) *model.User {
	t.Helper()

	now := time.Now().UTC()
	name := gofakeit.FirstName()
	user := &model.User{
		ID:            uuid.New().String(),
		Email:         gofakeit.Email(),
		EmailVerified: true,
		Name:          &name,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, NewUserRepository(database).Create(context.Background(), user))
	return user
}

func newTestGoal(userID string, createdAt time.Time) *model.Goal {
	start := 90.0
	return &model.Goal{
		ID:             uuid.New().String(),
		UserID:         userID,
		GoalType:       model.GoalTypeWeightLoss,
		Description:    gofakeit.Sentence(6),
		StartDate:      createdAt,
		StartWeightKg:  &start,
		TargetWeightKg: 80,
		Status:         model.GoalStatusActive,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	repo := NewUserRepository(database)

	user := createTestUser(t, database)

	got, err := repo.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)
	assert.True(t, got.EmailVerified)
	assert.False(t, got.ProfileComplete())

	got, err = repo.ByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = repo.ByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	dup := *user
	dup.ID = uuid.New().String()
	assert.ErrorIs(t, repo.Create(ctx, &dup), ErrDuplicateEmail)

	gender := "male"
	height := 181.5
	dob := time.Date(1988, 5, 17, 0, 0, 0, 0, time.UTC)
	got.Gender = &gender
	got.HeightCm = &height
	got.DOB = &dob
	before := got.UpdatedAt
	require.NoError(t, repo.UpdateProfile(ctx, got))
	assert.True(t, got.UpdatedAt.After(before) || got.UpdatedAt.Equal(before))

	got, err = repo.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.ProfileComplete())
	assert.InDelta(t, 181.5, *got.HeightCm, 0.001)
	assert.True(t, dob.Equal(*got.DOB))

	require.NoError(t, repo.LinkGoogle(ctx, user.ID, "google-sub-1"))
	got, err = repo.ByGoogleSub(ctx, "google-sub-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	assert.ErrorIs(t, repo.LinkGoogle(ctx, "missing", "x"), ErrUserNotFound)
}

func TestGoalRepository_CreateKeepsSingleActive(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	repo := NewGoalRepository(database)
	user := createTestUser(t, database)

	base := time.Now().UTC().Add(-time.Hour)
	first := newTestGoal(user.ID, base)
	second := newTestGoal(user.ID, base.Add(time.Minute))
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	active, err := repo.Active(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	goals, err := repo.Goals(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, second.ID, goals[0].ID)

	activeCount := 0
	for _, g := range goals {
		if g.IsActive() {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)

	old, err := repo.ByID(ctx, user.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.GoalStatusArchived, old.Status)
	assert.JSONEq(t, `{}`, old.Constraints.String())
}

func TestGoalRepository_UpdateStatusDelete(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	repo := NewGoalRepository(database)
	user := createTestUser(t, database)
	other := createTestUser(t, database)

	goal := newTestGoal(user.ID, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, goal))

	target := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	goal.TargetWeightKg = 75
	goal.Description = "run a marathon"
	goal.TargetDate = &target
	goal.Preferences = types.JSONText(`{"diet":"vegetarian"}`)
	require.NoError(t, repo.Update(ctx, goal))

	got, err := repo.ByID(ctx, user.ID, goal.ID)
	require.NoError(t, err)
	assert.InDelta(t, 75, got.TargetWeightKg, 0.001)
	assert.Equal(t, "run a marathon", got.Description)
	assert.True(t, target.Equal(*got.TargetDate))
	assert.JSONEq(t, `{"diet":"vegetarian"}`, got.Preferences.String())

	// Other users cannot touch the goal.
	foreign := *goal
	foreign.UserID = other.ID
	assert.ErrorIs(t, repo.Update(ctx, &foreign), ErrGoalNotFound)
	assert.ErrorIs(t, repo.SetStatus(ctx, other.ID, goal.ID, model.GoalStatusCompleted), ErrGoalNotFound)

	require.NoError(t, repo.SetStatus(ctx, user.ID, goal.ID, model.GoalStatusCompleted))
	_, err = repo.Active(ctx, user.ID)
	assert.ErrorIs(t, err, ErrGoalNotFound)

	require.NoError(t, repo.Delete(ctx, user.ID, goal.ID))
	assert.ErrorIs(t, repo.Delete(ctx, user.ID, goal.ID), ErrGoalNotFound)
}

func TestLogRepository(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	repo := NewLogRepository(database)
	user := createTestUser(t, database)

	base := time.Now().UTC().Add(-24 * time.Hour)
	var ids []string
	for i := 0; i < 4; i++ {
		note := gofakeit.Sentence(4)
		log := &model.Log{
			ID:           uuid.New().String(),
			UserID:       user.ID,
			LogTimestamp: base.Add(time.Duration(i) * time.Hour),
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
			LogType:      model.LogTypeNote,
			RawText:      &note,
		}
		require.NoError(t, repo.Create(ctx, log))
		ids = append(ids, log.ID)
	}

	got, err := repo.ByID(ctx, user.ID, ids[0])
	require.NoError(t, err)
	assert.Equal(t, model.AIStatusPending, got.AIStatus)
	assert.JSONEq(t, `{}`, got.StructuredData.String())
	assert.Equal(t, model.StringList{}, got.ResourceIDs)
	assert.Nil(t, got.AICoachRemark)

	recent, err := repo.Recent(ctx, user.ID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, ids[3], recent[0].ID)
	assert.Equal(t, ids[2], recent[1].ID)

	all, err := repo.Recent(ctx, user.ID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	from := base.Add(90 * time.Minute)
	between, err := repo.Between(ctx, user.ID, &from, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, between, 2)
	assert.Equal(t, ids[2], between[0].ID)

	lifetime, err := repo.Between(ctx, user.ID, nil, time.Now().UTC())
	require.NoError(t, err)
	assert.Len(t, lifetime, 4)

	remark := types.JSONText(`{"text":"Nice work"}`)
	require.NoError(t, repo.SetAIStatus(ctx, ids[0], model.AIStatusCompleted, &remark))
	got, err = repo.ByID(ctx, user.ID, ids[0])
	require.NoError(t, err)
	assert.Equal(t, model.AIStatusCompleted, got.AIStatus)
	require.NotNil(t, got.AICoachRemark)
	assert.JSONEq(t, `{"text":"Nice work"}`, got.AICoachRemark.String())

	assert.ErrorIs(t, repo.SetAIStatus(ctx, "missing", model.AIStatusFailed, nil), ErrLogNotFound)
	_, err = repo.ByID(ctx, "someone-else", ids[0])
	assert.ErrorIs(t, err, ErrLogNotFound)
}

func TestResourceRepository(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	repo := NewResourceRepository(database)
	user := createTestUser(t, database)

	mime := "image/png"
	size := int64(1024)
	category := string(model.LogTypeFood)
	var ids []string
	for i := 0; i < 2; i++ {
		res := &model.Resource{
			ID:            uuid.New().String(),
			UserID:        user.ID,
			StoragePath:   "private/logs/" + uuid.New().String() + ".png",
			ResourceType:  model.ResourceTypeImage,
			Category:      &category,
			MimeType:      &mime,
			FileSizeBytes: &size,
			CreatedAt:     time.Now().UTC().Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Create(ctx, res))
		ids = append(ids, res.ID)
	}

	got, err := repo.ByID(ctx, user.ID, ids[0])
	require.NoError(t, err)
	assert.Equal(t, model.ResourceTypeImage, got.ResourceType)
	assert.Equal(t, int64(1024), *got.FileSizeBytes)

	list, err := repo.ByIDs(ctx, user.ID, ids)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = repo.ByIDs(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, repo.Delete(ctx, user.ID, ids[0]))
	_, err = repo.ByID(ctx, user.ID, ids[0])
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestChatRepositories(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	chats := NewChatRepository(database)
	messages := NewChatMessageRepository(database)
	logs := NewLogRepository(database)
	user := createTestUser(t, database)

	now := time.Now().UTC()
	log := &model.Log{ID: uuid.New().String(), UserID: user.ID, LogTimestamp: now, CreatedAt: now, LogType: model.LogTypeWeight}
	require.NoError(t, logs.Create(ctx, log))

	_, err := chats.ForLog(ctx, user.ID, log.ID)
	assert.ErrorIs(t, err, ErrChatNotFound)
	_, err = chats.Global(ctx, user.ID)
	assert.ErrorIs(t, err, ErrChatNotFound)

	logChat := &model.Chat{ID: uuid.New().String(), UserID: user.ID, MasterLogID: &log.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, chats.Create(ctx, logChat))
	globalChat := &model.Chat{ID: uuid.New().String(), UserID: user.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, chats.Create(ctx, globalChat))

	got, err := chats.ForLog(ctx, user.ID, log.ID)
	require.NoError(t, err)
	assert.Equal(t, logChat.ID, got.ID)

	got, err = chats.Global(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, globalChat.ID, got.ID)

	_, err = chats.ByID(ctx, "intruder", logChat.ID)
	assert.ErrorIs(t, err, ErrChatNotFound)

	for i, sender := range []model.SenderType{model.SenderUser, model.SenderAI, model.SenderUser} {
		msg := &model.ChatMessage{
			ID:         uuid.New().String(),
			ChatID:     logChat.ID,
			UserID:     user.ID,
			SenderType: sender,
			Content:    gofakeit.Sentence(5),
			CreatedAt:  now.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, messages.Add(ctx, msg))
	}

	list, err := messages.Messages(ctx, logChat.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, model.SenderUser, list[0].SenderType)
	assert.Equal(t, model.SenderAI, list[1].SenderType)
	assert.True(t, list[0].CreatedAt.Before(list[2].CreatedAt))

	empty, err := messages.Messages(ctx, globalChat.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSummaryRepository_ReplaceMarksStale(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	repo := NewSummaryRepository(database)
	user := createTestUser(t, database)

	now := time.Now().UTC()
	first := &model.Summary{ID: uuid.New().String(), UserID: user.ID, ScopeType: model.ScopeWeekly, SummaryText: "week one", Status: model.SummaryStatusActive, CreatedAt: now.Add(-time.Minute)}
	second := &model.Summary{ID: uuid.New().String(), UserID: user.ID, ScopeType: model.ScopeWeekly, SummaryText: "week two", Status: model.SummaryStatusActive, CreatedAt: now}
	monthly := &model.Summary{ID: uuid.New().String(), UserID: user.ID, ScopeType: model.ScopeMonthly, SummaryText: "month", Status: model.SummaryStatusActive, CreatedAt: now}

	require.NoError(t, repo.Replace(ctx, first))
	require.NoError(t, repo.Replace(ctx, monthly))
	require.NoError(t, repo.Replace(ctx, second))

	active, err := repo.Active(ctx, user.ID, model.ScopeWeekly)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	active, err = repo.Active(ctx, user.ID, model.ScopeMonthly)
	require.NoError(t, err)
	assert.Equal(t, monthly.ID, active.ID)

	all, err := repo.Summaries(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, s := range all {
		if s.ID == first.ID {
			assert.Equal(t, model.SummaryStatusStale, s.Status)
		}
	}

	_, err = repo.Active(ctx, user.ID, model.ScopeYearly)
	assert.ErrorIs(t, err, ErrSummaryNotFound)
}

func TestCredentialRepository(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	repo := NewCredentialRepository(database)
	user := createTestUser(t, database)

	cred := &model.Credential{UserID: user.ID, Email: user.Email, PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, cred))
	assert.ErrorIs(t, repo.Create(ctx, cred), ErrDuplicateEmail)

	got, err := repo.ByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.UserID)

	_, err = repo.ByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrCredentialNotFound)
}
