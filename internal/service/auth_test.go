package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fitcoach/coach/internal/auth"
	"github.com/fitcoach/coach/internal/db/dbtest"
	"github.com/fitcoach/coach/internal/model"
	"github.com/fitcoach/coach/internal/repository"
	"github.com/fitcoach/coach/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testDelay = 30 * time.Millisecond

func TestAuthService_ResolveUser_LooksUpAgainAfterDelay(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := NewMockuserStore(ctrl)
	svc := service.NewAuthService(nil, nil, users, auth.NewNotifier(), testDelay, false, false)

	identity := &auth.Identity{UserID: "u1", Email: "jane@example.com"}
	var firstLookup time.Time
	gomock.InOrder(
		users.EXPECT().ByID(gomock.Any(), "u1").DoAndReturn(func(context.Context, string) (*model.User, error) {
			firstLookup = time.Now()
			return nil, repository.ErrUserNotFound
		}),
		users.EXPECT().ByID(gomock.Any(), "u1").DoAndReturn(func(context.Context, string) (*model.User, error) {
			assert.GreaterOrEqual(t, time.Since(firstLookup), testDelay)
			return &model.User{ID: "u1", Email: "jane@example.com"}, nil
		}),
	)

	user, err := svc.ResolveUser(context.Background(), identity)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestAuthService_ResolveUser_FoundRightAway(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := NewMockuserStore(ctrl)
	svc := service.NewAuthService(nil, nil, users, auth.NewNotifier(), time.Hour, false, false)

	users.EXPECT().ByID(gomock.Any(), "u1").Return(&model.User{ID: "u1"}, nil).Times(1)

	user, err := svc.ResolveUser(context.Background(), &auth.Identity{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestAuthService_ResolveUser_StillMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := NewMockuserStore(ctrl)
	svc := service.NewAuthService(nil, nil, users, auth.NewNotifier(), testDelay, false, false)

	// exactly two lookups, no further retries
	users.EXPECT().ByID(gomock.Any(), "u1").Return(nil, repository.ErrUserNotFound).Times(2)

	_, err := svc.ResolveUser(context.Background(), &auth.Identity{UserID: "u1", Email: "jane@example.com"})
	assert.ErrorIs(t, err, service.ErrUserNotProvisioned)
}

func TestAuthService_ResolveUser_Fallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := NewMockuserStore(ctrl)
	notifier := auth.NewNotifier()
	svc := service.NewAuthService(nil, nil, users, notifier, testDelay, true, false)

	var events []auth.Event
	svc.OnAuthStateChange(func(event auth.Event, userID string) {
		events = append(events, event)
	})

	users.EXPECT().ByID(gomock.Any(), "u1").Return(nil, repository.ErrUserNotFound).Times(2)
	users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, user *model.User) error {
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, "jane@example.com", user.Email)
		assert.True(t, user.EmailVerified)
		require.NotNil(t, user.Name)
		assert.Equal(t, "jane", *user.Name)
		return nil
	})

	user, err := svc.ResolveUser(context.Background(), &auth.Identity{UserID: "u1", Email: "jane@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, []auth.Event{auth.EventUserUpdated}, events)
}

func TestAuthService_ResolveUser_ContextCancelledDuringWait(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := NewMockuserStore(ctrl)
	svc := service.NewAuthService(nil, nil, users, auth.NewNotifier(), time.Hour, false, false)

	ctx, cancel := context.WithCancel(context.Background())
	users.EXPECT().ByID(gomock.Any(), "u1").DoAndReturn(func(context.Context, string) (*model.User, error) {
		cancel()
		return nil, repository.ErrUserNotFound
	}).Times(1)

	_, err := svc.ResolveUser(ctx, &auth.Identity{UserID: "u1"})
	assert.ErrorIs(t, err, context.Canceled)
}

func newLocalAuthService(t *testing.T) (*service.AuthService, *auth.Notifier) {
	t.Helper()
	database := dbtest.New(t)
	users := repository.NewUserRepository(database)
	verifier := auth.NewTokenVerifier("secret")
	provider := auth.NewLocalProvider(users, repository.NewCredentialRepository(database), verifier, time.Hour)
	notifier := auth.NewNotifier()
	return service.NewAuthService(provider, verifier, users, notifier, testDelay, false, false), notifier
}

func TestAuthService_SignUpSignInSignOut(t *testing.T) {
	svc, _ := newLocalAuthService(t)
	ctx := context.Background()

	var mu sync.Mutex
	var events []auth.Event
	unsubscribe := svc.OnAuthStateChange(func(event auth.Event, userID string) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, event)
	})

	session, err := svc.SignUp(ctx, "Jane@Example.com", "correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, session.AccessToken)

	user, err := svc.Session(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)

	identity, err := svc.Authenticate(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)

	session, err = svc.SignIn(ctx, "jane@example.com", "correct horse battery")
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx, session.AccessToken))

	unsubscribe()
	_, err = svc.SignIn(ctx, "jane@example.com", "correct horse battery")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []auth.Event{auth.EventSignedUp, auth.EventSignedIn, auth.EventSignedIn, auth.EventSignedOut}, events)
}

func TestAuthService_SignUpValidation(t *testing.T) {
	svc, _ := newLocalAuthService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "not-an-email", "correct horse battery")
	assert.ErrorIs(t, err, service.ErrInvalidEmail)

	_, err = svc.SignUp(ctx, "jane@example.com", "")
	assert.ErrorIs(t, err, auth.ErrPasswordRequired)

	_, err = svc.SignIn(ctx, "jane@example.com", "")
	assert.ErrorIs(t, err, auth.ErrPasswordRequired)
}

func TestAuthService_AuthenticateGoogle(t *testing.T) {
	svc, _ := newLocalAuthService(t)
	ctx := context.Background()

	info := service.GoogleUserInfo{Sub: "google-1", Email: "jane@example.com", EmailVerified: true, Name: "Jane"}
	session, err := svc.AuthenticateGoogle(ctx, info)
	require.NoError(t, err)
	require.NotEmpty(t, session.AccessToken)
	assert.Equal(t, "jane@example.com", session.User.Email)

	// second sign in finds the same account by sub
	again, err := svc.AuthenticateGoogle(ctx, info)
	require.NoError(t, err)
	assert.Equal(t, session.User.UserID, again.User.UserID)

	info.EmailVerified = false
	info.Sub = "google-2"
	info.Email = "other@example.com"
	_, err = svc.AuthenticateGoogle(ctx, info)
	assert.ErrorIs(t, err, service.ErrOAuthEmailUnverified)
}
