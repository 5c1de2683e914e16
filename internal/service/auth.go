package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fitcoach/coach/internal/auth"
	"github.com/fitcoach/coach/internal/model"
	"github.com/fitcoach/coach/internal/repository"
	"github.com/fitcoach/coach/internal/validation"
	"github.com/google/uuid"
)

const SessionCookieName = "auth_token"

var (
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrUserNotProvisioned   = errors.New("user record missing after sign in")
	ErrOAuthNotSupported    = errors.New("third party sign in is not available for this auth provider")
	ErrOAuthEmailUnverified = errors.New("google account email is not verified")
)

type AuthService struct {
	provider          auth.Provider
	verifier          *auth.TokenVerifier
	users             userStore
	notifier          *auth.Notifier
	provisionDelay    time.Duration
	provisionFallback bool
	isProduction      bool
}

func NewAuthService(
	provider auth.Provider,
	verifier *auth.TokenVerifier,
	users userStore,
	notifier *auth.Notifier,
	provisionDelay time.Duration,
	provisionFallback bool,
	isProduction bool,
) *AuthService {
	return &AuthService{
		provider:          provider,
		verifier:          verifier,
		users:             users,
		notifier:          notifier,
		provisionDelay:    provisionDelay,
		provisionFallback: provisionFallback,
		isProduction:      isProduction,
	}
}

func (s *AuthService) ProviderName() string {
	return s.provider.Name()
}

// SignUp registers the account with the auth service. The returned session
// has no access token when the service asks for email confirmation first.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*auth.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, ErrInvalidEmail
	}

	session, err := s.provider.SignUp(ctx, email, password, map[string]any{
		"registration_source": auth.RegistrationSource,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("user signed up", "provider", s.provider.Name(), "user_id", session.User.UserID, "confirmed", session.AccessToken != "")
	s.notifier.Notify(auth.EventSignedUp, session.User.UserID)
	if session.AccessToken != "" {
		s.notifier.Notify(auth.EventSignedIn, session.User.UserID)
	}
	return session, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	session, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(auth.EventSignedIn, session.User.UserID)
	return session, nil
}

func (s *AuthService) SignOut(ctx context.Context, accessToken string) error {
	var userID string
	if identity, err := s.verifier.Verify(accessToken); err == nil {
		userID = identity.UserID
	}

	err := s.provider.SignOut(ctx, accessToken)
	if err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}

	s.notifier.Notify(auth.EventSignedOut, userID)
	return nil
}

// Authenticate verifies an access token locally, without calling the auth service.
func (s *AuthService) Authenticate(accessToken string) (*auth.Identity, error) {
	return s.verifier.Verify(accessToken)
}

// Session retrieves the session's identity from the auth service and
// resolves the application user behind it.
func (s *AuthService) Session(ctx context.Context, accessToken string) (*model.User, error) {
	identity, err := s.provider.User(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return s.ResolveUser(ctx, identity)
}

// ResolveUser loads the users row for identity. The row is provisioned
// asynchronously after sign up, so a missing row is looked up exactly once
// more after the provisioning delay.
func (s *AuthService) ResolveUser(ctx context.Context, identity *auth.Identity) (*model.User, error) {
	user, err := s.users.ByID(ctx, identity.UserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	slog.Info("user not found yet, waiting for provisioning", "user_id", identity.UserID, "delay", s.provisionDelay)
	timer := time.NewTimer(s.provisionDelay)
	select {
	case <-ctx.Done():
		timer.Stop()
		return nil, ctx.Err()
	case <-timer.C:
	}

	user, err = s.users.ByID(ctx, identity.UserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.provisionFallback {
		slog.Error("user record missing after provisioning wait", "user_id", identity.UserID)
		return nil, ErrUserNotProvisioned
	}

	return s.provisionUser(ctx, identity)
}

func (s *AuthService) provisionUser(ctx context.Context, identity *auth.Identity) (*model.User, error) {
	now := time.Now().UTC()
	name := model.DefaultName(identity.Email)
	user := &model.User{
		ID:            identity.UserID,
		Email:         identity.Email,
		EmailVerified: true,
		Name:          &name,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.users.Create(ctx, user)
	if err != nil {
		return nil, errors.Join(ErrUserNotProvisioned, err)
	}

	slog.Warn("user record created by fallback", "user_id", user.ID, "email", user.Email)
	s.notifier.Notify(auth.EventUserUpdated, user.ID)
	return user, nil
}

// OnAuthStateChange registers fn for auth events and returns its unsubscribe func.
func (s *AuthService) OnAuthStateChange(fn auth.Listener) func() {
	return s.notifier.Subscribe(fn)
}

// GoogleUserInfo is the subset of Google's userinfo answer we use.
type GoogleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleRedirectURL returns the auth service's own Google sign in URL, if it runs one.
func (s *AuthService) GoogleRedirectURL(redirectTo string) (string, bool) {
	redirector, ok := s.provider.(auth.OAuthRedirector)
	if !ok {
		return "", false
	}
	return redirector.AuthorizeURL("google", redirectTo), true
}

// AuthenticateGoogle finds or creates the user for a verified Google account
// and issues a session for it.
func (s *AuthService) AuthenticateGoogle(ctx context.Context, info GoogleUserInfo) (*auth.Session, error) {
	issuer, ok := s.provider.(auth.SessionIssuer)
	if !ok {
		return nil, ErrOAuthNotSupported
	}
	if !info.EmailVerified {
		return nil, ErrOAuthEmailUnverified
	}
	email := strings.TrimSpace(strings.ToLower(info.Email))

	user, err := s.users.ByGoogleSub(ctx, info.Sub)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrUserNotFound):
		user, err = s.users.ByEmail(ctx, email)
		if err == nil {
			err = s.users.LinkGoogle(ctx, user.ID, info.Sub)
			if err != nil {
				return nil, fmt.Errorf("failed to link google account: %w", err)
			}
			break
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to lookup user: %w", err)
		}

		now := time.Now().UTC()
		user = &model.User{
			ID:            uuid.New().String(),
			GoogleSub:     &info.Sub,
			Email:         email,
			EmailVerified: true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if info.Name != "" {
			user.Name = &info.Name
		}
		if info.Picture != "" {
			user.PictureURL = &info.Picture
		}
		err = s.users.Create(ctx, user)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		slog.Info("new google user created", "user_id", user.ID, "email", email)
		s.notifier.Notify(auth.EventSignedUp, user.ID)
	default:
		return nil, fmt.Errorf("failed to lookup user: %w", err)
	}

	session, err := issuer.IssueSession(auth.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(auth.EventSignedIn, user.ID)
	return session, nil
}

func (s *AuthService) SetSessionCookie(w http.ResponseWriter, session *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.AccessToken,
		Expires:  session.ExpiresAt,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}
