package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fitcoach/coach/internal/model"
	"github.com/fitcoach/coach/internal/repository"
	"github.com/fitcoach/coach/internal/validation"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// LocalProvider keeps password logins in the application database and
// signs its own access tokens. Meant for development and tests.
type LocalProvider struct {
	userRepository       repository.UserRepository
	credentialRepository repository.CredentialRepository
	verifier             *TokenVerifier
	expiry               time.Duration
}

func NewLocalProvider(
	userRepository repository.UserRepository,
	credentialRepository repository.CredentialRepository,
	verifier *TokenVerifier,
	expiry time.Duration,
) *LocalProvider {
	return &LocalProvider{
		userRepository:       userRepository,
		credentialRepository: credentialRepository,
		verifier:             verifier,
		expiry:               expiry,
	}
}

func (p *LocalProvider) Name() string {
	return "local"
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if password == "" {
		return nil, ErrPasswordRequired
	}
	email = normalizeEmail(email)

	credential, err := p.credentialRepository.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return p.IssueSession(Identity{UserID: credential.UserID, Email: credential.Email})
}

// SignUp creates the users row right away, the way the hosted service's
// provisioning trigger eventually would.
func (p *LocalProvider) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*Session, error) {
	if password == "" {
		return nil, ErrPasswordRequired
	}
	email = normalizeEmail(email)

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, err
	}
	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = p.userRepository.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	err = p.credentialRepository.Create(ctx, &model.Credential{
		UserID:       user.ID,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create credential: %w", err)
	}

	slog.Info("local account created", "user_id", user.ID, "email", email)
	return p.IssueSession(Identity{UserID: user.ID, Email: email, Metadata: metadata})
}

// SignOut is a no-op: local sessions are stateless and end when the cookie is cleared.
func (p *LocalProvider) SignOut(_ context.Context, _ string) error {
	return nil
}

func (p *LocalProvider) User(_ context.Context, accessToken string) (*Identity, error) {
	return p.verifier.Verify(accessToken)
}

func (p *LocalProvider) IssueSession(identity Identity) (*Session, error) {
	token, expiresAt, err := p.verifier.Sign(identity, p.expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Session{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        identity,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
