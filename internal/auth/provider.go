package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPasswordRequired   = errors.New("password is required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

// RegistrationSource is attached to every sign up as user metadata.
const RegistrationSource = "web_campaign"

// Identity is the user as the auth service knows it.
type Identity struct {
	UserID   string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata,omitempty"`
}

// Session is an authenticated session issued by the auth service.
// AccessToken is empty when the service requires email confirmation first.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         Identity  `json:"user"`
}

// Provider defines the interface that all auth services must implement
type Provider interface {
	// SignIn exchanges email and password for a session
	SignIn(ctx context.Context, email, password string) (*Session, error)

	// SignUp registers a new account with the given user metadata
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*Session, error)

	// SignOut revokes the session behind the access token
	SignOut(ctx context.Context, accessToken string) error

	// User retrieves the identity behind the access token
	User(ctx context.Context, accessToken string) (*Identity, error)

	// Name returns the provider name (e.g., "supabase", "local")
	Name() string
}

// SessionIssuer is implemented by providers that can mint sessions for
// identities verified elsewhere, such as a Google OAuth callback.
type SessionIssuer interface {
	IssueSession(identity Identity) (*Session, error)
}

// OAuthRedirector is implemented by providers that run third party sign in themselves.
type OAuthRedirector interface {
	AuthorizeURL(provider, redirectTo string) string
}
