package auth

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coocood/freecache"
	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
)

const (
	userCacheSize   = 8 * 1024 * 1024
	userCacheExpire = 60 // seconds
)

// SupabaseProvider talks to a GoTrue compatible auth service.
type SupabaseProvider struct {
	baseURL    string // https://<project>.supabase.co
	client     gotrue.Client
	httpClient *http.Client
	userCache  *freecache.Cache
}

func NewSupabaseProvider(baseURL, anonKey string, httpClient *http.Client) *SupabaseProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &SupabaseProvider{
		baseURL:    baseURL,
		client:     gotrue.New("", anonKey).WithCustomGoTrueURL(baseURL + "/auth/v1"),
		httpClient: httpClient,
		userCache:  freecache.NewCache(userCacheSize),
	}
}

func (p *SupabaseProvider) Name() string {
	return "supabase"
}

// with returns a client whose requests carry ctx and, when set, the user's token.
func (p *SupabaseProvider) with(ctx context.Context, accessToken string) gotrue.Client {
	base := p.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c := p.client.WithClient(http.Client{
		Timeout:   p.httpClient.Timeout,
		Transport: ctxTransport{ctx: ctx, next: base},
	})
	if accessToken != "" {
		c = c.WithToken(accessToken)
	}
	return c
}

type ctxTransport struct {
	ctx  context.Context
	next http.RoundTripper
}

func (t ctxTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.next.RoundTrip(req.WithContext(t.ctx))
}

// statusCode recovers the HTTP status from a gotrue-go error, or 0.
func statusCode(err error) int {
	var code int
	if _, scanErr := fmt.Sscanf(err.Error(), "response status code %d", &code); scanErr != nil {
		return 0
	}
	return code
}

func (p *SupabaseProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if password == "" {
		return nil, ErrPasswordRequired
	}

	resp, err := p.with(ctx, "").SignInWithEmailPassword(email, password)
	if err != nil {
		switch statusCode(err) {
		case http.StatusBadRequest, http.StatusUnauthorized:
			return nil, errors.Join(ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("auth service sign in: %w", err)
	}

	return toSession(resp.Session), nil
}

func (p *SupabaseProvider) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*Session, error) {
	if password == "" {
		return nil, ErrPasswordRequired
	}

	resp, err := p.with(ctx, "").Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data:     metadata,
	})
	if err != nil {
		if statusCode(err) == http.StatusUnprocessableEntity || strings.Contains(err.Error(), "user_already_exists") {
			return nil, errors.Join(ErrEmailTaken, err)
		}
		return nil, fmt.Errorf("auth service sign up: %w", err)
	}

	// email confirmation on: bare user, no session
	session := toSession(resp.Session)
	session.User = toIdentity(resp.User)
	return session, nil
}

func (p *SupabaseProvider) SignOut(ctx context.Context, accessToken string) error {
	p.userCache.Del(cacheKey(accessToken))
	if err := p.with(ctx, accessToken).Logout(); err != nil {
		return fmt.Errorf("auth service sign out: %w", err)
	}
	return nil
}

// User retrieves the identity behind the token. Answers are cached for a minute.
func (p *SupabaseProvider) User(ctx context.Context, accessToken string) (*Identity, error) {
	if accessToken == "" {
		return nil, ErrInvalidSession
	}

	key := cacheKey(accessToken)
	if cached, err := p.userCache.Get(key); err == nil {
		identity := &Identity{}
		if err := json.Unmarshal(cached, identity); err == nil {
			return identity, nil
		}
	}

	resp, err := p.with(ctx, accessToken).GetUser()
	if err != nil {
		switch statusCode(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, errors.Join(ErrInvalidSession, err)
		}
		return nil, fmt.Errorf("auth service user: %w", err)
	}

	identity := toIdentity(resp.User)
	if raw, err := json.Marshal(identity); err == nil {
		if err := p.userCache.Set(key, raw, userCacheExpire); err != nil {
			slog.Debug("failed to cache auth user", "error", err)
		}
	}

	return &identity, nil
}

// AuthorizeURL returns the GoTrue URL that starts a third party sign in.
// The browser follows it, so it is built here rather than requested.
func (p *SupabaseProvider) AuthorizeURL(provider, redirectTo string) string {
	q := url.Values{}
	q.Set("provider", provider)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return p.baseURL + "/auth/v1/authorize?" + q.Encode()
}

func toSession(s types.Session) *Session {
	session := &Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		User:         toIdentity(s.User),
	}
	switch {
	case s.ExpiresAt > 0:
		session.ExpiresAt = time.Unix(s.ExpiresAt, 0)
	case s.ExpiresIn > 0:
		session.ExpiresAt = time.Now().Add(time.Duration(s.ExpiresIn) * time.Second)
	}
	return session
}

func toIdentity(u types.User) Identity {
	identity := Identity{Email: u.Email, Metadata: u.UserMetadata}
	if u.ID != uuid.Nil {
		identity.UserID = u.ID.String()
	}
	return identity
}

func cacheKey(accessToken string) []byte {
	sum := sha256.Sum256([]byte(accessToken))
	return sum[:]
}
