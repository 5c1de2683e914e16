package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fitcoach/coach/internal/auth"
	"github.com/fitcoach/coach/internal/ctxkeys"
	"github.com/fitcoach/coach/internal/model"
	"github.com/fitcoach/coach/internal/service"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=middleware_test

type authenticator interface {
	Authenticate(accessToken string) (*auth.Identity, error)
	ResolveUser(ctx context.Context, identity *auth.Identity) (*model.User, error)
	ClearSessionCookie(w http.ResponseWriter)
}

// AccessToken returns the session token from the Authorization header or the session cookie.
func AccessToken(r *http.Request) (token string, fromCookie bool) {
	header := r.Header.Get("Authorization")
	if scheme, value, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(value), false
	}

	cookie, err := r.Cookie(service.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// AuthMiddleware verifies the session token and adds the user to the context if valid.
// Requests without a valid session continue anonymously.
func AuthMiddleware(authService authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, fromCookie := AccessToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := authService.Authenticate(token)
			if err != nil {
				// Invalid token, clear cookie and continue
				if fromCookie {
					authService.ClearSessionCookie(w)
				}
				next.ServeHTTP(w, r)
				return
			}

			user, err := authService.ResolveUser(r.Context(), identity)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					slog.Warn("session user not resolved", "error", err, "user_id", identity.UserID)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			ctx = ctxkeys.WithAccessToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests. HTMX requests are sent to the
// client app's sign in page and API requests get a JSON 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}

		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Redirect", signInURL(r.Context()))
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"authentication required"}`))
	}
}

func signInURL(ctx context.Context) string {
	if cfg := ctxkeys.Config(ctx); cfg != nil && cfg.SignInURL != "" {
		return cfg.SignInURL
	}
	return "/"
}
