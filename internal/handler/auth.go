package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fitcoach/coach/internal/auth"
	"github.com/fitcoach/coach/internal/config"
	"github.com/fitcoach/coach/internal/ctxkeys"
	"github.com/fitcoach/coach/internal/middleware"
	"github.com/fitcoach/coach/internal/model"
	"github.com/fitcoach/coach/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	oauthStateCookie  = "oauth_state"
	googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

type AuthHandler struct {
	authService       *service.AuthService
	profileService    *service.ProfileService
	googleOAuthConfig *oauth2.Config
	homeURL           string
	onboardingURL     string
}

func NewAuthHandler(authService *service.AuthService, profileService *service.ProfileService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		profileService: profileService,
		googleOAuthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		homeURL:       cfg.HomeURL,
		onboardingURL: cfg.OnboardingURL,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User                 *model.User               `json:"user,omitempty"`
	ConfirmationRequired bool                      `json:"confirmation_required,omitempty"`
	Onboarding           *service.OnboardingStatus `json:"onboarding,omitempty"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.authService.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Email confirmation pending, no session yet
	if session.AccessToken == "" {
		writeJSON(w, http.StatusCreated, sessionResponse{ConfirmationRequired: true})
		return
	}

	h.authService.SetSessionCookie(w, session)
	h.writeSession(w, r, http.StatusCreated, session)
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.authService.SetSessionCookie(w, session)
	h.writeSession(w, r, http.StatusOK, session)
}

// writeSession resolves the application user behind a fresh session.
func (h *AuthHandler) writeSession(w http.ResponseWriter, r *http.Request, status int, session *auth.Session) {
	user, err := h.authService.ResolveUser(r.Context(), &session.User)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, h.sessionResponse(r, user))
}

func (h *AuthHandler) sessionResponse(r *http.Request, user *model.User) sessionResponse {
	resp := sessionResponse{User: user}
	onboarding, err := h.profileService.OnboardingStatus(r.Context(), user.ID)
	if err != nil {
		slog.Warn("failed to check onboarding status", "error", err, "user_id", user.ID)
		return resp
	}
	resp.Onboarding = onboarding
	return resp
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.AccessToken(r)
	if token != "" {
		err := h.authService.SignOut(r.Context(), token)
		if err != nil {
			slog.Warn("sign out failed", "error", err)
		}
	}
	h.authService.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	writeJSON(w, http.StatusOK, h.sessionResponse(r, user))
}

// GoogleAuth hands off to the auth service's own Google flow when it runs one,
// otherwise starts the OAuth code flow here.
func (h *AuthHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	if url, ok := h.authService.GoogleRedirectURL(h.homeURL); ok {
		http.Redirect(w, r, url, http.StatusTemporaryRedirect)
		return
	}

	if h.googleOAuthConfig.ClientID == "" {
		writeError(w, r, service.ErrOAuthNotSupported)
		return
	}

	state := generateOAuthState()

	cfg := ctxkeys.Config(r.Context())
	isProduction := cfg != nil && cfg.IsProduction()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	url := h.googleOAuthConfig.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value != state || state == "" {
		slog.Warn("google oauth state validation failed", "error", err)
		writeMessage(w, http.StatusBadRequest, "OAuth authentication failed. Please try again.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   oauthStateCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("google oauth callback missing code")
		writeMessage(w, http.StatusBadRequest, "OAuth authentication failed. Please try again.")
		return
	}

	token, err := h.googleOAuthConfig.Exchange(r.Context(), code)
	if err != nil {
		slog.Error("google oauth token exchange failed", "error", err)
		writeMessage(w, http.StatusBadGateway, "OAuth authentication failed. Please try again.")
		return
	}

	client := h.googleOAuthConfig.Client(r.Context(), token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		slog.Error("failed to get google user info", "error", err)
		writeMessage(w, http.StatusBadGateway, "OAuth authentication failed. Please try again.")
		return
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	var info service.GoogleUserInfo
	err = json.NewDecoder(resp.Body).Decode(&info)
	if err != nil {
		slog.Error("failed to decode google user info", "error", err)
		writeMessage(w, http.StatusBadGateway, "OAuth authentication failed. Please try again.")
		return
	}

	session, err := h.authService.AuthenticateGoogle(r.Context(), info)
	if err != nil {
		slog.Error("google authentication failed", "error", err, "email", info.Email)
		writeMessage(w, http.StatusUnauthorized, "Authentication failed. Please try again.")
		return
	}

	h.authService.SetSessionCookie(w, session)
	slog.Info("user signed in with google", "user_id", session.User.UserID)

	onboarding, err := h.profileService.OnboardingStatus(r.Context(), session.User.UserID)
	if err != nil {
		slog.Warn("failed to check onboarding status", "error", err, "user_id", session.User.UserID)
	}
	if onboarding != nil && !onboarding.Complete {
		http.Redirect(w, r, h.onboardingURL, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, h.homeURL, http.StatusSeeOther)
}

func generateOAuthState() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
