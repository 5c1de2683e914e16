package routes

import (
	"net/http"

	"github.com/fitcoach/coach/internal/app"
	"github.com/fitcoach/coach/internal/handler"
	"github.com/fitcoach/coach/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.ProfileService, app.Cfg)
	profile := handler.NewProfileHandler(app.ProfileService)
	goal := handler.NewGoalHandler(app.GoalService)
	logs := handler.NewLogHandler(app.LogService)
	chat := handler.NewChatHandler(app.ChatService, app.Markdown)
	resource := handler.NewResourceHandler(app.ResourceService)
	summary := handler.NewSummaryHandler(app.SummaryService)
	health := handler.NewHealthHandler(app.DB)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)
	if app.Cfg.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}))
	}

	// Auth actions (rate limited)
	rateLimit := middleware.RateLimit(app.AuthRateLimiter)

	mux.HandleFunc("POST /auth/signup", rateLimit(auth.SignUp))
	mux.HandleFunc("POST /auth/signin", rateLimit(auth.SignIn))
	mux.HandleFunc("POST /auth/signout", auth.SignOut)
	mux.HandleFunc("GET /auth/session", middleware.RequireAuth(auth.Session))

	// OAuth
	mux.HandleFunc("GET /auth/google", rateLimit(auth.GoogleAuth))
	mux.HandleFunc("GET /auth/google/callback", rateLimit(auth.GoogleCallback))

	// ============================================================================
	// API (/api/*)
	// ============================================================================

	// Profile & onboarding
	mux.HandleFunc("GET /api/profile", middleware.RequireAuth(profile.Profile))
	mux.HandleFunc("PATCH /api/profile", middleware.RequireAuth(profile.Update))
	mux.HandleFunc("GET /api/onboarding", middleware.RequireAuth(profile.OnboardingStatus))
	mux.HandleFunc("POST /api/onboarding", middleware.RequireAuth(profile.CompleteOnboarding))

	// Goals
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.Goals))
	mux.HandleFunc("GET /api/goals/active", middleware.RequireAuth(goal.Active))
	mux.HandleFunc("GET /api/goals/{id}", middleware.RequireAuth(goal.Goal))
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("PATCH /api/goals/{id}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("POST /api/goals/{id}/complete", middleware.RequireAuth(goal.Complete))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goal.Delete))

	// Logs
	mux.HandleFunc("GET /api/dashboard", middleware.RequireAuth(logs.Dashboard))
	mux.HandleFunc("GET /api/logs", middleware.RequireAuth(logs.Logs))
	mux.HandleFunc("GET /api/logs/export", middleware.RequireAuth(logs.Export))
	mux.HandleFunc("GET /api/logs/{id}", middleware.RequireAuth(logs.Log))
	mux.HandleFunc("POST /api/logs", middleware.RequireAuth(logs.Submit))
	mux.HandleFunc("GET /api/logs/{id}/chat", middleware.RequireAuth(chat.ForLog))

	// Chats
	mux.HandleFunc("GET /api/chats/global", middleware.RequireAuth(chat.Global))
	mux.HandleFunc("GET /api/chats/{id}/messages", middleware.RequireAuth(chat.Messages))
	mux.HandleFunc("POST /api/chats/{id}/messages", middleware.RequireAuth(chat.Send))
	mux.HandleFunc("GET /api/chats/{id}/stream", middleware.RequireAuth(chat.Stream))

	// Resources
	mux.HandleFunc("POST /api/resources", middleware.RequireAuth(resource.Upload))
	mux.HandleFunc("GET /api/resources/{id}", middleware.RequireAuth(resource.Resource))
	mux.HandleFunc("DELETE /api/resources/{id}", middleware.RequireAuth(resource.Delete))

	// Summaries
	mux.HandleFunc("GET /api/summaries", middleware.RequireAuth(summary.Summaries))
	mux.HandleFunc("GET /api/summaries/{scope}", middleware.RequireAuth(summary.Active))
	mux.HandleFunc("POST /api/summaries", middleware.RequireAuth(summary.Generate))

	// ============================================================================
	// HTMX CHAT (/app/*)
	// ============================================================================

	mux.HandleFunc("GET /app/chats/{id}", middleware.RequireAuth(chat.ChatPage))
	mux.HandleFunc("GET /app/chats/{id}/feed", middleware.RequireAuth(chat.Feed))

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.PanicRecovery(app.Metrics),
		middleware.RequestMetrics(app.Metrics),
		middleware.Config(app.Cfg),
		middleware.NonceMiddleware, // must be before SecurityHeaders
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.CSRFProtection,
		middleware.AuthMiddleware(app.AuthService),
	)

	return handler
}
