package app

import (
	"fmt"
	"log/slog"

	"github.com/fitcoach/coach/internal/auth"
	"github.com/fitcoach/coach/internal/coach"
	"github.com/fitcoach/coach/internal/config"
	"github.com/fitcoach/coach/internal/db"
	"github.com/fitcoach/coach/internal/markdown"
	"github.com/fitcoach/coach/internal/metrics"
	"github.com/fitcoach/coach/internal/middleware"
	"github.com/fitcoach/coach/internal/repository"
	"github.com/fitcoach/coach/internal/service"
	"github.com/fitcoach/coach/internal/storage"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	Registry        *prometheus.Registry
	Metrics         *metrics.Manager
	Markdown        *markdown.Parser
	AuthRateLimiter *middleware.RateLimiter

	AuthService     *service.AuthService
	ProfileService  *service.ProfileService
	EmailService    *service.EmailService
	GoalService     *service.GoalService
	ResourceService *service.ResourceService
	ChatService     *service.ChatService
	LogService      *service.LogService
	SummaryService  *service.SummaryService

	unsubscribe []func()
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to run migrations: %w", err), database.Close())
	}

	// Metrics
	registry := prometheus.NewRegistry()
	if cfg.MetricsEnabled {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	metricsManager := metrics.NewManager(metrics.Namespace, "server", registry)

	// Repositories
	userRepository := repository.NewUserRepository(database)
	credentialRepository := repository.NewCredentialRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	logRepository := repository.NewLogRepository(database)
	resourceRepository := repository.NewResourceRepository(database)
	chatRepository := repository.NewChatRepository(database)
	chatMessageRepository := repository.NewChatMessageRepository(database)
	summaryRepository := repository.NewSummaryRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to initialize storage: %w", err), database.Close())
	}

	// Auth
	verifier := auth.NewTokenVerifier(cfg.JWTSecret)
	provider, err := auth.NewProvider(cfg, userRepository, credentialRepository, verifier)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to initialize auth provider: %w", err), database.Close())
	}
	notifier := auth.NewNotifier()

	// Coach
	md := markdown.NewParser()
	persona, err := coach.DefaultPersona()
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to load coach persona: %w", err), database.Close())
	}
	coachClient := coach.New(coach.Config{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		Temperature: cfg.OpenAITemperature,
	}, persona, metricsManager)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.HomeURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		provider,
		verifier,
		userRepository,
		notifier,
		cfg.AuthProvisionDelay,
		cfg.AuthProvisionFallback,
		cfg.IsProduction(),
	)
	goalService := service.NewGoalService(goalRepository, userRepository, emailService)
	profileService := service.NewProfileService(userRepository, goalService, emailService, notifier)
	resourceService := service.NewResourceService(resourceRepository, fileStorage)
	chatService := service.NewChatService(
		chatRepository,
		chatMessageRepository,
		goalRepository,
		logRepository,
		userRepository,
		coachClient,
		metricsManager,
		cfg.ChatPollInterval,
		cfg.RecentLogLimit,
	)
	logService := service.NewLogService(
		logRepository,
		userRepository,
		goalService,
		resourceService,
		chatService,
		coachClient,
		metricsManager,
	)
	summaryService := service.NewSummaryService(
		summaryRepository,
		logRepository,
		userRepository,
		goalRepository,
		coachClient,
		emailService,
		metricsManager,
	)

	a := &App{
		Cfg:             cfg,
		DB:              database,
		Registry:        registry,
		Metrics:         metricsManager,
		Markdown:        md,
		AuthRateLimiter: middleware.NewRateLimiter(middleware.AuthRateLimit, middleware.AuthRateWindow),
		AuthService:     authService,
		ProfileService:  profileService,
		EmailService:    emailService,
		GoalService:     goalService,
		ResourceService: resourceService,
		ChatService:     chatService,
		LogService:      logService,
		SummaryService:  summaryService,
	}

	a.unsubscribe = append(a.unsubscribe, authService.OnAuthStateChange(func(event auth.Event, userID string) {
		slog.Info("auth state changed", "event", event, "user_id", userID)
		metricsManager.CounterAuthEvents.WithLabelValues(string(event)).Inc()
	}))

	return a, nil
}

func (a *App) Close() error {
	for _, unsubscribe := range a.unsubscribe {
		unsubscribe()
	}
	if a.AuthRateLimiter != nil {
		a.AuthRateLimiter.Stop()
	}
	return db.Close(a.DB)
}
