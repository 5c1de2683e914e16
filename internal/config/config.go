package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	AuthProviderSupabase = "supabase"
	AuthProviderLocal    = "local"

	StorageDriverS3     = "s3"
	StorageDriverMemory = "memory"
)

type Config struct {
	// Application
	AppName      string
	AppEnv       string
	AppURL       string
	Port         string
	SupportEmail string

	// Client app pages the server redirects to and links from emails
	HomeURL       string
	OnboardingURL string
	SignInURL     string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Auth
	AuthProvider          string // "supabase" or "local"
	SupabaseURL           string
	SupabaseAnonKey       string
	JWTSecret             string // Supabase JWT secret, or the local signing secret
	JWTExpiry             time.Duration
	AuthProvisionDelay    time.Duration // Wait before the single re-lookup of a freshly signed up user
	AuthProvisionFallback bool          // Create the user row ourselves if it is still missing after the re-lookup

	// OAuth
	GoogleClientID     string
	GoogleClientSecret string

	// Coach (hosted chat completion)
	OpenAIAPIKey      string // Optional: coach answers with an apology when missing
	OpenAIBaseURL     string
	OpenAIModel       string
	OpenAITemperature *float64 // nil keeps the persona's temperature

	// Chat
	ChatPollInterval time.Duration
	RecentLogLimit   int // Logs included in the coach prompt for chat replies

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN      string
	MetricsEnabled bool

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.)
	StorageDriver          string // "s3" or "memory" (development only)
	S3Region               string
	S3Bucket               string
	S3AccessKey            string
	S3SecretKey            string
	S3Endpoint             string        // Optional: for S3-compatible services (MinIO, DO Spaces, R2, etc.)
	S3PresignExpiryPrivate time.Duration // Expiry for log photos and documents - default: 1 hour
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:      envString("APP_NAME", "Coach"),
		AppEnv:       envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:       envRequired("APP_URL"), // Required: base URL for email links and OAuth redirects
		Port:         envString("PORT", "8090"),
		SupportEmail: envString("SUPPORT_EMAIL", "hello@example.com"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/coach.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Auth
		AuthProvider:          envString("AUTH_PROVIDER", AuthProviderSupabase),
		SupabaseURL:           envString("SUPABASE_URL", ""),
		SupabaseAnonKey:       envString("SUPABASE_ANON_KEY", ""),
		JWTSecret:             envRequired("JWT_SECRET"),
		JWTExpiry:             envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days
		AuthProvisionDelay:    envDuration("AUTH_PROVISION_DELAY", time.Second),
		AuthProvisionFallback: envBool("AUTH_PROVISION_FALLBACK", false),

		// OAuth
		GoogleClientID:     envString("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: envString("GOOGLE_CLIENT_SECRET", ""),

		// Coach
		OpenAIAPIKey:      envString("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     envString("OPENAI_BASE_URL", ""),
		OpenAIModel:       envString("OPENAI_MODEL", "gpt-4o"),
		OpenAITemperature: envFloatPtr("OPENAI_TEMPERATURE"),

		// Chat
		ChatPollInterval: envDuration("CHAT_POLL_INTERVAL", 2*time.Second),
		RecentLogLimit:   envInt("RECENT_LOG_LIMIT", 5),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "coach@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Observability
		SentryDSN:      envString("SENTRY_DSN", ""),
		MetricsEnabled: envBool("METRICS_ENABLED", true),

		// Storage
		StorageDriver:          envString("STORAGE_DRIVER", StorageDriverS3),
		S3Endpoint:             envString("S3_ENDPOINT", ""),
		S3PresignExpiryPrivate: envDuration("S3_PRESIGN_EXPIRY_PRIVATE", 1*time.Hour),
	}

	// Client app pages default to the app URL
	base := strings.TrimSuffix(cfg.AppURL, "/")
	cfg.HomeURL = envString("APP_HOME_URL", base+"/")
	cfg.OnboardingURL = envString("APP_ONBOARDING_URL", base+"/onboarding")
	cfg.SignInURL = envString("APP_SIGNIN_URL", base+"/signin")

	// S3 credentials are required unless files are kept in memory
	if cfg.StorageDriver == StorageDriverS3 {
		cfg.S3Region = envRequired("S3_REGION")
		cfg.S3Bucket = envRequired("S3_BUCKET")
		cfg.S3AccessKey = envRequired("S3_ACCESS_KEY")
		cfg.S3SecretKey = envRequired("S3_SECRET_KEY")
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production deployments.
// Development allows email to log instead of send, and the local auth provider.
func validateProduction(cfg *Config) {
	if cfg.StorageDriver != StorageDriverS3 {
		slog.Error("production deployment requires STORAGE_DRIVER=s3")
		os.Exit(1)
	}
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
	if cfg.AuthProvider == AuthProviderSupabase && (cfg.SupabaseURL == "" || cfg.SupabaseAnonKey == "") {
		slog.Error("production deployment requires SUPABASE_URL and SUPABASE_ANON_KEY",
			"hint", "set AUTH_PROVIDER=local for development without an auth service")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envFloatPtr(key string) *float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("config invalid float, ignoring", "key", key, "value", v)
		return nil
	}
	return &f
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx and client-facing responses.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:      c.AppName,
		AppEnv:       c.AppEnv,
		AppURL:       c.AppURL,
		Port:         c.Port,
		SupportEmail: c.SupportEmail,

		HomeURL:       c.HomeURL,
		OnboardingURL: c.OnboardingURL,
		SignInURL:     c.SignInURL,

		AuthProvider:    c.AuthProvider,
		SupabaseURL:     c.SupabaseURL,
		SupabaseAnonKey: c.SupabaseAnonKey, // anon key is the browser-facing key

		GoogleClientID: c.GoogleClientID,

		OpenAIModel:      c.OpenAIModel,
		ChatPollInterval: c.ChatPollInterval,

		EmailFrom: c.EmailFrom,
	}
}
