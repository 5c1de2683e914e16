package auth

import (
	"fmt"
	"log/slog"

	"github.com/fitcoach/coach/internal/config"
	"github.com/fitcoach/coach/internal/repository"
)

// NewProvider creates an auth provider based on configuration
func NewProvider(
	cfg *config.Config,
	userRepository repository.UserRepository,
	credentialRepository repository.CredentialRepository,
	verifier *TokenVerifier,
) (Provider, error) {
	provider := cfg.AuthProvider

	slog.Info("initializing auth provider", "provider", provider)

	switch provider {
	case config.AuthProviderSupabase:
		if cfg.SupabaseURL == "" {
			return nil, fmt.Errorf("SUPABASE_URL is required when using Supabase provider")
		}
		if cfg.SupabaseAnonKey == "" {
			return nil, fmt.Errorf("SUPABASE_ANON_KEY is required when using Supabase provider")
		}
		return NewSupabaseProvider(cfg.SupabaseURL, cfg.SupabaseAnonKey, nil), nil

	case config.AuthProviderLocal:
		return NewLocalProvider(userRepository, credentialRepository, verifier, cfg.JWTExpiry), nil

	default:
		return nil, fmt.Errorf("unknown auth provider: %s (supported: supabase, local)", provider)
	}
}
