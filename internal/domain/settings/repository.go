package settings

import "context"

// Repository - interface for the app_settings table
type Repository interface {
	Get(ctx context.Context, key string) (Setting, error)
	Upsert(ctx context.Context, setting Setting) (Setting, error)
	List(ctx context.Context) ([]Setting, error)
}

// Service resolves numeric configuration with per-key defaults.
type Service interface {
	// GetNumber returns the configured value for key, or fallback when the
	// key has never been set. Transport errors are propagated.
	GetNumber(ctx context.Context, key string, fallback float64) (float64, error)
	Set(ctx context.Context, key string, value float64) (Setting, error)
	List(ctx context.Context) ([]Setting, error)
}
