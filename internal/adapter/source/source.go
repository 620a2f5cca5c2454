package source

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/cinelist/internal/adapter"
	"github.com/mmcdole/cinelist/internal/adapter/source/imdb"
	"github.com/mmcdole/cinelist/internal/adapter/source/tmdb"
	"github.com/mmcdole/cinelist/internal/domain"
)

// SourceConfig contains the configuration needed to create a CatalogSource
type SourceConfig struct {
	Provider adapter.ProviderType
	BaseURL  string // Empty uses the provider default
	Token    string
	Language string // TMDB only
	Timeout  time.Duration
}

// NewClient creates a CatalogSource for the configured provider.
// This factory function abstracts away the specific backend implementation.
func NewClient(cfg *SourceConfig, logger *slog.Logger) (domain.CatalogSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("source config is nil")
	}

	switch cfg.Provider {
	case adapter.ProviderTMDB:
		if cfg.Token == "" {
			return nil, fmt.Errorf("tmdb requires an API token: %w", domain.ErrNotConfigured)
		}
		return tmdb.NewClient(cfg.BaseURL, cfg.Token, cfg.Language, cfg.Timeout, logger), nil

	case adapter.ProviderIMDb:
		return imdb.NewClient(cfg.BaseURL, cfg.Token, cfg.Timeout, logger), nil

	default:
		return nil, fmt.Errorf("unknown catalog provider %q: %w", cfg.Provider, domain.ErrNotConfigured)
	}
}

// NewClientFromConfig creates a CatalogSource from the application config
func NewClientFromConfig(cfg *adapter.Config, logger *slog.Logger) (domain.CatalogSource, error) {
	return NewClient(&SourceConfig{
		Provider: cfg.Catalog.Provider,
		BaseURL:  cfg.Catalog.BaseURL,
		Token:    cfg.Catalog.Token,
		Language: cfg.Catalog.Language,
		Timeout:  cfg.Catalog.Timeout,
	}, logger)
}

// DefaultBaseURL returns the API root used when no base URL is configured
func DefaultBaseURL(provider adapter.ProviderType) string {
	switch provider {
	case adapter.ProviderIMDb:
		return imdb.DefaultBaseURL
	default:
		return tmdb.DefaultBaseURL
	}
}
