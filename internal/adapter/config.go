package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ProviderType identifies the remote catalog backend
type ProviderType string

const (
	ProviderTMDB ProviderType = "tmdb"
	ProviderIMDb ProviderType = "imdb"
)

// Config holds all application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Listing ListingConfig `mapstructure:"listing"`
	UI      UIConfig      `mapstructure:"ui"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Cache   CacheConfig   `mapstructure:"cache"`
}

// CatalogConfig holds remote catalog configuration
type CatalogConfig struct {
	Provider ProviderType  `mapstructure:"provider"` // "tmdb" or "imdb"
	BaseURL  string        `mapstructure:"base_url"` // Empty uses the provider default
	Token    string        `mapstructure:"token"`    // TMDB read access token; optional for imdb
	Language string        `mapstructure:"language"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ListingConfig holds the initial browse state
type ListingConfig struct {
	DefaultKind string        `mapstructure:"default_kind"` // all, movie, tv
	DefaultSort string        `mapstructure:"default_sort"` // newest, top_rated
	PageTimeout time.Duration `mapstructure:"page_timeout"`
}

// UIConfig holds terminal UI configuration
type UIConfig struct {
	ScrollThreshold int    `mapstructure:"scroll_threshold"` // Rows from the end that trigger the next page
	Theme           string `mapstructure:"theme"`
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Addr       string        `mapstructure:"addr"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// CacheConfig holds persistent cache configuration
type CacheConfig struct {
	Dir         string        `mapstructure:"dir"`
	GenreTTL    time.Duration `mapstructure:"genre_ttl"`
	DatabaseURL string        `mapstructure:"database_url"` // PostgreSQL DSN; replaces the local cache when set
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Provider: ProviderTMDB,
			Language: "en-US",
			Timeout:  15 * time.Second,
		},
		Listing: ListingConfig{
			DefaultKind: "all",
			DefaultSort: "top_rated",
			PageTimeout: 30 * time.Second,
		},
		UI: UIConfig{
			ScrollThreshold: 5,
			Theme:           "default",
		},
		Server: ServerConfig{
			Addr:       "127.0.0.1:8080",
			SessionTTL: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
		Cache: CacheConfig{
			Dir:      defaultCachePath(),
			GenreTTL: 24 * time.Hour,
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "cinelist", "cinelist.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "cinelist", "cinelist.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "cinelist")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "cinelist")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "cinelist", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "cinelist", "cache")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return loadConfig(viper.GetViper(), defaultConfigPath())
}

func loadConfig(v *viper.Viper, configDir string) (*Config, error) {
	cfg := DefaultConfig()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Environment variable overrides, e.g. CINELIST_CATALOG_TOKEN
	v.SetEnvPrefix("CINELIST")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// bindEnvKeys registers every key so AutomaticEnv is consulted by Unmarshal
// even when the key is absent from the config file.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range configKeys {
		_ = v.BindEnv(key)
	}
}

var envKeyReplacer = strings.NewReplacer(".", "_")

var configKeys = []string{
	"catalog.provider", "catalog.base_url", "catalog.token", "catalog.language", "catalog.timeout",
	"listing.default_kind", "listing.default_sort", "listing.page_timeout",
	"ui.scroll_threshold", "ui.theme",
	"server.addr", "server.session_ttl",
	"logging.file", "logging.level",
	"cache.dir", "cache.genre_ttl", "cache.database_url",
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	return saveConfig(viper.GetViper(), defaultConfigPath(), cfg)
}

func saveConfig(v *viper.Viper, configDir string, cfg *Config) error {
	// Set fields individually to keep snake_case key names
	v.Set("catalog.provider", string(cfg.Catalog.Provider))
	v.Set("catalog.base_url", cfg.Catalog.BaseURL)
	v.Set("catalog.token", cfg.Catalog.Token)
	v.Set("catalog.language", cfg.Catalog.Language)
	v.Set("catalog.timeout", cfg.Catalog.Timeout.String())

	v.Set("listing.default_kind", cfg.Listing.DefaultKind)
	v.Set("listing.default_sort", cfg.Listing.DefaultSort)
	v.Set("listing.page_timeout", cfg.Listing.PageTimeout.String())

	v.Set("ui.scroll_threshold", cfg.UI.ScrollThreshold)
	v.Set("ui.theme", cfg.UI.Theme)

	v.Set("server.addr", cfg.Server.Addr)
	v.Set("server.session_ttl", cfg.Server.SessionTTL.String())

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	v.Set("cache.dir", cfg.Cache.Dir)
	v.Set("cache.genre_ttl", cfg.Cache.GenreTTL.String())
	v.Set("cache.database_url", cfg.Cache.DatabaseURL)

	return writeConfig(v, configDir)
}

// ClearCredentials removes the catalog token while preserving other settings
func ClearCredentials() error {
	v := viper.GetViper()
	v.Set("catalog.token", "")
	return writeConfig(v, defaultConfigPath())
}

func writeConfig(v *viper.Viper, configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configDir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// IsConfigured returns true if the selected provider has what it needs.
// The IMDb API is public; TMDB requires a token.
func (c *Config) IsConfigured() bool {
	switch c.Catalog.Provider {
	case ProviderTMDB:
		return c.Catalog.Token != ""
	case ProviderIMDb:
		return true
	default:
		return false
	}
}

// ClearCache removes all cached data
func ClearCache(dir string) error {
	if dir == "" {
		dir = defaultCachePath()
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
