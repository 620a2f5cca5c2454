package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/cinelist/internal/adapter"
	"github.com/mmcdole/cinelist/internal/adapter/source"
	"github.com/mmcdole/cinelist/internal/catalog"
	"github.com/mmcdole/cinelist/internal/domain"
	"github.com/mmcdole/cinelist/internal/httpapi"
	"github.com/mmcdole/cinelist/internal/listing"
	"github.com/mmcdole/cinelist/internal/navigation"
	"github.com/mmcdole/cinelist/internal/store"
	"github.com/mmcdole/cinelist/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion, serve, logout bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&serve, "serve", false, "serve the JSON API instead of the terminal UI")
	flag.BoolVar(&logout, "logout", false, "forget the API token and clear the cache")
	flag.Parse()

	if showVersion {
		fmt.Printf("cinelist %s\n", Version)
		return
	}

	if err := run(serve, logout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(serve, logout bool) error {
	// Load configuration
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	if logout {
		return runLogout(cfg, logger)
	}

	logger.Info("starting cinelist", "version", Version, "provider", cfg.Catalog.Provider)

	// Check if configured
	if !cfg.IsConfigured() {
		return runSetupFlow(cfg, logger)
	}

	src, err := source.NewClientFromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create catalog source: %w", err)
	}

	baseURL := cfg.Catalog.BaseURL
	if baseURL == "" {
		baseURL = source.DefaultBaseURL(cfg.Catalog.Provider)
	}
	st := openStore(cfg, baseURL, logger)
	defer st.Close()

	client := catalog.NewClient(src, st, cfg.Cache.GenreTTL, logger)
	defaults := navigation.DefaultsFrom(cfg.Listing.DefaultKind, cfg.Listing.DefaultSort)

	if serve {
		return runServer(cfg, client, defaults, logger)
	}
	return runTUI(cfg, client, st, defaults, logger)
}

// openStore picks the shared database when configured, else the local cache.
// The cache is an optimization; failures fall back to memory.
func openStore(cfg *adapter.Config, baseURL string, logger *slog.Logger) domain.Store {
	if cfg.Cache.DatabaseURL != "" {
		st, err := store.NewPostgresStore(cfg.Cache.DatabaseURL, baseURL, logger)
		if err == nil {
			return st
		}
		logger.Warn("database cache unavailable, using local cache", "error", err)
	}

	st, err := store.NewCatalogStore(cfg.Cache.Dir, baseURL)
	if err != nil {
		logger.Warn("cache unavailable, continuing without it", "error", err)
		st, _ = store.NewCatalogStore("", baseURL)
	}
	return st
}

func runTUI(cfg *adapter.Config, client *catalog.Client, st domain.Store, defaults navigation.Defaults, logger *slog.Logger) error {
	list := listing.New(client, listing.Options{
		PageTimeout: cfg.Listing.PageTimeout,
		Logger:      logger,
	})
	defer list.Close()

	history := navigation.NewHistory(st, logger)
	initial, restored := history.Restore()
	if restored {
		logger.Info("restoring last view", "query", initial)
	}

	model := tui.NewModel(tui.Options{
		Catalog:         client,
		List:            list,
		Binder:          navigation.NewBinder(list, defaults, history, logger),
		History:         history,
		ScrollThreshold: cfg.UI.ScrollThreshold,
		Theme:           cfg.UI.Theme,
		InitialQuery:    initial,
		Logger:          logger,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

func runServer(cfg *adapter.Config, client *catalog.Client, defaults navigation.Defaults, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpapi.New(client, httpapi.Options{
		Addr:        cfg.Server.Addr,
		SessionTTL:  cfg.Server.SessionTTL,
		PageTimeout: cfg.Listing.PageTimeout,
		Defaults:    defaults,
		Logger:      logger,
	})

	fmt.Printf("Serving on http://%s\n", cfg.Server.Addr)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runLogout(cfg *adapter.Config, logger *slog.Logger) error {
	if err := adapter.ClearCredentials(); err != nil {
		return err
	}
	if err := adapter.ClearCache(cfg.Cache.Dir); err != nil {
		return err
	}
	if cfg.Cache.DatabaseURL != "" {
		baseURL := cfg.Catalog.BaseURL
		if baseURL == "" {
			baseURL = source.DefaultBaseURL(cfg.Catalog.Provider)
		}
		st, err := store.NewPostgresStore(cfg.Cache.DatabaseURL, baseURL, logger)
		if err != nil {
			return err
		}
		st.InvalidateAll()
		st.Close()
	}
	logger.Info("credentials and cache cleared")
	fmt.Println("✓ Logged out and cache cleared.")
	return nil
}
