package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/mmcdole/cinelist/internal/adapter"
	"github.com/mmcdole/cinelist/internal/adapter/source"
	"github.com/mmcdole/cinelist/internal/domain"
	"github.com/mmcdole/cinelist/internal/tui/styles"
)

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

// runSetupFlow handles the initial setup when not configured
func runSetupFlow(cfg *adapter.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to cinelist!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	provider, err := promptProvider(reader, cfg.Catalog.Provider)
	if err != nil {
		return err
	}

	for {
		var token string
		if provider == adapter.ProviderTMDB {
			fmt.Println("Create a read access token at https://www.themoviedb.org/settings/api")
			fmt.Print("API token: ")
			tokenBytes, err := term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				return fmt.Errorf("failed to read token: %w", err)
			}
			fmt.Println() // Add newline after hidden input
			token = strings.TrimSpace(string(tokenBytes))
			if token == "" {
				fmt.Println("The token cannot be empty. Please try again.")
				continue
			}
		}

		fmt.Println()
		err := verifyWithSpinner(&source.SourceConfig{
			Provider: provider,
			BaseURL:  cfg.Catalog.BaseURL,
			Token:    token,
			Language: cfg.Catalog.Language,
			Timeout:  cfg.Catalog.Timeout,
		}, logger)
		if err != nil {
			fmt.Printf("✗ %s\n\n", domain.UserMessage(err))
			logger.Warn("setup verification failed", "provider", provider, "error", err)
			if provider == adapter.ProviderTMDB {
				continue
			}
			return err
		}

		cfg.Catalog.Provider = provider
		cfg.Catalog.Token = token
		if err := adapter.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		break
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run cinelist again to start browsing.")

	return nil
}

func promptProvider(reader *bufio.Reader, current adapter.ProviderType) (adapter.ProviderType, error) {
	if current == "" {
		current = adapter.ProviderTMDB
	}
	for {
		fmt.Printf("Catalog provider [tmdb/imdb] (%s): ", current)
		input, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(input)) {
		case "":
			return current, nil
		case "tmdb":
			return adapter.ProviderTMDB, nil
		case "imdb":
			return adapter.ProviderIMDb, nil
		default:
			fmt.Println("Please enter tmdb or imdb.")
		}
	}
}

// verifyWithSpinner fetches the movie genres to prove the credentials work
func verifyWithSpinner(cfg *source.SourceConfig, logger *slog.Logger) error {
	src, err := source.NewClient(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Channel to receive result
	resultCh := make(chan error, 1)

	go func() {
		_, err := src.Genres(ctx, domain.KindMovie)
		resultCh <- err
	}()

	frame := 0
	fmt.Printf("\r%s Checking the catalog...", styles.SpinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			fmt.Print(clearSpinnerLine)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Connected to %s\n", strings.ToUpper(string(cfg.Provider)))
			return nil

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Checking the catalog...", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return ctx.Err()
		}
	}
}
