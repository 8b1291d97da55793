package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mfx/internal/repositories"
	"github.com/desertthunder/mfx/internal/session"
	"github.com/desertthunder/mfx/internal/shared"
	"github.com/urfave/cli/v3"
)

const version = "0.1.0"

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "mfx",
		Usage:    "Swipe movies and find matches with friends on MovieFinder",
		Version:  version,
		Writer:   r.output,
		Commands: r.register(),
	}
}

// loadConfig reads config.toml (or $MFX_CONFIG) when present, then applies MFX_* overrides.
func loadConfig(logger *log.Logger) (*shared.Config, string) {
	path := os.Getenv("MFX_CONFIG")
	if path == "" {
		path = "config.toml"
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if loaded, err := shared.LoadConfig(path); err == nil {
			config = loaded
		} else {
			logger.Warn("ignoring invalid config file", "path", path, "error", err)
		}
	}

	if err := config.ApplyEnv(); err != nil {
		logger.Fatalf("invalid environment: %v", err)
	}
	return config, path
}

// openStore returns the persistent session store, or an in-memory one when the database cannot be opened.
func openStore(config *shared.Config, logger *log.Logger) (session.Store, *repositories.SessionRepository, func()) {
	db, err := shared.OpenMigrated(config.Database)
	if err != nil {
		logger.Warn("session database unavailable, sessions will not persist", "error", err)
		return session.NewMemoryStore(""), nil, func() {}
	}

	repo := repositories.NewSessionRepository(db)
	store, err := session.NewPersistentStore(repo, config.API.BaseURL)
	if err != nil {
		db.Close()
		logger.Fatalf("invalid API base URL: %v", err)
	}
	return store, repo, func() { db.Close() }
}

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnvFile(".env"); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	config, configPath := loadConfig(logger)
	logger.SetLevel(config.LogLevel())

	store, repo, closeStore := openStore(config, logger)
	defer closeStore()

	runner, err := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
		Store:      store,
		Sessions:   repo,
	})
	if err != nil {
		logger.Fatalf("startup failed: %v", err)
	}

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrBadCredentials):
			logger.Error("login rejected: invalid email or password")
		case errors.Is(err, shared.ErrSessionExpired),
			errors.Is(err, shared.ErrNotAuthenticated),
			errors.Is(err, shared.ErrUnauthorized):
			logger.Error("not signed in; run `mfx auth login`", "error", err)
		default:
			logger.Error("application error", "error", err)
		}
		closeStore()
		os.Exit(1)
	}
}
