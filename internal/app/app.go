package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/scengridgo/internal/config"
	"github.com/vk/scengridgo/internal/ctxlog"
	"github.com/vk/scengridgo/internal/partition"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	profile *config.Profile
	worker  partition.Worker
	threads int
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger, the loaded run
// profile, and the resolved worker identity.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := NewLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var profilePaths []string
	if appConfig.ProfilePath != "" {
		profilePaths = append(profilePaths, appConfig.ProfilePath)
	}

	profile, err := loader.Load(ctx, profilePaths...)
	if err != nil {
		// A failure to load the run profile is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Run profile loaded.", "profile_files", len(profilePaths))

	worker, threads, err := resolveWorker(appConfig, profile.Env)
	if err != nil {
		// Bad worker identity makes the partition arithmetic meaningless.
		panic(err)
	}
	logger.Debug("Worker identity resolved.",
		"worker_index", worker.Index, "worker_count", worker.Count, "threads", threads)

	return &App{
		outW:    outW,
		logger:  logger,
		profile: profile,
		worker:  worker,
		threads: threads,
	}
}

// Profile returns the loaded run profile. This is primarily for testing.
func (a *App) Profile() *config.Profile {
	return a.profile
}

// Worker returns the resolved worker identity. This is primarily for testing.
func (a *App) Worker() partition.Worker {
	return a.worker
}
