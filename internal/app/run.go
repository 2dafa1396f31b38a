package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vk/scengridgo/internal/ctxlog"
	"github.com/vk/scengridgo/internal/dispatcher"
	"github.com/vk/scengridgo/internal/driver"
	"github.com/vk/scengridgo/internal/manifest"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	logger := a.logger.With("run_id", uuid.NewString())
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("App.Run method started.")

	if appConfig.HealthcheckPort > 0 {
		a.startHealthcheckServer(appConfig.HealthcheckPort)
	}

	m, err := manifest.Load(appConfig.ManifestPath)
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	assigned := m.Select(a.worker.Indices(m.Len()))
	logger.Info("🚀 Dispatching scenarios...",
		"manifest", appConfig.ManifestPath,
		"total", m.Len(),
		"assigned", len(assigned),
		"worker_index", a.worker.Index,
		"worker_count", a.worker.Count,
	)

	if appConfig.Plan {
		for _, scen := range assigned {
			logger.Info("📋 Planned scenario", "index", scen.Index, "name", scen.Name, "dir", scen.Dir)
		}
		logger.Info("🏁 Plan finished.", "scenarios", len(assigned))
		return nil
	}

	if len(assigned) == 0 {
		logger.Warn("No scenarios assigned to this worker, execution not required.")
		return nil
	}

	builder := driver.NewBuilder(a.profile.Driver, a.profile.Output, a.worker, a.threads)
	disp := dispatcher.New(builder, appConfig.LogDir, a.profile.Run.OnFailure)
	if err := disp.Run(ctx, assigned); err != nil {
		return fmt.Errorf("dispatch failed: %w", err)
	}

	logger.Info("🏁 Dispatch finished.", "scenarios", len(assigned))
	logger.Debug("App.Run method finished.")
	return nil
}
