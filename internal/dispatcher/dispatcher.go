package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/vk/scengridgo/internal/config"
	"github.com/vk/scengridgo/internal/ctxlog"
	"github.com/vk/scengridgo/internal/driver"
	"github.com/vk/scengridgo/internal/manifest"
)

// Dispatcher executes one worker's scenario assignment.
type Dispatcher struct {
	builder *driver.Builder
	logDir  string
	policy  config.FailurePolicy
}

// New creates a Dispatcher that invokes drivers through builder and writes
// per-scenario logs into logDir.
func New(builder *driver.Builder, logDir string, policy config.FailurePolicy) *Dispatcher {
	return &Dispatcher{
		builder: builder,
		logDir:  logDir,
		policy:  policy,
	}
}

// Run executes the given scenarios sequentially, in order. Under the abort
// policy the first driver failure is returned immediately and the remaining
// scenarios are never started; under the continue policy every scenario
// runs and the accumulated driver failures are returned at the end, first
// failure first.
func (d *Dispatcher) Run(ctx context.Context, scenarios []manifest.Scenario) error {
	logger := ctxlog.FromContext(ctx)

	if err := os.MkdirAll(d.logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", d.logDir, err)
	}

	var failures []error
	for _, scen := range scenarios {
		scenLogger := logger.With("scenario", scen.Name)
		scenLogger.Info("▶️ Starting scenario", "dir", scen.Dir)

		if err := d.runScenario(ctx, scen); err != nil {
			var driverErr *DriverError
			if errors.As(err, &driverErr) && d.policy == config.FailContinue {
				scenLogger.Error("Driver failed, continuing with remaining scenarios.",
					"exit_code", driverErr.ExitCode, "log", driverErr.LogPath)
				failures = append(failures, err)
				continue
			}
			return err
		}

		scenLogger.Info("✅ Scenario done")
	}

	if len(failures) > 0 {
		return fmt.Errorf("%d of %d scenarios failed: %w", len(failures), len(scenarios), errors.Join(failures...))
	}
	return nil
}

// runScenario performs one driver invocation with its combined output
// captured to the scenario's log file.
func (d *Dispatcher) runScenario(ctx context.Context, scen manifest.Scenario) error {
	logger := ctxlog.FromContext(ctx)

	inv, err := d.builder.Invocation(scen)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(inv.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", inv.OutputDir, err)
	}

	// Create truncates, so a re-run replaces the previous log.
	logPath := d.LogPath(scen.Name)
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("failed to create log file %s: %w", logPath, err)
	}
	defer logFile.Close()

	cmd := d.builder.Command(ctx, inv)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	logger.Debug("Driver invocation resolved.", "argv", inv.Argv, "output_dir", inv.OutputDir, "log", logPath)

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("scenario %s interrupted: %w", scen.Name, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &DriverError{
				Scenario: scen.Name,
				LogPath:  logPath,
				ExitCode: exitErr.ExitCode(),
				Err:      err,
			}
		}
		return fmt.Errorf("failed to start driver for scenario %s: %w", scen.Name, err)
	}

	return nil
}

// LogPath returns the log file path for a scenario name, always exactly
// <logDir>/<name>.log.
func (d *Dispatcher) LogPath(name string) string {
	return filepath.Join(d.logDir, name+".log")
}
