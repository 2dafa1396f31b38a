package dispatcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vk/scengridgo/internal/config"
	"github.com/vk/scengridgo/internal/driver"
	"github.com/vk/scengridgo/internal/manifest"
	"github.com/vk/scengridgo/internal/partition"
	"github.com/vk/scengridgo/internal/testutil"
)

// newTestDispatcher wires a dispatcher to a stub driver script. mutate may
// adjust the profile (e.g. the failure policy) before the builder is built.
func newTestDispatcher(t *testing.T, stubBody string, mutate func(p *config.Profile)) (*Dispatcher, string) {
	t.Helper()

	profile := config.Default()
	profile.Driver.Command = []string{testutil.StubDriver(t, stubBody)}
	if mutate != nil {
		mutate(profile)
	}

	builder := driver.NewBuilder(profile.Driver, profile.Output, partition.Worker{Index: 0, Count: 1}, 1)
	logDir := filepath.Join(t.TempDir(), "logs")
	return New(builder, logDir, profile.Run.OnFailure), logDir
}

func loadScenarios(t *testing.T, names ...string) []manifest.Scenario {
	t.Helper()

	manifestPath, _ := testutil.WriteScenarioTree(t, names...)
	m, err := manifest.Load(manifestPath)
	require.NoError(t, err)
	return m.Scenarios
}

func TestRun_CapturesCombinedDriverOutput(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	d, logDir := newTestDispatcher(t, `echo "out line"; echo "err line" >&2`, nil)
	scenarios := loadScenarios(t, "20-30-low-up")

	// --- Act ---
	err := d.Run(context.Background(), scenarios)

	// --- Assert ---
	require.NoError(t, err)
	content, readErr := os.ReadFile(filepath.Join(logDir, "20-30-low-up.log"))
	require.NoError(t, readErr)
	require.Equal(t, "out line\nerr line\n", string(content), "stdout and stderr interleave into one log")
}

func TestRun_ProcessesScenariosInOrder(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Each invocation appends its working directory to a shared record file.
	record := filepath.Join(t.TempDir(), "record.txt")
	d, _ := newTestDispatcher(t, `pwd >> `+record, nil)
	scenarios := loadScenarios(t, "a", "b", "c")

	// --- Act ---
	err := d.Run(context.Background(), scenarios)

	// --- Assert ---
	require.NoError(t, err)
	content, readErr := os.ReadFile(record)
	require.NoError(t, readErr)
	want := scenarios[0].Dir + "\n" + scenarios[1].Dir + "\n" + scenarios[2].Dir + "\n"
	require.Equal(t, want, string(content), "scenarios must run strictly sequentially in manifest order")
}

func TestRun_EmptyAssignment(t *testing.T) {
	t.Parallel()

	d, logDir := newTestDispatcher(t, `echo never invoked`, nil)

	err := d.Run(context.Background(), nil)

	require.NoError(t, err)
	entries, readErr := os.ReadDir(logDir)
	require.NoError(t, readErr, "the log directory is still created")
	require.Empty(t, entries)
}

func TestRun_AbortPolicyStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	d, logDir := newTestDispatcher(t, `case "$PWD" in */b) echo boom >&2; exit 3;; esac; echo ok`, nil)
	scenarios := loadScenarios(t, "a", "b", "c")

	// --- Act ---
	err := d.Run(context.Background(), scenarios)

	// --- Assert ---
	require.Error(t, err)

	var driverErr *DriverError
	require.ErrorAs(t, err, &driverErr)
	require.Equal(t, "b", driverErr.Scenario)
	require.Equal(t, 3, driverErr.ExitCode)
	require.Equal(t, filepath.Join(logDir, "b.log"), driverErr.LogPath)

	// The failing scenario's diagnostics are in its log; the scenario after
	// the failure was never started.
	content, readErr := os.ReadFile(driverErr.LogPath)
	require.NoError(t, readErr)
	require.Contains(t, string(content), "boom")
	require.NoFileExists(t, filepath.Join(logDir, "c.log"))
}

func TestRun_ContinuePolicyRunsEverything(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	d, logDir := newTestDispatcher(t, `case "$PWD" in */b) exit 3;; esac; echo ok`, func(p *config.Profile) {
		p.Run.OnFailure = config.FailContinue
	})
	scenarios := loadScenarios(t, "a", "b", "c")

	// --- Act ---
	err := d.Run(context.Background(), scenarios)

	// --- Assert ---
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 of 3 scenarios failed")
	require.FileExists(t, filepath.Join(logDir, "c.log"), "later scenarios still run under the continue policy")

	var driverErr *DriverError
	require.ErrorAs(t, err, &driverErr)
	require.Equal(t, "b", driverErr.Scenario)
}

func TestRun_ContinuePolicyReportsFirstFailureFirst(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	d, _ := newTestDispatcher(t, `case "$PWD" in */b) exit 3;; */c) exit 5;; esac`, func(p *config.Profile) {
		p.Run.OnFailure = config.FailContinue
	})
	scenarios := loadScenarios(t, "a", "b", "c")

	// --- Act ---
	err := d.Run(context.Background(), scenarios)

	// --- Assert ---
	require.Error(t, err)
	require.Contains(t, err.Error(), "2 of 3 scenarios failed")

	// The first failing driver's exit code is what the process propagates.
	var driverErr *DriverError
	require.ErrorAs(t, err, &driverErr)
	require.Equal(t, 3, driverErr.ExitCode)
}

func TestRun_LogFileIsTruncatedOnRerun(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	scenarios := loadScenarios(t, "a")
	logDir := filepath.Join(t.TempDir(), "logs")

	run := func(stubBody string) {
		profile := config.Default()
		profile.Driver.Command = []string{testutil.StubDriver(t, stubBody)}
		builder := driver.NewBuilder(profile.Driver, profile.Output, partition.Worker{Index: 0, Count: 1}, 1)
		require.NoError(t, New(builder, logDir, profile.Run.OnFailure).Run(context.Background(), scenarios))
	}

	// --- Act ---
	run(`echo "first run output"`)
	run(`echo "second run output"`)

	// --- Assert ---
	content, err := os.ReadFile(filepath.Join(logDir, "a.log"))
	require.NoError(t, err)
	require.Equal(t, "second run output\n", string(content), "re-running must overwrite the log, not append")
}

func TestRun_SubdirLayoutCreatesOutputDirectory(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	d, _ := newTestDispatcher(t, `echo ok`, nil)
	scenarios := loadScenarios(t, "a")

	// --- Act ---
	err := d.Run(context.Background(), scenarios)

	// --- Assert ---
	require.NoError(t, err)
	require.DirExists(t, filepath.Join(scenarios[0].Dir, "output"))
}

func TestRun_ScenarioLayoutUsesScenarioDirectory(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	d, _ := newTestDispatcher(t, `echo ok`, func(p *config.Profile) {
		p.Output.Layout = config.LayoutScenario
	})
	scenarios := loadScenarios(t, "a")

	// --- Act ---
	err := d.Run(context.Background(), scenarios)

	// --- Assert ---
	require.NoError(t, err)
	require.NoDirExists(t, filepath.Join(scenarios[0].Dir, "output"))
}

func TestRun_UnwritableLogDirAbortsBeforeAnyScenario(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A log "directory" that is actually a file cannot be created, even
	// under the continue policy: setup failures are not driver failures.
	record := filepath.Join(t.TempDir(), "record.txt")
	profile := config.Default()
	profile.Driver.Command = []string{testutil.StubDriver(t, `pwd >> `+record)}
	profile.Run.OnFailure = config.FailContinue
	builder := driver.NewBuilder(profile.Driver, profile.Output, partition.Worker{Index: 0, Count: 1}, 1)

	logDir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, os.WriteFile(logDir, []byte("in the way"), 0644))

	// --- Act ---
	err := New(builder, logDir, profile.Run.OnFailure).Run(context.Background(), loadScenarios(t, "a", "b"))

	// --- Assert ---
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to create log directory")
	require.NoFileExists(t, record, "no driver may start when setup fails")
}

func TestRun_DriverThatCannotStartAborts(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	d, _ := newTestDispatcher(t, `echo ok`, func(p *config.Profile) {
		p.Driver.Command = []string{filepath.Join(t.TempDir(), "no-such-driver")}
		p.Run.OnFailure = config.FailContinue
	})

	// --- Act ---
	err := d.Run(context.Background(), loadScenarios(t, "a"))

	// --- Assert ---
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to start driver")

	var driverErr *DriverError
	require.False(t, errors.As(err, &driverErr), "a driver that never ran is not a driver failure")
}

func TestRun_ContextCancellationInterruptsDriver(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	d, _ := newTestDispatcher(t, `sleep 30`, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	// --- Act ---
	start := time.Now()
	err := d.Run(ctx, loadScenarios(t, "a"))

	// --- Assert ---
	require.Error(t, err)
	require.Contains(t, err.Error(), "interrupted")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 10*time.Second, "cancellation must kill the driver rather than wait for it")
}

func TestLogPath(t *testing.T) {
	t.Parallel()

	d := New(nil, "/var/log/runs", config.FailAbort)

	require.Equal(t, filepath.Join("/var/log/runs", "50-60-high-up.log"), d.LogPath("50-60-high-up"))
}
