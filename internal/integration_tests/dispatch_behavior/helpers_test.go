package integration_tests

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/scengridgo/internal/app"
	"github.com/vk/scengridgo/internal/testutil"
)

// writeDispatchProfile writes a run profile whose driver is a stub shell
// script with the given body. driverAttrs lands inside the driver block,
// extraBlocks after it.
func writeDispatchProfile(t *testing.T, stubBody, driverAttrs, extraBlocks string) string {
	t.Helper()

	driverPath := testutil.StubDriver(t, stubBody)
	content := fmt.Sprintf("driver {\n  command = [%q]\n%s}\n\n%s", driverPath, driverAttrs, extraBlocks)
	return testutil.WriteProfile(t, content)
}

// newDispatchConfig builds a single-worker app config for integration runs.
// Tests adjust the worker fields directly where the partition matters.
func newDispatchConfig(t *testing.T, manifestPath, profilePath, logDir string) *app.Config {
	t.Helper()

	cfg, err := app.NewConfig(app.Config{
		ManifestPath: manifestPath,
		ProfilePath:  profilePath,
		LogDir:       logDir,
		WorkerIndex:  0,
		WorkerCount:  1,
		Threads:      1,
		LogFormat:    "text",
		LogLevel:     "debug",
	})
	require.NoError(t, err)
	return cfg
}

// readRecord returns the non-empty lines of a record file written by a stub
// driver, or nil when the file does not exist.
func readRecord(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
