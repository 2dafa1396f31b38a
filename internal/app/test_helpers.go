package app

import (
	"os"
	"testing"

	"github.com/vk/scengridgo/internal/hcl"
	"github.com/vk/scengridgo/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing, capturing its
// log output in a SafeBuffer.
func SetupAppTest(t *testing.T, appConfig *Config) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	appConfig.LogLevel = "debug"
	testApp := NewApp(logBuffer, appConfig, hcl.NewLoader())

	t.Cleanup(func() {
		if os.Getenv("SGGO_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
