package integration_tests

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/vk/scengridgo/internal/app"
	"github.com/vk/scengridgo/internal/cli"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		args           []string
		expectExit     bool
		expectErr      bool
		expectedConfig *app.Config
		checkOutput    func(t *testing.T, output string)
	}{
		{
			name: "Happy Path with all flags",
			args: []string{
				"-manifest", "/test/manifest.txt",
				"--profile=/test/profile.hcl",
				"--log-dir=/test/logs",
				"--worker-index=2",
				"--worker-count=8",
				"--threads=4",
				"--plan",
				"--log-level=debug",
				"--log-format=text",
				"--healthcheck-port=8080",
			},
			expectedConfig: &app.Config{
				ManifestPath:    "/test/manifest.txt",
				ProfilePath:     "/test/profile.hcl",
				LogDir:          "/test/logs",
				WorkerIndex:     2,
				WorkerCount:     8,
				Threads:         4,
				Plan:            true,
				LogLevel:        "debug",
				LogFormat:       "text",
				HealthcheckPort: 8080,
			},
		},
		{
			name:       "Shorthand flag and defaults",
			args:       []string{"-m", "/short/manifest.txt"},
			expectExit: false,
			expectErr:  false,
			expectedConfig: &app.Config{
				ManifestPath:    "/short/manifest.txt",
				ProfilePath:     "",
				LogDir:          "logs",
				WorkerIndex:     -1,
				WorkerCount:     -1,
				Threads:         -1,
				LogLevel:        "info",
				LogFormat:       "json",
				HealthcheckPort: 0,
			},
		},
		{
			name:       "Positional argument for path",
			args:       []string{"/positional/manifest.txt"},
			expectExit: false,
			expectErr:  false,
			expectedConfig: &app.Config{
				ManifestPath:    "/positional/manifest.txt",
				ProfilePath:     "",
				LogDir:          "logs",
				WorkerIndex:     -1,
				WorkerCount:     -1,
				Threads:         -1,
				LogLevel:        "info",
				LogFormat:       "json",
				HealthcheckPort: 0,
			},
		},
		{
			name:       "Help flag triggers clean exit",
			args:       []string{"-h"},
			expectExit: true,
			expectErr:  false,
			checkOutput: func(t *testing.T, output string) {
				require.True(t, strings.Contains(output, "Usage:"), "Expected help text to be printed")
			},
		},
		{
			name:       "No path triggers clean exit with usage",
			args:       []string{},
			expectExit: true,
			expectErr:  false,
			checkOutput: func(t *testing.T, output string) {
				require.True(t, strings.Contains(output, "Usage:"), "Expected help text to be printed")
			},
		},
		{
			name:      "Invalid log level returns an error",
			args:      []string{"--log-level=foo", "/path"},
			expectErr: true,
		},
		{
			name:      "Invalid log format returns an error",
			args:      []string{"--log-format=yaml", "/path"},
			expectErr: true,
		},
		{
			name:      "Worker index below the sentinel returns an error",
			args:      []string{"--worker-index=-2", "/path"},
			expectErr: true,
		},
		{
			name:      "Zero worker count returns an error",
			args:      []string{"--worker-count=0", "/path"},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			out := &bytes.Buffer{}

			// --- Act ---
			appConfig, shouldExit, err := cli.Parse(tc.args, out)

			// --- Assert ---
			if tc.expectErr {
				require.Error(t, err)
				_, isExitError := err.(*cli.ExitError)
				require.True(t, isExitError, "Expected error to be of type ExitError")
				return // End test here if an error is expected
			}
			require.NoError(t, err)

			require.Equal(t, tc.expectExit, shouldExit)

			if tc.expectedConfig != nil {
				if diff := cmp.Diff(tc.expectedConfig, appConfig); diff != "" {
					t.Errorf("Config mismatch (-want +got):\n%s", diff)
				}
			}

			if tc.checkOutput != nil {
				tc.checkOutput(t, out.String())
			}
		})
	}
}
