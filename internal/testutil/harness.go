// Package testutil provides shared helpers for tests: a thread-safe log
// buffer, scenario tree builders, and a stub driver executable that stands
// in for the external simulation program.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteScenarioTree creates one directory per scenario name under a fresh
// temp root, each holding a placeholder input file, plus a manifest listing
// the directories in the given order. It returns the manifest path and the
// tree root.
func WriteScenarioTree(t *testing.T, names ...string) (string, string) {
	t.Helper()

	root := t.TempDir()
	dirs := make([]string, 0, len(names))
	for _, name := range names {
		dir := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "input.py"), []byte("# scenario input placeholder\n"), 0644))
		dirs = append(dirs, dir)
	}

	return WriteManifestFile(t, root, dirs), root
}

// WriteManifestFile writes a manifest listing the given scenario
// directories, one per line, into root and returns its path.
func WriteManifestFile(t *testing.T, root string, dirs []string) string {
	t.Helper()

	content := ""
	if len(dirs) > 0 {
		content = strings.Join(dirs, "\n") + "\n"
	}
	path := filepath.Join(root, "manifest.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// StubDriver writes an executable shell script posing as the external
// driver and returns its path. The body runs with the driver's named
// arguments in "$@" and the scenario directory as the working directory.
func StubDriver(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "driver.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

// WriteProfile writes a run profile file and returns its path.
func WriteProfile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "profile.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}
