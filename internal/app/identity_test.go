package app

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/scengridgo/internal/config"
	"github.com/vk/scengridgo/internal/partition"
)

// No t.Parallel here: these tests mutate the process environment via
// t.Setenv, which is incompatible with parallel execution.
func TestResolveWorker(t *testing.T) {
	env := config.EnvSpec{
		WorkerIndex: "SGGO_TEST_TASK_ID",
		WorkerCount: "SGGO_TEST_TASK_COUNT",
		Threads:     "SGGO_TEST_CPUS",
	}

	t.Run("defaults to a single worker when nothing is set", func(t *testing.T) {
		cfg := &Config{WorkerIndex: -1, WorkerCount: -1, Threads: -1}

		worker, threads, err := resolveWorker(cfg, env)

		require.NoError(t, err)
		require.Equal(t, partition.Worker{Index: 0, Count: 1}, worker)
		require.Equal(t, 1, threads)
	})

	t.Run("reads the launcher environment", func(t *testing.T) {
		t.Setenv("SGGO_TEST_TASK_ID", "2")
		t.Setenv("SGGO_TEST_TASK_COUNT", "8")
		t.Setenv("SGGO_TEST_CPUS", "4")
		cfg := &Config{WorkerIndex: -1, WorkerCount: -1, Threads: -1}

		worker, threads, err := resolveWorker(cfg, env)

		require.NoError(t, err)
		require.Equal(t, partition.Worker{Index: 2, Count: 8}, worker)
		require.Equal(t, 4, threads)
	})

	t.Run("explicit config wins over the environment", func(t *testing.T) {
		t.Setenv("SGGO_TEST_TASK_ID", "2")
		t.Setenv("SGGO_TEST_TASK_COUNT", "8")
		t.Setenv("SGGO_TEST_CPUS", "4")
		cfg := &Config{WorkerIndex: 5, WorkerCount: 6, Threads: 2}

		worker, threads, err := resolveWorker(cfg, env)

		require.NoError(t, err)
		require.Equal(t, partition.Worker{Index: 5, Count: 6}, worker)
		require.Equal(t, 2, threads)
	})

	t.Run("empty environment variable falls through to the default", func(t *testing.T) {
		t.Setenv("SGGO_TEST_TASK_ID", "  ")
		cfg := &Config{WorkerIndex: -1, WorkerCount: -1, Threads: -1}

		worker, _, err := resolveWorker(cfg, env)

		require.NoError(t, err)
		require.Equal(t, partition.Worker{Index: 0, Count: 1}, worker)
	})

	t.Run("unnamed environment variable is never consulted", func(t *testing.T) {
		cfg := &Config{WorkerIndex: -1, WorkerCount: -1, Threads: -1}

		worker, threads, err := resolveWorker(cfg, config.EnvSpec{})

		require.NoError(t, err)
		require.Equal(t, partition.Worker{Index: 0, Count: 1}, worker)
		require.Equal(t, 1, threads)
	})

	t.Run("non-numeric environment value is an error", func(t *testing.T) {
		t.Setenv("SGGO_TEST_TASK_ID", "banana")
		cfg := &Config{WorkerIndex: -1, WorkerCount: -1, Threads: -1}

		_, _, err := resolveWorker(cfg, env)

		require.Error(t, err)
		require.Contains(t, err.Error(), `invalid value "banana" for environment variable SGGO_TEST_TASK_ID`)
	})

	t.Run("index at or beyond count is allowed", func(t *testing.T) {
		cfg := &Config{WorkerIndex: 7, WorkerCount: 4, Threads: -1}

		worker, _, err := resolveWorker(cfg, env)

		require.NoError(t, err)
		require.Equal(t, partition.Worker{Index: 7, Count: 4}, worker)
	})

	t.Run("negative index from the environment is rejected", func(t *testing.T) {
		t.Setenv("SGGO_TEST_TASK_ID", "-3")
		cfg := &Config{WorkerIndex: -1, WorkerCount: -1, Threads: -1}

		_, _, err := resolveWorker(cfg, env)

		require.Error(t, err)
		require.Contains(t, err.Error(), "worker index must not be negative, got -3")
	})

	t.Run("zero count from the environment is rejected", func(t *testing.T) {
		t.Setenv("SGGO_TEST_TASK_COUNT", "0")
		cfg := &Config{WorkerIndex: -1, WorkerCount: -1, Threads: -1}

		_, _, err := resolveWorker(cfg, env)

		require.Error(t, err)
		require.Contains(t, err.Error(), "worker count must be at least 1, got 0")
	})

	t.Run("zero threads from the environment is rejected", func(t *testing.T) {
		t.Setenv("SGGO_TEST_CPUS", "0")
		cfg := &Config{WorkerIndex: -1, WorkerCount: -1, Threads: -1}

		_, _, err := resolveWorker(cfg, env)

		require.Error(t, err)
		require.Contains(t, err.Error(), "thread count must be at least 1, got 0")
	})
}
