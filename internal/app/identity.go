package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vk/scengridgo/internal/config"
	"github.com/vk/scengridgo/internal/partition"
)

// resolveWorker determines the worker identity and thread hint. Explicit
// config wins, then the launcher environment variables named by the
// profile, then the built-in defaults: a single worker with index 0 and one
// thread.
func resolveWorker(cfg *Config, env config.EnvSpec) (partition.Worker, int, error) {
	index, err := resolveValue(cfg.WorkerIndex, env.WorkerIndex, 0)
	if err != nil {
		return partition.Worker{}, 0, err
	}
	count, err := resolveValue(cfg.WorkerCount, env.WorkerCount, 1)
	if err != nil {
		return partition.Worker{}, 0, err
	}
	threads, err := resolveValue(cfg.Threads, env.Threads, 1)
	if err != nil {
		return partition.Worker{}, 0, err
	}

	// An index at or beyond the count is allowed and yields an empty
	// assignment; a negative index or a count below 1 never makes sense.
	if index < 0 {
		return partition.Worker{}, 0, fmt.Errorf("worker index must not be negative, got %d", index)
	}
	if count < 1 {
		return partition.Worker{}, 0, fmt.Errorf("worker count must be at least 1, got %d", count)
	}
	if threads < 1 {
		return partition.Worker{}, 0, fmt.Errorf("thread count must be at least 1, got %d", threads)
	}

	return partition.Worker{Index: index, Count: count}, threads, nil
}

// resolveValue applies the flag > environment > default precedence for one
// integer. A flagValue of -1 means "not set on the command line"; an unset
// or empty environment variable falls through to the default.
func resolveValue(flagValue int, envName string, fallback int) (int, error) {
	if flagValue != -1 {
		return flagValue, nil
	}
	if envName == "" {
		return fallback, nil
	}

	raw, ok := os.LookupEnv(envName)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid value %q for environment variable %s: %w", raw, envName, err)
	}
	return value, nil
}
