package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPath string // one scenario directory per line
	ProfilePath  string // run profile .hcl file or directory, optional
	LogDir       string // per-scenario driver logs

	// Worker identity and the thread hint handed to the driver. -1 defers
	// to the launcher environment (the variables named by the profile's env
	// block), which in turn falls back to the built-in defaults: index 0,
	// count 1, threads 1.
	WorkerIndex int
	WorkerCount int
	Threads     int

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// Plan lists this worker's assignment without invoking the driver.
	Plan bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ManifestPath == "" {
		return nil, errors.New("ManifestPath is a required configuration field and cannot be empty")
	}
	if cfg.LogDir == "" {
		return nil, errors.New("LogDir is a required configuration field and cannot be empty")
	}
	if cfg.WorkerIndex < -1 {
		return nil, errors.New("WorkerIndex must be -1 (from environment) or a non-negative integer")
	}
	if cfg.WorkerCount == 0 || cfg.WorkerCount < -1 {
		return nil, errors.New("WorkerCount must be -1 (from environment) or a positive integer")
	}
	if cfg.Threads == 0 || cfg.Threads < -1 {
		return nil, errors.New("Threads must be -1 (from environment) or a positive integer")
	}

	return &cfg, nil
}
