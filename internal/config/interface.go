package config

import "context"

// Loader is the interface for a format-specific profile loader.
type Loader interface {
	// Load reads profile configuration from the given paths, merges it over
	// the built-in defaults, and returns the resulting profile. Paths may
	// name files or directories; an empty path list yields Default().
	Load(ctx context.Context, paths ...string) (*Profile, error)
}
