// Package scaffold generates scenario trees for parameter sweeps. A matrix
// of power ramps crossed with initial-temperature buckets is expanded into
// one run directory per scenario, each holding a driver input file rendered
// from a shared template, plus a manifest the dispatcher consumes.
package scaffold
