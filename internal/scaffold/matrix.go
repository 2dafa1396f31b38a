package scaffold

import (
	"fmt"
	"strings"
)

// Bucket is one set of initial temperatures, in degrees Celsius. The bucket
// name becomes part of every run name generated from it.
type Bucket struct {
	Name       string
	CoolantC   float64
	FuelC      float64
	ModeratorC float64
	ShellC     float64
}

// Matrix describes one sweep: a ladder of starting power levels crossed with
// temperature buckets, plus the timing and reactivity knobs shared by every
// generated scenario.
type Matrix struct {
	// NominalPowerW is the rated thermal power in watts.
	NominalPowerW float64

	// PowerLevels is the ladder of starting power levels, as fractions of
	// rated power.
	PowerLevels []float64

	// LevelStep is the ramp magnitude, as a fraction of rated power.
	LevelStep float64

	// PreRampS and PostRampS pad every transient with steady time before and
	// after the ramp, in seconds.
	PreRampS  float64
	PostRampS float64

	// PowerRampPerMin is the target power ramp rate, as a fraction of rated
	// power per minute. Together with LevelStep it fixes the ramp duration.
	PowerRampPerMin float64

	// RhoRatePcmPerMin is the external reactivity insertion rate in pcm per
	// minute, calibrated against the power ramp rate.
	RhoRatePcmPerMin float64

	// RhoBiasPcm is the initial external reactivity bias in pcm. It applies
	// to up-ramps only, countering the initial power decay.
	RhoBiasPcm float64

	// Buckets are the temperature buckets crossed with the power ladder.
	Buckets []Bucket
}

// DefaultMatrix returns the built-in sweep: a 20/50/100 percent power ladder
// with ten-point ramps, crossed with low/nominal/high temperature buckets.
func DefaultMatrix() *Matrix {
	return &Matrix{
		NominalPowerW:    236e6,
		PowerLevels:      []float64{0.2, 0.5, 1.0},
		LevelStep:        0.1,
		PreRampS:         80.0,
		PostRampS:        80.0,
		PowerRampPerMin:  0.05,
		RhoRatePcmPerMin: 240.0,
		RhoBiasPcm:       200.0,
		Buckets: []Bucket{
			{Name: "low", CoolantC: 620, FuelC: 750, ModeratorC: 740, ShellC: 730},
			{Name: "nominal", CoolantC: 650, FuelC: 800, ModeratorC: 800, ShellC: 770},
			{Name: "high", CoolantC: 680, FuelC: 850, ModeratorC: 840, ShellC: 820},
		},
	}
}

// Validate checks the matrix for values the expansion cannot act on. Bucket
// names must be usable as single path components because they end up in run
// directory names.
func (m *Matrix) Validate() error {
	if m.NominalPowerW <= 0 {
		return fmt.Errorf("nominal_power_w must be positive, got %g", m.NominalPowerW)
	}
	if len(m.PowerLevels) == 0 {
		return fmt.Errorf("power_levels must not be empty")
	}
	for _, level := range m.PowerLevels {
		if level <= 0 || level > 1 {
			return fmt.Errorf("power level %g is outside (0, 1]", level)
		}
	}
	if m.LevelStep <= 0 {
		return fmt.Errorf("level_step must be positive, got %g", m.LevelStep)
	}
	if m.PreRampS < 0 || m.PostRampS < 0 {
		return fmt.Errorf("pre_ramp_s and post_ramp_s must not be negative")
	}
	if m.PowerRampPerMin <= 0 {
		return fmt.Errorf("power_ramp_per_min must be positive, got %g", m.PowerRampPerMin)
	}
	if len(m.Buckets) == 0 {
		return fmt.Errorf("at least one bucket is required")
	}

	seen := make(map[string]bool, len(m.Buckets))
	for _, bucket := range m.Buckets {
		if bucket.Name == "" {
			return fmt.Errorf("bucket name must not be empty")
		}
		if strings.ContainsAny(bucket.Name, `/\`) || bucket.Name == "." || bucket.Name == ".." {
			return fmt.Errorf("bucket name %q must be a bare path component", bucket.Name)
		}
		if seen[bucket.Name] {
			return fmt.Errorf("duplicate bucket %q", bucket.Name)
		}
		seen[bucket.Name] = true
	}

	return nil
}
