package scaffold

import (
	"fmt"
	"math"
)

// Ramp directions.
const (
	RampUp   = "up"
	RampDown = "down"
)

// lowestRampTarget is the floor for down-ramps. The transient model is not
// trusted below 20% of rated power, so no scenario ramps below that level.
const lowestRampTarget = 0.2

// Scenario is one expanded sweep point: a single power ramp starting from a
// given temperature bucket.
type Scenario struct {
	// Name is the canonical run name, e.g. "50-40-nominal-down". It doubles
	// as the run directory name.
	Name string

	Bucket    Bucket
	P0        float64
	P1        float64
	Direction string

	// RampS is the ramp duration in seconds.
	RampS float64
}

// Expand generates the scenario list for the matrix: for every bucket and
// every power level, a ramp up by one step while the start is below full
// power, and a ramp down by one step while the target stays above the floor.
// Order is deterministic: buckets in declaration order, then the power
// ladder in order with the up-ramp before the down-ramp at each level.
func Expand(m *Matrix) []Scenario {
	var scenarios []Scenario

	for _, bucket := range m.Buckets {
		for _, level := range m.PowerLevels {
			if level < 1 {
				scenarios = append(scenarios, newScenario(m, bucket, level, level+m.LevelStep, RampUp))
			}
			if target := level - m.LevelStep; target > lowestRampTarget {
				scenarios = append(scenarios, newScenario(m, bucket, level, target, RampDown))
			}
		}
	}

	return scenarios
}

func newScenario(m *Matrix, bucket Bucket, p0, p1 float64, direction string) Scenario {
	return Scenario{
		Name:      rampName(p0, p1, bucket.Name, direction),
		Bucket:    bucket,
		P0:        p0,
		P1:        p1,
		Direction: direction,
		RampS:     rampSeconds(m, p0, p1),
	}
}

// rampSeconds converts the ramp magnitude into a duration at the matrix's
// power ramp rate.
func rampSeconds(m *Matrix, p0, p1 float64) float64 {
	deltaP := math.Abs(p1 - p0)
	minutes := deltaP / m.PowerRampPerMin
	return minutes * 60.0
}

// rampName renders the canonical run name. Power levels are truncated to
// whole percent.
func rampName(p0, p1 float64, bucket, direction string) string {
	return fmt.Sprintf("%d-%d-%s-%s", int(p0*100), int(p1*100), bucket, direction)
}
