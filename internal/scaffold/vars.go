package scaffold

import "fmt"

// Vars computes the placeholder values for one scenario. All values are
// pre-formatted strings: times and reactivities with six decimals, power in
// scientific notation, temperatures as kelvin quantity expressions.
func Vars(m *Matrix, scen Scenario) map[string]string {
	tf := m.PreRampS + scen.RampS + m.PostRampS
	rampStart := m.PreRampS
	rampEnd := m.PreRampS + scen.RampS

	deltaRho := m.RhoRatePcmPerMin * (scen.RampS / 60.0)
	rhoBias := m.RhoBiasPcm
	if scen.Direction == RampDown {
		deltaRho = -deltaRho
		rhoBias = 0
	}

	// Thermal power scaling matches the initial power level.
	powerTot := scen.P0 * m.NominalPowerW

	return map[string]string{
		"TF":            fmt.Sprintf("%.6f", tf),
		"T_RAMP_START":  fmt.Sprintf("%.6f", rampStart),
		"T_RAMP_END":    fmt.Sprintf("%.6f", rampEnd),
		"RHO_BIAS_PCM":  fmt.Sprintf("%.6f", rhoBias),
		"DELTA_RHO_PCM": fmt.Sprintf("%.6f", deltaRho),
		"POWER_TOT":     fmt.Sprintf("%.6e", powerTot),
		"T_FUEL0":       kelvinExpr(scen.Bucket.FuelC),
		"T_MOD0":        kelvinExpr(scen.Bucket.ModeratorC),
		"T_SHELL0":      kelvinExpr(scen.Bucket.ShellC),
		"T_COOL0":       kelvinExpr(scen.Bucket.CoolantC),
	}
}

// kelvinExpr renders a Celsius temperature as the kelvin quantity expression
// the solver input expects.
func kelvinExpr(celsius float64) string {
	return fmt.Sprintf("%.6f * units.kelvin", celsius+273.15)
}
