package dispatcher

import "fmt"

// DriverError reports a driver invocation that terminated with a non-zero
// exit status. The scenario's log file holds whatever diagnostics the driver
// wrote before exiting.
type DriverError struct {
	Scenario string
	LogPath  string
	ExitCode int
	Err      error
}

// Error implements the error interface for DriverError.
func (e *DriverError) Error() string {
	return fmt.Sprintf("driver failed for scenario %s (exit code %d), see %s", e.Scenario, e.ExitCode, e.LogPath)
}

// Unwrap exposes the underlying exec error.
func (e *DriverError) Unwrap() error {
	return e.Err
}
