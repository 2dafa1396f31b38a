// Package dispatcher runs the scenarios assigned to one worker, strictly in
// manifest order. Each scenario is one external driver invocation with its
// combined stdout and stderr captured to a per-scenario log file. The
// failure policy decides whether the first non-zero driver exit stops the
// run or the remaining scenarios still execute; setup failures (output
// directory or log file cannot be created, driver cannot start) always stop
// it.
package dispatcher
