package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/scengridgo/internal/app"
	"github.com/vk/scengridgo/internal/cli"
	"github.com/vk/scengridgo/internal/dispatcher"
	"github.com/vk/scengridgo/internal/hcl"
)

// main is the entrypoint for the scengridgo application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an error from run to a process exit code. A failing
// driver's own exit code is passed through, so a job launcher sees the same
// code it would have seen invoking the driver directly.
func exitCodeFor(err error) int {
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var driverErr *dispatcher.DriverError
	if errors.As(err, &driverErr) && driverErr.ExitCode > 0 {
		return driverErr.ExitCode
	}
	return 1
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical startup errors; recover here so main can map
	// the failure to an exit code instead of crashing with a stack trace.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	// Instantiate the concrete HCL loader to pass to the app.
	loader := hcl.NewLoader()
	dispatchApp := app.NewApp(outW, appConfig, loader)

	return dispatchApp.Run(context.Background(), appConfig)
}
