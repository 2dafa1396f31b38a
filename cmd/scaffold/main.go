package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/vk/scengridgo/internal/app"
	"github.com/vk/scengridgo/internal/cli"
	"github.com/vk/scengridgo/internal/scaffold"
)

// scaffoldConfig holds the parsed command line for one generation run.
type scaffoldConfig struct {
	MatrixPath   string
	TemplatePath string
	OutputRoot   string
	ManifestPath string
	LogFormat    string
	LogLevel     string
}

// main is the entrypoint for the scengrid-scaffold generator.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// parseArgs processes the command line. It returns the generation config, a
// boolean indicating a clean early exit, or an ExitError.
func parseArgs(args []string, output io.Writer) (*scaffoldConfig, bool, error) {
	flagSet := flag.NewFlagSet("scengrid-scaffold", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
ScenGridGo scaffold - Generates scenario run directories and a manifest.

Usage:
  scengrid-scaffold [options] [MATRIX_PATH]

Arguments:
  MATRIX_PATH
    Path to a matrix .hcl file. When omitted, the built-in sweep is generated.

Options:
`)
		flagSet.PrintDefaults()
	}

	templateFlag := flagSet.String("template", "examples/pbfhr/input_template.py", "Path to the driver input template.")
	outputRootFlag := flagSet.String("output-root", "pbfhr_runs", "Directory the run directories are created under.")
	manifestFlag := flagSet.String("manifest", "pbfhr_manifest.txt", "Path of the manifest file to write.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &cli.ExitError{Code: 2, Message: err.Error()}
	}

	matrixPath := ""
	if flagSet.NArg() > 0 {
		matrixPath = flagSet.Arg(0)
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &cli.ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &cli.ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	return &scaffoldConfig{
		MatrixPath:   matrixPath,
		TemplatePath: *templateFlag,
		OutputRoot:   *outputRootFlag,
		ManifestPath: *manifestFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	}, false, nil
}

// run encapsulates the generator logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	cfg, shouldExit, err := parseArgs(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := app.NewLogger(cfg.LogLevel, cfg.LogFormat, outW)

	matrix, err := scaffold.LoadMatrix(cfg.MatrixPath)
	if err != nil {
		return fmt.Errorf("failed to load matrix: %w", err)
	}

	templateText, err := os.ReadFile(cfg.TemplatePath)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", cfg.TemplatePath, err)
	}

	logger.Info("🚀 Generating scenarios...",
		"matrix", cfg.MatrixPath,
		"template", cfg.TemplatePath,
		"output_root", cfg.OutputRoot,
	)

	scenarios, err := scaffold.Generate(matrix, string(templateText), cfg.OutputRoot, cfg.ManifestPath)
	if err != nil {
		return err
	}

	logger.Info("🏁 Scaffold finished.",
		"scenarios", len(scenarios),
		"manifest", cfg.ManifestPath,
	)
	return nil
}
