package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/scengridgo/internal/config"
	"github.com/vk/scengridgo/internal/ctxlog"
	"github.com/vk/scengridgo/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL profile loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is the top-level structure decoded from every profile file. Each
// block may appear at most once across the whole profile.
type fileRoot struct {
	Driver *driverBlock `hcl:"driver,block"`
	Output *outputBlock `hcl:"output,block"`
	Run    *runBlock    `hcl:"run,block"`
	Env    *envBlock    `hcl:"env,block"`
	Remain hcl.Body     `hcl:",remain"`
}

// driverBlock mirrors config.DriverSpec. Pointer fields distinguish "not
// set" from an explicit empty value (thread_env = "" disables the export).
type driverBlock struct {
	Command     []string       `hcl:"command,optional"`
	InputFlag   *string        `hcl:"input_flag,optional"`
	OutputFlag  *string        `hcl:"output_flag,optional"`
	ResultsFlag *string        `hcl:"results_flag,optional"`
	InputFile   *string        `hcl:"input_file,optional"`
	ResultsFile *string        `hcl:"results_file,optional"`
	ThreadEnv   *string        `hcl:"thread_env,optional"`
	ExtraArgs   hcl.Expression `hcl:"extra_args,optional"`
}

type outputBlock struct {
	Layout *string `hcl:"layout,optional"`
	Subdir *string `hcl:"subdir,optional"`
}

type runBlock struct {
	OnFailure *string `hcl:"on_failure,optional"`
}

type envBlock struct {
	WorkerIndex *string `hcl:"worker_index,optional"`
	WorkerCount *string `hcl:"worker_count,optional"`
	Threads     *string `hcl:"threads,optional"`
}

// Load reads all profile files reachable from the given paths and merges
// their blocks over config.Default(). An empty path list returns the
// defaults unchanged.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Profile, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL profile loader started.", "path_count", len(paths))

	profile := config.Default()

	files, err := l.findAllProfileFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered profile files.", "count", len(files))

	parser := hclparse.NewParser()

	// Tracks the file in which each singleton block was first seen so that
	// duplicates can name both locations.
	seen := map[string]string{}

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse profile file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode profile file %s: %w", file, diags)
		}

		if root.Driver != nil {
			if err := markSeen(seen, "driver", file); err != nil {
				return nil, err
			}
			applyDriverBlock(profile, root.Driver)
		}
		if root.Output != nil {
			if err := markSeen(seen, "output", file); err != nil {
				return nil, err
			}
			applyOutputBlock(profile, root.Output)
		}
		if root.Run != nil {
			if err := markSeen(seen, "run", file); err != nil {
				return nil, err
			}
			applyRunBlock(profile, root.Run)
		}
		if root.Env != nil {
			if err := markSeen(seen, "env", file); err != nil {
				return nil, err
			}
			applyEnvBlock(profile, root.Env)
		}
	}

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	logger.Debug("HCL profile loading complete.", "files", len(files))
	return profile, nil
}

// findAllProfileFiles resolves the given paths to a flat list of profile
// files. A directory contributes every .hcl file beneath it; a plain file is
// taken as-is. Unlike optional discovery paths, a profile path was named
// explicitly by the operator, so a missing path is an error.
func (l *Loader) findAllProfileFiles(paths []string) ([]string, error) {
	var allFiles []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing profile path %s: %w", path, err)
		}

		if info.IsDir() {
			found, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, fmt.Errorf("error scanning profile directory %s: %w", path, err)
			}
			allFiles = append(allFiles, found...)
			continue
		}
		allFiles = append(allFiles, path)
	}
	return allFiles, nil
}

func markSeen(seen map[string]string, block, file string) error {
	if first, ok := seen[block]; ok {
		return fmt.Errorf("duplicate %q block: first defined in %s, again in %s", block, first, file)
	}
	seen[block] = file
	return nil
}

func applyDriverBlock(p *config.Profile, b *driverBlock) {
	if b.Command != nil {
		p.Driver.Command = b.Command
	}
	if b.InputFlag != nil {
		p.Driver.InputFlag = *b.InputFlag
	}
	if b.OutputFlag != nil {
		p.Driver.OutputFlag = *b.OutputFlag
	}
	if b.ResultsFlag != nil {
		p.Driver.ResultsFlag = *b.ResultsFlag
	}
	if b.InputFile != nil {
		p.Driver.InputFile = *b.InputFile
	}
	if b.ResultsFile != nil {
		p.Driver.ResultsFile = *b.ResultsFile
	}
	if b.ThreadEnv != nil {
		p.Driver.ThreadEnv = *b.ThreadEnv
	}
	if b.ExtraArgs != nil {
		p.Driver.ExtraArgs = b.ExtraArgs
	}
}

func applyOutputBlock(p *config.Profile, b *outputBlock) {
	if b.Layout != nil {
		p.Output.Layout = config.OutputLayout(*b.Layout)
	}
	if b.Subdir != nil {
		p.Output.Subdir = *b.Subdir
	}
}

func applyRunBlock(p *config.Profile, b *runBlock) {
	if b.OnFailure != nil {
		p.Run.OnFailure = config.FailurePolicy(*b.OnFailure)
	}
}

func applyEnvBlock(p *config.Profile, b *envBlock) {
	if b.WorkerIndex != nil {
		p.Env.WorkerIndex = *b.WorkerIndex
	}
	if b.WorkerCount != nil {
		p.Env.WorkerCount = *b.WorkerCount
	}
	if b.Threads != nil {
		p.Env.Threads = *b.Threads
	}
}
