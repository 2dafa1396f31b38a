// Package driver builds the external driver invocation for one scenario.
// The driver is an opaque collaborator: it receives an input file, an output
// directory and a results filename, runs to completion, and reports success
// through its exit status. Everything the driver needs is resolved to an
// absolute path up front so the dispatcher never has to change its own
// working directory.
package driver

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/vk/scengridgo/internal/config"
	"github.com/vk/scengridgo/internal/manifest"
	"github.com/vk/scengridgo/internal/partition"
	"github.com/zclconf/go-cty/cty"
)

// Invocation is one fully-resolved driver run.
type Invocation struct {
	// Argv is the complete command line, starting with the driver executable.
	Argv []string

	// Dir is the absolute scenario directory the driver runs in.
	Dir string

	// OutputDir is the absolute output target handed to the driver. It is
	// either a subdirectory of Dir or Dir itself, depending on the output
	// layout.
	OutputDir string

	// Env holds extra environment entries appended to the parent process
	// environment, currently only the thread-count export.
	Env []string
}

// Builder turns scenarios into driver invocations using one run profile.
type Builder struct {
	spec    config.DriverSpec
	output  config.OutputSpec
	worker  partition.Worker
	threads int
}

// NewBuilder creates a Builder for the given driver and output
// configuration. The worker identity and thread hint are fixed for the
// lifetime of the builder; only the scenario varies per invocation.
func NewBuilder(spec config.DriverSpec, output config.OutputSpec, worker partition.Worker, threads int) *Builder {
	return &Builder{
		spec:    spec,
		output:  output,
		worker:  worker,
		threads: threads,
	}
}

// Invocation resolves the command line, working directory, output target and
// environment for one scenario.
func (b *Builder) Invocation(scen manifest.Scenario) (*Invocation, error) {
	dir, err := filepath.Abs(scen.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scenario directory %s: %w", scen.Dir, err)
	}

	outputDir := dir
	if b.output.Layout == config.LayoutSubdir {
		outputDir = filepath.Join(dir, b.output.Subdir)
	}

	argv := make([]string, 0, len(b.spec.Command)+6)
	argv = append(argv, b.spec.Command...)
	argv = append(argv,
		b.spec.InputFlag, filepath.Join(dir, b.spec.InputFile),
		b.spec.OutputFlag, outputDir,
		b.spec.ResultsFlag, b.spec.ResultsFile,
	)

	extra, err := b.extraArgs(scen)
	if err != nil {
		return nil, err
	}
	argv = append(argv, extra...)

	var env []string
	if b.spec.ThreadEnv != "" {
		env = append(env, fmt.Sprintf("%s=%d", b.spec.ThreadEnv, b.threads))
	}

	return &Invocation{
		Argv:      argv,
		Dir:       dir,
		OutputDir: outputDir,
		Env:       env,
	}, nil
}

// Command builds the child process for an invocation. The caller attaches
// output streams and runs it. Cancelling the context kills a running driver;
// there is no gentler interruption.
func (b *Builder) Command(ctx context.Context, inv *Invocation) *exec.Cmd {
	cmd := exec.CommandContext(ctx, inv.Argv[0], inv.Argv[1:]...)
	cmd.Dir = inv.Dir
	cmd.Env = append(os.Environ(), inv.Env...)
	return cmd
}

// extraArgs evaluates the profile's optional extra_args expression against
// the scenario and worker variables.
func (b *Builder) extraArgs(scen manifest.Scenario) ([]string, error) {
	if b.spec.ExtraArgs == nil {
		return nil, nil
	}

	evalCtx := &hcl.EvalContext{Variables: map[string]cty.Value{
		"scenario": cty.ObjectVal(map[string]cty.Value{
			"name":  cty.StringVal(scen.Name),
			"dir":   cty.StringVal(scen.Dir),
			"index": cty.NumberIntVal(int64(scen.Index)),
		}),
		"worker": cty.ObjectVal(map[string]cty.Value{
			"index": cty.NumberIntVal(int64(b.worker.Index)),
			"count": cty.NumberIntVal(int64(b.worker.Count)),
		}),
	}}

	var args []string
	if diags := gohcl.DecodeExpression(b.spec.ExtraArgs, evalCtx, &args); diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate driver extra_args for scenario %s: %w", scen.Name, diags)
	}
	return args, nil
}
