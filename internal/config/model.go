package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// OutputLayout selects where the driver's output is directed for a scenario.
type OutputLayout string

const (
	// LayoutSubdir creates a named subdirectory beneath the scenario
	// directory and passes it to the driver as the output target.
	LayoutSubdir OutputLayout = "subdir"

	// LayoutScenario passes the scenario directory itself as the output
	// target.
	LayoutScenario OutputLayout = "scenario"
)

// FailurePolicy selects how the dispatcher reacts to a failing driver run.
type FailurePolicy string

const (
	// FailAbort stops the run at the first non-zero driver exit. Scenarios
	// after the failing one are never started.
	FailAbort FailurePolicy = "abort"

	// FailContinue runs every assigned scenario and reports the accumulated
	// failures at the end.
	FailContinue FailurePolicy = "continue"
)

// Profile is the unified, format-agnostic representation of a run profile.
type Profile struct {
	Driver DriverSpec
	Output OutputSpec
	Run    RunSpec
	Env    EnvSpec
}

// DriverSpec describes the external driver invocation contract: the command
// to launch and the three named arguments every scenario run receives.
type DriverSpec struct {
	// Command is the argv prefix of the driver, e.g.
	// ["python3", "-m", "pyrk.driver"].
	Command []string

	// InputFlag, OutputFlag and ResultsFlag name the driver's three
	// arguments for the input file, the plot/output directory and the
	// results filename.
	InputFlag   string
	OutputFlag  string
	ResultsFlag string

	// InputFile is the per-scenario input filename, resolved inside the
	// scenario directory.
	InputFile string

	// ResultsFile is the results filename the driver writes into the output
	// target.
	ResultsFile string

	// ThreadEnv is the environment variable under which the thread-count
	// hint is exported to the driver process. Empty disables the export.
	// The dispatcher itself never reads the hint.
	ThreadEnv string

	// ExtraArgs is an optional expression yielding additional argv entries,
	// evaluated once per scenario against the scenario/worker variables.
	// Nil means no extra arguments.
	ExtraArgs hcl.Expression
}

// OutputSpec describes where driver output is directed.
type OutputSpec struct {
	Layout OutputLayout

	// Subdir is the name of the output subdirectory for LayoutSubdir. It
	// must be a bare path component.
	Subdir string
}

// RunSpec holds run-level policy.
type RunSpec struct {
	OnFailure FailurePolicy
}

// EnvSpec names the environment variables the job launcher uses to supply
// worker identity and the thread-count hint. The defaults match Slurm job
// arrays.
type EnvSpec struct {
	WorkerIndex string
	WorkerCount string
	Threads     string
}

// Default returns a fully-populated profile with the built-in defaults. A
// run with no profile file behaves exactly as if this profile were loaded.
func Default() *Profile {
	return &Profile{
		Driver: DriverSpec{
			Command:     []string{"python3", "-m", "pyrk.driver"},
			InputFlag:   "--infile",
			OutputFlag:  "--plotdir",
			ResultsFlag: "--outfile",
			InputFile:   "input.py",
			ResultsFile: "power.csv",
			ThreadEnv:   "OMP_NUM_THREADS",
		},
		Output: OutputSpec{
			Layout: LayoutSubdir,
			Subdir: "output",
		},
		Run: RunSpec{
			OnFailure: FailAbort,
		},
		Env: EnvSpec{
			WorkerIndex: "SLURM_ARRAY_TASK_ID",
			WorkerCount: "SLURM_ARRAY_TASK_COUNT",
			Threads:     "SLURM_CPUS_PER_TASK",
		},
	}
}

// Validate checks the profile for values the dispatcher cannot act on.
func (p *Profile) Validate() error {
	if len(p.Driver.Command) == 0 {
		return fmt.Errorf("driver command must not be empty")
	}
	if p.Driver.InputFile == "" {
		return fmt.Errorf("driver input_file must not be empty")
	}
	if p.Driver.ResultsFile == "" {
		return fmt.Errorf("driver results_file must not be empty")
	}

	switch p.Output.Layout {
	case LayoutSubdir:
		if p.Output.Subdir == "" {
			return fmt.Errorf("output subdir must not be empty for layout %q", LayoutSubdir)
		}
		if strings.ContainsRune(p.Output.Subdir, '/') {
			return fmt.Errorf("output subdir %q must be a bare path component", p.Output.Subdir)
		}
	case LayoutScenario:
		// The scenario directory itself is the target; nothing to check.
	default:
		return fmt.Errorf("unknown output layout %q: must be %q or %q", p.Output.Layout, LayoutSubdir, LayoutScenario)
	}

	switch p.Run.OnFailure {
	case FailAbort, FailContinue:
		// valid
	default:
		return fmt.Errorf("unknown on_failure policy %q: must be %q or %q", p.Run.OnFailure, FailAbort, FailContinue)
	}

	return nil
}
