package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// inputFileName is the driver input filename written into every run
// directory. It matches the dispatcher's default input_file.
const inputFileName = "input.py"

// Generate expands the matrix, renders one input file per scenario under
// outputRoot, and writes manifestPath listing the run directories in
// generation order, one per line. Rerunning overwrites previously generated
// inputs and the manifest. It returns the scenarios in manifest order.
func Generate(m *Matrix, templateText, outputRoot, manifestPath string) ([]Scenario, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matrix: %w", err)
	}

	if err := os.MkdirAll(outputRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output root %s: %w", outputRoot, err)
	}

	scenarios := Expand(m)

	dirs := make([]string, 0, len(scenarios))
	for _, scen := range scenarios {
		runDir := filepath.Join(outputRoot, scen.Name)
		if err := os.MkdirAll(runDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create run directory %s: %w", runDir, err)
		}

		input, err := Render(templateText, Vars(m, scen))
		if err != nil {
			return nil, fmt.Errorf("failed to render input for scenario %s: %w", scen.Name, err)
		}
		if err := os.WriteFile(filepath.Join(runDir, inputFileName), []byte(input), 0644); err != nil {
			return nil, fmt.Errorf("failed to write input for scenario %s: %w", scen.Name, err)
		}

		dirs = append(dirs, runDir)
	}

	content := ""
	if len(dirs) > 0 {
		content = strings.Join(dirs, "\n") + "\n"
	}
	if err := os.WriteFile(manifestPath, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("failed to write manifest %s: %w", manifestPath, err)
	}

	return scenarios, nil
}
