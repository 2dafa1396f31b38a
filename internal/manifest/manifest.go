// Package manifest loads the ordered list of scenario directories that a
// dispatch run operates on. Line order in the manifest file is significant:
// it defines the global scenario indices the worker partition is computed
// from.
package manifest

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scenario is one unit of work: a directory holding the driver's input file.
type Scenario struct {
	// Index is the scenario's global position in the manifest, starting at 0.
	Index int

	// Dir is the scenario's working directory exactly as written in the
	// manifest.
	Dir string

	// Name is the short scenario name derived from Dir, used for log
	// filenames.
	Name string
}

// Manifest is the immutable, ordered scenario list for one run.
type Manifest struct {
	Path      string
	Scenarios []Scenario
}

// Load reads the manifest at path. Every line is one scenario, blank lines
// included; nothing is skipped or deduplicated, so scenario indices always
// match the generator's numbering.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest %s: %w", path, err)
	}
	defer f.Close()

	m := &Manifest{Path: path}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		dir := scanner.Text()
		m.Scenarios = append(m.Scenarios, Scenario{
			Index: len(m.Scenarios),
			Dir:   dir,
			Name:  Name(dir),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	return m, nil
}

// Len returns the number of scenarios in the manifest.
func (m *Manifest) Len() int {
	return len(m.Scenarios)
}

// Select returns the scenarios at the given global indices, in the given
// order. Indices must be valid for the manifest.
func (m *Manifest) Select(indices []int) []Scenario {
	selected := make([]Scenario, 0, len(indices))
	for _, i := range indices {
		selected = append(selected, m.Scenarios[i])
	}
	return selected
}

// Name derives the short scenario name from a manifest line: the final path
// component, with any residual separator mapped away so the result is always
// usable as a single filename component.
func Name(dir string) string {
	name := filepath.Base(dir)
	return strings.ReplaceAll(name, string(filepath.Separator), "_")
}
