package spec

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ScenarioFile is the file name LoadProject looks for.
const ScenarioFile = "scenario.yaml"

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}

	return &s, nil
}

// LoadProject loads a scenario from a project directory.
// It looks for scenario.yaml in the given directory.
func LoadProject(projectDir string) (*Scenario, error) {
	return Load(ProjectPath(projectDir))
}

// ProjectPath returns the scenario file path inside a project directory.
func ProjectPath(projectDir string) string {
	return filepath.Join(projectDir, ScenarioFile)
}

// Save writes s as YAML to path, replacing the file atomically.
func Save(path string, s *Scenario) error {
	if s.SpecVersion == "" {
		s.SpecVersion = CurrentVersion
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding scenario YAML: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".scenario-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing scenario file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing scenario file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing scenario file: %w", err)
	}
	return nil
}
