package cmd

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	sim "github.com/ward-sim/ward-sim/sim"
)

// ScenarioFile represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type ScenarioFile struct {
	Version   string                `yaml:"version"`
	Scenarios map[string]sim.Config `yaml:"scenarios"`
}

// loadScenarioFile parses defaults.yaml into a ScenarioFile.
// Uses strict field checking: typos must cause errors.
func loadScenarioFile(path string) (*ScenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading defaults file %s: %w", path, err)
	}
	var sf ScenarioFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sf); err != nil {
		return nil, fmt.Errorf("parsing defaults file %s: %w", path, err)
	}
	return &sf, nil
}

// GetScenario returns the named preset from the defaults file.
// Preset entries are complete configurations; they are not merged with DefaultConfig.
func GetScenario(path, name string) (sim.Config, error) {
	sf, err := loadScenarioFile(path)
	if err != nil {
		return sim.Config{}, err
	}
	cfg, ok := sf.Scenarios[name]
	if !ok {
		return sim.Config{}, fmt.Errorf("scenario %q not found in %s; available: %v", name, path, sf.ScenarioNames())
	}
	return cfg, nil
}

// ScenarioNames returns the preset names in sorted order.
func (sf *ScenarioFile) ScenarioNames() []string {
	names := make([]string, 0, len(sf.Scenarios))
	for name := range sf.Scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
