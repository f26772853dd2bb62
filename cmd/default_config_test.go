package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/ward-sim/ward-sim/sim"
)

// repoDefaultsPath locates defaults.yaml from the cmd package directory.
func repoDefaultsPath(t *testing.T) string {
	t.Helper()
	path := "defaults.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = "../defaults.yaml"
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Skip("defaults.yaml not found, skipping integration test")
		}
	}
	return path
}

func writeDefaults(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultsFile_EveryScenarioValidates(t *testing.T) {
	// GIVEN the shipped defaults.yaml
	sf, err := loadScenarioFile(repoDefaultsPath(t))
	require.NoError(t, err)
	require.NotEmpty(t, sf.Scenarios)

	// THEN every preset is a complete, runnable configuration
	for _, name := range sf.ScenarioNames() {
		cfg := sf.Scenarios[name]
		assert.NoError(t, cfg.Validate(), "scenario %s", name)
	}
}

func TestDefaultsFile_ReferenceMatchesDefaultConfig(t *testing.T) {
	cfg, err := GetScenario(repoDefaultsPath(t), "reference")
	require.NoError(t, err)
	def := sim.DefaultConfig()
	def.TraceLevel = ""
	assert.Equal(t, def, cfg)
}

func TestGetScenario_Missing_ListsAvailable(t *testing.T) {
	path := writeDefaults(t, `
version: "1"
scenarios:
  small:
    horizon: 10
    base_capacity: 5
    extra_bed_ratio: 5
    patient_types:
      Medical: {arrival_rate: 1, mean_los: 2, complexity_factor: 1}
    nmcr: {proportion: 0, internal_proportion: 50, internal_delay: 1, external_delay: 1}
`)
	_, err := GetScenario(path, "huge")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `scenario "huge" not found`)
	assert.Contains(t, err.Error(), "small")

	cfg, err := GetScenario(path, "small")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.BaseCapacity)
	assert.False(t, cfg.BoardingEnabled)
}

func TestLoadScenarioFile_UnknownFieldRejected(t *testing.T) {
	// GIVEN a preset with a misspelled key
	path := writeDefaults(t, `
version: "1"
scenarios:
  typo:
    horizn: 10
`)

	// WHEN parsed
	_, err := loadScenarioFile(path)

	// THEN strict parsing refuses it
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing defaults file")
}

func TestScenarioNames_Sorted(t *testing.T) {
	sf := &ScenarioFile{Scenarios: map[string]sim.Config{"b": {}, "c": {}, "a": {}}}
	assert.Equal(t, []string{"a", "b", "c"}, sf.ScenarioNames())
}
