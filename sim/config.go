package sim

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ward-sim/ward-sim/sim/trace"
)

// ErrNoArrivals is returned by Validate when no patient type has a positive arrival rate.
// The caller must refuse to run: no arrival process can be spawned.
var ErrNoArrivals = errors.New("total arrival rate is zero")

// Complexity factors are bounded to the range offered by the ward planning tool.
const (
	MinComplexityFactor = 0.5
	MaxComplexityFactor = 2.0
)

// PatientTypeConfig groups the per-type arrival and stay parameters.
type PatientTypeConfig struct {
	ArrivalRate      float64 `yaml:"arrival_rate"`      // patients per day (>= 0)
	MeanLOS          float64 `yaml:"mean_los"`          // mean length of stay in days (> 0)
	ComplexityFactor float64 `yaml:"complexity_factor"` // multiplier on sampled LOS, in [0.5, 2.0]
}

// NMCRConfig groups the "not meeting criteria to reside" delay parameters.
// Proportions are percentages in [0, 100]; delays are mean days (> 0).
type NMCRConfig struct {
	Proportion         float64 `yaml:"proportion"`
	InternalProportion float64 `yaml:"internal_proportion"`
	InternalDelay      float64 `yaml:"internal_delay"`
	ExternalDelay      float64 `yaml:"external_delay"`
}

// ExternalProportion is the complement of InternalProportion.
func (n NMCRConfig) ExternalProportion() float64 {
	return 100 - n.InternalProportion
}

// Config is the full input of a simulation run.
// Loaded from YAML via LoadConfig(path) or built in code; always checked by Validate.
type Config struct {
	Horizon         int                               `yaml:"horizon"`         // simulated days (> 0)
	BaseCapacity    int                               `yaml:"base_capacity"`   // normal beds (> 0)
	ExtraBedRatio   int                               `yaml:"extra_bed_ratio"` // one boarding bed per N normal beds (> 0)
	BoardingEnabled bool                              `yaml:"boarding_enabled"`
	PatientTypes    map[PatientType]PatientTypeConfig `yaml:"patient_types"` // absent type = no arrivals of that type
	NMCR            NMCRConfig                        `yaml:"nmcr"`
	Seed            int64                             `yaml:"seed"`
	TraceLevel      trace.TraceLevel                  `yaml:"trace_level,omitempty"`
}

// DefaultConfig returns the parameters of the reference ward: 100 beds over one year,
// five medical and five surgical admissions per day, and a 20% NMCR rate.
func DefaultConfig() Config {
	return Config{
		Horizon:         365,
		BaseCapacity:    100,
		ExtraBedRatio:   5,
		BoardingEnabled: true,
		PatientTypes: map[PatientType]PatientTypeConfig{
			Medical:  {ArrivalRate: 5.0, MeanLOS: 7.0, ComplexityFactor: 1.0},
			Surgical: {ArrivalRate: 5.0, MeanLOS: 7.0, ComplexityFactor: 1.0},
		},
		NMCR: NMCRConfig{
			Proportion:         20,
			InternalProportion: 50,
			InternalDelay:      2.0,
			ExternalDelay:      5.0,
		},
		Seed:       42,
		TraceLevel: trace.TraceLevelNone,
	}
}

// ExtraCapacity is the number of boarding beds: BaseCapacity / ExtraBedRatio, floored.
func (c *Config) ExtraCapacity() int {
	if c.ExtraBedRatio <= 0 {
		return 0
	}
	return c.BaseCapacity / c.ExtraBedRatio
}

// TotalArrivalRate sums the arrival rates of all configured patient types.
func (c *Config) TotalArrivalRate() float64 {
	total := 0.0
	for _, pt := range AllPatientTypes {
		total += c.PatientTypes[pt].ArrivalRate
	}
	return total
}

// OfferedLoad is the expected number of occupied beds with unlimited capacity:
// arrival rate times mean total stay, summed over patient types.
func (c *Config) OfferedLoad() float64 {
	nmcr := c.NMCR.Proportion / 100 *
		(c.NMCR.InternalProportion/100*c.NMCR.InternalDelay + c.NMCR.ExternalProportion()/100*c.NMCR.ExternalDelay)
	load := 0.0
	for _, pt := range AllPatientTypes {
		tc := c.PatientTypes[pt]
		load += tc.ArrivalRate * (tc.MeanLOS*tc.ComplexityFactor + nmcr)
	}
	return load
}

// LoadConfig reads a YAML scenario file on top of DefaultConfig.
// Uses strict parsing: unrecognized keys (typos) are rejected.
// A patient type listed in the file replaces the default entry for that type entirely.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Validate checks every parameter against its domain.
// Returns an error wrapping ErrNoArrivals when the total arrival rate is zero.
func (c *Config) Validate() error {
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %d", c.Horizon)
	}
	if c.BaseCapacity <= 0 {
		return fmt.Errorf("base_capacity must be positive, got %d", c.BaseCapacity)
	}
	if c.ExtraBedRatio <= 0 {
		return fmt.Errorf("extra_bed_ratio must be positive, got %d", c.ExtraBedRatio)
	}
	if err := validatePatientTypes(c.PatientTypes); err != nil {
		return err
	}
	if err := validateNMCR(&c.NMCR); err != nil {
		return err
	}
	if !trace.IsValidTraceLevel(string(c.TraceLevel)) {
		return fmt.Errorf("unknown trace_level %q; valid: none, decisions", c.TraceLevel)
	}
	if c.TotalArrivalRate() == 0 {
		return fmt.Errorf("%w: at least one patient type needs a positive arrival_rate", ErrNoArrivals)
	}
	return nil
}

func validatePatientTypes(types map[PatientType]PatientTypeConfig) error {
	unknown := make([]string, 0)
	for pt := range types {
		if !IsValidPatientType(string(pt)) {
			unknown = append(unknown, string(pt))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown patient type %q; valid: Medical, Surgical", unknown[0])
	}
	for _, pt := range AllPatientTypes {
		tc, ok := types[pt]
		if !ok {
			continue
		}
		prefix := fmt.Sprintf("patient_types.%s", pt)
		if math.IsNaN(tc.ArrivalRate) || math.IsInf(tc.ArrivalRate, 0) || tc.ArrivalRate < 0 {
			return fmt.Errorf("%s.arrival_rate must be a finite non-negative number, got %f", prefix, tc.ArrivalRate)
		}
		if err := validateFinitePositive(prefix+".mean_los", tc.MeanLOS); err != nil {
			return err
		}
		if math.IsNaN(tc.ComplexityFactor) || tc.ComplexityFactor < MinComplexityFactor || tc.ComplexityFactor > MaxComplexityFactor {
			return fmt.Errorf("%s.complexity_factor must be in [%.1f, %.1f], got %f",
				prefix, MinComplexityFactor, MaxComplexityFactor, tc.ComplexityFactor)
		}
	}
	return nil
}

func validateNMCR(n *NMCRConfig) error {
	if err := validatePercent("nmcr.proportion", n.Proportion); err != nil {
		return err
	}
	if err := validatePercent("nmcr.internal_proportion", n.InternalProportion); err != nil {
		return err
	}
	if err := validateFinitePositive("nmcr.internal_delay", n.InternalDelay); err != nil {
		return err
	}
	return validateFinitePositive("nmcr.external_delay", n.ExternalDelay)
}

func validatePercent(name string, val float64) error {
	if math.IsNaN(val) || val < 0 || val > 100 {
		return fmt.Errorf("%s must be in [0, 100], got %f", name, val)
	}
	return nil
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %f", name, val)
	}
	return nil
}
