package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemArrivals drives inter-arrival times, patient types and base LOS.
	// Uses the master seed directly.
	SubsystemArrivals = "arrivals"

	// SubsystemNMCR drives the NMCR delay outcome of each patient.
	// Isolated so that NMCR settings never perturb the arrival stream.
	SubsystemNMCR = "nmcr"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemArrivals: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemArrivals {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// === Variates ===

// Exponential draws from an exponential distribution with the given mean.
// The mean must be strictly positive; Config.Validate guarantees this for every
// configured mean, so a violation here is a programming error.
func Exponential(rng *rand.Rand, mean float64) float64 {
	if !(mean > 0) {
		panic(fmt.Sprintf("Exponential: mean must be positive, got %v", mean))
	}
	return rng.ExpFloat64() * mean
}

// Bernoulli returns true with probability p. Values outside [0, 1] act as the nearest bound.
// Always consumes exactly one draw so the stream position does not depend on p.
func Bernoulli(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

// Categorical draws an index with probability proportional to weights[i].
// Zero weights are never selected. Panics if no weight is positive.
func Categorical(rng *rand.Rand, weights []float64) int {
	total := 0.0
	last := -1
	for i, w := range weights {
		if w < 0 {
			panic(fmt.Sprintf("Categorical: negative weight %v at index %d", w, i))
		}
		if w > 0 {
			total += w
			last = i
		}
	}
	if last < 0 {
		panic("Categorical: no positive weight")
	}
	u := rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if w > 0 && u < acc {
			return i
		}
	}
	// u rounded up to total
	return last
}
