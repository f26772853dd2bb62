package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// === SimulationKey Tests ===

func TestSimulationKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
		{"min int64", math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewSimulationKey(tt.seed)
			if int64(key) != tt.seed {
				t.Errorf("NewSimulationKey(%d) = %d, want %d", tt.seed, key, tt.seed)
			}
		})
	}
}

// === PartitionedRNG Tests ===

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// BDD: Same key+name produces same sequence
	rng1 := NewPartitionedRNG(NewSimulationKey(42))
	rng2 := NewPartitionedRNG(NewSimulationKey(42))

	for i := 0; i < 3; i++ {
		v1 := rng1.ForSubsystem(SubsystemNMCR).Float64()
		v2 := rng2.ForSubsystem(SubsystemNMCR).Float64()
		if v1 != v2 {
			t.Errorf("Value %d: got %v and %v, want identical", i, v1, v2)
		}
	}
}

func TestPartitionedRNG_SubsystemIsolation(t *testing.T) {
	// BDD: Drawing from the arrivals stream doesn't affect the NMCR stream
	rngA := NewPartitionedRNG(NewSimulationKey(42))
	for i := 0; i < 10; i++ {
		rngA.ForSubsystem(SubsystemArrivals).Float64()
	}
	aFirst := rngA.ForSubsystem(SubsystemNMCR).Float64()

	fresh := NewPartitionedRNG(NewSimulationKey(42))
	expectedFirst := fresh.ForSubsystem(SubsystemNMCR).Float64()

	if aFirst != expectedFirst {
		t.Errorf("A's NMCR first value = %v, want %v (isolation broken)", aFirst, expectedFirst)
	}
}

func TestPartitionedRNG_ArrivalsUseMasterSeed(t *testing.T) {
	// BDD: "arrivals" subsystem uses master seed directly
	seed := int64(42)
	arrivals := NewPartitionedRNG(NewSimulationKey(seed)).ForSubsystem(SubsystemArrivals)
	direct := rand.New(rand.NewSource(seed))

	for i := 0; i < 10; i++ {
		if got, want := arrivals.Float64(), direct.Float64(); got != want {
			t.Errorf("Value %d: arrivals RNG = %v, direct RNG = %v", i, got, want)
		}
	}
}

func TestPartitionedRNG_SubsystemsDiffer(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	a := rng.ForSubsystem(SubsystemArrivals).Float64()
	n := rng.ForSubsystem(SubsystemNMCR).Float64()
	assert.NotEqual(t, a, n, "arrivals and nmcr streams must not be identical")
}

func TestPartitionedRNG_CachesInstance(t *testing.T) {
	// BDD: Same name returns same *rand.Rand instance
	rng := NewPartitionedRNG(NewSimulationKey(42))
	if rng.ForSubsystem(SubsystemNMCR) != rng.ForSubsystem(SubsystemNMCR) {
		t.Error("ForSubsystem returned different instances for same name")
	}
}

func TestPartitionedRNG_Key(t *testing.T) {
	seed := int64(12345)
	rng := NewPartitionedRNG(NewSimulationKey(seed))
	if rng.Key() != SimulationKey(seed) {
		t.Errorf("Key() = %v, want %v", rng.Key(), seed)
	}
}

// === Variate Tests ===

func TestExponential_SampleMean_ApproachesMean(t *testing.T) {
	// GIVEN a fixed-seed generator and mean 7 days
	rng := rand.New(rand.NewSource(1))
	const n = 200000
	sum := 0.0
	for i := 0; i < n; i++ {
		v := Exponential(rng, 7.0)
		if v <= 0 {
			t.Fatalf("draw %d = %v, want strictly positive", i, v)
		}
		sum += v
	}
	// THEN the sample mean is within 2% of 7
	assert.InDelta(t, 7.0, sum/n, 0.14)
}

func TestExponential_NonPositiveMean_Panics(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, mean := range []float64{0, -1, math.NaN()} {
		assert.Panics(t, func() { Exponential(rng, mean) }, "mean %v", mean)
	}
}

func TestBernoulli_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		if Bernoulli(rng, 0) {
			t.Fatal("Bernoulli(0) returned true")
		}
		if !Bernoulli(rng, 1) {
			t.Fatal("Bernoulli(1) returned false")
		}
	}
}

func TestCategorical_ZeroWeightNeverSelected(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 10000; i++ {
		idx := Categorical(rng, []float64{0, 3, 0, 1})
		if idx != 1 && idx != 3 {
			t.Fatalf("draw %d selected zero-weight index %d", i, idx)
		}
	}
}

func TestCategorical_Proportions(t *testing.T) {
	// GIVEN weights 1:3
	rng := rand.New(rand.NewSource(9))
	counts := make([]int, 2)
	const n = 100000
	for i := 0; i < n; i++ {
		counts[Categorical(rng, []float64{1, 3})]++
	}
	// THEN index 1 is drawn about 75% of the time
	assert.InDelta(t, 0.75, float64(counts[1])/n, 0.01)
}

func TestCategorical_InvalidWeights_Panics(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.Panics(t, func() { Categorical(rng, []float64{0, 0}) })
	assert.Panics(t, func() { Categorical(rng, nil) })
	assert.Panics(t, func() { Categorical(rng, []float64{1, -1}) })
}
