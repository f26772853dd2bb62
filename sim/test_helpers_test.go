package sim

import (
	"container/heap"
	"testing"

	"github.com/stretchr/testify/require"
)

func initWaitHeap(bp *BedPool) {
	heap.Init(&bp.waitQ)
}

// singleTypeConfig returns a small ward with only medical arrivals and no NMCR delays.
func singleTypeConfig(horizon, beds, ratio int, boarding bool, rate, meanLOS float64) Config {
	return Config{
		Horizon:         horizon,
		BaseCapacity:    beds,
		ExtraBedRatio:   ratio,
		BoardingEnabled: boarding,
		PatientTypes: map[PatientType]PatientTypeConfig{
			Medical: {ArrivalRate: rate, MeanLOS: meanLOS, ComplexityFactor: 1.0},
		},
		NMCR: NMCRConfig{
			Proportion:         0,
			InternalProportion: 50,
			InternalDelay:      2.0,
			ExternalDelay:      5.0,
		},
		Seed: 42,
	}
}

// mustRun runs cfg and fails the test on a configuration error.
func mustRun(t *testing.T, cfg Config) *Result {
	t.Helper()
	r, err := Run(cfg)
	require.NoError(t, err)
	require.NotNil(t, r)
	return r
}

func maxOccupied(samples []OccupancySample) int {
	m := 0
	for _, s := range samples {
		m = max(m, s.Occupied)
	}
	return m
}
