package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccupancyRecorder_Record_KeepsOrder(t *testing.T) {
	r := NewOccupancyRecorder(3)
	r.Record(0, 0)
	r.Record(0.5, 1)
	r.Record(0.5, 2)
	assert.Equal(t, []OccupancySample{{0, 0}, {0.5, 1}, {0.5, 2}}, r.Samples())
	assert.Zero(t, r.DailySamples())
}

func TestOccupancyRecorder_SamplesEveryPoolChange(t *testing.T) {
	// GIVEN a simulator whose pool is driven by hand
	s, err := NewSimulator(singleTypeConfig(5, 2, 2, true, 1, 1))
	require.NoError(t, err)

	// WHEN two beds are taken and one is released
	s.pool.Request(&BedRequest{Patient: newPatient(0, Medical, 0, 1)}, 0)
	s.pool.Request(&BedRequest{Patient: newPatient(1, Medical, 0, 1)}, 0)
	s.pool.Release()

	// THEN each change produced one sample with the post-change occupancy
	got := make([]int, 0)
	for _, smp := range s.recorder.Samples() {
		got = append(got, smp.Occupied)
	}
	assert.Equal(t, []int{1, 2, 1}, got)
}

func TestOccupancyRecorder_DailySamplesStopBeforeHorizon(t *testing.T) {
	cfg := singleTypeConfig(3, 2, 2, true, 0.001, 1)
	s, err := NewSimulator(cfg)
	require.NoError(t, err)
	r := s.Run()

	assert.Equal(t, 3, s.recorder.DailySamples())
	daily := make([]float64, 0)
	for _, smp := range r.Samples {
		if smp.Time == float64(int(smp.Time)) {
			daily = append(daily, smp.Time)
		}
	}
	assert.Contains(t, daily, 0.0)
	assert.Contains(t, daily, 2.0)
	assert.NotContains(t, daily, 3.0)
}
