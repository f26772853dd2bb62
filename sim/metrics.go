// Aggregates a finished run into the statistics shown to ward planners:
// occupancy level and peaks, overflow into boarding beds, and NMCR burden.

package sim

import (
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the headline statistics of a run.
type Summary struct {
	AverageOccupancy float64 `json:"average_occupancy"`
	MaxOccupancy     int     `json:"max_occupancy"`
	OverflowEvents   int     `json:"overflow_events"` // samples with occupied > base capacity
	SampleCount      int     `json:"sample_count"`

	TotalPatients   int     `json:"total_patients"` // discharged
	MeanWaitTime    float64 `json:"mean_wait_time"`
	QueuedPatients  int     `json:"queued_patients"` // discharged patients that waited for a bed
	BoardedPatients int     `json:"boarded_patients"`

	NMCRPatients    int     `json:"nmcr_patients"`
	NMCRPercent     float64 `json:"nmcr_percent"`
	MeanNMCRDelay   float64 `json:"mean_nmcr_delay"`
	NMCRDelayP50    float64 `json:"nmcr_delay_p50"`
	NMCRDelayP90    float64 `json:"nmcr_delay_p90"`
	NMCRInternal    int     `json:"nmcr_internal"`
	NMCRExternal    int     `json:"nmcr_external"`
	WaitingAtEnd    int     `json:"waiting_at_end"`
	OccupyingAtEnd  int     `json:"occupying_at_end"`
	SpawnedPatients int     `json:"spawned_patients"`
}

// Summarize computes the Summary of r. Safe for empty results (zero-value fields).
func Summarize(r *Result) *Summary {
	s := &Summary{}
	if r == nil {
		return s
	}
	s.WaitingAtEnd = r.Waiting
	s.OccupyingAtEnd = r.Occupying
	s.SpawnedPatients = r.Spawned

	s.SampleCount = len(r.Samples)
	if len(r.Samples) > 0 {
		occ := make([]float64, len(r.Samples))
		for i, smp := range r.Samples {
			occ[i] = float64(smp.Occupied)
			if smp.Occupied > r.BaseCapacity {
				s.OverflowEvents++
			}
		}
		s.AverageOccupancy = stat.Mean(occ, nil)
		s.MaxOccupancy = int(floats.Max(occ))
	}

	s.TotalPatients = len(r.Patients)
	if len(r.Patients) == 0 {
		return s
	}
	waits := make([]float64, len(r.Patients))
	delays := make([]float64, 0)
	for i, p := range r.Patients {
		waits[i] = p.WaitTime
		if p.WaitTime > 0 {
			s.QueuedPatients++
		}
		if p.Bed == TierBoarding.String() {
			s.BoardedPatients++
		}
		switch p.NMCRReason {
		case NMCRInternal:
			s.NMCRInternal++
		case NMCRExternal:
			s.NMCRExternal++
		}
		if p.NMCRDelay > 0 {
			delays = append(delays, p.NMCRDelay)
		}
	}
	s.MeanWaitTime = stat.Mean(waits, nil)

	s.NMCRPatients = len(delays)
	s.NMCRPercent = 100 * float64(s.NMCRPatients) / float64(s.TotalPatients)
	if len(delays) > 0 {
		sort.Float64s(delays)
		s.MeanNMCRDelay = stat.Mean(delays, nil)
		s.NMCRDelayP50 = stat.Quantile(0.5, stat.Empirical, delays, nil)
		s.NMCRDelayP90 = stat.Quantile(0.9, stat.Empirical, delays, nil)
	}
	return s
}

// Print writes a human-readable report of the summary.
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Statistics ===")
	fmt.Fprintf(w, "Average Occupancy    : %.2f beds\n", s.AverageOccupancy)
	fmt.Fprintf(w, "Maximum Occupancy    : %d beds\n", s.MaxOccupancy)
	fmt.Fprintf(w, "Overflow Events      : %d samples\n", s.OverflowEvents)
	fmt.Fprintf(w, "Total Patients       : %d discharged (%d spawned)\n", s.TotalPatients, s.SpawnedPatients)
	fmt.Fprintf(w, "Boarded Patients     : %d\n", s.BoardedPatients)
	fmt.Fprintf(w, "Queued Patients      : %d (mean wait %.2f days)\n", s.QueuedPatients, s.MeanWaitTime)
	fmt.Fprintf(w, "At Horizon           : %d occupying, %d waiting\n", s.OccupyingAtEnd, s.WaitingAtEnd)
	fmt.Fprintln(w, "=== NMCR Analysis ===")
	fmt.Fprintf(w, "Patients with NMCR   : %d (%.1f%%)\n", s.NMCRPatients, s.NMCRPercent)
	fmt.Fprintf(w, "Average NMCR Delay   : %.2f days (p50 %.2f, p90 %.2f)\n", s.MeanNMCRDelay, s.NMCRDelayP50, s.NMCRDelayP90)
	fmt.Fprintf(w, "Internal Reasons     : %d patients\n", s.NMCRInternal)
	fmt.Fprintf(w, "External Reasons     : %d patients\n", s.NMCRExternal)
}
