package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions   int
	AdmittedCount    int
	QueuedCount      int
	PromotedCount    int
	MeanPromotedWait float64
	MaxPromotedWait  float64
	TierDistribution map[string]int // tier → number of decisions
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		TierDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Admissions)
	totalWait := 0.0
	for _, a := range st.Admissions {
		summary.TierDistribution[a.Tier]++
		switch a.Outcome {
		case OutcomeAdmitted:
			summary.AdmittedCount++
		case OutcomeQueued:
			summary.QueuedCount++
		case OutcomePromoted:
			summary.PromotedCount++
			totalWait += a.Wait
			if a.Wait > summary.MaxPromotedWait {
				summary.MaxPromotedWait = a.Wait
			}
		}
	}
	if summary.PromotedCount > 0 {
		summary.MeanPromotedWait = totalWait / float64(summary.PromotedCount)
	}

	return summary
}
