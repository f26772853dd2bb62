// Package trace provides decision-trace recording for bed-pool policy analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// Outcome is what the bed pool did with a request.
type Outcome string

const (
	OutcomeAdmitted Outcome = "admitted" // bed granted at request time
	OutcomeQueued   Outcome = "queued"   // no bed; request entered the wait queue
	OutcomePromoted Outcome = "promoted" // bed granted from the wait queue on a release
)

// AdmissionRecord captures a single bed-pool decision.
type AdmissionRecord struct {
	PatientID int
	Clock     float64
	Outcome   Outcome
	Tier      string  // "normal", "boarding" (bed granted) or "wait" (queued)
	Occupied  int     // occupied beds right after the decision
	Wait      float64 // Clock - arrival time
}
