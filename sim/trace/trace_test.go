package trace

import (
	"testing"
)

func TestSimulationTrace_RecordAdmission_AppendsInOrder(t *testing.T) {
	// GIVEN a trace configured for decisions
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN a queued decision and its later promotion are recorded
	st.RecordAdmission(AdmissionRecord{PatientID: 4, Clock: 1.5, Outcome: OutcomeQueued, Tier: "wait", Occupied: 12})
	st.RecordAdmission(AdmissionRecord{PatientID: 4, Clock: 2.25, Outcome: OutcomePromoted, Tier: "boarding", Occupied: 12, Wait: 0.75})

	// THEN both are kept in recording order
	if len(st.Admissions) != 2 {
		t.Fatalf("expected 2 admissions, got %d", len(st.Admissions))
	}
	if st.Admissions[0].Outcome != OutcomeQueued {
		t.Errorf("expected first outcome queued, got %s", st.Admissions[0].Outcome)
	}
	if st.Admissions[1].Wait != 0.75 {
		t.Errorf("expected promotion wait 0.75, got %v", st.Admissions[1].Wait)
	}
}

func TestNewSimulationTrace_StartsEmpty(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	if st.Admissions == nil || len(st.Admissions) != 0 {
		t.Errorf("expected empty non-nil admissions, got %v", st.Admissions)
	}
	if st.Config.Level != TraceLevelDecisions {
		t.Errorf("expected level decisions, got %s", st.Config.Level)
	}
}
