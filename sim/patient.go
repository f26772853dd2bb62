// Defines the Patient process: one per arrival, from arrival to discharge.

package sim

import (
	"fmt"
	"math/rand"
)

// PatientType is the clinical stream a patient arrives through.
type PatientType string

const (
	Medical  PatientType = "Medical"
	Surgical PatientType = "Surgical"
)

// AllPatientTypes fixes the iteration order over patient types.
// Categorical draws depend on this order, so it must never change between runs.
var AllPatientTypes = []PatientType{Medical, Surgical}

// IsValidPatientType reports whether name is a known patient type.
func IsValidPatientType(name string) bool {
	for _, pt := range AllPatientTypes {
		if string(pt) == name {
			return true
		}
	}
	return false
}

// NMCRReason records why a medically-ready patient kept the bed.
type NMCRReason string

const (
	NMCRNone     NMCRReason = "None"
	NMCRInternal NMCRReason = "Internal"
	NMCRExternal NMCRReason = "External"
)

// PatientState represents the lifecycle state of a patient.
type PatientState string

const (
	StateArrived     PatientState = "arrived"
	StateAwaitingBed PatientState = "awaiting_bed"
	StateOccupying   PatientState = "occupying"
	StateDischarged  PatientState = "discharged"
)

// Patient is the per-patient process. Its fields are written only by the
// scheduler's run loop as the patient moves through its states.
type Patient struct {
	ID          int
	Type        PatientType
	State       PatientState
	ArrivalTime float64

	BaseLOS    float64 // Exp(mean LOS) × complexity factor
	NMCRDelay  float64 // 0 when NMCRReason is NMCRNone
	NMCRReason NMCRReason
	TotalLOS   float64 // BaseLOS + NMCRDelay, fixed before the bed request

	AdmissionTime float64
	Bed           Tier
}

// newPatient creates a patient in the Arrived state.
func newPatient(id int, pt PatientType, arrival, baseLOS float64) *Patient {
	return &Patient{
		ID:          id,
		Type:        pt,
		State:       StateArrived,
		ArrivalTime: arrival,
		BaseLOS:     baseLOS,
		NMCRReason:  NMCRNone,
		TotalLOS:    baseLOS,
	}
}

// finalizeStay draws the NMCR outcome and fixes TotalLOS. Called once, in the
// Arrived state; time spent waiting for a bed never triggers a fresh draw.
func (p *Patient) finalizeStay(rng *rand.Rand, cfg NMCRConfig) {
	if p.State != StateArrived {
		panic(fmt.Sprintf("finalizeStay: patient %d is %s, want %s", p.ID, p.State, StateArrived))
	}
	reason, delay := drawNMCR(rng, cfg)
	p.NMCRReason = reason
	p.NMCRDelay = delay
	p.TotalLOS = p.BaseLOS + delay
}

// drawNMCR samples whether a patient is delayed, why, and by how much.
// Draw order: delayed?, then reason, then magnitude.
func drawNMCR(rng *rand.Rand, cfg NMCRConfig) (NMCRReason, float64) {
	if !Bernoulli(rng, cfg.Proportion/100) {
		return NMCRNone, 0
	}
	if Bernoulli(rng, cfg.InternalProportion/100) {
		return NMCRInternal, Exponential(rng, cfg.InternalDelay)
	}
	return NMCRExternal, Exponential(rng, cfg.ExternalDelay)
}

// WaitTime is the time spent in the wait queue. Zero until admitted.
func (p *Patient) WaitTime() float64 {
	if p.State != StateOccupying && p.State != StateDischarged {
		return 0
	}
	return p.AdmissionTime - p.ArrivalTime
}

// PatientRecord is the immutable log entry written when a patient is discharged.
type PatientRecord struct {
	ID            int         `json:"patient_id"`
	Type          PatientType `json:"type"`
	ArrivalTime   float64     `json:"arrival_time"`
	BaseLOS       float64     `json:"length_of_stay"`
	NMCRDelay     float64     `json:"nmcr_delay"`
	TotalLOS      float64     `json:"total_los"`
	AdmissionTime float64     `json:"admission_time"`
	WaitTime      float64     `json:"wait_time"`
	DischargeTime float64     `json:"discharge_time"`
	NMCRReason    NMCRReason  `json:"nmcr_reason"`
	Bed           string      `json:"bed"`
}

// record builds the discharge log entry.
func (p *Patient) record(dischargeTime float64) PatientRecord {
	return PatientRecord{
		ID:            p.ID,
		Type:          p.Type,
		ArrivalTime:   p.ArrivalTime,
		BaseLOS:       p.BaseLOS,
		NMCRDelay:     p.NMCRDelay,
		TotalLOS:      p.TotalLOS,
		AdmissionTime: p.AdmissionTime,
		WaitTime:      p.WaitTime(),
		DischargeTime: dischargeTime,
		NMCRReason:    p.NMCRReason,
		Bed:           p.Bed.String(),
	}
}
