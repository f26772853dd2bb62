package sim

import "github.com/sirupsen/logrus"

// Event priorities break ties between events due at the same simulated time.
// Lower values run first: beds are released before new requests are evaluated,
// and the periodic sample observes the settled state.
const (
	PriorityDischarge = 0
	PriorityPatient   = 1
	PriorityArrival   = 2
	PrioritySample    = 3
)

// Event defines the interface for all simulation events.
// Each event has a due time (in days), a tie-break priority and an Execute method
// that resumes a process when the scheduler reaches it.
type Event interface {
	Timestamp() float64
	Priority() int
	Execute(*Simulator)
}

// ArrivalEvent resumes the ArrivalGenerator. The first one (at t=0) only draws the
// first inter-arrival time; every later one spawns a patient.
type ArrivalEvent struct {
	time  float64
	spawn bool
}

func (e *ArrivalEvent) Timestamp() float64 { return e.time }
func (e *ArrivalEvent) Priority() int      { return PriorityArrival }

// Execute spawns the arriving patient (if any) and schedules the next arrival.
func (e *ArrivalEvent) Execute(sim *Simulator) {
	sim.generator.resume(sim, e.spawn)
}

// PatientStartEvent runs the Arrived step of a freshly spawned patient.
type PatientStartEvent struct {
	time    float64
	Patient *Patient
}

func (e *PatientStartEvent) Timestamp() float64 { return e.time }
func (e *PatientStartEvent) Priority() int      { return PriorityPatient }

// Execute finalises the patient's stay and issues its bed request.
func (e *PatientStartEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< Arrival: patient %d (%s) at day %.3f", e.Patient.ID, e.Patient.Type, e.time)
	sim.startPatient(e.Patient)
}

// DischargeEvent ends a patient's occupancy.
type DischargeEvent struct {
	time    float64
	Patient *Patient
}

func (e *DischargeEvent) Timestamp() float64 { return e.time }
func (e *DischargeEvent) Priority() int      { return PriorityDischarge }

// Execute releases the bed, logs the patient record and promotes a waiting patient.
func (e *DischargeEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< Discharge: patient %d at day %.3f", e.Patient.ID, e.time)
	sim.dischargePatient(e.Patient)
}

// SampleEvent is the periodic tick of the OccupancyRecorder.
type SampleEvent struct {
	day int
}

func (e *SampleEvent) Timestamp() float64 { return float64(e.day) }
func (e *SampleEvent) Priority() int      { return PrioritySample }

// Execute records the current occupancy and schedules the next daily sample.
func (e *SampleEvent) Execute(sim *Simulator) {
	sim.recorder.tick(sim, e.day)
}
