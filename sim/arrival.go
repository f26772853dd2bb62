package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// GeneratorState is the state of the arrival process.
type GeneratorState string

const (
	GeneratorIdle    GeneratorState = "idle"    // not yet started
	GeneratorWaiting GeneratorState = "waiting" // an arrival is scheduled
	GeneratorDone    GeneratorState = "done"    // next arrival would fall beyond the horizon
)

// ArrivalGenerator is the Poisson arrival process. Inter-arrival times are
// exponential at the total arrival rate; the type of each arrival is drawn with
// probability proportional to its rate.
type ArrivalGenerator struct {
	State     GeneratorState
	rng       *rand.Rand
	horizon   float64
	totalRate float64
	rates     []float64 // aligned with AllPatientTypes
	types     map[PatientType]PatientTypeConfig
	nextID    int
}

// NewArrivalGenerator creates a generator drawing from rng.
// totalRate must be positive; Config.Validate rejects configurations where it is not.
func NewArrivalGenerator(rng *rand.Rand, types map[PatientType]PatientTypeConfig, horizon float64) *ArrivalGenerator {
	rates := make([]float64, len(AllPatientTypes))
	total := 0.0
	for i, pt := range AllPatientTypes {
		rates[i] = types[pt].ArrivalRate
		total += rates[i]
	}
	return &ArrivalGenerator{
		State:     GeneratorIdle,
		rng:       rng,
		horizon:   horizon,
		totalRate: total,
		rates:     rates,
		types:     types,
	}
}

// Spawned returns the number of patients spawned so far.
func (g *ArrivalGenerator) Spawned() int { return g.nextID }

// start registers the generator with the scheduler at time 0.
func (g *ArrivalGenerator) start(sim *Simulator) {
	sim.scheduler.Schedule(&ArrivalEvent{time: 0, spawn: false})
}

// resume runs one step of the arrival loop: spawn the patient due now (unless this is
// the start event), then draw the next inter-arrival time and either schedule it or stop.
func (g *ArrivalGenerator) resume(sim *Simulator, spawn bool) {
	now := sim.scheduler.Clock()
	if spawn {
		p := g.spawn(now)
		sim.scheduler.Schedule(&PatientStartEvent{time: now, Patient: p})
	}

	next := now + Exponential(g.rng, 1/g.totalRate)
	if next > g.horizon {
		g.State = GeneratorDone
		logrus.Debugf("[day %.3f] arrival generator done after %d patients", now, g.nextID)
		return
	}
	g.State = GeneratorWaiting
	sim.scheduler.Schedule(&ArrivalEvent{time: next, spawn: true})
}

// spawn draws the type and base LOS of a new patient.
func (g *ArrivalGenerator) spawn(now float64) *Patient {
	pt := AllPatientTypes[Categorical(g.rng, g.rates)]
	tc := g.types[pt]
	baseLOS := Exponential(g.rng, tc.MeanLOS) * tc.ComplexityFactor
	p := newPatient(g.nextID, pt, now, baseLOS)
	g.nextID++
	return p
}
