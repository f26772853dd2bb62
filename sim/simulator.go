// sim/simulator.go
package sim

import (
	"fmt"
	"maps"
	"math/rand"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ward-sim/ward-sim/sim/trace"
)

// Result is everything a finished run hands to reporting: the occupancy series in
// recording order and the log of discharged patients in discharge order.
type Result struct {
	RunID           string            `json:"run_id"`
	Seed            int64             `json:"seed"`
	Horizon         int               `json:"horizon"`
	BaseCapacity    int               `json:"base_capacity"`
	ExtraCapacity   int               `json:"extra_capacity"`
	BoardingEnabled bool              `json:"boarding_enabled"`
	Samples         []OccupancySample `json:"samples"`
	Patients        []PatientRecord   `json:"patients"`

	Spawned        int `json:"spawned"`        // patients created by the arrival generator
	Waiting        int `json:"waiting"`        // still queued at the horizon
	Occupying      int `json:"occupying"`      // still in a bed at the horizon
	FinalOccupied  int `json:"final_occupied"` // BedPool occupancy at the horizon
	EventsExecuted int `json:"events_executed"`

	Trace *trace.SimulationTrace `json:"-"`
}

// Simulator is the core object that holds the scheduler, the bed pool and the
// processes of one run. A Simulator runs once.
type Simulator struct {
	Config    Config
	scheduler *EventScheduler
	pool      *BedPool
	recorder  *OccupancyRecorder
	generator *ArrivalGenerator
	rng       *PartitionedRNG
	nmcrRNG   *rand.Rand
	trace     *trace.SimulationTrace

	patients  []PatientRecord
	waiting   int
	occupying int
	ran       bool
}

// NewSimulator validates cfg and wires the processes. Nothing is scheduled until Run.
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.PatientTypes = maps.Clone(cfg.PatientTypes)

	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	s := &Simulator{
		Config:    cfg,
		scheduler: NewEventScheduler(),
		pool:      NewBedPool(cfg.BaseCapacity, cfg.ExtraBedRatio, cfg.BoardingEnabled),
		recorder:  NewOccupancyRecorder(cfg.Horizon),
		generator: NewArrivalGenerator(rng.ForSubsystem(SubsystemArrivals), cfg.PatientTypes, float64(cfg.Horizon)),
		rng:       rng,
		nmcrRNG:   rng.ForSubsystem(SubsystemNMCR),
		patients:  make([]PatientRecord, 0),
	}
	if cfg.TraceLevel == trace.TraceLevelDecisions {
		s.trace = trace.NewSimulationTrace(trace.TraceConfig{Level: cfg.TraceLevel})
	}
	s.pool.OnChange(func(occupied int) {
		s.recorder.Record(s.scheduler.Clock(), occupied)
	})
	return s, nil
}

// Run validates cfg, simulates the ward up to its horizon and returns the result.
// This is the single entry point of the engine; it performs no I/O.
func Run(cfg Config) (*Result, error) {
	s, err := NewSimulator(cfg)
	if err != nil {
		return nil, err
	}
	return s.Run(), nil
}

// Run executes the simulation. Panics if called twice.
func (s *Simulator) Run() *Result {
	if s.ran {
		panic("Simulator.Run: simulator already ran")
	}
	s.ran = true

	horizon := float64(s.Config.Horizon)
	logrus.Infof("Starting simulation: horizon=%d days, beds=%d+%d (boarding=%v), arrival rate=%.3f/day, seed=%d",
		s.Config.Horizon, s.pool.BaseCapacity(), s.pool.ExtraCapacity(), s.Config.BoardingEnabled,
		s.Config.TotalArrivalRate(), s.Config.Seed)

	if load := s.Config.OfferedLoad(); load > float64(s.pool.Limit()) {
		logrus.Warnf("Offered load %.1f beds exceeds the %d-bed limit; the wait queue will grow without bound", load, s.pool.Limit())
	}

	s.recorder.start(s)
	s.generator.start(s)
	executed := s.scheduler.Run(horizon, s)

	if s.waiting > 0 {
		logrus.Warnf("[day %.3f] %d patients still waiting for a bed at the horizon", s.scheduler.Clock(), s.waiting)
	}
	logrus.Infof("[day %.3f] Simulation ended: %d events, %d discharged, %d occupying, %d waiting",
		s.scheduler.Clock(), executed, len(s.patients), s.occupying, s.waiting)

	return &Result{
		RunID:           NewRunID(s.Config),
		Seed:            s.Config.Seed,
		Horizon:         s.Config.Horizon,
		BaseCapacity:    s.pool.BaseCapacity(),
		ExtraCapacity:   s.pool.ExtraCapacity(),
		BoardingEnabled: s.Config.BoardingEnabled,
		Samples:         s.recorder.Samples(),
		Patients:        s.patients,
		Spawned:         s.generator.Spawned(),
		Waiting:         s.waiting,
		Occupying:       s.occupying,
		FinalOccupied:   s.pool.Occupied(),
		EventsExecuted:  executed,
		Trace:           s.trace,
	}
}

// startPatient runs the Arrived and AwaitingBed steps of p.
func (s *Simulator) startPatient(p *Patient) {
	p.finalizeStay(s.nmcrRNG, s.Config.NMCR)
	p.State = StateAwaitingBed

	req := &BedRequest{Patient: p}
	if s.pool.Request(req, s.scheduler.Clock()) {
		s.recordDecision(p, trace.OutcomeAdmitted, req.Bed)
		s.admit(req)
		return
	}
	s.waiting++
	s.recordDecision(p, trace.OutcomeQueued, req.Priority)
	logrus.Debugf("[day %.3f] patient %d queued (%d waiting, %d occupied)",
		s.scheduler.Clock(), p.ID, s.pool.WaitQueueLen(), s.pool.Occupied())
}

// admit moves a patient whose request was granted into Occupying and schedules
// its discharge.
func (s *Simulator) admit(req *BedRequest) {
	p := req.Patient
	now := s.scheduler.Clock()
	p.State = StateOccupying
	p.AdmissionTime = now
	p.Bed = req.Bed
	s.occupying++
	s.scheduler.Schedule(&DischargeEvent{time: now + p.TotalLOS, Patient: p})
	logrus.Debugf("[day %.3f] patient %d admitted to %s bed until day %.3f", now, p.ID, p.Bed, now+p.TotalLOS)
}

// dischargePatient runs the Discharged step of p and hands its bed to the next waiter.
func (s *Simulator) dischargePatient(p *Patient) {
	if p.State != StateOccupying {
		panic(fmt.Sprintf("dischargePatient: patient %d is %s, want %s", p.ID, p.State, StateOccupying))
	}
	now := s.scheduler.Clock()
	p.State = StateDischarged
	s.occupying--
	promoted := s.pool.Release()
	s.patients = append(s.patients, p.record(now))

	if promoted != nil {
		s.waiting--
		s.recordDecision(promoted.Patient, trace.OutcomePromoted, promoted.Bed)
		s.admit(promoted)
	}
}

func (s *Simulator) recordDecision(p *Patient, outcome trace.Outcome, tier Tier) {
	if s.trace == nil {
		return
	}
	now := s.scheduler.Clock()
	s.trace.RecordAdmission(trace.AdmissionRecord{
		PatientID: p.ID,
		Clock:     now,
		Outcome:   outcome,
		Tier:      tier.String(),
		Occupied:  s.pool.Occupied(),
		Wait:      now - p.ArrivalTime,
	})
}

// NewRunID derives a stable identifier for a configuration: identical configurations
// (seed included) map to the same ID. The trace level does not affect results and is ignored.
func NewRunID(cfg Config) string {
	cfg.TraceLevel = ""
	name := fmt.Sprintf("%+v", cfg)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
