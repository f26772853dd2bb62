package sim

// OccupancySample is one point of the occupancy time series.
type OccupancySample struct {
	Time     float64 `json:"time"`
	Occupied int     `json:"occupied"`
}

// OccupancyRecorder owns the occupancy time series. It samples once per simulated
// day and, through BedPool.OnChange, after every admission and release, so peaks
// between day boundaries are kept.
type OccupancyRecorder struct {
	samples []OccupancySample
	horizon int
	days    int // periodic samples taken
}

// NewOccupancyRecorder creates a recorder sampling days 0..horizon-1.
func NewOccupancyRecorder(horizon int) *OccupancyRecorder {
	return &OccupancyRecorder{
		samples: make([]OccupancySample, 0, horizon),
		horizon: horizon,
	}
}

// Record appends a sample.
func (r *OccupancyRecorder) Record(t float64, occupied int) {
	r.samples = append(r.samples, OccupancySample{Time: t, Occupied: occupied})
}

// Samples returns the recorded series in recording order.
func (r *OccupancyRecorder) Samples() []OccupancySample { return r.samples }

// DailySamples returns the number of periodic samples taken so far.
func (r *OccupancyRecorder) DailySamples() int { return r.days }

// start registers the periodic sampler with the scheduler at time 0.
func (r *OccupancyRecorder) start(sim *Simulator) {
	sim.scheduler.Schedule(&SampleEvent{day: 0})
}

func (r *OccupancyRecorder) tick(sim *Simulator, day int) {
	r.Record(float64(day), sim.pool.Occupied())
	r.days++
	if day+1 < r.horizon {
		sim.scheduler.Schedule(&SampleEvent{day: day + 1})
	}
}
