package cmd

import (
	"github.com/spf13/pflag"

	sim "github.com/ward-sim/ward-sim/sim"
	"github.com/ward-sim/ward-sim/sim/trace"
)

// simFlags holds the CLI values for every Config field.
// Only flags the user set explicitly override the scenario or config file.
type simFlags struct {
	seed               int64
	horizon            int
	beds               int
	extraBedRatio      int
	boarding           bool
	medicalRate        float64
	surgicalRate       float64
	medicalLOS         float64
	surgicalLOS        float64
	medicalComplexity  float64
	surgicalComplexity float64
	nmcrProportion     float64
	nmcrInternal       float64
	nmcrInternalDelay  float64
	nmcrExternalDelay  float64
	traceLevel         string
}

// register binds the flags to fs with DefaultConfig values as defaults.
func (f *simFlags) register(fs *pflag.FlagSet) {
	d := sim.DefaultConfig()
	med, surg := d.PatientTypes[sim.Medical], d.PatientTypes[sim.Surgical]

	fs.Int64Var(&f.seed, "seed", d.Seed, "Seed for random variate generation")
	fs.IntVar(&f.horizon, "horizon", d.Horizon, "Simulation horizon (days)")
	fs.IntVar(&f.beds, "beds", d.BaseCapacity, "Total number of normal beds")
	fs.IntVar(&f.extraBedRatio, "extra-bed-ratio", d.ExtraBedRatio, "One boarding bed per N normal beds")
	fs.BoolVar(&f.boarding, "boarding", d.BoardingEnabled, "Enable bed boarding")

	fs.Float64Var(&f.medicalRate, "medical-rate", med.ArrivalRate, "Medical patient arrivals per day")
	fs.Float64Var(&f.surgicalRate, "surgical-rate", surg.ArrivalRate, "Surgical patient arrivals per day")
	fs.Float64Var(&f.medicalLOS, "medical-los", med.MeanLOS, "Mean length of stay of medical patients (days)")
	fs.Float64Var(&f.surgicalLOS, "surgical-los", surg.MeanLOS, "Mean length of stay of surgical patients (days)")
	fs.Float64Var(&f.medicalComplexity, "medical-complexity", med.ComplexityFactor, "Medical patient complexity factor [0.5, 2.0]")
	fs.Float64Var(&f.surgicalComplexity, "surgical-complexity", surg.ComplexityFactor, "Surgical patient complexity factor [0.5, 2.0]")

	fs.Float64Var(&f.nmcrProportion, "nmcr-proportion", d.NMCR.Proportion, "Percentage of patients with NMCR delays")
	fs.Float64Var(&f.nmcrInternal, "nmcr-internal-proportion", d.NMCR.InternalProportion, "Percentage of NMCR delays with internal reasons")
	fs.Float64Var(&f.nmcrInternalDelay, "nmcr-internal-delay", d.NMCR.InternalDelay, "Mean additional delay for internal reasons (days)")
	fs.Float64Var(&f.nmcrExternalDelay, "nmcr-external-delay", d.NMCR.ExternalDelay, "Mean additional delay for external reasons (days)")

	fs.StringVar(&f.traceLevel, "trace-level", string(d.TraceLevel), "Decision trace level (none, decisions)")
}

// apply copies every explicitly set flag into cfg.
func (f *simFlags) apply(fs *pflag.FlagSet, cfg *sim.Config) {
	if fs.Changed("seed") {
		cfg.Seed = f.seed
	}
	if fs.Changed("horizon") {
		cfg.Horizon = f.horizon
	}
	if fs.Changed("beds") {
		cfg.BaseCapacity = f.beds
	}
	if fs.Changed("extra-bed-ratio") {
		cfg.ExtraBedRatio = f.extraBedRatio
	}
	if fs.Changed("boarding") {
		cfg.BoardingEnabled = f.boarding
	}
	if fs.Changed("trace-level") {
		cfg.TraceLevel = trace.TraceLevel(f.traceLevel)
	}

	setType := func(pt sim.PatientType, rateFlag, losFlag, complexityFlag string, rate, los, complexity float64) {
		if !fs.Changed(rateFlag) && !fs.Changed(losFlag) && !fs.Changed(complexityFlag) {
			return
		}
		if cfg.PatientTypes == nil {
			cfg.PatientTypes = make(map[sim.PatientType]sim.PatientTypeConfig)
		}
		tc, ok := cfg.PatientTypes[pt]
		if !ok {
			tc = sim.DefaultConfig().PatientTypes[pt]
		}
		if fs.Changed(rateFlag) {
			tc.ArrivalRate = rate
		}
		if fs.Changed(losFlag) {
			tc.MeanLOS = los
		}
		if fs.Changed(complexityFlag) {
			tc.ComplexityFactor = complexity
		}
		cfg.PatientTypes[pt] = tc
	}
	setType(sim.Medical, "medical-rate", "medical-los", "medical-complexity", f.medicalRate, f.medicalLOS, f.medicalComplexity)
	setType(sim.Surgical, "surgical-rate", "surgical-los", "surgical-complexity", f.surgicalRate, f.surgicalLOS, f.surgicalComplexity)

	if fs.Changed("nmcr-proportion") {
		cfg.NMCR.Proportion = f.nmcrProportion
	}
	if fs.Changed("nmcr-internal-proportion") {
		cfg.NMCR.InternalProportion = f.nmcrInternal
	}
	if fs.Changed("nmcr-internal-delay") {
		cfg.NMCR.InternalDelay = f.nmcrInternalDelay
	}
	if fs.Changed("nmcr-external-delay") {
		cfg.NMCR.ExternalDelay = f.nmcrExternalDelay
	}
}
