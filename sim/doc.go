// Package sim provides the discrete-event simulation engine for ward-sim.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - scheduler.go: the time-ordered event queue and the run loop that owns the clock
//   - bedpool.go: normal, boarding and must-wait tiers, and the wait queue
//   - patient.go: Patient lifecycle (arrived → awaiting bed → occupying → discharged)
//   - simulator.go: wiring of the processes and the Run entry point
//
// # Processes
//
// Every long-lived process is an explicit state machine resumed by events:
//   - ArrivalGenerator (arrival.go): samples inter-arrival time, patient type and
//     base length of stay, and spawns one Patient per arrival
//   - OccupancyRecorder (recorder.go): samples the occupied-bed count once per
//     simulated day and after every admission and release
//   - Patient (patient.go): one per arrival, finalises NMCR delay before asking
//     for a bed and schedules its own discharge on admission
//
// Processes share state only through the BedPool and the append-only patient log
// owned by the Simulator. Exactly one event executes at a time.
//
// # Randomness
//
// All variates come from a PartitionedRNG derived from Config.Seed (rng.go), so
// two runs with the same Config produce identical samples and patient logs.
//
// Sub-packages:
//   - sim/trace/: bed-pool decision records
//   - sim/export/: JSON and spreadsheet output of a finished run
package sim
