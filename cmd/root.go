package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/ward-sim/ward-sim/sim"
	"github.com/ward-sim/ward-sim/sim/export"
	"github.com/ward-sim/ward-sim/sim/trace"
)

var (
	// CLI flags outside the simulation config
	logLevel         string // Log verbosity level
	configPath       string // YAML scenario file
	scenarioName     string // Preset name in defaults.yaml
	defaultsFilePath string // Path to defaults.yaml
	resultsPath      string // JSON output file
	xlsxPath         string // XLSX output file

	runFlags simFlags
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "ward-sim",
	Short: "Discrete-event simulator for hospital ward bed occupancy",
}

// runCmd executes the simulation using parameters from the scenario, config file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the ward simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("Unable to build configuration: %v", err)
		}

		startTime := time.Now()
		result, err := sim.Run(cfg)
		if errors.Is(err, sim.ErrNoArrivals) {
			logrus.Fatalf("Refusing to run: %v", err)
		}
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		logrus.Infof("Simulation %s finished in %s", result.RunID, time.Since(startTime))

		summary := sim.Summarize(result)
		summary.Print(os.Stdout)
		if result.Trace != nil {
			printTraceSummary(trace.Summarize(result.Trace))
		}

		if resultsPath != "" {
			if err := export.SaveResults(resultsPath, result, summary); err != nil {
				logrus.Fatalf("Saving results: %v", err)
			}
		}
		if xlsxPath != "" {
			if err := export.WriteWorkbook(xlsxPath, result, summary); err != nil {
				logrus.Fatalf("Writing workbook: %v", err)
			}
		}

		logrus.Info("Simulation complete.")
	},
}

// scenariosCmd lists the presets available in defaults.yaml
var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List preset scenarios from the defaults file",
	RunE: func(cmd *cobra.Command, args []string) error {
		sf, err := loadScenarioFile(defaultsFilePath)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, name := range sf.ScenarioNames() {
			sc := sf.Scenarios[name]
			fmt.Fprintf(out, "%-20s horizon=%d beds=%d+%d boarding=%v arrivals=%.2f/day nmcr=%.0f%%\n",
				name, sc.Horizon, sc.BaseCapacity, sc.ExtraCapacity(), sc.BoardingEnabled,
				sc.TotalArrivalRate(), sc.NMCR.Proportion)
		}
		return nil
	},
}

// resolveConfig layers the configuration: defaults, then --scenario or --config,
// then any flag the user set explicitly.
func resolveConfig(cmd *cobra.Command) (sim.Config, error) {
	if scenarioName != "" && configPath != "" {
		return sim.Config{}, fmt.Errorf("--scenario and --config are mutually exclusive")
	}
	cfg := sim.DefaultConfig()
	switch {
	case scenarioName != "":
		sc, err := GetScenario(defaultsFilePath, scenarioName)
		if err != nil {
			return sim.Config{}, err
		}
		logrus.Infof("Using preset scenario %q", scenarioName)
		cfg = sc
	case configPath != "":
		loaded, err := sim.LoadConfig(configPath)
		if err != nil {
			return sim.Config{}, err
		}
		cfg = *loaded
	}
	runFlags.apply(cmd.Flags(), &cfg)
	return cfg, nil
}

func printTraceSummary(ts *trace.TraceSummary) {
	fmt.Println("=== Admission Decisions ===")
	fmt.Printf("Total Decisions      : %d\n", ts.TotalDecisions)
	fmt.Printf("Admitted on Arrival  : %d\n", ts.AdmittedCount)
	fmt.Printf("Queued               : %d\n", ts.QueuedCount)
	fmt.Printf("Promoted from Queue  : %d (mean wait %.2f, max %.2f days)\n",
		ts.PromotedCount, ts.MeanPromotedWait, ts.MaxPromotedWait)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML scenario file (fields not set keep their defaults)")
	runCmd.Flags().StringVar(&scenarioName, "scenario", "", "Preset scenario name from the defaults file")
	runCmd.Flags().StringVar(&resultsPath, "results-path", "", "Write samples, patient log and summary as JSON to this file")
	runCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Write samples, patient log and summary as an XLSX workbook to this file")
	runFlags.register(runCmd.Flags())

	rootCmd.PersistentFlags().StringVar(&defaultsFilePath, "defaults-path", "defaults.yaml", "Path to the preset scenarios file")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scenariosCmd)
}
