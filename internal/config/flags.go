package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagDuration  = flag.Duration("duration", 0, "Simulated time to run")
	flagSubstep   = flag.Duration("substep", 0, "Physics substep length")
	flagHull      = flag.String("hull", "", "Hull shape: box, wedge or file")
	flagHullFile  = flag.String("hull-file", "", "YAML hull file (implies -hull file)")
	flagMass      = flag.Float64("mass", 0, "Hull mass in kg")
	flagDrop      = flag.Float64("drop", -1, "Initial height above water in cm")
	flagSendRate  = flag.Float64("send-rate", 0, "Snapshots per second")
	flagDelay     = flag.Float64("delay", -1, "Observer playback delay in ms")
	flagTransport = flag.String("transport", "", "Replication transport: pipe or tcp")
	flagOutput    = flag.String("output", "", "Telemetry output directory")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagDuration > 0 {
		cfg.Simulation.Duration = *flagDuration
	}
	if *flagSubstep > 0 {
		cfg.Simulation.Substep = *flagSubstep
	}
	if *flagHull != "" {
		cfg.Simulation.Hull.Shape = *flagHull
	}
	if *flagHullFile != "" {
		cfg.Simulation.Hull.Shape = "file"
		cfg.Simulation.Hull.File = *flagHullFile
	}
	if *flagMass > 0 {
		cfg.Simulation.Mass = float32(*flagMass)
	}
	if *flagDrop >= 0 {
		cfg.Simulation.DropHeight = float32(*flagDrop)
	}
	if *flagSendRate > 0 {
		cfg.Replication.SendRate = *flagSendRate
	}
	if *flagDelay >= 0 {
		cfg.Replication.BufferDelayMs = *flagDelay
	}
	if *flagTransport != "" {
		cfg.Network.Transport = *flagTransport
	}
	if *flagOutput != "" {
		cfg.Output.Dir = *flagOutput
	}
}
