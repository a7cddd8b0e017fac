// Package main is the entry point for the hull drop-test simulation.
//
// An authoritative vessel is dropped onto the water and simulated at a fixed
// substep while an observer replica plays back its snapshots over a pipe or
// TCP link.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/buoyant/internal/config"
	"github.com/Faultbox/buoyant/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Buoyant hull simulation ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	sim, err := newSimulation(cfg)
	if err != nil {
		logger.Error("failed to set up simulation", zap.Error(err))
		os.Exit(1)
	}
	defer sim.Close()

	if err := sim.Run(); err != nil {
		logger.Error("simulation error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("simulation finished normally")
}
