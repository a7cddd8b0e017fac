// Package config handles simulation configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Faultbox/buoyant/internal/buoyancy"
	"github.com/Faultbox/buoyant/internal/hull"
	"github.com/Faultbox/buoyant/internal/ocean"
	"github.com/Faultbox/buoyant/internal/physics"
	"github.com/Faultbox/buoyant/internal/replication"
	"github.com/Faultbox/buoyant/pkg/math"
)

// Config holds all simulation settings.
type Config struct {
	Buoyancy    buoyancy.Settings    `yaml:"buoyancy"`
	Physics     physics.Overrides    `yaml:"physics"`
	Replication replication.Settings `yaml:"replication"`
	Simulation  SimulationConfig     `yaml:"simulation"`
	Network     NetworkConfig        `yaml:"network"`
	Logging     LoggingConfig        `yaml:"logging"`
	Output      OutputConfig         `yaml:"output"`
}

// SimulationConfig describes the drop test.
type SimulationConfig struct {
	Substep  time.Duration `yaml:"substep"`
	Duration time.Duration `yaml:"duration"`
	Hull     hull.Spec     `yaml:"hull"`

	// Mass of the hull in kilograms. When zero it is derived from
	// DensityRatio and the hull volume.
	Mass         float32 `yaml:"mass"`
	DensityRatio float32 `yaml:"density_ratio"`

	WaterLevel float32 `yaml:"water_level"`
	// WaterSlope tilts the water plane through WaterLevel at the origin,
	// in rise per centimeter along X and Y.
	WaterSlope math.Vec2         `yaml:"water_slope"`
	Tide       []ocean.TidePoint `yaml:"tide"`

	// DropHeight is the initial height of the hull center above the water.
	DropHeight      float32   `yaml:"drop_height"`
	InitialRoll     float32   `yaml:"initial_roll"` // degrees
	InitialVelocity math.Vec3 `yaml:"initial_velocity"`
}

// NetworkConfig holds the replication transport settings.
type NetworkConfig struct {
	// Transport is "pipe" for an in-process link or "tcp".
	Transport string `yaml:"transport"`
	Address   string `yaml:"address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// OutputConfig holds telemetry output settings.
type OutputConfig struct {
	Dir          string `yaml:"dir"` // empty disables output
	SubstepEvery int    `yaml:"substep_every"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Buoyancy:    buoyancy.DefaultSettings(),
		Physics:     physics.DefaultOverrides(),
		Replication: replication.DefaultSettings(),
		Simulation: SimulationConfig{
			Substep:  10 * time.Millisecond,
			Duration: 10 * time.Second,
			Hull: hull.Spec{
				Shape: "box",
				Size:  math.Vec3{X: 400, Y: 200, Z: 100},
			},
			DensityRatio: 0.4,
			DropHeight:   150,
		},
		Network: NetworkConfig{
			Transport: "pipe",
			Address:   "127.0.0.1:0",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Output: OutputConfig{
			Dir:          "",
			SubstepEvery: 1,
		},
	}
}

// Validate reports settings that would make the simulation meaningless.
func (c *Config) Validate() error {
	var errs []error
	if c.Simulation.Substep <= 0 {
		errs = append(errs, fmt.Errorf("simulation.substep must be positive, got %v", c.Simulation.Substep))
	}
	if c.Simulation.Duration < c.Simulation.Substep {
		errs = append(errs, fmt.Errorf("simulation.duration %v is shorter than one substep", c.Simulation.Duration))
	}
	if c.Simulation.Mass <= 0 && c.Simulation.DensityRatio <= 0 {
		errs = append(errs, errors.New("either simulation.mass or simulation.density_ratio must be positive"))
	}
	if c.Buoyancy.WaterGridCellSize <= 0 {
		errs = append(errs, fmt.Errorf("buoyancy.water_grid_cell_size must be positive, got %v", c.Buoyancy.WaterGridCellSize))
	}
	if c.Buoyancy.FluidDensity <= 0 {
		errs = append(errs, fmt.Errorf("buoyancy.fluid_density must be positive, got %v", c.Buoyancy.FluidDensity))
	}
	if c.Replication.SendRate <= 0 {
		errs = append(errs, fmt.Errorf("replication.send_rate must be positive, got %v", c.Replication.SendRate))
	}
	if c.Replication.BufferDelayMs < 0 {
		errs = append(errs, fmt.Errorf("replication.buffer_delay_ms must not be negative, got %v", c.Replication.BufferDelayMs))
	}
	if len(c.Simulation.Tide) > 0 && c.Simulation.WaterSlope != (math.Vec2{}) {
		errs = append(errs, errors.New("simulation.tide and simulation.water_slope cannot both be set"))
	}
	switch c.Network.Transport {
	case "pipe", "tcp":
	default:
		errs = append(errs, fmt.Errorf("network.transport must be pipe or tcp, got %q", c.Network.Transport))
	}
	return errors.Join(errs...)
}
