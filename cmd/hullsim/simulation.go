package main

import (
	"fmt"
	gomath "math"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/buoyant/internal/buoyancy"
	"github.com/Faultbox/buoyant/internal/config"
	"github.com/Faultbox/buoyant/internal/hull"
	"github.com/Faultbox/buoyant/internal/logger"
	"github.com/Faultbox/buoyant/internal/ocean"
	"github.com/Faultbox/buoyant/internal/physics"
	"github.com/Faultbox/buoyant/internal/replication"
	"github.com/Faultbox/buoyant/internal/telemetry"
	"github.com/Faultbox/buoyant/internal/vessel"
	"github.com/Faultbox/buoyant/pkg/math"
)

// simulation runs one authoritative vessel and its observer replica.
type simulation struct {
	cfg *config.Config
	log *zap.Logger

	authority *vessel.Vessel
	observer  *vessel.Vessel
	link      *link
	output    *telemetry.OutputManager
	drift     telemetry.DriftStats

	// Authoritative positions per tick, for measuring observer drift.
	history []math.Vec3
}

func newSimulation(cfg *config.Config) (*simulation, error) {
	s := &simulation{cfg: cfg, log: logger.Named("hullsim")}

	geom, err := hull.FromSpec(cfg.Simulation.Hull)
	if err != nil {
		return nil, fmt.Errorf("building hull: %w", err)
	}
	bounds := geom.Bounds()
	mass := cfg.Simulation.Mass
	if mass <= 0 {
		mass = cfg.Simulation.DensityRatio * cfg.Buoyancy.FluidDensity * geom.Volume()
	}
	s.log.Info("hull ready",
		zap.String("name", geom.Name),
		zap.Int("triangles", geom.TriangleCount()),
		zap.Float32("volume_cm3", geom.Volume()),
		zap.Float32("mass_kg", mass))

	output, err := telemetry.NewOutputManager(cfg.Output.Dir, cfg.Output.SubstepEvery, logger.Named("telemetry"))
	if err != nil {
		return nil, err
	}
	s.output = output
	if dir := output.Dir(); dir != "" {
		if err := cfg.SaveTo(filepath.Join(dir, "config.yaml")); err != nil {
			s.Close()
			return nil, fmt.Errorf("saving run config: %w", err)
		}
	}

	surface, err := newSurface(cfg.Simulation)
	if err != nil {
		s.Close()
		return nil, err
	}

	opts := []buoyancy.Option{buoyancy.WithLogger(logger.Named("buoyancy"))}
	if output != nil {
		opts = append(opts, buoyancy.WithSink(output))
	}
	sim := buoyancy.NewSimulator(cfg.Buoyancy, surface, opts...)
	if err := sim.SetHull(geom.Indices, geom.Positions); err != nil {
		s.Close()
		return nil, err
	}

	s.link, err = dialLink(cfg.Network.Transport, cfg.Network.Address, logger.Named("network"))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("opening %s link: %w", cfg.Network.Transport, err)
	}

	start := s.startPose()
	inertia := physics.BoxInertia(mass, bounds.Size())

	body := physics.NewBody(mass, inertia, cfg.Physics)
	body.SetGravity(cfg.Buoyancy.GravityZ)
	body.SetState(start, cfg.Simulation.InitialVelocity, math.Vec3{})
	s.authority, err = vessel.New(geom.Name, replication.Authoritative, body, cfg.Replication,
		vessel.WithSimulator(sim),
		vessel.WithSender(s.link.Sender()),
		vessel.WithLogger(logger.Named("vessel")))
	if err != nil {
		s.Close()
		return nil, err
	}

	replica := physics.NewBody(mass, inertia, cfg.Physics)
	replica.SetPose(start)
	s.observer, err = vessel.New(geom.Name, replication.Observer, replica, cfg.Replication,
		vessel.WithLogger(logger.Named("vessel")))
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// newSurface picks the water: a tide table, a tilted plane or flat water.
func newSurface(sc config.SimulationConfig) (buoyancy.WaterSurface, error) {
	switch {
	case len(sc.Tide) > 0:
		tide, err := ocean.NewTide(sc.Tide)
		if err != nil {
			return nil, fmt.Errorf("building tide: %w", err)
		}
		return tide, nil
	case sc.WaterSlope != (math.Vec2{}):
		return ocean.Plane{Level: sc.WaterLevel, Slope: sc.WaterSlope}, nil
	}
	return ocean.Flat{Level: sc.WaterLevel}, nil
}

func (s *simulation) startPose() math.Pose {
	sc := s.cfg.Simulation
	roll := float32(float64(sc.InitialRoll) * gomath.Pi / 180)
	return math.Pose{
		Position: math.Vec3{Z: sc.WaterLevel + sc.DropHeight},
		Rotation: math.QuatFromAxisAngle(math.Vec3{X: 1}, roll),
	}
}

// Run steps both vessels until the configured duration has elapsed.
func (s *simulation) Run() error {
	dt := s.cfg.Simulation.Substep.Seconds()
	steps := int(s.cfg.Simulation.Duration / s.cfg.Simulation.Substep)
	delaySteps := int(s.cfg.Replication.Delay() / s.cfg.Simulation.Substep)

	s.log.Info("starting simulation",
		zap.Int("substeps", steps),
		zap.Duration("substep", s.cfg.Simulation.Substep),
		zap.String("transport", s.cfg.Network.Transport))

	for i := 0; i < steps; i++ {
		if err := s.authority.Tick(dt); err != nil {
			return err
		}
		s.history = append(s.history, s.authority.Pose().Position)

		s.link.Drain(s.observer.Receive)
		if err := s.observer.Tick(dt); err != nil {
			return err
		}

		if err := s.recordDrift(i, delaySteps); err != nil {
			return err
		}
		if err := s.output.Err(); err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
	}

	return s.report()
}

// recordDrift compares the observer with where the authority was one
// playback delay ago.
func (s *simulation) recordDrift(step, delaySteps int) error {
	ref := step - delaySteps
	if ref < 0 {
		return nil
	}
	auth := s.history[ref]
	obs := s.observer.Pose().Position
	holding := s.observer.Replicator().Holding()
	distance := obs.Sub(auth).Length()

	s.drift.Add(distance, holding)
	return s.output.WriteDrift(telemetry.DriftRecord{
		Time:     s.observer.Time(),
		AuthX:    auth.X,
		AuthY:    auth.Y,
		AuthZ:    auth.Z,
		ObsX:     obs.X,
		ObsY:     obs.Y,
		ObsZ:     obs.Z,
		Distance: distance,
		Holding:  holding,
	})
}

func (s *simulation) report() error {
	pose := s.authority.Pose()
	frame := s.authority.Simulator().LastFrame()
	sent, _ := s.link.authority.Stats()
	_, received := s.link.observer.Stats()
	summary := s.drift.Summary()

	s.log.Info("final state",
		zap.Float64("time", s.authority.Time()),
		zap.Float32("x", pose.Position.X),
		zap.Float32("y", pose.Position.Y),
		zap.Float32("z", pose.Position.Z),
		zap.Float32("submerged_area", frame.SubmergedArea),
		zap.Float32("buoyancy_z", frame.Forces.Hydrostatic.Z))
	s.log.Info("replication",
		zap.Uint64("sent", sent),
		zap.Uint64("received", received),
		zap.Int("drift_samples", summary.Samples),
		zap.Float64("drift_mean_cm", summary.Mean),
		zap.Float64("drift_p95_cm", summary.P95),
		zap.Float64("hold_ratio", summary.HoldRatio))

	if err := s.output.WriteSummary(summary); err != nil {
		return fmt.Errorf("writing drift summary: %w", err)
	}
	if dir := s.output.Dir(); dir != "" {
		s.log.Info("telemetry written", zap.String("dir", dir))
	}
	return nil
}

// Close releases the link and output files.
func (s *simulation) Close() {
	if s.link != nil {
		if err := s.link.Close(); err != nil {
			s.log.Warn("closing link", zap.Error(err))
		}
	}
	if err := s.output.Close(); err != nil {
		s.log.Warn("closing output", zap.Error(err))
	}
}
