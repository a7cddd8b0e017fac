// Package vessel ties a rigid body to its buoyancy simulation and
// replication. The role decides which half runs: the authoritative side
// simulates and sends snapshots, the observer only plays them back.
package vessel

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/buoyant/internal/buoyancy"
	"github.com/Faultbox/buoyant/internal/physics"
	"github.com/Faultbox/buoyant/internal/replication"
	"github.com/Faultbox/buoyant/pkg/math"
)

// ErrNoSimulator is returned when an authoritative vessel has no simulator.
var ErrNoSimulator = errors.New("authoritative vessel needs a buoyancy simulator")

// Vessel is one replicated floating body.
type Vessel struct {
	name string
	role replication.Role
	body *physics.Body
	sim  *buoyancy.Simulator // nil on observers
	rep  *replication.Replicator
	log  *zap.Logger

	time   float64
	wetted bool
}

// Option configures a Vessel.
type Option func(*options)

type options struct {
	sim    *buoyancy.Simulator
	sender replication.Sender
	log    *zap.Logger
}

// WithSimulator sets the buoyancy simulator driving an authoritative vessel.
func WithSimulator(sim *buoyancy.Simulator) Option {
	return func(o *options) { o.sim = sim }
}

// WithSender sets where an authoritative vessel sends snapshots.
func WithSender(s replication.Sender) Option {
	return func(o *options) { o.sender = s }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// New creates a vessel for body in the given role.
func New(name string, role replication.Role, body *physics.Body, settings replication.Settings, opts ...Option) (*Vessel, error) {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if role == replication.Authoritative && o.sim == nil {
		return nil, ErrNoSimulator
	}

	log := o.log.With(zap.String("vessel", name), zap.Stringer("role", role))
	v := &Vessel{
		name: name,
		role: role,
		body: body,
		log:  log,
	}
	if role == replication.Authoritative {
		v.sim = o.sim
	}
	v.rep = replication.NewReplicator(role, settings, body,
		replication.WithSender(o.sender),
		replication.WithLogger(log))
	return v, nil
}

// Name returns the vessel name.
func (v *Vessel) Name() string { return v.name }

// Role returns the vessel's replication role.
func (v *Vessel) Role() replication.Role { return v.role }

// Body returns the rigid body.
func (v *Vessel) Body() *physics.Body { return v.body }

// Simulator returns the buoyancy simulator, nil on observers.
func (v *Vessel) Simulator() *buoyancy.Simulator { return v.sim }

// Replicator returns the replicator.
func (v *Vessel) Replicator() *replication.Replicator { return v.rep }

// Time returns the vessel clock in seconds.
func (v *Vessel) Time() float64 { return v.time }

// Pose returns the body's current pose.
func (v *Vessel) Pose() math.Pose { return v.body.Pose() }

// Receive hands a snapshot from the other side to the replicator.
func (v *Vessel) Receive(s replication.Snapshot) {
	v.rep.Receive(s)
}

// Correct teleports an authoritative body and sends the new state at once.
func (v *Vessel) Correct(pose math.Pose, linear, angular math.Vec3) {
	v.body.SetState(pose, linear, angular)
	v.rep.Flag(replication.EventCorrection)
	v.log.Info("state corrected",
		zap.Float32("x", pose.Position.X),
		zap.Float32("y", pose.Position.Y),
		zap.Float32("z", pose.Position.Z))
}

// Tick advances the vessel by dt seconds. Authoritative vessels run one
// buoyancy substep and integrate the body before replicating; observers only
// play back received snapshots.
func (v *Vessel) Tick(dt float64) error {
	if v.role == replication.Authoritative {
		if err := v.sim.Substep(float32(dt), float32(v.time), v.body); err != nil {
			return fmt.Errorf("vessel %s: %w", v.name, err)
		}
		v.body.Step(float32(dt))
		v.detectWaterContact()
	}

	v.time += dt
	if err := v.rep.Tick(v.time, dt); err != nil {
		return fmt.Errorf("vessel %s: %w", v.name, err)
	}
	return nil
}

// detectWaterContact flags a collision snapshot when the hull first touches
// the water after being fully dry.
func (v *Vessel) detectWaterContact() {
	wetted := v.sim.LastFrame().SubmergedArea > 0
	if wetted && !v.wetted {
		v.rep.Flag(replication.EventCollision)
		v.log.Debug("water contact", zap.Float64("time", v.time))
	}
	v.wetted = wetted
}
