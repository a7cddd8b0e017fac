package replication

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/buoyant/pkg/math"
)

// Body is the rigid body a replicator reads from or writes to.
type Body interface {
	Pose() math.Pose
	LinearVelocity() math.Vec3
	AngularVelocity() math.Vec3
	SetState(pose math.Pose, linear, angular math.Vec3)
}

// Sender delivers snapshots to the other side.
type Sender interface {
	SendSnapshot(s Snapshot) error
}

// Capture samples body at time now.
func Capture(body Body, now float64, event EventFlag) Snapshot {
	pose := body.Pose()
	return Snapshot{
		LinearVelocity:  body.LinearVelocity(),
		AngularVelocity: body.AngularVelocity(),
		Location:        pose.Position,
		Rotation:        pose.Rotation,
		Timestamp:       now,
		Event:           event,
	}
}

// Replicator drives one body's replication for a fixed role.
type Replicator struct {
	role     Role
	settings Settings
	body     Body
	sender   Sender
	buffer   *Buffer
	log      *zap.Logger

	sinceSend float64
	pending   EventFlag
	sent      uint64
	holding   bool
}

// Option configures a Replicator.
type Option func(*Replicator)

// WithSender sets where an authoritative replicator sends snapshots.
func WithSender(s Sender) Option {
	return func(r *Replicator) { r.sender = s }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Replicator) {
		if log != nil {
			r.log = log
		}
	}
}

// NewReplicator returns a replicator for body in the given role.
func NewReplicator(role Role, settings Settings, body Body, opts ...Option) *Replicator {
	r := &Replicator{
		role:     role,
		settings: settings,
		body:     body,
		buffer:   NewBuffer(settings.Delay(), settings.SendInterval()),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Role returns the replicator's role.
func (r *Replicator) Role() Role { return r.role }

// Buffer returns the snapshot buffer.
func (r *Replicator) Buffer() *Buffer { return r.buffer }

// Sent returns the number of snapshots sent.
func (r *Replicator) Sent() uint64 { return r.sent }

// Holding reports whether the observer found no snapshot pair on its last
// tick and kept the body's previous pose.
func (r *Replicator) Holding() bool { return r.holding }

// Flag marks the next sent snapshot with event and sends it on the next tick.
func (r *Replicator) Flag(event EventFlag) {
	r.pending = event
}

// Receive accepts a snapshot from the other side. The authoritative side
// only keeps the newest one; observers accumulate them for playback.
func (r *Replicator) Receive(s Snapshot) {
	switch r.role {
	case Authoritative:
		r.buffer.Replace(s)
	case Observer:
		r.buffer.Push(s)
	}
}

// Latest returns the most recent received snapshot.
func (r *Replicator) Latest() (Snapshot, bool) {
	if r.buffer.Len() == 0 {
		return Snapshot{}, false
	}
	latest := r.buffer.At(0)
	for i := 1; i < r.buffer.Len(); i++ {
		if s := r.buffer.At(i); s.Timestamp > latest.Timestamp {
			latest = s
		}
	}
	return latest, true
}

// Tick advances the replicator by dt seconds to time now.
func (r *Replicator) Tick(now, dt float64) error {
	switch r.role {
	case Authoritative:
		return r.tickAuthoritative(now, dt)
	case Observer:
		r.tickObserver(now)
	}
	return nil
}

func (r *Replicator) tickAuthoritative(now, dt float64) error {
	interval := r.settings.SendInterval().Seconds()
	r.sinceSend += dt
	if r.sinceSend < interval && r.pending == EventNone {
		return nil
	}
	if interval > 0 && r.sinceSend >= interval {
		r.sinceSend -= interval
		if r.sinceSend >= interval {
			// Fell behind by more than one interval; don't burst.
			r.sinceSend = 0
		}
	}

	snap := Capture(r.body, now, r.pending)
	r.pending = EventNone
	if r.sender == nil {
		return nil
	}
	if err := r.sender.SendSnapshot(snap); err != nil {
		return fmt.Errorf("send snapshot at %.3f: %w", now, err)
	}
	r.sent++
	return nil
}

func (r *Replicator) tickObserver(now float64) {
	if dropped := r.buffer.Update(now); dropped > 0 {
		r.log.Debug("snapshots dropped",
			zap.Int("count", dropped),
			zap.Float64("cutoff", r.buffer.Cutoff(now)))
	}

	s, ok := r.buffer.Sample(now)
	if !ok {
		if !r.holding && r.buffer.HasElapsedMinTime(now) {
			r.log.Debug("no snapshot pair, holding pose",
				zap.Float64("buffered_time", r.buffer.BufferedTime(now)),
				zap.Int("buffered", r.buffer.Len()))
		}
		r.holding = true
		return
	}
	r.holding = false
	r.body.SetState(s.Pose(), s.LinearVelocity, s.AngularVelocity)
}
