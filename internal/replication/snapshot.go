// Package replication reconstructs a remote body's motion from delayed,
// rate-limited snapshots.
//
// The authoritative side samples its body at a fixed send rate. Observers
// buffer what they receive and render a fixed delay in the past, interpolating
// between the two snapshots that bracket the delayed time.
package replication

import (
	"fmt"

	"github.com/Faultbox/buoyant/pkg/math"
)

// EventFlag marks snapshots produced by a discontinuity.
type EventFlag int8

const (
	EventNone EventFlag = iota
	EventCollision
	EventCorrection
)

func (e EventFlag) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventCollision:
		return "collision"
	case EventCorrection:
		return "correction"
	default:
		return fmt.Sprintf("EventFlag(%d)", int8(e))
	}
}

// Snapshot is one sampled movement state. Timestamp is in seconds.
type Snapshot struct {
	LinearVelocity  math.Vec3
	AngularVelocity math.Vec3
	Location        math.Vec3
	Rotation        math.Quat
	Timestamp       float64
	Event           EventFlag
}

// Pose returns the snapshot's location and rotation.
func (s Snapshot) Pose() math.Pose {
	return math.Pose{Position: s.Location, Rotation: s.Rotation}
}

// Interpolate blends a toward b. Location and velocities are lerped, rotation
// is slerped. The result carries a's event flag.
func Interpolate(a, b Snapshot, alpha float32) Snapshot {
	return Snapshot{
		LinearVelocity:  a.LinearVelocity.Lerp(b.LinearVelocity, alpha),
		AngularVelocity: a.AngularVelocity.Lerp(b.AngularVelocity, alpha),
		Location:        a.Location.Lerp(b.Location, alpha),
		Rotation:        a.Rotation.Slerp(b.Rotation, alpha),
		Timestamp:       a.Timestamp + (b.Timestamp-a.Timestamp)*float64(alpha),
		Event:           a.Event,
	}
}
