package physics

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/buoyant/pkg/math"
)

func TestFreeFall(t *testing.T) {
	b := NewBody(10, BoxInertia(10, math.Vec3{X: 1, Y: 1, Z: 1}), DefaultOverrides())
	b.SetGravity(-980)

	for i := 0; i < 100; i++ {
		b.Step(0.01)
	}
	if got := b.LinearVelocity().Z; gomath.Abs(float64(got+980)) > 0.1 {
		t.Errorf("velocity after 1s = %v, want -980", got)
	}
	// Semi-implicit Euler overshoots 0.5*g*t^2 by 0.5*g*t*dt.
	if got := b.Pose().Position.Z; gomath.Abs(float64(got+494.9)) > 0.5 {
		t.Errorf("position after 1s = %v, want about -494.9", got)
	}
}

func TestForceAtCenterHasNoTorque(t *testing.T) {
	b := NewBody(2, math.Vec3{X: 1, Y: 1, Z: 1}, DefaultOverrides())
	b.AddForceAtPosition(math.Vec3{X: 4}, b.CenterOfMass())
	_, torque := b.PendingForce()
	if torque != (math.Vec3{}) {
		t.Errorf("torque = %v, want zero", torque)
	}
	b.Step(0.5)
	if got := b.LinearVelocity(); got != (math.Vec3{X: 1}) {
		t.Errorf("velocity = %v, want {1 0 0}", got)
	}
	if got := b.AngularVelocity(); got != (math.Vec3{}) {
		t.Errorf("angular velocity = %v, want zero", got)
	}
}

func TestOffsetForceSpins(t *testing.T) {
	b := NewBody(1, math.Vec3{X: 2, Y: 2, Z: 2}, DefaultOverrides())
	b.AddForceAtPosition(math.Vec3{Y: 1}, math.Vec3{X: 1})
	b.Step(1)
	// Torque (1,0,0)x(0,1,0) = (0,0,1), inertia 2.
	if got := b.AngularVelocity(); !got.Equals(math.Vec3{Z: 0.5}, 1e-6) {
		t.Errorf("angular velocity = %v, want {0 0 0.5}", got)
	}
	if b.Pose().Rotation == math.QuatIdentity() {
		t.Error("rotation did not change")
	}
}

func TestOverrides(t *testing.T) {
	o := DefaultOverrides()
	o.MassOverride = 50
	o.InertiaTensorScale = math.Vec3{X: 1, Y: 2, Z: 1}
	o.CenterOfMassNudge = math.Vec3{Z: -10}

	b := NewBody(10, math.Vec3{X: 1, Y: 1, Z: 1}, o)
	if b.Mass() != 50 {
		t.Errorf("Mass() = %v, want 50", b.Mass())
	}
	if got := b.Inertia(); got != (math.Vec3{X: 5, Y: 10, Z: 5}) {
		t.Errorf("Inertia() = %v, want {5 10 5}", got)
	}
	if got := b.CenterOfMass(); got != (math.Vec3{Z: -10}) {
		t.Errorf("CenterOfMass() = %v, want {0 0 -10}", got)
	}
}

func TestMaxAngularVelocity(t *testing.T) {
	o := DefaultOverrides()
	o.MaxAngularVelocity = 90
	b := NewBody(1, math.Vec3{X: 1, Y: 1, Z: 1}, o)
	b.SetVelocity(math.Vec3{}, math.Vec3{Z: 100})
	b.Step(0.01)

	want := float32(gomath.Pi / 2)
	if got := b.AngularVelocity().Length(); gomath.Abs(float64(got-want)) > 1e-4 {
		t.Errorf("angular speed = %v, want %v", got, want)
	}
}

func TestSetState(t *testing.T) {
	b := NewBody(1, math.Vec3{X: 1, Y: 1, Z: 1}, DefaultOverrides())
	pose := math.Pose{Position: math.Vec3{X: 3}, Rotation: math.QuatFromAxisAngle(math.Vec3{Z: 1}, 1)}
	b.SetState(pose, math.Vec3{Y: 2}, math.Vec3{Z: 0.1})
	if b.Pose() != pose || b.LinearVelocity() != (math.Vec3{Y: 2}) || b.AngularVelocity() != (math.Vec3{Z: 0.1}) {
		t.Errorf("state = %v %v %v, want written values", b.Pose(), b.LinearVelocity(), b.AngularVelocity())
	}
}
