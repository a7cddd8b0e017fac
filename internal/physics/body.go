// Package physics provides a minimal rigid body integrator for driving the
// buoyancy simulation without an external physics engine.
package physics

import (
	gomath "math"

	"github.com/Faultbox/buoyant/pkg/math"
)

// Overrides adjusts the body's derived mass properties.
type Overrides struct {
	// MassOverride replaces the computed mass when positive. Kilograms.
	MassOverride float32 `yaml:"mass_override"`
	// InertiaTensorScale scales the diagonal inertia tensor per axis.
	InertiaTensorScale math.Vec3 `yaml:"inertia_tensor_scale"`
	// CenterOfMassNudge offsets the center of mass in local space.
	CenterOfMassNudge math.Vec3 `yaml:"center_of_mass_nudge"`
	LinearDamping     float32   `yaml:"linear_damping"`
	AngularDamping    float32   `yaml:"angular_damping"`
	// MaxAngularVelocity caps the spin rate. Degrees per second; zero disables.
	MaxAngularVelocity float32 `yaml:"max_angular_velocity"`
}

// DefaultOverrides leaves mass and inertia unchanged.
func DefaultOverrides() Overrides {
	return Overrides{
		InertiaTensorScale: math.Vec3{X: 1, Y: 1, Z: 1},
		MaxAngularVelocity: 500,
	}
}

// BoxInertia returns the diagonal inertia tensor of a solid box.
func BoxInertia(mass float32, size math.Vec3) math.Vec3 {
	x2, y2, z2 := size.X*size.X, size.Y*size.Y, size.Z*size.Z
	k := mass / 12
	return math.Vec3{X: k * (y2 + z2), Y: k * (x2 + z2), Z: k * (x2 + y2)}
}

// Body is a rigid body integrated with semi-implicit Euler. Forces added
// during a step are applied on the next call to Step.
type Body struct {
	pose    math.Pose
	linear  math.Vec3
	angular math.Vec3 // world space, radians/s

	mass      float32
	inertia   math.Vec3 // local diagonal
	comOffset math.Vec3 // local
	gravityZ  float32
	overrides Overrides

	force  math.Vec3
	torque math.Vec3
}

// NewBody returns a body at rest at the origin. inertia is the local diagonal
// tensor for mass; both are adjusted by o.
func NewBody(mass float32, inertia math.Vec3, o Overrides) *Body {
	if o.MassOverride > 0 && mass > 0 {
		inertia = inertia.Scale(o.MassOverride / mass)
		mass = o.MassOverride
	} else if o.MassOverride > 0 {
		mass = o.MassOverride
	}
	if o.InertiaTensorScale != (math.Vec3{}) {
		inertia = inertia.Mul(o.InertiaTensorScale)
	}
	return &Body{
		pose:      math.PoseIdentity(),
		mass:      mass,
		inertia:   inertia,
		comOffset: o.CenterOfMassNudge,
		overrides: o,
	}
}

// SetGravity sets the vertical gravity acceleration.
func (b *Body) SetGravity(z float32) { b.gravityZ = z }

// Pose returns the world transform of the body origin.
func (b *Body) Pose() math.Pose { return b.pose }

// SetPose teleports the body.
func (b *Body) SetPose(p math.Pose) { b.pose = p }

// LinearVelocity returns the velocity of the center of mass.
func (b *Body) LinearVelocity() math.Vec3 { return b.linear }

// AngularVelocity returns the world angular velocity in radians/s.
func (b *Body) AngularVelocity() math.Vec3 { return b.angular }

// SetVelocity sets linear and angular velocity.
func (b *Body) SetVelocity(linear, angular math.Vec3) {
	b.linear = linear
	b.angular = angular
}

// SetState overwrites pose and velocities, as done by replication playback.
func (b *Body) SetState(pose math.Pose, linear, angular math.Vec3) {
	b.pose = pose
	b.linear = linear
	b.angular = angular
}

// Mass returns the body mass in kilograms.
func (b *Body) Mass() float32 { return b.mass }

// Inertia returns the local diagonal inertia tensor.
func (b *Body) Inertia() math.Vec3 { return b.inertia }

// CenterOfMass returns the world position of the center of mass.
func (b *Body) CenterOfMass() math.Vec3 {
	return b.pose.TransformPoint(b.comOffset)
}

// AddForce adds a force through the center of mass.
func (b *Body) AddForce(f math.Vec3) {
	b.force = b.force.Add(f)
}

// AddForceAtPosition adds a force applied at world point p.
func (b *Body) AddForceAtPosition(f, p math.Vec3) {
	b.force = b.force.Add(f)
	b.torque = b.torque.Add(p.Sub(b.CenterOfMass()).Cross(f))
}

// PendingForce returns the force and torque accumulated since the last step.
func (b *Body) PendingForce() (force, torque math.Vec3) {
	return b.force, b.torque
}

// Step integrates accumulated forces and gravity over dt and clears them.
func (b *Body) Step(dt float32) {
	if dt <= 0 {
		return
	}

	if b.mass > 0 {
		accel := b.force.Scale(1 / b.mass)
		accel.Z += b.gravityZ
		b.linear = b.linear.Add(accel.Scale(dt))
	}
	if d := b.overrides.LinearDamping; d > 0 {
		b.linear = b.linear.Scale(1 / (1 + dt*d))
	}

	q := b.pose.Rotation
	local := q.Conjugate().RotateVector(b.torque)
	alpha := math.Vec3{
		X: safeDiv(local.X, b.inertia.X),
		Y: safeDiv(local.Y, b.inertia.Y),
		Z: safeDiv(local.Z, b.inertia.Z),
	}
	b.angular = b.angular.Add(q.RotateVector(alpha).Scale(dt))
	if d := b.overrides.AngularDamping; d > 0 {
		b.angular = b.angular.Scale(1 / (1 + dt*d))
	}
	if limit := b.overrides.MaxAngularVelocity * gomath.Pi / 180; limit > 0 {
		if w := b.angular.Length(); w > limit {
			b.angular = b.angular.Scale(limit / w)
		}
	}

	com := b.CenterOfMass().Add(b.linear.Scale(dt))
	b.pose.Rotation = q.Integrate(b.angular, dt)
	b.pose.Position = com.Sub(b.pose.Rotation.RotateVector(b.comOffset))

	b.force = math.Vec3{}
	b.torque = math.Vec3{}
}

func safeDiv(a, b float32) float32 {
	if b == 0 {
		return 0
	}
	return a / b
}
