package buoyancy

import "github.com/Faultbox/buoyant/pkg/math"

// RigidBody is the physics handle forces are applied to. AddForceAtPosition
// may be called many times per substep.
type RigidBody interface {
	Pose() math.Pose
	LinearVelocity() math.Vec3
	AngularVelocity() math.Vec3 // radians/s
	Mass() float32
	CenterOfMass() math.Vec3
	AddForceAtPosition(force, position math.Vec3)
}

// VelocityAtPoint returns the world velocity of the body at world point p.
func VelocityAtPoint(body RigidBody, p math.Vec3) math.Vec3 {
	arm := p.Sub(body.CenterOfMass())
	return body.LinearVelocity().Add(body.AngularVelocity().Cross(arm))
}
