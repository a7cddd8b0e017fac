package math

// Pose is a rigid world transform: rotation followed by translation.
type Pose struct {
	Position Vec3
	Rotation Quat
}

// PoseIdentity returns a pose at the origin with no rotation.
func PoseIdentity() Pose {
	return Pose{Rotation: QuatIdentity()}
}

// Matrix returns the pose as a 4x4 transform.
func (p Pose) Matrix() Mat4 {
	return RigidTransform(p.Rotation, p.Position)
}

// TransformPoint maps a local point into world space.
func (p Pose) TransformPoint(v Vec3) Vec3 {
	return p.Rotation.RotateVector(v).Add(p.Position)
}
