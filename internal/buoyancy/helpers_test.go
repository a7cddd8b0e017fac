package buoyancy

import (
	gomath "math"

	"github.com/Faultbox/buoyant/pkg/math"
)

// levelSampler reports depth against a flat surface at Level.
type levelSampler struct {
	Level float32
}

func (s levelSampler) DepthAt(p math.Vec3) float32 {
	return p.Z - s.Level
}

type appliedForce struct {
	Force, At math.Vec3
}

// testBody is a kinematic body that records applied forces.
type testBody struct {
	pose    math.Pose
	linear  math.Vec3
	angular math.Vec3
	mass    float32
	applied []appliedForce
}

func newTestBody(position math.Vec3) *testBody {
	return &testBody{
		pose: math.Pose{Position: position, Rotation: math.QuatIdentity()},
		mass: 100,
	}
}

func (b *testBody) Pose() math.Pose              { return b.pose }
func (b *testBody) LinearVelocity() math.Vec3    { return b.linear }
func (b *testBody) AngularVelocity() math.Vec3   { return b.angular }
func (b *testBody) Mass() float32                { return b.mass }
func (b *testBody) CenterOfMass() math.Vec3      { return b.pose.Position }
func (b *testBody) AddForceAtPosition(f, at math.Vec3) {
	b.applied = append(b.applied, appliedForce{Force: f, At: at})
}

func (b *testBody) netForce() math.Vec3 {
	var sum math.Vec3
	for _, a := range b.applied {
		sum = sum.Add(a.Force)
	}
	return sum
}

// cubeGeometry returns an unwelded cube of the given edge length centered on
// the origin: 12 triangles with their own corner copies.
func cubeGeometry(size float32) ([]uint32, []float32) {
	h := size / 2
	c := [8]math.Vec3{
		{X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h}, {X: h, Y: h, Z: -h}, {X: -h, Y: h, Z: -h},
		{X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h}, {X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h},
	}
	faces := [][3]int{
		{0, 2, 1}, {0, 3, 2}, // bottom
		{4, 5, 6}, {4, 6, 7}, // top
		{0, 1, 5}, {0, 5, 4},
		{1, 2, 6}, {1, 6, 5},
		{2, 3, 7}, {2, 7, 6},
		{3, 0, 4}, {3, 4, 7},
	}
	var indices []uint32
	var positions []float32
	for _, f := range faces {
		for _, ci := range f {
			indices = append(indices, uint32(len(positions)/3))
			positions = append(positions, c[ci].X, c[ci].Y, c[ci].Z)
		}
	}
	return indices, positions
}

func near(a, b, tol float32) bool {
	return gomath.Abs(float64(a-b)) <= float64(tol)
}
