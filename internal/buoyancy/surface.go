package buoyancy

import "github.com/Faultbox/buoyant/pkg/math"

// WaterSurface answers water height queries. It is called once per grid
// vertex per substep and must not have side effects.
type WaterSurface interface {
	HeightAt(p math.Vec3, time float32) float32
}

// SurfaceFunc adapts a plain function to WaterSurface.
type SurfaceFunc func(p math.Vec3, time float32) float32

// HeightAt calls f.
func (f SurfaceFunc) HeightAt(p math.Vec3, time float32) float32 {
	return f(p, time)
}

// DepthSampler returns the signed depth of a world point. WaterGrid is the
// production implementation.
type DepthSampler interface {
	DepthAt(p math.Vec3) float32
}
