package buoyancy

import (
	gomath "math"

	"github.com/Faultbox/buoyant/pkg/math"
)

// NegligibleForce is the magnitude below which a force is not applied.
const NegligibleForce = 1e-4

// minSpeed guards divisions by velocity magnitude.
const minSpeed = 1e-6

// ForceModel evaluates per-triangle forces from Settings.
type ForceModel struct {
	s Settings
}

// NewForceModel returns a force model for s.
func NewForceModel(s Settings) ForceModel {
	return ForceModel{s: s}
}

// Hydrostatic returns the buoyant pressure force on tri, to be applied at
// tri.ForceCenter. For an outward-facing submerged triangle the force opposes
// gravity on downward faces and pushes inward on upward faces.
func (f ForceModel) Hydrostatic(tri *Triangle) math.Vec3 {
	scale := -tri.Area * abs32(tri.Depth) * -f.s.FluidDensity * f.s.GravityZ
	return f.s.BuoyancyCoefficient.Mul(tri.Normal).Scale(scale)
}

// PressureDrag returns the pressure or suction drag for a face moving at
// velocity. Faces moving into the water (theta >= 0) get pressure drag
// against the normal; receding faces get suction along it.
func (f ForceModel) PressureDrag(tri *Triangle, velocity math.Vec3) math.Vec3 {
	speed := velocity.Length()
	if speed < minSpeed || tri.Area <= 0 {
		return math.Vec3{}
	}
	d := f.s.Damping
	theta := velocity.Scale(1 / speed).Dot(tri.Normal)

	ref := speed
	if d.UseReferenceSpeed && d.ReferenceSpeed > 0 {
		ref = d.ReferenceSpeed
	}
	ratio := speed / ref

	var force math.Vec3
	if theta >= 0 {
		mag := (d.PressureDragLinear*ratio + d.PressureDragQuadratic*ratio*ratio) *
			tri.Area * pow32(theta, d.PressureFallOffPower)
		force = tri.Normal.Scale(-mag)
	} else {
		mag := (d.SuctionDragLinear*ratio + d.SuctionDragQuadratic*ratio*ratio) *
			tri.Area * pow32(-theta, d.SuctionFallOffPower)
		force = tri.Normal.Scale(mag)
	}
	return force.Mul(d.PressureDragScalar)
}

// ReynoldsNumber returns speed*length/viscosity.
func ReynoldsNumber(speed, length, viscosity float32) float32 {
	if viscosity <= 0 {
		return 0
	}
	return speed * length / viscosity
}

// ResistanceCoefficient returns the ITTC 1957 friction line 0.075/(log10(Re)-2)^2.
// It diverges at Re = 100; callers must keep Re well above that.
func ResistanceCoefficient(re float32) float32 {
	l := gomath.Log10(float64(re)) - 2
	return float32(0.075 / (l * l))
}

// ViscousResistance returns the skin friction force for tri moving at
// velocity. It acts against the tangential flow and is skipped when the
// Reynolds number is at or below Settings.MinReynoldsNumber.
func (f ForceModel) ViscousResistance(tri *Triangle, velocity math.Vec3) math.Vec3 {
	speed := velocity.Length()
	if speed < minSpeed || tri.Area <= 0 {
		return math.Vec3{}
	}
	re := ReynoldsNumber(speed, f.s.HullLength, f.s.FluidViscosity)
	if re <= f.s.MinReynoldsNumber || re <= 100 {
		return math.Vec3{}
	}
	cf := ResistanceCoefficient(re)

	tangential := velocity.Sub(tri.Normal.Scale(velocity.Dot(tri.Normal)))
	tl := tangential.Length()
	if tl < minSpeed {
		return math.Vec3{}
	}
	flow := tangential.Scale(-speed / tl)
	mag := 0.5 * f.s.FluidDensity * cf * tri.Area * flow.Length()
	return flow.Scale(mag).Mul(f.s.Damping.ViscousResistanceScalar)
}

// EntrySample is one triangle's submersion state in one substep.
type EntrySample struct {
	SubmergedArea float32
	Velocity      math.Vec3
}

// SweptAcceleration estimates how fast the triangle is pushing into the
// water from the change in swept volume rate between two substeps.
func SweptAcceleration(cur, prev EntrySample, triangleArea, dt float32) float32 {
	if dt <= 0 || triangleArea <= 0 {
		return 0
	}
	curRate := cur.SubmergedArea * cur.Velocity.Length()
	prevRate := prev.SubmergedArea * prev.Velocity.Length()
	return (curRate - prevRate) / (triangleArea * dt)
}

// WaterEntry returns the slamming force for tri given its previous substep
// sample. The force opposes the velocity and is zeroed when the face is
// receding or when it would pull the hull down.
func (f ForceModel) WaterEntry(tri *Triangle, prev EntrySample, mass, totalArea, dt float32) math.Vec3 {
	if totalArea <= 0 || f.s.MaxTriangleAcceleration <= 0 {
		return math.Vec3{}
	}
	if tri.Velocity.Length() < minSpeed {
		return math.Vec3{}
	}
	theta := tri.WaterDirection()
	if theta <= 0 {
		return math.Vec3{}
	}

	cur := EntrySample{SubmergedArea: tri.CutSubmergedArea, Velocity: tri.Velocity}
	accel := SweptAcceleration(cur, prev, tri.Area, dt)
	ratio := clamp32(accel/f.s.MaxTriangleAcceleration, 0, 1)
	if ratio == 0 {
		return math.Vec3{}
	}

	stopping := tri.Velocity.Scale(mass * (2 * tri.CutSubmergedArea / totalArea))
	force := stopping.Scale(-pow32(ratio, f.s.Damping.WaterEntryPower) * theta).
		Mul(f.s.Damping.WaterEntryScalar)
	if force.Z < 0 {
		return math.Vec3{}
	}
	return force
}

func negligible(force math.Vec3) bool {
	return force.LengthSquared() < NegligibleForce*NegligibleForce
}

func pow32(x, y float32) float32 {
	return float32(gomath.Pow(float64(x), float64(y)))
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
