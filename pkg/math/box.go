package math

import "math"

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Vec3
	Valid    bool
}

// EmptyBox returns a box that contains nothing until extended.
func EmptyBox() Box {
	inf := float32(math.Inf(1))
	return Box{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// NewBox returns a box with the given corners.
func NewBox(min, max Vec3) Box {
	return Box{Min: min, Max: max, Valid: true}
}

// BoxFromPoints returns the smallest box enclosing points.
func BoxFromPoints(points []Vec3) Box {
	b := EmptyBox()
	for _, p := range points {
		b = b.Extend(p)
	}
	return b
}

// Extend returns the box grown to include p.
func (b Box) Extend(p Vec3) Box {
	b.Min = Vec3{min(b.Min.X, p.X), min(b.Min.Y, p.Y), min(b.Min.Z, p.Z)}
	b.Max = Vec3{max(b.Max.X, p.X), max(b.Max.Y, p.Y), max(b.Max.Z, p.Z)}
	b.Valid = true
	return b
}

// Size returns the extent of the box on each axis.
func (b Box) Size() Vec3 {
	if !b.Valid {
		return Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the box midpoint.
func (b Box) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// MoveTo returns the box translated so its center is at p.
func (b Box) MoveTo(p Vec3) Box {
	offset := p.Sub(b.Center())
	return Box{Min: b.Min.Add(offset), Max: b.Max.Add(offset), Valid: b.Valid}
}

// ContainsXY reports whether other lies inside b on the X and Y axes.
func (b Box) ContainsXY(other Box) bool {
	if !b.Valid || !other.Valid {
		return false
	}
	return other.Min.X >= b.Min.X && other.Max.X <= b.Max.X &&
		other.Min.Y >= b.Min.Y && other.Max.Y <= b.Max.Y
}

// Corners returns the eight corners of the box.
func (b Box) Corners() [8]Vec3 {
	return [8]Vec3{
		{b.Min.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Min.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Min.Z},
		{b.Max.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z},
		{b.Max.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z},
		{b.Max.X, b.Max.Y, b.Max.Z},
	}
}

// Transform returns the axis-aligned box enclosing b after transformation by m.
func (b Box) Transform(m Mat4) Box {
	if !b.Valid {
		return b
	}
	out := EmptyBox()
	for _, c := range b.Corners() {
		out = out.Extend(m.TransformVec3(c))
	}
	return out
}
