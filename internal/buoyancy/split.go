package buoyancy

import "github.com/Faultbox/buoyant/pkg/math"

// SplitTriangle cuts tri along the horizontal line through its middle-height
// vertex. upper holds the highest vertex and has its horizontal edge at the
// bottom; lower holds the lowest vertex and has its horizontal edge on top.
// The cut point is appended to the arena. If the middle vertex shares a
// height with an extreme vertex one piece is degenerate with zero area.
func SplitTriangle(tri *Triangle, arena *VertexArena, sampler DepthSampler, body RigidBody) (upper, lower Triangle) {
	b := &triangleBuilder{arena: arena, sampler: sampler, body: body}

	sorted := *tri
	sorted.SortByHeight(arena)
	hi, mi, li := sorted.Indices[0], sorted.Indices[1], sorted.Indices[2]
	h := arena.At(hi)
	m := arena.At(mi)
	l := arena.At(li)

	var t float32
	if span := h.Position.Z - l.Position.Z; span > 0 {
		t = (h.Position.Z - m.Position.Z) / span
	}
	cutPos := h.Position.Lerp(l.Position, t)
	cutPos.Z = m.Position.Z
	ci := arena.Add(Vertex{Position: cutPos, Depth: sampler.DepthAt(cutPos)})
	c := arena.At(ci)

	upper = b.build(hi, mi, ci, tri.Normal)
	upper.HorizontalEdgeUp = false
	upper.ForceCenter = apexUpPressureCenter(h, m, c, upper.Center)

	lower = b.build(mi, ci, li, tri.Normal)
	lower.HorizontalEdgeUp = true
	lower.ForceCenter = edgeUpPressureCenter(m, c, l, lower.Center)

	return upper, lower
}

// apexUpPressureCenter locates the center of pressure of a triangle whose
// apex sits above a horizontal base edge (b, c). Pressure grows linearly
// with depth so the point lies below the centroid on the apex median.
func apexUpPressureCenter(apex, b, c Vertex, fallback math.Vec3) math.Vec3 {
	mid := b.Position.Add(c.Position).Scale(0.5)
	h0 := abs32(apex.Depth)
	height := abs32(apex.Position.Z - mid.Z)
	den := 6*h0 + 4*height
	if den <= 0 {
		return fallback
	}
	t := (4*h0 + 3*height) / den
	return apex.Position.Add(mid.Sub(apex.Position).Scale(t))
}

// edgeUpPressureCenter locates the center of pressure of a triangle whose
// horizontal edge (b, c) sits above the apex.
func edgeUpPressureCenter(b, c, apex Vertex, fallback math.Vec3) math.Vec3 {
	mid := b.Position.Add(c.Position).Scale(0.5)
	h0 := (abs32(b.Depth) + abs32(c.Depth)) / 2
	height := abs32(apex.Position.Z - mid.Z)
	den := 6*h0 + 2*height
	if den <= 0 {
		return fallback
	}
	t := (2*h0 + height) / den
	return mid.Add(apex.Position.Sub(mid).Scale(t))
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
