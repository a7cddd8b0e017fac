package buoyancy

import (
	gomath "math"

	"github.com/Faultbox/buoyant/pkg/math"
)

// Vertex is a world-space point with its signed depth relative to the local
// water surface. Negative depth means submerged.
type Vertex struct {
	Position math.Vec3
	Depth    float32
}

// Submerged reports whether the vertex lies strictly below the water surface.
// A depth of exactly zero counts as surfaced.
func (v Vertex) Submerged() bool {
	return v.Depth < 0
}

// VertexArena owns the vertices of one buoyant frame. Triangles refer to its
// entries by index so the arena can grow without invalidating them.
type VertexArena struct {
	vertices []Vertex
}

// NewVertexArena returns an arena with room for n vertices.
func NewVertexArena(n int) *VertexArena {
	return &VertexArena{vertices: make([]Vertex, 0, n)}
}

// Add appends v and returns its index.
func (a *VertexArena) Add(v Vertex) int {
	a.vertices = append(a.vertices, v)
	return len(a.vertices) - 1
}

// At returns the vertex at index i.
func (a *VertexArena) At(i int) Vertex {
	return a.vertices[i]
}

// Len returns the number of vertices.
func (a *VertexArena) Len() int {
	return len(a.vertices)
}

// Reset empties the arena and keeps its capacity.
func (a *VertexArena) Reset() {
	a.vertices = a.vertices[:0]
}

// Vertices returns the backing slice. Callers must not append to it.
func (a *VertexArena) Vertices() []Vertex {
	return a.vertices
}

// Forces holds the force vectors currently acting on one triangle.
type Forces struct {
	Hydrostatic       math.Vec3
	PressureDrag      math.Vec3
	ViscousResistance math.Vec3
	WaterEntry        math.Vec3
}

// Total returns the sum of all forces.
func (f Forces) Total() math.Vec3 {
	return f.Hydrostatic.Add(f.PressureDrag).Add(f.ViscousResistance).Add(f.WaterEntry)
}

func (f Forces) add(o Forces) Forces {
	return Forces{
		Hydrostatic:       f.Hydrostatic.Add(o.Hydrostatic),
		PressureDrag:      f.PressureDrag.Add(o.PressureDrag),
		ViscousResistance: f.ViscousResistance.Add(o.ViscousResistance),
		WaterEntry:        f.WaterEntry.Add(o.WaterEntry),
	}
}

// Triangle is a world-space hull triangle referencing three arena vertices.
type Triangle struct {
	Indices [3]int

	Area   float32
	Center math.Vec3
	Normal math.Vec3 // outward facing, unit length

	// Depth is sampled at Center, not averaged from the vertices.
	Depth    float32
	Velocity math.Vec3

	// ForceCenter is the center of pressure for hydrostatic force. Only split
	// triangles have one distinct from Center.
	ForceCenter      math.Vec3
	HorizontalEdgeUp bool

	// CutSubmergedArea accumulates the area of the clipped submerged pieces.
	CutSubmergedArea float32

	Forces Forces
}

// Vertex returns the i-th corner of t from the arena.
func (t *Triangle) Vertex(a *VertexArena, i int) Vertex {
	return a.At(t.Indices[i])
}

// Positions returns the three corner positions.
func (t *Triangle) Positions(a *VertexArena) [3]math.Vec3 {
	return [3]math.Vec3{
		a.At(t.Indices[0]).Position,
		a.At(t.Indices[1]).Position,
		a.At(t.Indices[2]).Position,
	}
}

// WaterDirection returns theta, the cosine between the velocity direction and
// the outward normal. Positive when the face moves into the water.
func (t *Triangle) WaterDirection() float32 {
	return t.Velocity.Normalize().Dot(t.Normal)
}

// SortByDepth reorders the indices so the shallowest corner comes first.
func (t *Triangle) SortByDepth(a *VertexArena) {
	sortIndices(&t.Indices, func(i, j int) bool {
		return a.At(i).Depth > a.At(j).Depth
	})
}

// SortByHeight reorders the indices so the highest corner comes first.
func (t *Triangle) SortByHeight(a *VertexArena) {
	sortIndices(&t.Indices, func(i, j int) bool {
		return a.At(i).Position.Z > a.At(j).Position.Z
	})
}

// sortIndices orders three arena indices; before(i, j) reports whether
// arena index i belongs ahead of j.
func sortIndices(idx *[3]int, before func(i, j int) bool) {
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if before(idx[j], idx[i]) {
				idx[i], idx[j] = idx[j], idx[i]
			}
		}
	}
}

// TriangleArea returns |AB||AC|sin(A)/2. Degenerate triangles yield zero.
func TriangleArea(a, b, c math.Vec3) float32 {
	ab := b.Sub(a)
	ac := c.Sub(a)
	lab := ab.Length()
	lac := ac.Length()
	if lab == 0 || lac == 0 {
		return 0
	}
	cos := float64(ab.Scale(1 / lab).Dot(ac.Scale(1 / lac)))
	cos = gomath.Max(-1, gomath.Min(1, cos))
	area := float32(float64(lab*lac)*gomath.Sin(gomath.Acos(cos))) / 2
	if area < 0 {
		return 0
	}
	return area
}

// Centroid returns the mean of three points.
func Centroid(a, b, c math.Vec3) math.Vec3 {
	return a.Add(b).Add(c).Scale(1.0 / 3.0)
}

// outwardNormal returns the unit face normal oriented away from meshCenter.
func outwardNormal(p [3]math.Vec3, meshCenter math.Vec3) math.Vec3 {
	center := Centroid(p[0], p[1], p[2])
	n := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
	if n.Dot(center.Sub(meshCenter)) < 0 {
		n = n.Neg()
	}
	return n.Normalize()
}
