// Package hull supplies raw hull geometry: index and position buffers ready
// for welding by the buoyancy package.
package hull

import (
	"errors"
	"fmt"

	"github.com/Faultbox/buoyant/pkg/math"
)

// ErrUnknownShape is returned for an unsupported procedural shape.
var ErrUnknownShape = errors.New("unknown hull shape")

// Geometry is one level of detail of a hull. Positions holds xyz triples in
// centimeters; Indices holds three vertex references per triangle with
// counter-clockwise winding seen from outside.
type Geometry struct {
	Name      string
	Indices   []uint32
	Positions []float32
}

// VertexCount returns the number of position triples.
func (g Geometry) VertexCount() int { return len(g.Positions) / 3 }

// TriangleCount returns the number of index triples.
func (g Geometry) TriangleCount() int { return len(g.Indices) / 3 }

// Vertex returns position i.
func (g Geometry) Vertex(i uint32) math.Vec3 {
	return math.Vec3{X: g.Positions[i*3], Y: g.Positions[i*3+1], Z: g.Positions[i*3+2]}
}

// Bounds returns the local bounding box.
func (g Geometry) Bounds() math.Box {
	b := math.EmptyBox()
	for i := 0; i < g.VertexCount(); i++ {
		b = b.Extend(g.Vertex(uint32(i)))
	}
	return b
}

// Volume returns the enclosed volume of a closed, consistently wound mesh.
func (g Geometry) Volume() float32 {
	var sum float32
	for i := 0; i+2 < len(g.Indices); i += 3 {
		a := g.Vertex(g.Indices[i])
		b := g.Vertex(g.Indices[i+1])
		c := g.Vertex(g.Indices[i+2])
		sum += a.Dot(b.Cross(c))
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 6
}

// Spec selects a hull from configuration.
type Spec struct {
	Shape string    `yaml:"shape"` // box, wedge or file
	Size  math.Vec3 `yaml:"size"`  // length, beam, height
	File  string    `yaml:"file"`
}

// FromSpec builds the geometry described by s.
func FromSpec(s Spec) (Geometry, error) {
	switch s.Shape {
	case "box", "":
		return Box(s.Size), nil
	case "wedge":
		return Wedge(s.Size.X, s.Size.Y, s.Size.Z), nil
	case "file":
		return Load(s.File)
	}
	return Geometry{}, fmt.Errorf("%w: %q", ErrUnknownShape, s.Shape)
}

type builder struct {
	g Geometry
}

func (b *builder) vertex(p math.Vec3) uint32 {
	b.g.Positions = append(b.g.Positions, p.X, p.Y, p.Z)
	return uint32(len(b.g.Positions)/3 - 1)
}

// quad adds two triangles; corners are counter-clockwise seen from outside.
// Each triangle gets its own vertex copies, as exported render meshes do.
func (b *builder) quad(p0, p1, p2, p3 math.Vec3) {
	b.tri(p0, p1, p2)
	b.tri(p0, p2, p3)
}

func (b *builder) tri(p0, p1, p2 math.Vec3) {
	b.g.Indices = append(b.g.Indices, b.vertex(p0), b.vertex(p1), b.vertex(p2))
}

// Box returns a closed box centered on the origin.
func Box(size math.Vec3) Geometry {
	h := size.Scale(0.5)
	c := [8]math.Vec3{
		{X: -h.X, Y: -h.Y, Z: -h.Z}, {X: h.X, Y: -h.Y, Z: -h.Z},
		{X: h.X, Y: h.Y, Z: -h.Z}, {X: -h.X, Y: h.Y, Z: -h.Z},
		{X: -h.X, Y: -h.Y, Z: h.Z}, {X: h.X, Y: -h.Y, Z: h.Z},
		{X: h.X, Y: h.Y, Z: h.Z}, {X: -h.X, Y: h.Y, Z: h.Z},
	}
	b := &builder{g: Geometry{Name: "box"}}
	b.quad(c[0], c[3], c[2], c[1]) // bottom
	b.quad(c[4], c[5], c[6], c[7]) // top
	b.quad(c[0], c[1], c[5], c[4])
	b.quad(c[1], c[2], c[6], c[5])
	b.quad(c[2], c[3], c[7], c[6])
	b.quad(c[3], c[0], c[4], c[7])
	return b.g
}

// Wedge returns a V-bottomed prism along X: a flat deck at the top and a keel
// line at the bottom, centered on the origin.
func Wedge(length, beam, height float32) Geometry {
	hl, hb, hh := length/2, beam/2, height/2
	// Cross-section: keel, starboard deck edge, port deck edge.
	aft := [3]math.Vec3{{X: -hl, Z: -hh}, {X: -hl, Y: -hb, Z: hh}, {X: -hl, Y: hb, Z: hh}}
	fwd := [3]math.Vec3{{X: hl, Z: -hh}, {X: hl, Y: -hb, Z: hh}, {X: hl, Y: hb, Z: hh}}

	b := &builder{g: Geometry{Name: "wedge"}}
	b.quad(aft[0], fwd[0], fwd[1], aft[1]) // starboard bottom
	b.quad(aft[2], fwd[2], fwd[0], aft[0]) // port bottom
	b.quad(aft[1], fwd[1], fwd[2], aft[2]) // deck
	b.tri(aft[0], aft[1], aft[2])
	b.tri(fwd[0], fwd[2], fwd[1])
	return b.g
}
