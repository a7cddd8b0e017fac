package buoyancy

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/buoyant/pkg/math"
)

// WeldTolerance is the distance below which raw vertices are merged.
const WeldTolerance = 1e-4

var (
	// ErrEmptyHull is returned when the hull geometry has no triangles.
	ErrEmptyHull = errors.New("hull has no triangles")
	// ErrIndexCount is returned when the index buffer is not a multiple of three.
	ErrIndexCount = errors.New("index count is not a multiple of 3")
	// ErrIndexRange is returned when an index points past the position buffer.
	ErrIndexRange = errors.New("index out of range")
	// ErrPositionCount is returned when the position buffer is not xyz triples.
	ErrPositionCount = errors.New("position count is not a multiple of 3")
)

// MeshTriangle is a local-space triangle referencing welded vertices.
type MeshTriangle struct {
	Indices [3]int
	Area    float32
}

// MeshData is the welded, immutable local-space hull.
type MeshData struct {
	Indices          []int       // three per triangle, into Vertices
	Vertices         []math.Vec3 // unique
	Triangles        []MeshTriangle
	TotalSurfaceArea float32
	Bounds           math.Box
}

// NewMeshData welds a raw index and position buffer. positions holds xyz
// triples; indices reference those triples three per triangle.
func NewMeshData(indices []uint32, positions []float32) (*MeshData, error) {
	if len(positions)%3 != 0 {
		return nil, fmt.Errorf("%w: %d floats", ErrPositionCount, len(positions))
	}
	if len(indices) == 0 {
		return nil, ErrEmptyHull
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices", ErrIndexCount, len(indices))
	}

	rawCount := uint32(len(positions) / 3)
	m := &MeshData{
		Indices:   make([]int, 0, len(indices)),
		Triangles: make([]MeshTriangle, 0, len(indices)/3),
	}

	welded := make(map[[3]int64]int, rawCount)
	for _, raw := range indices {
		if raw >= rawCount {
			return nil, fmt.Errorf("%w: %d >= %d", ErrIndexRange, raw, rawCount)
		}
		p := math.Vec3{X: positions[raw*3], Y: positions[raw*3+1], Z: positions[raw*3+2]}
		key := weldKey(p)
		idx, ok := welded[key]
		if !ok {
			m.Vertices = append(m.Vertices, p)
			idx = len(m.Vertices) - 1
			welded[key] = idx
		}
		m.Indices = append(m.Indices, idx)
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		tri := MeshTriangle{Indices: [3]int{m.Indices[i], m.Indices[i+1], m.Indices[i+2]}}
		tri.Area = TriangleArea(m.Vertices[tri.Indices[0]], m.Vertices[tri.Indices[1]], m.Vertices[tri.Indices[2]])
		m.TotalSurfaceArea += tri.Area
		m.Triangles = append(m.Triangles, tri)
	}

	m.Bounds = math.BoxFromPoints(m.Vertices)
	return m, nil
}

// weldKey quantizes p to the weld tolerance. Points straddling a bucket edge
// stay distinct.
func weldKey(p math.Vec3) [3]int64 {
	q := func(f float32) int64 {
		return int64(gomath.Round(float64(f) / WeldTolerance))
	}
	return [3]int64{q(p.X), q(p.Y), q(p.Z)}
}

// BoundingSpan returns the diagonal of the local bounds, an upper bound on the
// hull's extent along any axis for any orientation.
func (m *MeshData) BoundingSpan() float32 {
	return m.Bounds.Size().Length()
}
