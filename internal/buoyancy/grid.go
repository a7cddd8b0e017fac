package buoyancy

import (
	gomath "math"

	"github.com/Faultbox/buoyant/pkg/math"
)

// WaterGrid is a regular grid of water height samples around a body.
//
// Rows run along X and columns along Y. Every cell is split along the
// (r,c)-(r+1,c+1) diagonal: triangle 0 holds the half where the local
// y offset exceeds x, triangle 1 the rest.
type WaterGrid struct {
	Origin   math.Vec3 // lower-left corner, Z unused
	CellSize float32
	Rows     int
	Cols     int

	heights []float32 // (Rows+1)*(Cols+1), row-major
}

// NewWaterGrid builds a grid covering a square of the largest bounding
// dimension centered on worldCenter. Corners snap outward to multiples of
// cellSize so the layout does not depend on the body's rotation.
func NewWaterGrid(cellSize float32, boundingSize, worldCenter math.Vec3) *WaterGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	extent := float64(boundingSize.MaxComponent()) / 2
	cell := float64(cellSize)

	minX := gomath.Floor((float64(worldCenter.X)-extent)/cell) * cell
	maxX := gomath.Ceil((float64(worldCenter.X)+extent)/cell) * cell
	minY := gomath.Floor((float64(worldCenter.Y)-extent)/cell) * cell
	maxY := gomath.Ceil((float64(worldCenter.Y)+extent)/cell) * cell

	rows := max(int(gomath.Round((maxX-minX)/cell)), 1)
	cols := max(int(gomath.Round((maxY-minY)/cell)), 1)

	return &WaterGrid{
		Origin:   math.Vec3{X: float32(minX), Y: float32(minY)},
		CellSize: cellSize,
		Rows:     rows,
		Cols:     cols,
		heights:  make([]float32, (rows+1)*(cols+1)),
	}
}

// Resample queries the water height at every grid vertex.
func (g *WaterGrid) Resample(surface WaterSurface, time float32) {
	for r := 0; r <= g.Rows; r++ {
		for c := 0; c <= g.Cols; c++ {
			p := g.vertexXY(r, c)
			g.heights[g.index(r, c)] = surface.HeightAt(p, time)
		}
	}
}

// Vertex returns the sampled grid point at row r, column c.
func (g *WaterGrid) Vertex(r, c int) math.Vec3 {
	p := g.vertexXY(r, c)
	p.Z = g.heights[g.index(r, c)]
	return p
}

// Cell returns the two triangles of cell (r, c).
func (g *WaterGrid) Cell(r, c int) [2][3]math.Vec3 {
	v00 := g.Vertex(r, c)
	v01 := g.Vertex(r, c+1)
	v10 := g.Vertex(r+1, c)
	v11 := g.Vertex(r+1, c+1)
	return [2][3]math.Vec3{
		{v00, v01, v11},
		{v00, v10, v11},
	}
}

// Heights returns a copy of the height samples, row-major.
func (g *WaterGrid) Heights() []float32 {
	out := make([]float32, len(g.heights))
	copy(out, g.heights)
	return out
}

// Bounds returns the grid's box. Z spans the sampled heights.
func (g *WaterGrid) Bounds() math.Box {
	minZ, maxZ := float32(0), float32(0)
	for i, h := range g.heights {
		if i == 0 || h < minZ {
			minZ = h
		}
		if i == 0 || h > maxZ {
			maxZ = h
		}
	}
	return math.NewBox(
		math.Vec3{X: g.Origin.X, Y: g.Origin.Y, Z: minZ},
		math.Vec3{
			X: g.Origin.X + g.CellSize*float32(g.Rows),
			Y: g.Origin.Y + g.CellSize*float32(g.Cols),
			Z: maxZ,
		},
	)
}

// Covers reports whether box lies inside the grid horizontally.
func (g *WaterGrid) Covers(box math.Box) bool {
	return g.Bounds().ContainsXY(box)
}

// DepthAt returns the signed vertical distance from p to the water surface,
// positive above. Points outside the grid use the nearest edge cell, which
// loses accuracy but never fails.
func (g *WaterGrid) DepthAt(p math.Vec3) float32 {
	lx := p.X - g.Origin.X
	ly := p.Y - g.Origin.Y
	r := clampInt(int(gomath.Floor(float64(lx/g.CellSize))), 0, g.Rows-1)
	c := clampInt(int(gomath.Floor(float64(ly/g.CellSize))), 0, g.Cols-1)

	cx := lx - float32(r)*g.CellSize
	cy := ly - float32(c)*g.CellSize

	tris := g.Cell(r, c)
	tri := tris[1]
	if cy > cx {
		tri = tris[0]
	}

	// Plane height straight below (or above) p; a vertical cell has none.
	n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Normalize()
	if gomath.Abs(float64(n.Z)) < 1e-6 {
		return p.Z - tri[0].Z
	}
	h := tri[0].Z - (n.X*(p.X-tri[0].X)+n.Y*(p.Y-tri[0].Y))/n.Z
	return p.Z - h
}

func (g *WaterGrid) vertexXY(r, c int) math.Vec3 {
	return math.Vec3{
		X: g.Origin.X + g.CellSize*float32(r),
		Y: g.Origin.Y + g.CellSize*float32(c),
	}
}

func (g *WaterGrid) index(r, c int) int {
	return r*(g.Cols+1) + c
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
