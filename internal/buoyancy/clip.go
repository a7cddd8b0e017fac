package buoyancy

import "github.com/Faultbox/buoyant/pkg/math"

// ClipResult is the submerged part of one triangle.
type ClipResult struct {
	Submerged []Triangle // zero, one or two pieces
	Waterline []int      // arena indices of the new zero-depth vertices
}

// triangleBuilder creates derived triangles that inherit their parent's
// normal and sample their own depth and velocity.
type triangleBuilder struct {
	arena   *VertexArena
	sampler DepthSampler
	body    RigidBody // nil leaves Velocity zero
}

func (b *triangleBuilder) build(i0, i1, i2 int, normal math.Vec3) Triangle {
	p0 := b.arena.At(i0).Position
	p1 := b.arena.At(i1).Position
	p2 := b.arena.At(i2).Position
	t := Triangle{
		Indices: [3]int{i0, i1, i2},
		Area:    TriangleArea(p0, p1, p2),
		Center:  Centroid(p0, p1, p2),
		Normal:  normal,
	}
	t.ForceCenter = t.Center
	t.Depth = b.sampler.DepthAt(t.Center)
	if b.body != nil {
		t.Velocity = VelocityAtPoint(b.body, t.Center)
	}
	return t
}

// waterlinePoint adds the zero-depth point on the edge from a submerged
// vertex to a surfaced one.
func (b *triangleBuilder) waterlinePoint(near, far int) int {
	vn := b.arena.At(near)
	vf := b.arena.At(far)
	t := -vn.Depth / (vf.Depth - vn.Depth)
	return b.arena.Add(Vertex{
		Position: vn.Position.Lerp(vf.Position, t),
		Depth:    0,
	})
}

// ClipTriangle cuts tri against the water surface. Vertex depths decide the
// case; each piece then samples depth at its own centroid because the surface
// need not be planar across the cut. Pieces are ordered shallowest corner
// first.
func ClipTriangle(tri *Triangle, arena *VertexArena, sampler DepthSampler, body RigidBody) ClipResult {
	b := &triangleBuilder{arena: arena, sampler: sampler, body: body}

	sorted := *tri
	sorted.SortByDepth(arena)
	h, m, l := sorted.Indices[0], sorted.Indices[1], sorted.Indices[2]

	submerged := 0
	for _, i := range sorted.Indices {
		if arena.At(i).Submerged() {
			submerged++
		}
	}

	var res ClipResult
	switch submerged {
	case 0:
		return res

	case 3:
		piece := *tri
		piece.Forces = Forces{}
		piece.CutSubmergedArea = 0
		res.Submerged = []Triangle{piece}

	case 2:
		// H is above water; M and L are below.
		im := b.waterlinePoint(m, h)
		il := b.waterlinePoint(l, h)
		res.Waterline = []int{im, il}
		res.Submerged = []Triangle{
			b.build(m, im, il, tri.Normal),
			b.build(m, il, l, tri.Normal),
		}

	case 1:
		// Only L is below water.
		jm := b.waterlinePoint(l, m)
		jh := b.waterlinePoint(l, h)
		res.Waterline = []int{jh, jm}
		res.Submerged = []Triangle{b.build(jh, jm, l, tri.Normal)}
	}

	for i := range res.Submerged {
		res.Submerged[i].SortByDepth(arena)
	}
	return res
}
