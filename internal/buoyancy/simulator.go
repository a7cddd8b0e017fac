package buoyancy

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/buoyant/pkg/math"
)

// ErrNoHull is returned by Substep before a hull has been set.
var ErrNoHull = errors.New("no hull set")

// Simulator runs the buoyancy pipeline for one body.
type Simulator struct {
	settings Settings
	model    ForceModel
	surface  WaterSurface
	log      *zap.Logger
	sink     Sink

	mesh   *MeshData
	grid   *WaterGrid
	frames *FrameBuffer
	step   uint64
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(s *Simulator) {
		if log != nil {
			s.log = log
		}
	}
}

// WithSink sets the substep report sink.
func WithSink(sink Sink) Option {
	return func(s *Simulator) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// NewSimulator returns a simulator sampling surface.
func NewSimulator(settings Settings, surface WaterSurface, opts ...Option) *Simulator {
	s := &Simulator{
		settings: settings,
		model:    NewForceModel(settings),
		surface:  surface,
		log:      zap.NewNop(),
		sink:     nopSink{},
		frames:   NewFrameBuffer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetHull welds raw hull geometry and resets all per-body state.
func (s *Simulator) SetHull(indices []uint32, positions []float32) error {
	mesh, err := NewMeshData(indices, positions)
	if err != nil {
		return fmt.Errorf("set hull: %w", err)
	}
	s.SetMesh(mesh)
	s.log.Debug("hull welded",
		zap.Int("raw_vertices", len(positions)/3),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", len(mesh.Triangles)),
		zap.Float32("surface_area", mesh.TotalSurfaceArea))
	return nil
}

// SetMesh installs an already welded hull. A nil mesh removes the hull;
// Substep then returns ErrNoHull.
func (s *Simulator) SetMesh(mesh *MeshData) {
	s.mesh = mesh
	s.grid = nil
	s.frames.Reset()
	if mesh != nil && mesh.TotalSurfaceArea <= 0 {
		s.log.Warn("hull has zero surface area")
	}
}

// Mesh returns the welded hull, or nil.
func (s *Simulator) Mesh() *MeshData { return s.mesh }

// Grid returns the current water grid, or nil before the first substep.
func (s *Simulator) Grid() *WaterGrid { return s.grid }

// Frames returns the frame history.
func (s *Simulator) Frames() *FrameBuffer { return s.frames }

// LastFrame returns the most recently completed frame.
func (s *Simulator) LastFrame() *Frame { return s.frames.Previous() }

// Settings returns the simulator's settings.
func (s *Simulator) Settings() Settings { return s.settings }

// Substep computes and applies all water forces on body for one substep of
// length dt at simulation time t.
func (s *Simulator) Substep(dt, t float32, body RigidBody) error {
	if s.mesh == nil {
		return ErrNoHull
	}

	pose := body.Pose()
	m := pose.Matrix()
	rebuilt := s.updateGrid(m, t)

	frame := s.frames.Current()
	frame.Pose = pose
	for _, v := range s.mesh.Vertices {
		p := m.TransformVec3(v)
		frame.Arena.Add(Vertex{Position: p, Depth: s.grid.DepthAt(p)})
	}

	meshCenter := m.TransformVec3(s.mesh.Bounds.Center())
	mass := body.Mass()
	prev := s.frames.Previous()

	for i, mt := range s.mesh.Triangles {
		tri := s.worldTriangle(frame.Arena, mt, meshCenter, body)

		clip := ClipTriangle(&tri, frame.Arena, s.grid, body)
		for _, piece := range clip.Submerged {
			tri.CutSubmergedArea += piece.Area
		}
		frame.Waterline = append(frame.Waterline, clip.Waterline...)

		if len(clip.Submerged) > 0 {
			if sample, ok := prev.entrySample(i); ok {
				entry := s.model.WaterEntry(&tri, sample, mass, s.mesh.TotalSurfaceArea, dt)
				if s.apply(body, entry, tri.Center) {
					tri.Forces.WaterEntry = entry
				}
			}
			for j := range clip.Submerged {
				piece := &clip.Submerged[j]
				s.applyPiece(frame.Arena, piece, body)
				tri.Forces = tri.Forces.add(piece.Forces)
			}
		}

		frame.Forces = frame.Forces.add(tri.Forces)
		frame.SubmergedArea += tri.CutSubmergedArea
		frame.Triangles = append(frame.Triangles, tri)
		frame.Submerged = append(frame.Submerged, clip.Submerged...)
	}

	s.step++
	s.sink.RecordSubstep(SubstepReport{
		Step:               s.step,
		Time:               t,
		DeltaTime:          dt,
		Pose:               pose,
		Forces:             frame.Forces,
		SubmergedArea:      frame.SubmergedArea,
		SubmergedTriangles: len(frame.Submerged),
		WaterlineVertices:  len(frame.Waterline),
		GridRebuilt:        rebuilt,
	})
	s.frames.Rotate(dt)
	return nil
}

// updateGrid rebuilds the grid when the hull escapes it, then resamples.
func (s *Simulator) updateGrid(m math.Mat4, t float32) bool {
	bounds := s.mesh.Bounds.Transform(m)
	rebuilt := false
	if s.grid == nil || !s.grid.Covers(bounds) {
		span := s.mesh.BoundingSpan()
		s.grid = NewWaterGrid(s.settings.WaterGridCellSize, math.Vec3{X: span, Y: span, Z: span}, bounds.Center())
		rebuilt = true
		s.log.Debug("water grid rebuilt",
			zap.Int("rows", s.grid.Rows),
			zap.Int("cols", s.grid.Cols),
			zap.Float32("origin_x", s.grid.Origin.X),
			zap.Float32("origin_y", s.grid.Origin.Y))
	}
	s.grid.Resample(s.surface, t)
	return rebuilt
}

// worldTriangle builds the world-space triangle for mt. Arena indices match
// mesh vertex indices because vertices are added in mesh order.
func (s *Simulator) worldTriangle(arena *VertexArena, mt MeshTriangle, meshCenter math.Vec3, body RigidBody) Triangle {
	tri := Triangle{Indices: mt.Indices, Area: mt.Area}
	p := tri.Positions(arena)
	tri.Center = Centroid(p[0], p[1], p[2])
	tri.ForceCenter = tri.Center
	tri.Normal = outwardNormal(p, meshCenter)
	tri.Depth = s.grid.DepthAt(tri.Center)
	tri.Velocity = VelocityAtPoint(body, tri.Center)
	return tri
}

// applyPiece applies hydrostatic force on both split halves of piece and
// drag at its centroid. Velocity is sampled at the piece's own centroid
// rather than inherited from the parent triangle.
func (s *Simulator) applyPiece(arena *VertexArena, piece *Triangle, body RigidBody) {
	if piece.Area <= 0 {
		return
	}
	piece.Velocity = VelocityAtPoint(body, piece.Center)

	upper, lower := SplitTriangle(piece, arena, s.grid, body)
	for _, half := range [2]*Triangle{&upper, &lower} {
		if half.Area <= 0 {
			continue
		}
		f := s.model.Hydrostatic(half)
		if s.apply(body, f, half.ForceCenter) {
			piece.Forces.Hydrostatic = piece.Forces.Hydrostatic.Add(f)
		}
	}

	drag := s.model.PressureDrag(piece, piece.Velocity)
	if s.apply(body, drag, piece.Center) {
		piece.Forces.PressureDrag = drag
	}
	visc := s.model.ViscousResistance(piece, piece.Velocity)
	if s.apply(body, visc, piece.Center) {
		piece.Forces.ViscousResistance = visc
	}
}

func (s *Simulator) apply(body RigidBody, force, at math.Vec3) bool {
	if negligible(force) {
		return false
	}
	body.AddForceAtPosition(force, at)
	return true
}
