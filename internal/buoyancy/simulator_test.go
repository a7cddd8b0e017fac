package buoyancy

import (
	"errors"
	"testing"

	"github.com/Faultbox/buoyant/pkg/math"
)

type recordingSink struct {
	reports []SubstepReport
}

func (r *recordingSink) RecordSubstep(rep SubstepReport) {
	r.reports = append(r.reports, rep)
}

func newCubeSimulator(t *testing.T, sink Sink) *Simulator {
	t.Helper()
	sim := NewSimulator(DefaultSettings(), flatSurface(0), WithSink(sink))
	indices, positions := cubeGeometry(100)
	if err := sim.SetHull(indices, positions); err != nil {
		t.Fatalf("SetHull() error = %v", err)
	}
	return sim
}

func TestSubstepWithoutHull(t *testing.T) {
	sim := NewSimulator(DefaultSettings(), flatSurface(0))
	err := sim.Substep(0.01, 0, newTestBody(math.Vec3{}))
	if !errors.Is(err, ErrNoHull) {
		t.Errorf("Substep() error = %v, want ErrNoHull", err)
	}
}

func TestSetHullRejectsBadGeometry(t *testing.T) {
	sim := NewSimulator(DefaultSettings(), flatSurface(0))
	if err := sim.SetHull([]uint32{0, 1}, []float32{0, 0, 0, 1, 1, 1}); !errors.Is(err, ErrIndexCount) {
		t.Errorf("SetHull() error = %v, want ErrIndexCount", err)
	}
}

func TestSetMeshNilRemovesHull(t *testing.T) {
	sim := newCubeSimulator(t, nil)
	sim.SetMesh(nil)

	if sim.Mesh() != nil {
		t.Error("Mesh() should be nil after SetMesh(nil)")
	}
	err := sim.Substep(0.01, 0, newTestBody(math.Vec3{}))
	if !errors.Is(err, ErrNoHull) {
		t.Errorf("Substep() error = %v, want ErrNoHull", err)
	}
}

func TestHalfSubmergedCubeBuoyancy(t *testing.T) {
	sink := &recordingSink{}
	sim := newCubeSimulator(t, sink)
	body := newTestBody(math.Vec3{})

	for i := 0; i < 5; i++ {
		if err := sim.Substep(0.01, float32(i)*0.01, body); err != nil {
			t.Fatalf("Substep() error = %v", err)
		}
	}

	s := DefaultSettings()
	// 100x100 footprint, 50 deep.
	want := s.FluidDensity * -s.GravityZ * 100 * 100 * 50

	first := sink.reports[0].Forces.Hydrostatic
	if !near(first.Z, want, want*1e-3) {
		t.Errorf("hydrostatic Z = %v, want %v", first.Z, want)
	}
	if !near(first.X, 0, want*1e-4) || !near(first.Y, 0, want*1e-4) {
		t.Errorf("hydrostatic lateral = (%v, %v), want ~0", first.X, first.Y)
	}

	for i, r := range sink.reports {
		if r.Forces.Hydrostatic != first {
			t.Errorf("step %d hydrostatic = %v, want constant %v", i, r.Forces.Hydrostatic, first)
		}
		if r.Forces.WaterEntry != (math.Vec3{}) {
			t.Errorf("step %d water entry = %v, want zero at rest", i, r.Forces.WaterEntry)
		}
		if !near(r.SubmergedArea, 10000+4*5000, 1) {
			t.Errorf("step %d submerged area = %v, want 30000", i, r.SubmergedArea)
		}
	}
	if !sink.reports[0].GridRebuilt || sink.reports[1].GridRebuilt {
		t.Error("grid should be built once on the first substep")
	}
}

func TestAppliedForcesMatchReport(t *testing.T) {
	sink := &recordingSink{}
	sim := newCubeSimulator(t, sink)
	body := newTestBody(math.Vec3{Z: 20})
	body.linear = math.Vec3{X: 150, Z: -30}

	if err := sim.Substep(0.01, 0, body); err != nil {
		t.Fatalf("Substep() error = %v", err)
	}
	want := sink.reports[0].Forces.Total()
	if got := body.netForce(); !got.Equals(want, want.Length()*1e-4) {
		t.Errorf("net applied force = %v, want reported %v", got, want)
	}
	if sink.reports[0].Forces.PressureDrag == (math.Vec3{}) {
		t.Error("moving hull reported no pressure drag")
	}
}

func TestWaterEntryFiresThenDecays(t *testing.T) {
	sink := &recordingSink{}
	sim := newCubeSimulator(t, sink)

	const dt = 0.01
	body := newTestBody(math.Vec3{Z: 50.5})
	body.linear = math.Vec3{Z: -100}

	for i := 0; i < 4; i++ {
		if err := sim.Substep(dt, float32(i)*dt, body); err != nil {
			t.Fatalf("Substep() error = %v", err)
		}
		body.pose.Position = body.pose.Position.Add(body.linear.Scale(dt))
	}

	entry := func(i int) math.Vec3 { return sink.reports[i].Forces.WaterEntry }
	if entry(0) != (math.Vec3{}) {
		t.Errorf("step 0 entry = %v, want zero above water", entry(0))
	}
	if entry(1).Z <= 0 {
		t.Errorf("step 1 entry = %v, want upward slam", entry(1))
	}
	for i := 2; i < 4; i++ {
		if !entry(i).IsNearlyZero(1e-3) {
			t.Errorf("step %d entry = %v, want decayed to zero", i, entry(i))
		}
	}
}

func TestWaterlineExported(t *testing.T) {
	sim := newCubeSimulator(t, nil)
	if err := sim.Substep(0.01, 0, newTestBody(math.Vec3{})); err != nil {
		t.Fatalf("Substep() error = %v", err)
	}
	points := sim.LastFrame().WaterlinePoints()
	if len(points) == 0 {
		t.Fatal("no waterline points for a half-submerged cube")
	}
	for _, p := range points {
		if !near(p.Z, 0, 1e-3) {
			t.Errorf("waterline point %v, want Z 0", p)
		}
	}
}

func TestGridRebuiltWhenBodyLeaves(t *testing.T) {
	sink := &recordingSink{}
	sim := newCubeSimulator(t, sink)
	body := newTestBody(math.Vec3{})

	_ = sim.Substep(0.01, 0, body)
	first := sim.Grid()
	body.pose.Position = math.Vec3{X: 3000, Y: -2000}
	_ = sim.Substep(0.01, 0.01, body)

	if sim.Grid() == first || !sink.reports[1].GridRebuilt {
		t.Error("grid was not rebuilt after the body left it")
	}
	bounds := sim.Mesh().Bounds.Transform(body.pose.Matrix())
	if !sim.Grid().Covers(bounds) {
		t.Errorf("rebuilt grid %v does not cover %v", sim.Grid().Bounds(), bounds)
	}
}

func TestRotatedHullStillFloats(t *testing.T) {
	sink := &recordingSink{}
	sim := newCubeSimulator(t, sink)
	body := newTestBody(math.Vec3{})
	body.pose.Rotation = math.QuatFromAxisAngle(math.Vec3{Z: 1}, 0.7)

	if err := sim.Substep(0.01, 0, body); err != nil {
		t.Fatalf("Substep() error = %v", err)
	}
	s := DefaultSettings()
	want := s.FluidDensity * -s.GravityZ * 100 * 100 * 50
	if got := sink.reports[0].Forces.Hydrostatic.Z; !near(got, want, want*1e-3) {
		t.Errorf("hydrostatic Z = %v, want %v", got, want)
	}
}
