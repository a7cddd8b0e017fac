package ocean

import (
	"testing"

	"github.com/Faultbox/buoyant/internal/buoyancy"
	"github.com/Faultbox/buoyant/pkg/math"
)

var (
	_ buoyancy.WaterSurface = Flat{}
	_ buoyancy.WaterSurface = Plane{}
	_ buoyancy.WaterSurface = (*Tide)(nil)
)

func TestFlat(t *testing.T) {
	f := Flat{Level: -12}
	if got := f.HeightAt(math.Vec3{X: 1e5, Y: -3}, 99); got != -12 {
		t.Errorf("HeightAt() = %v, want -12", got)
	}
}

func TestPlane(t *testing.T) {
	p := Plane{Level: 5, Slope: math.Vec2{X: 0.5, Y: -0.25}}
	if got := p.HeightAt(math.Vec3{X: 10, Y: 8, Z: 1000}, 0); got != 8 {
		t.Errorf("HeightAt() = %v, want 8", got)
	}
}

func TestPlaneDepthOnWaterGrid(t *testing.T) {
	plane := Plane{Level: -20, Slope: math.Vec2{X: 0.3, Y: 0.15}}
	grid := buoyancy.NewWaterGrid(400, math.Vec3{X: 1200, Y: 1200}, math.Vec3{})
	grid.Resample(plane, 0)

	for _, p := range []math.Vec3{
		{X: 17, Y: 250, Z: 40},
		{X: -333, Y: 90, Z: -120},
		{X: 510, Y: -480, Z: 0},
	} {
		want := p.Z - plane.HeightAt(p, 0)
		got := grid.DepthAt(p)
		if d := got - want; d > 1e-2 || d < -1e-2 {
			t.Errorf("DepthAt(%v) = %v, want vertical distance %v", p, got, want)
		}
	}
}

func TestTide(t *testing.T) {
	tide, err := NewTide([]TidePoint{{Time: 10, Level: 20}, {Time: 0, Level: 0}, {Time: 20, Level: 10}})
	if err != nil {
		t.Fatalf("NewTide() error = %v", err)
	}
	tests := []struct {
		time float32
		want float32
	}{
		{-5, 0},
		{0, 0},
		{2.5, 5},
		{10, 20},
		{15, 15},
		{30, 10},
	}
	for _, tt := range tests {
		if got := tide.HeightAt(math.Vec3{}, tt.time); got != tt.want {
			t.Errorf("HeightAt(t=%v) = %v, want %v", tt.time, got, tt.want)
		}
	}
}

func TestTideShortTables(t *testing.T) {
	empty, err := NewTide(nil)
	if err != nil {
		t.Fatalf("NewTide(nil) error = %v", err)
	}
	if got := empty.HeightAt(math.Vec3{}, 1); got != 0 {
		t.Errorf("empty tide = %v, want 0", got)
	}

	single, err := NewTide([]TidePoint{{Time: 4, Level: -7}})
	if err != nil {
		t.Fatalf("NewTide() error = %v", err)
	}
	for _, time := range []float32{0, 4, 100} {
		if got := single.HeightAt(math.Vec3{}, time); got != -7 {
			t.Errorf("single point tide at %v = %v, want -7", time, got)
		}
	}
}

func TestTideRejectsDuplicateTimes(t *testing.T) {
	_, err := NewTide([]TidePoint{{Time: 1, Level: 0}, {Time: 1, Level: 5}})
	if err == nil {
		t.Error("expected error for duplicate tide times")
	}
}
