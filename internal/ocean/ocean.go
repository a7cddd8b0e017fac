// Package ocean provides simple water height sources for the buoyancy
// simulation. They stand in for an external ocean renderer's height query.
package ocean

import (
	"cmp"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/interp"

	"github.com/Faultbox/buoyant/pkg/math"
)

// Flat is still water at a fixed level.
type Flat struct {
	Level float32
}

// HeightAt returns the water level.
func (f Flat) HeightAt(math.Vec3, float32) float32 {
	return f.Level
}

// Plane is a tilted water plane passing through Level at the origin.
type Plane struct {
	Level float32
	Slope math.Vec2 // rise per unit X and Y
}

// HeightAt returns the plane height under p.
func (s Plane) HeightAt(p math.Vec3, _ float32) float32 {
	return s.Level + s.Slope.X*p.X + s.Slope.Y*p.Y
}

// TidePoint is one sample of a tide table.
type TidePoint struct {
	Time  float32 `yaml:"time"`
	Level float32 `yaml:"level"`
}

// Tide is flat water whose level follows a table, linearly interpolated and
// held constant outside it.
type Tide struct {
	level float32 // used when the table has fewer than two points
	curve *interp.PiecewiseLinear
}

// NewTide returns a tide following points in time order. Two points at the
// same time are an error.
func NewTide(points []TidePoint) (*Tide, error) {
	p := slices.Clone(points)
	slices.SortFunc(p, func(a, b TidePoint) int { return cmp.Compare(a.Time, b.Time) })

	switch len(p) {
	case 0:
		return &Tide{}, nil
	case 1:
		return &Tide{level: p[0].Level}, nil
	}

	times := make([]float64, len(p))
	levels := make([]float64, len(p))
	for i, pt := range p {
		if i > 0 && pt.Time == p[i-1].Time {
			return nil, fmt.Errorf("tide has two levels at time %v", pt.Time)
		}
		times[i] = float64(pt.Time)
		levels[i] = float64(pt.Level)
	}
	var curve interp.PiecewiseLinear
	if err := curve.Fit(times, levels); err != nil {
		return nil, fmt.Errorf("fit tide table: %w", err)
	}
	return &Tide{curve: &curve}, nil
}

// HeightAt returns the tide level at time.
func (t *Tide) HeightAt(_ math.Vec3, time float32) float32 {
	if t.curve == nil {
		return t.level
	}
	return float32(t.curve.Predict(float64(time)))
}
