package buoyancy

import "github.com/Faultbox/buoyant/pkg/math"

// SubstepReport summarizes one completed substep.
type SubstepReport struct {
	Step      uint64
	Time      float32
	DeltaTime float32

	Pose   math.Pose
	Forces Forces

	SubmergedArea      float32
	SubmergedTriangles int
	WaterlineVertices  int
	GridRebuilt        bool
}

// Sink receives one report per substep after all forces are applied.
type Sink interface {
	RecordSubstep(r SubstepReport)
}

type nopSink struct{}

func (nopSink) RecordSubstep(SubstepReport) {}
