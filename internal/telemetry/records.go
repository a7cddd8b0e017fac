// Package telemetry writes simulation diagnostics to CSV files and summarizes
// observer drift.
package telemetry

import "github.com/Faultbox/buoyant/internal/buoyancy"

// SubstepRecord is one row of substeps.csv.
type SubstepRecord struct {
	Step      uint64  `csv:"step"`
	Time      float32 `csv:"time"`
	DeltaTime float32 `csv:"dt"`

	PosX float32 `csv:"pos_x"`
	PosY float32 `csv:"pos_y"`
	PosZ float32 `csv:"pos_z"`

	HydrostaticX float32 `csv:"hydrostatic_x"`
	HydrostaticY float32 `csv:"hydrostatic_y"`
	HydrostaticZ float32 `csv:"hydrostatic_z"`
	DragX        float32 `csv:"drag_x"`
	DragY        float32 `csv:"drag_y"`
	DragZ        float32 `csv:"drag_z"`
	ViscousX     float32 `csv:"viscous_x"`
	ViscousY     float32 `csv:"viscous_y"`
	ViscousZ     float32 `csv:"viscous_z"`
	EntryX       float32 `csv:"entry_x"`
	EntryY       float32 `csv:"entry_y"`
	EntryZ       float32 `csv:"entry_z"`

	SubmergedArea      float32 `csv:"submerged_area"`
	SubmergedTriangles int     `csv:"submerged_triangles"`
	WaterlineVertices  int     `csv:"waterline_vertices"`
	GridRebuilt        bool    `csv:"grid_rebuilt"`
}

// NewSubstepRecord flattens a substep report.
func NewSubstepRecord(r buoyancy.SubstepReport) SubstepRecord {
	f := r.Forces
	return SubstepRecord{
		Step:      r.Step,
		Time:      r.Time,
		DeltaTime: r.DeltaTime,

		PosX: r.Pose.Position.X,
		PosY: r.Pose.Position.Y,
		PosZ: r.Pose.Position.Z,

		HydrostaticX: f.Hydrostatic.X,
		HydrostaticY: f.Hydrostatic.Y,
		HydrostaticZ: f.Hydrostatic.Z,
		DragX:        f.PressureDrag.X,
		DragY:        f.PressureDrag.Y,
		DragZ:        f.PressureDrag.Z,
		ViscousX:     f.ViscousResistance.X,
		ViscousY:     f.ViscousResistance.Y,
		ViscousZ:     f.ViscousResistance.Z,
		EntryX:       f.WaterEntry.X,
		EntryY:       f.WaterEntry.Y,
		EntryZ:       f.WaterEntry.Z,

		SubmergedArea:      r.SubmergedArea,
		SubmergedTriangles: r.SubmergedTriangles,
		WaterlineVertices:  r.WaterlineVertices,
		GridRebuilt:        r.GridRebuilt,
	}
}

// DriftRecord is one row of drift.csv: the authoritative pose against the
// observer's delayed reconstruction.
type DriftRecord struct {
	Time float64 `csv:"time"`

	AuthX float32 `csv:"auth_x"`
	AuthY float32 `csv:"auth_y"`
	AuthZ float32 `csv:"auth_z"`
	ObsX  float32 `csv:"obs_x"`
	ObsY  float32 `csv:"obs_y"`
	ObsZ  float32 `csv:"obs_z"`

	// Distance is measured against the authoritative pose one delay earlier.
	Distance float32 `csv:"distance"`
	Holding  bool    `csv:"holding"`
}
