// Package buoyancy computes per-substep hydrostatic and hydrodynamic forces on a
// rigid hull approximated by a triangle mesh.
//
// Each substep the hull is transformed into world space, every triangle is
// clipped against a sampled water grid, the submerged pieces are split along
// a horizontal edge to locate their centers of pressure, and the resulting
// forces are applied to the rigid body. Distances are centimeters and masses
// kilograms.
package buoyancy

import "github.com/Faultbox/buoyant/pkg/math"

// Settings holds the fluid and force model parameters.
type Settings struct {
	FluidDensity        float32   `yaml:"fluid_density"`   // kg/cm^3
	FluidViscosity      float32   `yaml:"fluid_viscosity"` // cm^2/s
	GravityZ            float32   `yaml:"gravity_z"`       // cm/s^2
	BuoyancyCoefficient math.Vec3 `yaml:"buoyancy_coefficient"`
	WaterGridCellSize   float32   `yaml:"water_grid_cell_size"`

	// HullLength is the characteristic length used for the Reynolds number.
	HullLength float32 `yaml:"hull_length"`

	// Viscous resistance is skipped at or below this Reynolds number; the
	// resistance coefficient diverges as Re approaches 100.
	MinReynoldsNumber float32 `yaml:"min_reynolds_number"`

	// MaxTriangleAcceleration is the swept-volume acceleration at which the
	// water entry force reaches full strength.
	MaxTriangleAcceleration float32 `yaml:"max_triangle_acceleration"`

	Damping DampingSettings `yaml:"damping"`
}

// DampingSettings tunes the hydrodynamic damping forces.
type DampingSettings struct {
	PressureDragLinear    float32 `yaml:"pressure_drag_linear"`
	PressureDragQuadratic float32 `yaml:"pressure_drag_quadratic"`
	SuctionDragLinear     float32 `yaml:"suction_drag_linear"`
	SuctionDragQuadratic  float32 `yaml:"suction_drag_quadratic"`

	// When UseReferenceSpeed is false, speed terms are normalized against the
	// triangle's own speed.
	UseReferenceSpeed bool    `yaml:"use_reference_speed"`
	ReferenceSpeed    float32 `yaml:"reference_speed"` // cm/s

	PressureFallOffPower float32 `yaml:"pressure_fall_off_power"`
	SuctionFallOffPower  float32 `yaml:"suction_fall_off_power"`

	// WaterEntryPower of 1 makes slamming appear gradually; values above 2
	// only show up near MaxTriangleAcceleration.
	WaterEntryPower float32 `yaml:"water_entry_power"`

	PressureDragScalar      math.Vec3 `yaml:"pressure_drag_scalar"`
	WaterEntryScalar        math.Vec3 `yaml:"water_entry_scalar"`
	ViscousResistanceScalar math.Vec3 `yaml:"viscous_resistance_scalar"`
}

// DefaultSettings returns sea water in centimeter units.
func DefaultSettings() Settings {
	one := math.Vec3{X: 1, Y: 1, Z: 1}
	return Settings{
		FluidDensity:            0.001027,
		FluidViscosity:          0.00089,
		GravityZ:                -980,
		BuoyancyCoefficient:     math.Vec3{X: 0, Y: 0, Z: 1},
		WaterGridCellSize:       400,
		HullLength:              1000,
		MinReynoldsNumber:       1000,
		MaxTriangleAcceleration: 5000,
		Damping: DampingSettings{
			PressureDragLinear:      1,
			PressureDragQuadratic:   1,
			SuctionDragLinear:       1,
			SuctionDragQuadratic:    1,
			UseReferenceSpeed:       false,
			ReferenceSpeed:          500,
			PressureFallOffPower:    0.5,
			SuctionFallOffPower:     0.5,
			WaterEntryPower:         2,
			PressureDragScalar:      one,
			WaterEntryScalar:        one,
			ViscousResistanceScalar: one,
		},
	}
}
