package telemetry

import (
	gomath "math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/buoyant/internal/buoyancy"
	"github.com/Faultbox/buoyant/pkg/math"
)

var _ buoyancy.Sink = (*OutputManager)(nil)

func TestOutputManagerSubsteps(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir, 2, nil)
	if err != nil {
		t.Fatalf("NewOutputManager() error = %v", err)
	}

	for step := uint64(1); step <= 6; step++ {
		om.RecordSubstep(buoyancy.SubstepReport{
			Step:   step,
			Time:   float32(step) * 0.01,
			Pose:   math.Pose{Position: math.Vec3{Z: -float32(step)}},
			Forces: buoyancy.Forces{Hydrostatic: math.Vec3{Z: 100 * float32(step)}},
		})
	}
	if err := om.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "substeps.csv"))
	if err != nil {
		t.Fatalf("open substeps.csv: %v", err)
	}
	defer f.Close()

	var rows []SubstepRecord
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("UnmarshalFile() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3 (every 2nd step)", len(rows))
	}
	if rows[1].Step != 4 || rows[1].HydrostaticZ != 400 || rows[1].PosZ != -4 {
		t.Errorf("rows[1] = %+v, want step 4", rows[1])
	}
}

func TestOutputManagerDrift(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir, 1, nil)
	if err != nil {
		t.Fatalf("NewOutputManager() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := om.WriteDrift(DriftRecord{Time: float64(i), Distance: float32(i) / 2}); err != nil {
			t.Fatalf("WriteDrift() error = %v", err)
		}
	}
	om.Close()

	f, err := os.Open(filepath.Join(dir, "drift.csv"))
	if err != nil {
		t.Fatalf("open drift.csv: %v", err)
	}
	defer f.Close()

	var rows []DriftRecord
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("UnmarshalFile() error = %v", err)
	}
	if len(rows) != 3 || rows[2].Distance != 1 {
		t.Errorf("rows = %+v, want 3 with last distance 1", rows)
	}
}

func TestNilOutputManager(t *testing.T) {
	om, err := NewOutputManager("", 1, nil)
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	om.RecordSubstep(buoyancy.SubstepReport{Step: 1})
	if err := om.WriteDrift(DriftRecord{}); err != nil {
		t.Errorf("WriteDrift() on nil = %v", err)
	}
	if err := om.WriteSummary(Summary{}); err != nil {
		t.Errorf("WriteSummary() on nil = %v", err)
	}
	if om.Dir() != "" || om.Close() != nil || om.Err() != nil {
		t.Error("nil manager should be inert")
	}
}

func TestDriftSummary(t *testing.T) {
	var d DriftStats
	for _, v := range []float32{1, 2, 3, 4} {
		d.Add(v, false)
	}
	d.Add(0, true)

	s := d.Summary()
	if s.Samples != 4 {
		t.Errorf("Samples = %d, want 4", s.Samples)
	}
	if s.Mean != 2.5 {
		t.Errorf("Mean = %v, want 2.5", s.Mean)
	}
	if gomath.Abs(s.StdDev-1.2909944) > 1e-6 {
		t.Errorf("StdDev = %v, want 1.2909944", s.StdDev)
	}
	if s.Max != 4 || s.P95 != 4 {
		t.Errorf("Max/P95 = %v/%v, want 4/4", s.Max, s.P95)
	}
	if s.HoldRatio != 0.2 {
		t.Errorf("HoldRatio = %v, want 0.2", s.HoldRatio)
	}
}

func TestDriftSummaryEmpty(t *testing.T) {
	var d DriftStats
	if s := d.Summary(); s != (Summary{}) {
		t.Errorf("empty Summary() = %+v, want zero", s)
	}
}

func TestWriteSummary(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir, 1, nil)
	if err != nil {
		t.Fatalf("NewOutputManager() error = %v", err)
	}
	defer om.Close()

	want := Summary{Samples: 10, Mean: 1.5, Max: 3}
	if err := om.WriteSummary(want); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "summary.yaml"))
	if err != nil {
		t.Fatalf("read summary.yaml: %v", err)
	}
	var got Summary
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if got != want {
		t.Errorf("summary = %+v, want %+v", got, want)
	}
}
