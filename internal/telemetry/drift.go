package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

// DriftStats accumulates observer reconstruction error samples.
type DriftStats struct {
	distances []float64
	holds     int
}

// Add records one tick. Holding ticks count toward HoldRatio but carry no
// distance.
func (d *DriftStats) Add(distance float32, holding bool) {
	if holding {
		d.holds++
		return
	}
	d.distances = append(d.distances, float64(distance))
}

// Summary describes the drift distribution in centimeters.
type Summary struct {
	Samples   int     `yaml:"samples"`
	Mean      float64 `yaml:"mean"`
	StdDev    float64 `yaml:"std_dev"`
	Max       float64 `yaml:"max"`
	P95       float64 `yaml:"p95"`
	HoldRatio float64 `yaml:"hold_ratio"`
}

// Summary computes the current statistics.
func (d *DriftStats) Summary() Summary {
	s := Summary{Samples: len(d.distances)}
	if total := len(d.distances) + d.holds; total > 0 {
		s.HoldRatio = float64(d.holds) / float64(total)
	}
	if len(d.distances) == 0 {
		return s
	}

	s.Mean, s.StdDev = stat.MeanStdDev(d.distances, nil)
	s.Max = floats.Max(d.distances)

	sorted := append([]float64(nil), d.distances...)
	stat.SortWeighted(sorted, nil)
	s.P95 = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	return s
}

// WriteSummary saves the drift summary as YAML in the output directory.
func (om *OutputManager) WriteSummary(s Summary) error {
	if om == nil {
		return nil
	}
	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(om.dir, "summary.yaml"), data, 0644); err != nil {
		return fmt.Errorf("writing summary.yaml: %w", err)
	}
	return nil
}
