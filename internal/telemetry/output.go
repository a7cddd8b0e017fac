package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/Faultbox/buoyant/internal/buoyancy"
)

// OutputManager handles simulation output files. A nil manager discards
// everything, so callers need not check whether output is enabled.
type OutputManager struct {
	dir          string
	substepFile  *os.File
	driftFile    *os.File
	log          *zap.Logger
	substepEvery uint64

	// Track if headers have been written
	substepHeaderWritten bool
	driftHeaderWritten   bool

	err error
}

// NewOutputManager creates the output directory and its CSV files. Only
// every substepEvery-th substep is written. Returns nil if dir is empty.
func NewOutputManager(dir string, substepEvery int, log *zap.Logger) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	if substepEvery < 1 {
		substepEvery = 1
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir, log: log, substepEvery: uint64(substepEvery)}

	f, err := os.Create(filepath.Join(dir, "substeps.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating substeps.csv: %w", err)
	}
	om.substepFile = f

	f, err = os.Create(filepath.Join(dir, "drift.csv"))
	if err != nil {
		om.substepFile.Close()
		return nil, fmt.Errorf("creating drift.csv: %w", err)
	}
	om.driftFile = f

	return om, nil
}

// RecordSubstep implements buoyancy.Sink. Write errors are kept and reported
// by Err.
func (om *OutputManager) RecordSubstep(r buoyancy.SubstepReport) {
	if om == nil || om.err != nil || r.Step%om.substepEvery != 0 {
		return
	}
	if err := om.WriteSubstep(NewSubstepRecord(r)); err != nil {
		om.err = err
		om.log.Error("telemetry disabled", zap.Error(err))
	}
}

// WriteSubstep writes a row to substeps.csv.
func (om *OutputManager) WriteSubstep(rec SubstepRecord) error {
	if om == nil {
		return nil
	}
	if err := writeRecords([]SubstepRecord{rec}, om.substepFile, &om.substepHeaderWritten); err != nil {
		return fmt.Errorf("writing substep: %w", err)
	}
	return nil
}

// WriteDrift writes a row to drift.csv.
func (om *OutputManager) WriteDrift(rec DriftRecord) error {
	if om == nil {
		return nil
	}
	if err := writeRecords([]DriftRecord{rec}, om.driftFile, &om.driftHeaderWritten); err != nil {
		return fmt.Errorf("writing drift: %w", err)
	}
	return nil
}

func writeRecords[T any](records []T, f *os.File, headerWritten *bool) error {
	if !*headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

// Err returns the first error hit while recording substeps.
func (om *OutputManager) Err() error {
	if om == nil {
		return nil
	}
	return om.err
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.substepFile, om.driftFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
