package adapter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	m "mutlab.dev/pkg/mutlab/internal/model"
	"mutlab.dev/pkg/mutlab/pkg"
)

const (
	outDirName     = "mutants.out"
	rotatedDirName = "mutants.out.old"
	logDirName     = "log"

	mutantsFileName  = "mutants.json"
	outcomesFileName = "outcomes.json"
	traceLogFileName = "trace.log"
)

// OutputDir owns the on-disk results directory for one run: mutants.out with
// a log/ subdirectory for per-scenario logs. It is created exactly once per
// run and never deleted by this component.
type OutputDir struct {
	path   string
	logDir string
}

// NewOutputDir creates a fresh mutants.out directory inside inDir.
//
// If mutants.out already exists it is renamed to mutants.out.old first; an
// existing mutants.out.old from two runs ago is deleted. Each step is a
// single filesystem operation, so a crash leaves at most one directory per
// generation.
func NewOutputDir(inDir string) (*OutputDir, error) {
	path := filepath.Join(inDir, outDirName)

	if _, err := os.Stat(path); err == nil {
		rotated := filepath.Join(inDir, rotatedDirName)

		if _, err := os.Stat(rotated); err == nil {
			if err := os.RemoveAll(rotated); err != nil {
				return nil, fmt.Errorf("remove %s: %w", rotated, err)
			}
		}

		if err := os.Rename(path, rotated); err != nil {
			return nil, fmt.Errorf("move %s to %s: %w", path, rotated, err)
		}

		slog.Debug("rotated previous output directory", "from", path, "to", rotated)
	}

	if err := os.Mkdir(path, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", path, err)
	}

	logDir := filepath.Join(path, logDirName)
	if err := os.Mkdir(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory %s: %w", logDir, err)
	}

	return &OutputDir{path: path, logDir: logDir}, nil
}

// Path returns the mutants.out directory path.
func (d *OutputDir) Path() string {
	return d.path
}

// LogDir returns the directory holding per-scenario logs.
func (d *OutputDir) LogDir() string {
	return d.logDir
}

// TraceLogPath returns the location of the run's diagnostic trace log.
func (d *OutputDir) TraceLogPath() string {
	return filepath.Join(d.path, traceLogFileName)
}

// CreateLog opens a log file for one scenario, named after its display
// string, for exclusive use by one pipeline run.
func (d *OutputDir) CreateLog(scenarioName string) (*LogFile, error) {
	return CreateLogFile(d.logDir, scenarioName)
}

// WriteMutants persists the full planned mutation list, written once before
// any mutant runs so an interrupted session still records the plan.
func (d *OutputDir) WriteMutants(mutations []m.Mutation) error {
	return pkg.WriteJSONFileAtomic(filepath.Join(d.path, mutantsFileName), mutations)
}

// WriteLabOutcome rewrites outcomes.json from the accumulator's current
// state. The file is always a complete snapshot, never a partial append.
func (d *OutputDir) WriteLabOutcome(lab *m.LabOutcome) error {
	return pkg.WriteJSONFileAtomic(filepath.Join(d.path, outcomesFileName), lab)
}
