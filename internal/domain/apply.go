package domain

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	m "mutlab.dev/pkg/mutlab/internal/model"
)

// ApplyAndRun applies mu inside dir, invokes body exactly once, and restores
// the original file on every exit path, including body returning an error.
// The scratch workspace is shared by every mutation in the run, so a missed
// revert would corrupt every later scenario; the restore runs from a defer
// and its own failure is surfaced when body itself succeeded.
func ApplyAndRun(dir string, mu m.Mutation, body func() error) (err error) {
	path := filepath.Join(dir, mu.File)

	original, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s before mutating: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	mutated, err := spliceMutation(original, mu)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, mutated, info.Mode().Perm()); err != nil {
		return fmt.Errorf("apply mutation to %s: %w", path, err)
	}

	slog.Debug("applied mutation", "mutation", mu.String())

	defer func() {
		if revertErr := os.WriteFile(path, original, info.Mode().Perm()); revertErr != nil {
			slog.Error("failed to revert mutation", "path", path, "error", revertErr)

			if err == nil {
				err = fmt.Errorf("revert mutation in %s: %w", path, revertErr)
			}
		} else {
			slog.Debug("reverted mutation", "mutation", mu.String())
		}
	}()

	return body()
}
