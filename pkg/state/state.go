package state

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths is the canonical runtime folder layout under the data dir.
type Paths struct {
	State     string
	Telemetry string
	Crash     string
	Abort     string
}

// PathsVar holds the resolved layout after EnsureStateDirs succeeds.
var PathsVar Paths

// EnsureStateDirs ensures the canonical runtime folder layout exists
// under the provided data dir. It verifies paths are not symlinks and
// have restrictive permissions, and that they are writable by the
// process.
func EnsureStateDirs(dataDir string) error {
	statePath := filepath.Join(dataDir, "state")
	telemetryPath := filepath.Join(statePath, "telemetry")
	crashPath := filepath.Join(statePath, "crash")
	abortPath := filepath.Join(statePath, "abort")

	paths := []string{telemetryPath, crashPath, abortPath}

	for _, p := range paths {
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			return fmt.Errorf("cannot create parent for %s: %w", p, err)
		}

		// if path exists, reject symlinks and non-directories
		if fi, err := os.Lstat(p); err == nil {
			if fi.Mode()&os.ModeSymlink != 0 {
				return fmt.Errorf("path is a symlink: %s", p)
			}
			if !fi.IsDir() {
				return fmt.Errorf("path exists and is not a directory: %s", p)
			}
			if fi.Mode().Perm()&0o022 != 0 {
				return fmt.Errorf("path has permissive mode (group/other write): %s", p)
			}
		}

		if err := os.MkdirAll(p, 0o700); err != nil {
			return fmt.Errorf("cannot create path %s: %w", p, err)
		}

		// double-check no symlink after creation
		if fi2, err := os.Lstat(p); err == nil {
			if fi2.Mode()&os.ModeSymlink != 0 {
				return fmt.Errorf("path is a symlink after creation: %s", p)
			}
		}

		// writability check: create and remove a temp file
		tmp, err := os.CreateTemp(p, ".validate-*")
		if err != nil {
			return fmt.Errorf("path not writable: %s: %w", p, err)
		}
		tmp.Close()
		_ = os.Remove(tmp.Name())
	}

	PathsVar = Paths{
		State:     statePath,
		Telemetry: telemetryPath,
		Crash:     crashPath,
		Abort:     abortPath,
	}
	return nil
}
