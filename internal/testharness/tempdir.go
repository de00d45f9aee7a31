package testharness

import (
	"path/filepath"

	"github.com/spf13/afero"
)

const TEMP_DIR_PREFIX = "create-next-app-"

// UseTempDir runs fn inside a fresh temporary directory.
// The directory is removed when the test ends, whether it passed or not.
func UseTempDir(t T, fn func(cwd string)) {
	t.Helper()

	dir, err := afero.TempDir(osFs, "", TEMP_DIR_PREFIX)
	if err != nil {
		t.Fatalf("failed to create a temporary directory: %v", err)
		return
	}

	t.Cleanup(func() {
		if err := osFs.RemoveAll(dir); err != nil {
			t.Errorf("failed to remove %s: %v", dir, err)
		}
	})

	// macOS hands out /var paths that point at /private/var
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}

	fn(dir)
}
