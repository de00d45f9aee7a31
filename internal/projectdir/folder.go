package projectdir

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/louiss0/create-next-app/custom_errors"
)

// harmlessFiles may already exist in a directory a project is created in.
var harmlessFiles = []string{
	".DS_Store",
	".git",
	".gitattributes",
	".gitignore",
	".gitlab-ci.yml",
	".hg",
	".hgcheck",
	".hgignore",
	".idea",
	".npmignore",
	".travis.yml",
	".env",
	"LICENSE",
	"Thumbs.db",
	"docs",
	"mkdocs.yml",
	"npm-debug.log",
	"yarn-debug.log",
	"yarn-error.log",
	"yarnrc.yml",
	".yarn",
}

func isHarmless(name string) bool {
	// IntelliJ IDEA creates module files before running create-next-app
	return lo.Contains(harmlessFiles, name) || strings.HasSuffix(name, ".iml")
}

// Conflicts lists the entries of root that a generated project could overwrite.
// Directories end with a slash. A missing root has no conflicts.
func Conflicts(fs afero.Fs, root string) ([]string, error) {
	entries, err := afero.ReadDir(fs, root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", root, err)
	}

	conflicts := lo.FilterMap(entries, func(entry os.FileInfo, _ int) (string, bool) {
		if isHarmless(entry.Name()) {
			return "", false
		}
		if entry.IsDir() {
			return entry.Name() + "/", true
		}
		return entry.Name(), true
	})
	sort.Strings(conflicts)

	return conflicts, nil
}

// EnsureEmpty returns a *custom_errors.ConflictError when root holds anything but harmless files.
func EnsureEmpty(fs afero.Fs, root string) error {
	conflicts, err := Conflicts(fs, root)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &custom_errors.ConflictError{Dir: filepath.Base(root), Conflicts: conflicts}
	}
	return nil
}

// EnsureWriteable proves dir accepts new files by creating and removing a probe file.
func EnsureWriteable(fs afero.Fs, dir string) error {
	probe, err := afero.TempFile(fs, dir, ".create-next-app-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", custom_errors.ErrNotWriteable, dir, err)
	}

	name := probe.Name()
	if err := probe.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", custom_errors.ErrNotWriteable, dir, err)
	}
	return fs.Remove(name)
}
