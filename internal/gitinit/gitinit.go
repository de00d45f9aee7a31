// Package gitinit creates the first commit of a freshly generated project.
package gitinit

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/louiss0/create-next-app/detect"
)

const COMMIT_MESSAGE = "Initial commit from Create Next App"

// CommandRunner runs one command at a time in a target directory.
type CommandRunner interface {
	Command(string, ...string)
	SetTargetDir(string) error
	Run() error
}

// Result tells why Init did or did not create a repository.
type Result int

const (
	Initialized Result = iota
	SkippedGitMissing
	SkippedInsideRepository
	Failed
)

func (r Result) String() string {
	switch r {
	case Initialized:
		return "initialized"
	case SkippedGitMissing:
		return "git is not installed"
	case SkippedInsideRepository:
		return "already inside a repository"
	default:
		return "failed"
	}
}

// Commands are run in order inside the project root.
var Commands = [][]string{
	{"init"},
	{"checkout", "-b", "main"},
	{"add", "-A"},
	{"commit", "-m", COMMIT_MESSAGE},
}

// InsideRepository reports whether dir or one of its parents holds a .git or .hg entry.
func InsideRepository(fs afero.Fs, dir string) bool {
	dir = filepath.Clean(dir)
	for {
		for _, marker := range []string{".git", ".hg"} {
			if exists, _ := afero.Exists(fs, filepath.Join(dir, marker)); exists {
				return true
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
}

// Init turns root into a git repository with one commit.
// A failed command removes the partially created .git directory.
func Init(fs afero.Fs, root string, runner CommandRunner, pathLookup detect.PathLookup) (Result, error) {
	if !detect.IsAvailable(detect.GIT, pathLookup) {
		return SkippedGitMissing, nil
	}
	if InsideRepository(fs, root) {
		return SkippedInsideRepository, nil
	}

	if err := runner.SetTargetDir(root); err != nil {
		return Failed, fmt.Errorf("failed to enter %s: %w", root, err)
	}

	for _, args := range Commands {
		runner.Command(detect.GIT, args...)
		if err := runner.Run(); err != nil {
			if rmErr := fs.RemoveAll(filepath.Join(root, ".git")); rmErr != nil {
				return Failed, fmt.Errorf("git %s failed: %w (cleanup failed: %v)", args[0], err, rmErr)
			}
			return Failed, fmt.Errorf("git %s failed: %w", args[0], err)
		}
	}

	return Initialized, nil
}
