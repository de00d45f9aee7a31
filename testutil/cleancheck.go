package testutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// TestingT is an interface that matches the subset of testing.T methods we need.
// This allows for easier testing of the test helpers themselves.
type TestingT interface {
	Helper()
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	Fatal(args ...interface{})
}

// TreeSnapshot records every path under a directory at a point in time.
type TreeSnapshot struct {
	fs    afero.Fs
	root  string
	files map[string]bool
}

// SnapshotTree captures every file and directory below root, relative and slash separated.
func SnapshotTree(fsys afero.Fs, root string) (*TreeSnapshot, error) {
	snapshot := &TreeSnapshot{
		fs:    fsys,
		root:  root,
		files: make(map[string]bool),
	}

	err := afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel != "." {
			snapshot.files[filepath.ToSlash(rel)] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// Paths returns the recorded paths sorted.
func (s *TreeSnapshot) Paths() []string {
	paths := lo.Keys(s.files)
	sort.Strings(paths)
	return paths
}

// NewPaths returns the paths that exist now but were absent from the snapshot.
func (s *TreeSnapshot) NewPaths() ([]string, error) {
	current, err := SnapshotTree(s.fs, s.root)
	if err != nil {
		return nil, err
	}

	added := lo.Filter(current.Paths(), func(path string, _ int) bool {
		return !s.files[path]
	})
	return added, nil
}

// AssertTreeUnchanged fails the test when files appeared below the snapshot root.
func AssertTreeUnchanged(t TestingT, snapshot *TreeSnapshot) {
	t.Helper()

	if snapshot == nil {
		t.Fatal("snapshot is nil")
	}

	added, err := snapshot.NewPaths()
	if err != nil {
		t.Fatalf("failed to snapshot %s: %v", snapshot.root, err)
	}

	if len(added) > 0 {
		t.Errorf("test left artifacts in %s:\n%s", snapshot.root, strings.Join(added, "\n"))
	}
}

// CleanupTree snapshots dir now and checks it for new paths when the test completes.
func CleanupTree(t *testing.T, fsys afero.Fs, dir string) {
	t.Helper()

	snapshot, err := SnapshotTree(fsys, dir)
	if err != nil {
		t.Fatalf("failed to snapshot %s: %v", dir, err)
	}

	t.Cleanup(func() {
		AssertTreeUnchanged(t, snapshot)
	})
}
