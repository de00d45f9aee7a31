// Package manifest builds, writes and reads the package.json of a generated project.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// FileName is the manifest every generated project gets.
const FileName = "package.json"

const initialVersion = "0.1.0"

// Pinned versions of the packages a starter project depends on.
const (
	NEXT_VERSION               = "13.1.6"
	REACT_VERSION              = "18.2.0"
	TYPESCRIPT_VERSION         = "4.9.5"
	TYPES_NODE_VERSION         = "18.11.18"
	TYPES_REACT_VERSION        = "18.0.27"
	TYPES_REACT_DOM_VERSION    = "18.0.10"
	ESLINT_VERSION             = "8.33.0"
	ESLINT_CONFIG_NEXT_VERSION = NEXT_VERSION
)

// PackageJSON is the subset of package.json create-next-app writes.
// Field order is the order keys appear in the written file.
type PackageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Private         bool              `json:"private"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// Options selects the dependency set.
type Options struct {
	Name       string
	TypeScript bool
	ESLint     bool
}

// Build returns the manifest for a new project.
func Build(opts Options) PackageJSON {
	dependencies := map[string]string{
		"next":      NEXT_VERSION,
		"react":     REACT_VERSION,
		"react-dom": REACT_VERSION,
	}

	if opts.TypeScript {
		dependencies = lo.Assign(dependencies, map[string]string{
			"typescript":       TYPESCRIPT_VERSION,
			"@types/node":      TYPES_NODE_VERSION,
			"@types/react":     TYPES_REACT_VERSION,
			"@types/react-dom": TYPES_REACT_DOM_VERSION,
		})
	}

	if opts.ESLint {
		dependencies = lo.Assign(dependencies, map[string]string{
			"eslint":             ESLINT_VERSION,
			"eslint-config-next": ESLINT_CONFIG_NEXT_VERSION,
		})
	}

	return PackageJSON{
		Name:    opts.Name,
		Version: initialVersion,
		Private: true,
		Scripts: map[string]string{
			"dev":   "next dev",
			"build": "next build",
			"start": "next start",
			"lint":  "next lint",
		},
		Dependencies: dependencies,
	}
}

// Marshal renders pkg the way npm does: two-space indent and a trailing newline.
func Marshal(pkg PackageJSON) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(pkg); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", FileName, err)
	}
	return buf.Bytes(), nil
}

// Write stores pkg as root/package.json.
func Write(fs afero.Fs, root string, pkg PackageJSON) error {
	data, err := Marshal(pkg)
	if err != nil {
		return err
	}

	if err := afero.WriteFile(fs, filepath.Join(root, FileName), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", FileName, err)
	}
	return nil
}

// Read parses root/package.json.
func Read(fs afero.Fs, root string) (PackageJSON, error) {
	data, err := afero.ReadFile(fs, filepath.Join(root, FileName))
	if err != nil {
		return PackageJSON{}, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return PackageJSON{}, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return pkg, nil
}
