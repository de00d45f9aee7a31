// Package preferences remembers the answers given to the create-next-app prompts.
package preferences

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	dirName  = "create-next-app"
	fileName = "preferences.yaml"
)

// Preferences holds the last prompt answers. Nil fields were never answered.
type Preferences struct {
	TypeScript      *bool   `yaml:"typescript,omitempty"`
	ESLint          *bool   `yaml:"eslint,omitempty"`
	SrcDir          *bool   `yaml:"srcDir,omitempty"`
	ExperimentalApp *bool   `yaml:"experimentalApp,omitempty"`
	ImportAlias     *string `yaml:"importAlias,omitempty"`
}

// Bool returns *value or fallback when the preference was never stored.
func Bool(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

// String returns *value or fallback when the preference was never stored.
func String(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}
	return *value
}

// Empty reports whether no answer is stored.
func (p Preferences) Empty() bool {
	return p.TypeScript == nil && p.ESLint == nil && p.SrcDir == nil &&
		p.ExperimentalApp == nil && p.ImportAlias == nil
}

// Store reads and writes preferences.yaml under a config directory.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore keeps preferences in <configDir>/create-next-app/preferences.yaml.
func NewStore(fs afero.Fs, configDir string) *Store {
	return &Store{fs: fs, path: filepath.Join(configDir, dirName, fileName)}
}

// Path is the location of the preferences file.
func (s *Store) Path() string {
	return s.path
}

// Load returns empty preferences when nothing was saved yet.
func (s *Store) Load() (Preferences, error) {
	var prefs Preferences

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return prefs, nil
		}
		return prefs, fmt.Errorf("failed to read preferences: %w", err)
	}

	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return Preferences{}, fmt.Errorf("failed to parse preferences %s: %w", s.path, err)
	}
	return prefs, nil
}

// Save overwrites the preferences file, creating its directory.
func (s *Store) Save(prefs Preferences) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	if err := afero.WriteFile(s.fs, s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

// Reset deletes the stored preferences. A missing file is not an error.
func (s *Store) Reset() error {
	err := s.fs.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to reset preferences: %w", err)
	}
	return nil
}
