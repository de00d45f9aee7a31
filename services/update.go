package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// UpdateNotice describes a newer published release.
type UpdateNotice struct {
	Current string
	Latest  string
}

func (n UpdateNotice) String() string {
	return fmt.Sprintf("A new version of `%s` is available! (%s → %s)", PACKAGE_NAME, n.Current, n.Latest)
}

// CheckForUpdate returns a notice when the registry has a newer version than current.
func CheckForUpdate(ctx context.Context, registry NpmRegistryService, current string) (*UpdateNotice, error) {
	latest, err := registry.LatestVersion(ctx, PACKAGE_NAME)
	if err != nil {
		return nil, err
	}

	newer, err := IsNewerVersion(latest, current)
	if err != nil {
		return nil, err
	}
	if !newer {
		return nil, nil
	}

	return &UpdateNotice{Current: current, Latest: latest}, nil
}

func parseVersion(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")

	parsed, err := semver.StrictNewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", version, err)
	}
	return parsed, nil
}

// IsNewerVersion reports whether candidate sorts after current.
// A release sorts after any prerelease of the same core version and
// numeric prerelease identifiers compare as numbers.
func IsNewerVersion(candidate, current string) (bool, error) {
	c, err := parseVersion(candidate)
	if err != nil {
		return false, err
	}
	cur, err := parseVersion(current)
	if err != nil {
		return false, err
	}

	return c.GreaterThan(cur), nil
}
