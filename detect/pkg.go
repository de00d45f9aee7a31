// Package detect decides which JavaScript package manager installs a generated project
// and which tools are available on the PATH.
package detect

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/samber/lo"

	"github.com/louiss0/create-next-app/env"
)

// PathLookup interface abstracts the exec.LookPath functionality.
type PathLookup interface {
	LookPath(file string) (string, error)
}

// RealPathLookup is the production implementation of PathLookup.
type RealPathLookup struct{}

// LookPath implements PathLookup using the real exec.LookPath.
func (r RealPathLookup) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

const BUN = "bun"
const NPM = "npm"
const PNPM = "pnpm"
const YARN = "yarn"
const GIT = "git"
const HG = "hg"

// USER_AGENT_ENV_VAR is set by npm, yarn, pnpm and bun when they run a package binary.
const USER_AGENT_ENV_VAR = "npm_config_user_agent"

// ErrNoPackageManager is returned when the selected package manager is not on the PATH.
var ErrNoPackageManager = errors.New("package manager not found")

// SupportedJSPackageManagers lists the package managers a project can be installed with.
// NPM stays last because it is the fallback.
var SupportedJSPackageManagers = [4]string{PNPM, YARN, BUN, NPM}

// PackageManagerFromUserAgent maps npm_config_user_agent to a package manager, defaulting to npm.
func PackageManagerFromUserAgent(userAgent string) string {
	userAgent = strings.TrimSpace(userAgent)

	pm, ok := lo.Find(SupportedJSPackageManagers[:], func(pm string) bool {
		return strings.HasPrefix(userAgent, pm)
	})
	if !ok {
		return NPM
	}
	return pm
}

// ResolvePackageManager returns explicit when one of the --use-* flags picked it,
// otherwise the package manager that launched create-next-app.
func ResolvePackageManager(explicit string, lookup env.LookupFunc) (string, error) {
	if explicit != "" {
		if !lo.Contains(SupportedJSPackageManagers[:], explicit) {
			return "", fmt.Errorf("unsupported package manager %s it must be one of these %v", explicit, SupportedJSPackageManagers)
		}
		return explicit, nil
	}

	userAgent, _ := lookup(USER_AGENT_ENV_VAR)
	return PackageManagerFromUserAgent(userAgent), nil
}

// EnsureAvailable returns ErrNoPackageManager when pm cannot be found on the PATH.
func EnsureAvailable(pm string, pathLookup PathLookup) error {
	if _, err := pathLookup.LookPath(pm); err != nil {
		return fmt.Errorf("%w: %s (%v)", ErrNoPackageManager, pm, err)
	}
	return nil
}

// IsAvailable reports whether a binary is on the PATH.
func IsAvailable(bin string, pathLookup PathLookup) bool {
	_, err := pathLookup.LookPath(bin)
	return err == nil
}

// InstallCommand is the command that installs the dependencies of a generated project.
func InstallCommand(pm string) (program string, argv []string) {
	return pm, []string{"install"}
}

// RunScriptCommand renders how a user runs a package.json script with pm.
// npm is the only package manager that needs the `run` keyword.
func RunScriptCommand(pm, script string) string {
	if pm == NPM {
		return fmt.Sprintf("%s run %s", pm, script)
	}
	return fmt.Sprintf("%s %s", pm, script)
}
