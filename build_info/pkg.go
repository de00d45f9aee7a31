// Package build_info defines the build metadata create-next-app is stamped with.
// All variables must be capitalised and must use the `BuildInfo` type.
// All validation happens in init so a badly stamped binary never starts.
package build_info

import (
	"fmt"
	"regexp"
	"time"

	"github.com/samber/lo"
)

// BuildInfo is a string stamped at link time.
type BuildInfo string

func (value BuildInfo) String() string {
	return string(value)
}

// Raw values populated through -ldflags "-X".
var (
	rawCLI_VERSION = "dev"
	rawGO_MODE     = "development"
	rawBUILD_DATE  = "unknown"
	rawCI          = "false"
)

var (
	CLI_VERSION BuildInfo
	GO_MODE     BuildInfo
	BUILD_DATE  BuildInfo
	CI          BuildInfo
)

const semverPattern = `^v?(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-((?:0|[1-9]\d*|[0-9]*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|[0-9]*[a-zA-Z-][0-9a-zA-Z-]*))*))?(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`

var allowedModes = []string{"development", "production", "debug"}

func init() {
	version := rawCLI_VERSION
	if len(version) > 0 && version[0] == 'v' {
		version = version[1:]
	}

	buildDate := rawBUILD_DATE
	if buildDate != "unknown" {
		// GoReleaser stamps RFC3339
		if t, err := time.Parse(time.RFC3339, buildDate); err == nil {
			buildDate = t.Format(time.DateOnly)
		}
	}

	CLI_VERSION = BuildInfo(version)
	GO_MODE = BuildInfo(rawGO_MODE)
	BUILD_DATE = BuildInfo(buildDate)
	CI = BuildInfo(rawCI)

	if !lo.Contains(allowedModes, GO_MODE.String()) {
		panic(fmt.Sprintf("build_info: invalid GO_MODE: '%s'. Must be one of: %v", GO_MODE, allowedModes))
	}

	if CLI_VERSION.String() != "dev" && !regexp.MustCompile(semverPattern).MatchString(CLI_VERSION.String()) {
		panic(fmt.Sprintf("build_info: invalid CLI_VERSION format: '%s'. Must be a valid semver string", CLI_VERSION))
	}

	if BUILD_DATE.String() == "unknown" {
		if GO_MODE.String() == "production" {
			panic("build_info: BUILD_DATE is 'unknown' in production mode. It must be set via ldflags.")
		}
	} else if _, err := time.Parse(time.DateOnly, BUILD_DATE.String()); err != nil {
		panic(fmt.Sprintf("build_info: invalid BUILD_DATE format: '%s': %v", BUILD_DATE, err))
	}

	if CI.String() != "true" && CI.String() != "false" {
		panic(fmt.Sprintf("build_info: invalid CI value: '%s'. Must be 'true' or 'false'", CI))
	}
}

// IsDevBuild reports whether the binary was built without a release version.
func IsDevBuild() bool {
	return CLI_VERSION.String() == "dev"
}

// UserAgent is sent with registry requests.
func UserAgent() string {
	return "create-next-app/" + CLI_VERSION.String()
}
