package env

import (
	"strings"

	"github.com/samber/lo"
)

const CI_ENV_VAR = "CI"

// CIMarkers are the variables CI providers set. Any of them being non-empty puts
// create-next-app in non-interactive mode.
var CIMarkers = []string{
	CI_ENV_VAR,
	"GITHUB_ACTIONS",
	"CONTINUOUS_INTEGRATION",
	"BUILD_NUMBER",
	"RUN_ID",
	"GITLAB_CI",
	"CIRCLECI",
	"TRAVIS",
	"BUILDKITE",
}

// IsCI reports whether the environment looks like a CI run.
// CI=false always wins so a developer can opt back into prompts.
func IsCI(lookup LookupFunc) bool {
	if value, ok := lookup(CI_ENV_VAR); ok && strings.EqualFold(strings.TrimSpace(value), "false") {
		return false
	}

	return lo.SomeBy(CIMarkers, func(key string) bool {
		value, ok := lookup(key)
		return ok && strings.TrimSpace(value) != ""
	})
}
