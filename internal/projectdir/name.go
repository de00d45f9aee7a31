// Package projectdir validates the directory a project is created in.
package projectdir

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/louiss0/create-next-app/custom_errors"
)

const maxNameLength = 214

var urlFriendly = regexp.MustCompile(`^[A-Za-z0-9\-_.!~*'()]+$`)

var scopedName = regexp.MustCompile(`^@([^/]+)/(.+)$`)

var blockedNames = []string{"node_modules", "favicon.ico"}

var nodeCoreModules = []string{
	"assert", "async_hooks", "buffer", "child_process", "cluster", "console", "constants",
	"crypto", "dgram", "diagnostics_channel", "dns", "domain", "events", "fs", "http", "http2",
	"https", "inspector", "module", "net", "os", "path", "perf_hooks", "process", "punycode",
	"querystring", "readline", "repl", "stream", "string_decoder", "sys", "timers", "tls",
	"trace_events", "tty", "url", "util", "v8", "vm", "wasi", "worker_threads", "zlib",
}

// NameProblems returns every npm naming rule name breaks. An empty result means the name
// can be published as a new package.
func NameProblems(name string) []string {
	var problems []string

	if name == "" {
		return []string{"name length must be greater than zero"}
	}

	if strings.HasPrefix(name, ".") {
		problems = append(problems, "name cannot start with a period")
	}
	if strings.HasPrefix(name, "_") {
		problems = append(problems, "name cannot start with an underscore")
	}
	if strings.TrimSpace(name) != name {
		problems = append(problems, "name cannot contain leading or trailing spaces")
	}

	lowered := strings.ToLower(name)
	if lo.Contains(blockedNames, lowered) {
		problems = append(problems, fmt.Sprintf("%s is a blacklisted name", lowered))
	}
	if lo.Contains(nodeCoreModules, lowered) {
		problems = append(problems, fmt.Sprintf("%s is a core module name", lowered))
	}

	if len(name) > maxNameLength {
		problems = append(problems, fmt.Sprintf("name can no longer contain more than %d characters", maxNameLength))
	}
	if lowered != name {
		problems = append(problems, "name can no longer contain capital letters")
	}

	base := name
	if parts := strings.Split(name, "/"); len(parts) > 0 {
		base = parts[len(parts)-1]
	}
	if strings.ContainsAny(base, "~'!()*") {
		problems = append(problems, `name can no longer contain special characters ("~'!()*")`)
	}

	if !isURLFriendly(name) {
		problems = append(problems, "name can only contain URL-friendly characters")
	}

	return problems
}

func isURLFriendly(name string) bool {
	if urlFriendly.MatchString(name) {
		return true
	}

	match := scopedName.FindStringSubmatch(name)
	if match == nil {
		return false
	}
	return urlFriendly.MatchString(match[1]) && urlFriendly.MatchString(match[2])
}

// ValidateName wraps NameProblems in a *custom_errors.ProjectNameError.
func ValidateName(name string) error {
	problems := NameProblems(name)
	if len(problems) == 0 {
		return nil
	}
	return &custom_errors.ProjectNameError{Name: name, Problems: problems}
}
