package testharness

import "flag"

var cnaEnabled = flag.Bool("cna", false, "run the create-next-app subprocess suites")

// Enabled reports whether the test binary was started with -cna.
func Enabled() bool {
	return *cnaEnabled
}
