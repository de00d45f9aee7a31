// Package env reads the process environment create-next-app reacts to.
package env

import (
	"os"

	"github.com/louiss0/create-next-app/build_info"
)

type GoEnv struct {
	goEnv string
}

func NewGoEnv() GoEnv {
	return GoEnv{build_info.GO_MODE.String()}
}

// Mode returns the current Go environment mode string (e.g., "production", "development").
func (e GoEnv) Mode() string {
	return e.goEnv
}

func (e GoEnv) IsDebugMode() bool {
	return e.goEnv == "debug"
}

func (e GoEnv) IsDevelopmentMode() bool {
	return e.goEnv == "development" || e.goEnv == ""
}

func (e GoEnv) IsProductionMode() bool {
	return e.goEnv == "production"
}

func (e GoEnv) ExecuteIfModeIsProduction(cb func()) {
	if e.IsProductionMode() {
		cb()
	}
}

// LookupFunc has the signature of os.LookupEnv so tests can feed a fixed environment.
type LookupFunc func(key string) (string, bool)

// OSLookup is the production LookupFunc.
var OSLookup LookupFunc = os.LookupEnv

// MapLookup builds a LookupFunc over a fixed map.
func MapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}
