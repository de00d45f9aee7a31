// Package custom_flags provides custom flag types for command-line argument parsing.
// It implements pflag.Value types that validate on Set so cobra reports bad input before RunE.
package custom_flags

import (
	"fmt"
	"regexp"

	"github.com/spf13/pflag"

	"github.com/louiss0/create-next-app/custom_errors"
)

// DEFAULT_IMPORT_ALIAS is the alias configured when none is chosen.
const DEFAULT_IMPORT_ALIAS = "@/*"

var importAliasRegex = regexp.MustCompile(`^[^\s"'*/][^\s"'*]*/\*$`)

// ValidateImportAlias reports whether alias has the `<prefix>/*` shape tsconfig paths expect.
func ValidateImportAlias(alias string) error {
	if !importAliasRegex.MatchString(alias) {
		return fmt.Errorf("import alias must follow the pattern <prefix>/*, got %q", alias)
	}
	return nil
}

// ImportAliasFlag extends pflag.Value for the import alias flag
type ImportAliasFlag interface {
	pflag.Value
	FlagName() string
	// Provided reports whether Set was called successfully.
	Provided() bool
}

type importAliasFlag struct {
	value    string
	flagName string
	provided bool
}

// NewImportAliasFlag creates a new ImportAliasFlag with the given flag name
func NewImportAliasFlag(flagName string) ImportAliasFlag {
	return &importAliasFlag{
		flagName: flagName,
	}
}

func (f importAliasFlag) String() string {
	return f.value
}

// Set validates and sets the flag's value
func (f *importAliasFlag) Set(value string) error {
	if err := ValidateImportAlias(value); err != nil {
		return custom_errors.CreateInvalidFlagErrorWithMessage(
			custom_errors.FlagName(f.flagName),
			err.Error(),
		)
	}

	f.value = value
	f.provided = true
	return nil
}

func (f importAliasFlag) Type() string {
	return "string"
}

// FlagName returns the flag's name for testing
func (f importAliasFlag) FlagName() string {
	return f.flagName
}

func (f importAliasFlag) Provided() bool {
	return f.provided
}
