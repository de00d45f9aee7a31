// Package custom_errors provides the sentinel errors create-next-app reports and helpers to wrap them.
package custom_errors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidFlag represents an error indicating an invalid flag.
var ErrInvalidFlag = errors.New("invalid flag")

// ErrInvalidArgument represents an error indicating an invalid argument.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrInvalidProjectName is returned when the project directory name is not a usable npm package name.
var ErrInvalidProjectName = errors.New("invalid project name")

// ErrDirectoryNotEmpty is returned when the target directory holds files that would be overwritten.
var ErrDirectoryNotEmpty = errors.New("directory contains files that could conflict")

// ErrNotWriteable is returned when the parent of the target directory cannot be written to.
var ErrNotWriteable = errors.New("directory is not writeable")

// ErrMissingProjectName is returned when no project name was given and prompting is impossible.
var ErrMissingProjectName = errors.New("please specify the project directory")

// FlagName is a string type representing the name of a flag.
type FlagName string

var flagNameRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Error validates the FlagName and returns an error if it's invalid.
// A valid flag name is lower case kebab-case.
func (f FlagName) Error() error {
	if !flagNameRegex.MatchString(string(f)) {
		return fmt.Errorf("%w: %s must be kebab-case alphanumeric", ErrInvalidFlag, string(f))
	}
	return nil
}

// CreateInvalidFlagErrorWithMessage creates an error with a custom message for an invalid flag.
// It first validates the flag name and returns the validation error if present.
var CreateInvalidFlagErrorWithMessage = func(flagName FlagName, message string) error {
	if err := flagName.Error(); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s %s", ErrInvalidFlag, flagName, message)
}

// CreateInvalidArgumentErrorWithMessage creates an error with a custom message for an invalid argument.
var CreateInvalidArgumentErrorWithMessage = func(message string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, message)
}

// ProjectNameError lists every reason a project name was rejected.
type ProjectNameError struct {
	Name     string
	Problems []string
}

func (e *ProjectNameError) Error() string {
	return fmt.Sprintf(
		"could not create a project called %q because of npm naming restrictions:\n  * %s",
		e.Name,
		strings.Join(e.Problems, "\n  * "),
	)
}

func (e *ProjectNameError) Unwrap() error {
	return ErrInvalidProjectName
}

// ConflictError lists the files that keep a directory from being used as a project root.
type ConflictError struct {
	Dir       string
	Conflicts []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"the directory %s contains files that could conflict:\n  %s\nEither try using a new directory name, or remove the files listed above",
		e.Dir,
		strings.Join(e.Conflicts, "\n  "),
	)
}

func (e *ConflictError) Unwrap() error {
	return ErrDirectoryNotEmpty
}
