package cmd

import (
	"github.com/spf13/pflag"

	"github.com/louiss0/create-next-app/custom_flags"
	"github.com/louiss0/create-next-app/internal/preferences"
	"github.com/louiss0/create-next-app/prompt"
	"github.com/louiss0/create-next-app/templates"
)

// Prompt questions
const (
	PROJECT_NAME_QUESTION     = "What is your project named?"
	TYPESCRIPT_QUESTION       = "Would you like to use TypeScript with this project?"
	ESLINT_QUESTION           = "Would you like to use ESLint with this project?"
	SRC_DIR_QUESTION          = "Would you like to use `src/` directory with this project?"
	EXPERIMENTAL_APP_QUESTION = "Would you like to use experimental `app/` directory with this project?"
	IMPORT_ALIAS_QUESTION     = "What import alias would you like configured?"
)

const DEFAULT_PROJECT_NAME = "my-app"

// projectOptions are the resolved answers that shape a generated project.
type projectOptions struct {
	TypeScript      bool
	ESLint          bool
	SrcDir          bool
	ExperimentalApp bool
	ImportAlias     string
}

func (o projectOptions) mode() templates.Mode {
	if o.TypeScript {
		return templates.TS
	}
	return templates.JS
}

func (o projectOptions) variant() templates.Variant {
	if o.ExperimentalApp {
		return templates.APP
	}
	return templates.DEFAULT
}

// toggle reads an --x / --no-x pair. An explicit --x=false counts as --no-x and
// --no-x=false as --x. The enabling form wins when both are given.
func toggle(flags *pflag.FlagSet, name string) (value bool, set bool) {
	enabled, _ := flags.GetBool(name)
	disabled, _ := flags.GetBool(NO_PREFIX + name)

	enableChanged := flags.Changed(name)
	disableChanged := flags.Changed(NO_PREFIX + name)

	switch {
	case (enableChanged && enabled) || (disableChanged && !disabled):
		return true, true
	case enableChanged || disableChanged:
		return false, true
	default:
		return false, false
	}
}

// language reads --typescript / --javascript. Cobra rejects both together, and an
// explicit --typescript=false means JavaScript.
func language(flags *pflag.FlagSet) (typescript bool, set bool) {
	ts, _ := flags.GetBool(TYPESCRIPT_FLAG)
	js, _ := flags.GetBool(JAVASCRIPT_FLAG)

	switch {
	case flags.Changed(TYPESCRIPT_FLAG):
		return ts, true
	case flags.Changed(JAVASCRIPT_FLAG):
		return !js, true
	default:
		return false, false
	}
}

// optionResolver takes every option from its flag, from the CI defaults or from a prompt, in that order.
type optionResolver struct {
	ci        bool
	responder prompt.Responder
	prefs     preferences.Preferences
	answered  bool
}

func (r *optionResolver) confirm(value, set bool, question string, stored **bool, fallback bool) (bool, error) {
	if set {
		return value, nil
	}
	if r.ci {
		return fallback, nil
	}

	answer, err := r.responder.Confirm(question, preferences.Bool(*stored, fallback))
	if err != nil {
		return false, err
	}

	*stored = &answer
	r.answered = true
	return answer, nil
}

func (r *optionResolver) alias(flag custom_flags.ImportAliasFlag) (string, error) {
	if flag.Provided() {
		return flag.String(), nil
	}
	if r.ci {
		return custom_flags.DEFAULT_IMPORT_ALIAS, nil
	}

	answer, err := r.responder.Text(
		IMPORT_ALIAS_QUESTION,
		preferences.String(r.prefs.ImportAlias, custom_flags.DEFAULT_IMPORT_ALIAS),
		custom_flags.ValidateImportAlias,
	)
	if err != nil {
		return "", err
	}

	r.prefs.ImportAlias = &answer
	r.answered = true
	return answer, nil
}

func (r *optionResolver) resolve(flags *pflag.FlagSet, aliasFlag custom_flags.ImportAliasFlag) (projectOptions, error) {
	var (
		opts projectOptions
		err  error
	)

	ts, set := language(flags)
	if opts.TypeScript, err = r.confirm(ts, set, TYPESCRIPT_QUESTION, &r.prefs.TypeScript, true); err != nil {
		return opts, err
	}

	eslint, set := toggle(flags, ESLINT_FLAG)
	if opts.ESLint, err = r.confirm(eslint, set, ESLINT_QUESTION, &r.prefs.ESLint, true); err != nil {
		return opts, err
	}

	srcDir, set := toggle(flags, SRC_DIR_FLAG)
	if opts.SrcDir, err = r.confirm(srcDir, set, SRC_DIR_QUESTION, &r.prefs.SrcDir, false); err != nil {
		return opts, err
	}

	app, set := toggle(flags, EXPERIMENTAL_APP_FLAG)
	if opts.ExperimentalApp, err = r.confirm(app, set, EXPERIMENTAL_APP_QUESTION, &r.prefs.ExperimentalApp, false); err != nil {
		return opts, err
	}

	if opts.ImportAlias, err = r.alias(aliasFlag); err != nil {
		return opts, err
	}

	return opts, nil
}

// explicitPackageManager returns the package manager picked by a --use-* flag, if any.
func explicitPackageManager(flags *pflag.FlagSet) string {
	for flag, pm := range packageManagerFlags {
		if value, _ := flags.GetBool(flag); value {
			return pm
		}
	}
	return ""
}
