/*
Copyright © 2025 Shelton Louis

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

// Package cmd provides the create-next-app command-line interface.
package cmd

import (
	// standard library
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	// external
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	// internal
	"github.com/louiss0/create-next-app/build_info"
	"github.com/louiss0/create-next-app/custom_flags"
	"github.com/louiss0/create-next-app/detect"
	"github.com/louiss0/create-next-app/env"
	"github.com/louiss0/create-next-app/internal/config"
	"github.com/louiss0/create-next-app/prompt"
	"github.com/louiss0/create-next-app/services"
)

// Flag names
const (
	TYPESCRIPT_FLAG        = "typescript"
	JAVASCRIPT_FLAG        = "javascript"
	ESLINT_FLAG            = "eslint"
	SRC_DIR_FLAG           = "src-dir"
	EXPERIMENTAL_APP_FLAG  = "experimental-app"
	IMPORT_ALIAS_FLAG      = "import-alias"
	USE_NPM_FLAG           = "use-npm"
	USE_PNPM_FLAG          = "use-pnpm"
	USE_YARN_FLAG          = "use-yarn"
	USE_BUN_FLAG           = "use-bun"
	RESET_PREFERENCES_FLAG = "reset-preferences"
	_SKIP_INSTALL_FLAG     = config.SKIP_INSTALL_KEY
	_DISABLE_GIT_FLAG      = config.DISABLE_GIT_KEY
	_DEBUG_FLAG            = config.DEBUG_KEY
)

// NO_PREFIX turns a toggle flag into its disabling form.
const NO_PREFIX = "no-"

var toggleFlags = []string{ESLINT_FLAG, SRC_DIR_FLAG, EXPERIMENTAL_APP_FLAG}

// packageManagerFlags maps every --use-* flag to the package manager it selects.
var packageManagerFlags = map[string]string{
	USE_NPM_FLAG:  detect.NPM,
	USE_PNPM_FLAG: detect.PNPM,
	USE_YARN_FLAG: detect.YARN,
	USE_BUN_FLAG:  detect.BUN,
}

// flagAliases are accepted spellings that normalize to a registered flag.
var flagAliases = map[string]string{
	"ts": TYPESCRIPT_FLAG,
	"js": JAVASCRIPT_FLAG,
}

func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if alias, ok := flagAliases[name]; ok {
		return pflag.NormalizedName(alias)
	}
	return pflag.NormalizedName(name)
}

// CommandRunner Interface and its implementation
// This interface allows for mocking command execution in tests.
// **Remember:** always use the `Command()` before using the `Run()`
type CommandRunner interface {
	Command(string, ...string)
	// This method calls the underlying `exec.Run()` to execute the command from `exec.Cmd`!
	Run() error
	SetTargetDir(string) error
	// SetOutput redirects the output of every following command.
	SetOutput(stdout, stderr io.Writer)
}

type _ExecCommandFunc func(string, ...string) *exec.Cmd

type commandRunner struct {
	execCommandFunc _ExecCommandFunc
	cmd             *exec.Cmd
	targetDir       string
	stdout          io.Writer
	stderr          io.Writer
}

func newCommandRunner(execCommandFunc _ExecCommandFunc) CommandRunner {
	return &commandRunner{
		execCommandFunc: execCommandFunc,
		stdout:          os.Stdout,
		stderr:          os.Stderr,
	}
}

func (e *commandRunner) Command(name string, args ...string) {
	e.cmd = e.execCommandFunc(name, args...)
	e.cmd.Stdin = os.Stdin
	e.cmd.Stdout = e.stdout
	e.cmd.Stderr = e.stderr

	// Apply any previously set target directory
	if e.targetDir != "" {
		e.cmd.Dir = e.targetDir
	}
}

func (e *commandRunner) SetTargetDir(dir string) error {
	fileInfo, err := os.Stat(dir)
	if err != nil {
		return err
	}

	if !fileInfo.IsDir() {
		return fmt.Errorf("target directory %s is not a directory", dir)
	}

	// Persist the target directory regardless of command initialization state
	e.targetDir = dir

	if e.cmd != nil {
		e.cmd.Dir = dir
	}
	return nil
}

func (e *commandRunner) SetOutput(stdout, stderr io.Writer) {
	e.stdout = stdout
	e.stderr = stderr

	if e.cmd != nil {
		e.cmd.Stdout = stdout
		e.cmd.Stderr = stderr
	}
}

func (e *commandRunner) Run() error {
	if e.cmd == nil {
		return fmt.Errorf("no command set to run")
	}
	return e.cmd.Run()
}

type DebugExecutor interface {
	ExecuteIfDebugIsTrue(cb func())
	LogDebugMessageIfDebugIsTrue(msg string, keyvals ...interface{})
	LogCommandIfDebugIsTrue(command string, args ...string)
}

type debugExecutor struct {
	debugFlag bool
}

func newDebugExecutor(debugFlag bool) DebugExecutor {
	return debugExecutor{debugFlag}
}

func (d debugExecutor) ExecuteIfDebugIsTrue(cb func()) {
	if d.debugFlag {
		cb()
	}
}

func (d debugExecutor) LogDebugMessageIfDebugIsTrue(msg string, keyvals ...interface{}) {
	if d.debugFlag {
		log.Debug(msg, keyvals...)
	}
}

func (d debugExecutor) LogCommandIfDebugIsTrue(command string, args ...string) {
	if d.debugFlag {
		log.Debug("Executing command:", "command", strings.Join(append([]string{command}, args...), " "))
	}
}

// Dependencies holds the external dependencies for testing and real execution
type Dependencies struct {
	Fs                  afero.Fs
	Getwd               func() (string, error)
	LookupEnv           env.LookupFunc
	PathLookup          detect.PathLookup
	CommandRunnerGetter func() CommandRunner
	NewDebugExecutor    func(bool) DebugExecutor
	IsInteractive       func(in io.Reader) bool
	NewPromptResponder  func(in io.Reader, out io.Writer, interactive bool) prompt.Responder
	NewRegistryService  func(registry string) services.NpmRegistryService
}

// NewRootCmd creates a new root command with injectable dependencies.
func NewRootCmd(deps Dependencies) *cobra.Command {
	importAliasFlag := custom_flags.NewImportAliasFlag(IMPORT_ALIAS_FLAG)

	cmd := &cobra.Command{
		Use:     "create-next-app [project-directory]",
		Version: build_info.CLI_VERSION.String(),
		Short:   "Create a new Next.js application",
		Long: `create-next-app bootstraps a Next.js application from an embedded template.

Every choice that is not passed as a flag is asked for interactively and the
answers are remembered for the next run. In CI the defaults are used instead:
TypeScript, ESLint, no src/ directory, the pages router and the @/* alias.

Aliases: --ts for --typescript and --js for --javascript.`,
		Example: `  create-next-app my-app --ts --eslint --src-dir
  create-next-app my-app --js --experimental-app --use-pnpm
  CI=1 create-next-app my-app`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,

		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			// Load .env file
			err := godotenv.Load()

			if err != nil && !os.IsNotExist(err) {
				log.Error(err.Error())
			}

			debug, err := c.Flags().GetBool(_DEBUG_FLAG)
			if err != nil {
				return err
			}

			if debug {
				log.SetLevel(log.DebugLevel)
			}

			return nil
		},

		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := config.Load(c.Flags())
			if err != nil {
				return err
			}

			if cfg.Debug {
				log.SetLevel(log.DebugLevel)
			}

			return newCreator(c, deps, cfg, importAliasFlag).run(args)
		},
	}

	cmd.SetGlobalNormalizationFunc(normalizeFlagName)

	flags := cmd.Flags()

	flags.Bool(TYPESCRIPT_FLAG, false, "Initialize as a TypeScript project (alias --ts)")
	flags.Bool(JAVASCRIPT_FLAG, false, "Initialize as a JavaScript project (alias --js)")

	lo.ForEach(toggleFlags, func(name string, _ int) {
		flags.Bool(name, false, fmt.Sprintf("Enable %s", toggleDescriptions[name]))
		flags.Bool(NO_PREFIX+name, false, fmt.Sprintf("Disable %s", toggleDescriptions[name]))
	})

	flags.Var(importAliasFlag, IMPORT_ALIAS_FLAG, `Specify the import alias to use (default "@/*")`)

	flags.Bool(USE_NPM_FLAG, false, "Explicitly tell the CLI to bootstrap the app using npm")
	flags.Bool(USE_PNPM_FLAG, false, "Explicitly tell the CLI to bootstrap the app using pnpm")
	flags.Bool(USE_YARN_FLAG, false, "Explicitly tell the CLI to bootstrap the app using Yarn")
	flags.Bool(USE_BUN_FLAG, false, "Explicitly tell the CLI to bootstrap the app using Bun")

	flags.Bool(_SKIP_INSTALL_FLAG, false, "Write package.json without installing dependencies")
	flags.Bool(_DISABLE_GIT_FLAG, false, "Do not initialize a git repository")
	flags.Bool(RESET_PREFERENCES_FLAG, false, "Forget the answers remembered from previous runs")

	cmd.PersistentFlags().BoolP(_DEBUG_FLAG, "d", false, "Make commands run in debug mode")

	cmd.MarkFlagsMutuallyExclusive(TYPESCRIPT_FLAG, JAVASCRIPT_FLAG)
	cmd.MarkFlagsMutuallyExclusive(USE_NPM_FLAG, USE_PNPM_FLAG, USE_YARN_FLAG, USE_BUN_FLAG)

	return cmd
}

var toggleDescriptions = map[string]string{
	ESLINT_FLAG:           "the ESLint config",
	SRC_DIR_FLAG:          "the src/ directory",
	EXPERIMENTAL_APP_FLAG: "the experimental app/ directory",
}

// Global variable for the root command, initialized in init()
var rootCmd *cobra.Command

func init() {
	rootCmd = NewRootCmd(
		Dependencies{
			Fs:         afero.NewOsFs(),
			Getwd:      os.Getwd,
			LookupEnv:  env.OSLookup,
			PathLookup: detect.RealPathLookup{},
			CommandRunnerGetter: func() CommandRunner {
				return newCommandRunner(exec.Command)
			},
			NewDebugExecutor:   newDebugExecutor,
			IsInteractive:      prompt.IsTerminal,
			NewPromptResponder: prompt.New,
			NewRegistryService: services.NewNpmRegistryService,
		},
	)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		os.Exit(1)
	}
}
