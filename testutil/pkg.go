// Package testutil builds root commands wired to mocks for the cmd tests.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	tmock "github.com/stretchr/testify/mock"

	"github.com/louiss0/create-next-app/cmd"
	"github.com/louiss0/create-next-app/detect"
	"github.com/louiss0/create-next-app/env"
	"github.com/louiss0/create-next-app/mock"
	"github.com/louiss0/create-next-app/prompt"
	"github.com/louiss0/create-next-app/services"
)

// WORKING_DIR is the current directory every factory command runs in.
const WORKING_DIR = "/home/user/projects"

type debugExecutorExpectationManager struct {
	DebugExecutor *mock.MockDebugExecutor
}

// Debug executor expectation helpers (DRY)
func (m *debugExecutorExpectationManager) ExpectCommandLog(program string, args ...string) {
	callArgs := []interface{}{program}
	for _, arg := range args {
		callArgs = append(callArgs, arg)
	}
	m.DebugExecutor.On("LogCommandIfDebugIsTrue", callArgs...).Return().Once()
}

// RegistryFunc adapts a function to services.NpmRegistryService.
type RegistryFunc func(ctx context.Context, pkg string) (string, error)

func (f RegistryFunc) LatestVersion(ctx context.Context, pkg string) (string, error) {
	return f(ctx, pkg)
}

// RootCommandFactory is a helper struct for creating cobra.Command instances
// with mocked dependencies for testing purposes.
type RootCommandFactory struct {
	fs            afero.Fs
	mockRunner    *mock.MockCommandRunner
	debugExecutor *mock.MockDebugExecutor
	responder     prompt.Responder
	pathLookup    *mock.MockPathLookup
	environment   map[string]string
	registry      services.NpmRegistryService
	interactive   bool
}

// NewRootCommandFactory creates a new RootCommandFactory with the given mock runner.
// Every package manager and git are on the mocked PATH and the environment is empty.
func NewRootCommandFactory(mockRunner *mock.MockCommandRunner) *RootCommandFactory {
	pathLookup := mock.NewMockPathLookup()
	for _, bin := range append(detect.SupportedJSPackageManagers[:], detect.GIT) {
		pathLookup.ExpectedLookPathResults[bin] = mock.LookPathResult{Path: "/usr/local/bin/" + bin}
	}

	fs := afero.NewMemMapFs()
	_ = fs.MkdirAll(WORKING_DIR, 0o755)

	return &RootCommandFactory{
		fs:            fs,
		mockRunner:    mockRunner,
		debugExecutor: mock.NewLenientDebugExecutor(),
		pathLookup:    pathLookup,
		environment:   map[string]string{},
		registry: RegistryFunc(func(context.Context, string) (string, error) {
			return "", fmt.Errorf("registry is not reachable in tests")
		}),
	}
}

func (f *RootCommandFactory) Fs() afero.Fs {
	return f.fs
}

func (f *RootCommandFactory) MockCommandRunner() *mock.MockCommandRunner {
	return f.mockRunner
}

func (f *RootCommandFactory) DebugExecutor() *mock.MockDebugExecutor {
	return f.debugExecutor
}

func (f *RootCommandFactory) PathLookup() *mock.MockPathLookup {
	return f.pathLookup
}

// DebugExpectations wraps the factory's debug executor with expectation helpers.
func (f *RootCommandFactory) DebugExpectations() *debugExecutorExpectationManager {
	return &debugExecutorExpectationManager{DebugExecutor: f.debugExecutor}
}

// UseStrictDebugExecutor replaces the lenient debug executor with one that accepts any
// debug message but only the command logs registered through DebugExpectations.
func (f *RootCommandFactory) UseStrictDebugExecutor() *mock.MockDebugExecutor {
	f.debugExecutor = &mock.MockDebugExecutor{}
	f.debugExecutor.On("ExecuteIfDebugIsTrue", tmock.Anything).Maybe()
	for arity := 1; arity <= 11; arity += 2 {
		f.debugExecutor.On("LogDebugMessageIfDebugIsTrue", anything(arity)...).Maybe()
	}
	return f.debugExecutor
}

func anything(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = tmock.Anything
	}
	return args
}

// SetFs replaces the file system the command works on.
func (f *RootCommandFactory) SetFs(fs afero.Fs) *RootCommandFactory {
	f.fs = fs
	return f
}

// SetEnv adds a variable to the environment the command sees.
func (f *RootCommandFactory) SetEnv(key, value string) *RootCommandFactory {
	f.environment[key] = value
	return f
}

// SetResponder answers prompts with responder. Without one, any prompt fails the command.
func (f *RootCommandFactory) SetResponder(responder prompt.Responder) *RootCommandFactory {
	f.responder = responder
	return f
}

// SetInteractive makes the command believe stdin is a terminal.
func (f *RootCommandFactory) SetInteractive(interactive bool) *RootCommandFactory {
	f.interactive = interactive
	return f
}

// SetRegistry replaces the npm registry used by the update check.
func (f *RootCommandFactory) SetRegistry(registry services.NpmRegistryService) *RootCommandFactory {
	f.registry = registry
	return f
}

func (f *RootCommandFactory) dependencies() cmd.Dependencies {
	return cmd.Dependencies{
		Fs:         f.fs,
		Getwd:      func() (string, error) { return WORKING_DIR, nil },
		LookupEnv:  env.MapLookup(f.environment),
		PathLookup: f.pathLookup,
		CommandRunnerGetter: func() cmd.CommandRunner {
			return f.mockRunner
		},
		NewDebugExecutor: func(bool) cmd.DebugExecutor {
			return f.debugExecutor
		},
		IsInteractive: func(io.Reader) bool { return f.interactive },
		NewPromptResponder: func(in io.Reader, out io.Writer, interactive bool) prompt.Responder {
			if f.responder != nil {
				return f.responder
			}
			return prompt.NewLineResponder(in, out)
		},
		NewRegistryService: func(string) services.NpmRegistryService {
			return f.registry
		},
	}
}

// CreateRootCmd builds a root command wired to the factory's mocks.
func (f *RootCommandFactory) CreateRootCmd() *cobra.Command {
	return cmd.NewRootCmd(f.dependencies())
}

// ExecuteCmd runs c with args, feeding stdin, and returns stdout and stderr.
func ExecuteCmd(c *cobra.Command, stdin string, args ...string) (stdout string, stderr string, err error) {
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)

	c.SetIn(strings.NewReader(stdin))
	c.SetOut(out)
	c.SetErr(errOut)
	if args == nil {
		args = []string{}
	}
	c.SetArgs(args)

	err = c.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}
