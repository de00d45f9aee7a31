// Package testharness spawns create-next-app as a subprocess and asserts on the projects it generates.
//
// The CLI runs inside the test binary itself. CreateNextApp re-executes the binary
// with HELPER_ENV_VAR set and -test.run pointing at HELPER_TEST_NAME, which the
// test package defines to hand the arguments after "--" to cmd.Execute.
package testharness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/louiss0/create-next-app/env"
	"github.com/louiss0/create-next-app/internal/config"
)

const (
	HELPER_ENV_VAR   = "GO_WANT_CNA_PROCESS"
	HELPER_TEST_NAME = "TestCreateNextAppProcess"
	ARGS_SEPARATOR   = "--"
)

var osFs = afero.NewOsFs()

// T is the part of testing.T the harness needs. GinkgoT() satisfies it too.
type T interface {
	Helper()
	Cleanup(func())
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// Options describes how the CLI is started.
type Options struct {
	// Cwd is the directory the CLI runs in.
	Cwd string
	// Env overrides are merged over the parent environment.
	Env map[string]string
	// Stdin replaces the stdin pipe when set. WriteStdin is unavailable then.
	Stdin io.Reader
	// Inherit sends the CLI output to the test's stdout and stderr instead of capturing it.
	Inherit bool
}

// defaultEnv keeps a run offline and away from the developer's preferences.
var defaultEnv = map[string]string{
	config.EnvVar(config.SKIP_INSTALL_KEY):      "1",
	config.EnvVar(config.DISABLE_GIT_KEY):       "1",
	config.EnvVar(config.SKIP_UPDATE_CHECK_KEY): "1",
}

// Process is a running create-next-app.
type Process struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *syncBuffer
	stderr *syncBuffer

	closeStdin sync.Once
	done       chan struct{}
	exitCode   int
	waitErr    error
}

// CreateNextApp starts the CLI with args. The process is killed when the test ends if it is still running.
func CreateNextApp(t T, args []string, opts Options) *Process {
	t.Helper()

	executable, err := os.Executable()
	if err != nil {
		executable = os.Args[0]
	}

	argv := append([]string{"-test.run=^" + HELPER_TEST_NAME + "$", ARGS_SEPARATOR}, args...)
	cmd := exec.Command(executable, argv...)
	cmd.Dir = opts.Cwd

	configDir, err := afero.TempDir(osFs, "", TEMP_DIR_PREFIX+"config-")
	if err != nil {
		t.Fatalf("failed to create a config directory: %v", err)
		return nil
	}
	t.Cleanup(func() { _ = osFs.RemoveAll(configDir) })

	cmd.Env = Environ(os.Environ(), configDir, opts.Env)

	p := &Process{
		cmd:    cmd,
		stdout: &syncBuffer{},
		stderr: &syncBuffer{},
		done:   make(chan struct{}),
	}

	if opts.Stdin != nil {
		cmd.Stdin = opts.Stdin
	} else {
		p.stdin, err = cmd.StdinPipe()
		if err != nil {
			t.Fatalf("failed to open stdin: %v", err)
			return nil
		}
	}

	if opts.Inherit {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stdout = p.stdout
		cmd.Stderr = p.stderr
	}

	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start create-next-app: %v", err)
		return nil
	}

	go p.wait()

	t.Cleanup(p.kill)

	return p
}

// Environ builds the child environment from parent.
// CI markers and the helper switch are dropped, the harness defaults and a private
// config dir are added, and overrides win over everything.
func Environ(parent []string, configDir string, overrides map[string]string) []string {
	values := make(map[string]string, len(parent))
	for _, entry := range parent {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		values[key] = value
	}

	for _, marker := range env.CIMarkers {
		delete(values, marker)
	}

	for key, value := range defaultEnv {
		values[key] = value
	}
	values[config.EnvVar(config.CONFIG_DIR_KEY)] = configDir

	for key, value := range overrides {
		values[key] = value
	}
	values[HELPER_ENV_VAR] = "1"

	keys := lo.Keys(values)
	sort.Strings(keys)

	return lo.Map(keys, func(key string, _ int) string {
		return key + "=" + values[key]
	})
}

func (p *Process) wait() {
	err := p.cmd.Wait()

	p.exitCode = p.cmd.ProcessState.ExitCode()

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		p.waitErr = err
	}

	close(p.done)
}

func (p *Process) kill() {
	select {
	case <-p.done:
		return
	default:
	}

	_ = p.cmd.Process.Kill()
	p.CloseStdin()
	<-p.done
}

// WriteStdin sends input to the CLI as if it was typed.
func (p *Process) WriteStdin(input string) error {
	if p.stdin == nil {
		return fmt.Errorf("stdin of create-next-app is not a pipe")
	}

	_, err := io.WriteString(p.stdin, input)
	return err
}

// CloseStdin signals end of input. Prompts asked afterwards take their defaults.
func (p *Process) CloseStdin() {
	p.closeStdin.Do(func() {
		if p.stdin != nil {
			_ = p.stdin.Close()
		}
	})
}

// Stdout returns what the CLI has printed so far.
func (p *Process) Stdout() string {
	return p.stdout.String()
}

// Stderr returns what the CLI has logged so far.
func (p *Process) Stderr() string {
	return p.stderr.String()
}

// Output joins stdout and stderr for failure messages.
func (p *Process) Output() string {
	return fmt.Sprintf("stdout:\n%s\nstderr:\n%s", p.Stdout(), p.Stderr())
}

// SpawnExitPromise closes stdin and waits for the CLI to exit.
// It returns the same result however often it is called. The exit code is -1 when
// the process was killed by a signal or ctx ended first.
func SpawnExitPromise(ctx context.Context, p *Process) (int, error) {
	p.CloseStdin()

	select {
	case <-p.done:
		if p.waitErr != nil {
			return -1, p.waitErr
		}
		return p.exitCode, nil
	case <-ctx.Done():
		p.kill()
		return -1, ctx.Err()
	}
}

// IsHelperProcess reports whether this test binary was started by CreateNextApp.
func IsHelperProcess() bool {
	return os.Getenv(HELPER_ENV_VAR) == "1"
}

// HelperArgs returns the CLI arguments that follow the separator in args.
func HelperArgs(args []string) []string {
	_, index, ok := lo.FindIndexOf(args, func(arg string) bool {
		return arg == ARGS_SEPARATOR
	})
	if !ok {
		return []string{}
	}
	return args[index+1:]
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
