// Package mock provides mock implementations for testing create-next-app.
package mock

import (
	// standard library
	"fmt"
	"io"
	"strings"

	// external
	"github.com/stretchr/testify/mock"
)

// MockDebugExecutor implements the cmd.DebugExecutor interface for testing purposes
type MockDebugExecutor struct {
	mock.Mock
}

// ExecuteIfDebugIsTrue records the call to this method.
func (m *MockDebugExecutor) ExecuteIfDebugIsTrue(cb func()) {
	m.Called(cb)
}

// LogDebugMessageIfDebugIsTrue records the call to this method along with its arguments.
// Expectations take the message followed by the key value pairs.
func (m *MockDebugExecutor) LogDebugMessageIfDebugIsTrue(msg string, keyvals ...interface{}) {
	args := []interface{}{msg}
	args = append(args, keyvals...)
	m.Called(args...)
}

// LogCommandIfDebugIsTrue records the command and its arguments as separate call arguments.
func (m *MockDebugExecutor) LogCommandIfDebugIsTrue(cmd string, args ...string) {
	callArgs := []interface{}{cmd}
	for _, arg := range args {
		callArgs = append(callArgs, arg)
	}
	m.Called(callArgs...)
}

// NewLenientDebugExecutor returns a MockDebugExecutor that accepts any debug call.
func NewLenientDebugExecutor() *MockDebugExecutor {
	m := &MockDebugExecutor{}
	m.On("ExecuteIfDebugIsTrue", mock.Anything).Maybe()
	for arity := 1; arity <= 13; arity++ {
		anything := make([]interface{}, arity)
		for i := range anything {
			anything[i] = mock.Anything
		}
		m.On("LogDebugMessageIfDebugIsTrue", anything...).Maybe()
		m.On("LogCommandIfDebugIsTrue", anything...).Maybe()
	}
	return m
}

// MockCommandRunner implements the cmd.CommandRunner interface for testing purposes.
// No real commands are executed. Every Command call is also kept in Calls
// so tests can assert on ordering.
type MockCommandRunner struct {
	mock.Mock
	Calls     []CommandCall
	targetDir string
}

// CommandCall represents a single command call with its name, arguments and directory
type CommandCall struct {
	Name string
	Args []string
	Dir  string
}

// String renders the call the way it would be typed in a shell.
func (c CommandCall) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// NewMockCommandRunner creates a new instance of MockCommandRunner
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{}
}

// Command records the command that would be executed
func (m *MockCommandRunner) Command(name string, args ...string) {
	m.Calls = append(m.Calls, CommandCall{Name: name, Args: args, Dir: m.targetDir})

	callArgs := []interface{}{name}
	for _, arg := range args {
		callArgs = append(callArgs, arg)
	}
	m.Called(callArgs...)
}

// SetTargetDir sets the target directory for command execution
func (m *MockCommandRunner) SetTargetDir(dir string) error {
	args := m.Called(dir)
	if args.Error(0) == nil {
		m.targetDir = dir
		for i := range m.Calls {
			if m.Calls[i].Dir == "" {
				m.Calls[i].Dir = dir
			}
		}
	}
	return args.Error(0)
}

// SetOutput records where the command output would be written.
func (m *MockCommandRunner) SetOutput(stdout, stderr io.Writer) {
	m.Called(stdout, stderr)
}

// Run simulates running the last command
func (m *MockCommandRunner) Run() error {
	args := m.Called()
	return args.Error(0)
}

// CommandLines returns every recorded command as a shell-like string.
func (m *MockCommandRunner) CommandLines() []string {
	lines := make([]string, 0, len(m.Calls))
	for _, call := range m.Calls {
		lines = append(lines, call.String())
	}
	return lines
}

// MockResponder implements the prompt.Responder interface using testify/mock
type MockResponder struct {
	mock.Mock
}

// Confirm returns the configured answer for question.
func (r *MockResponder) Confirm(question string, def bool) (bool, error) {
	args := r.Called(question, def)
	return args.Bool(0), args.Error(1)
}

// Text returns the configured answer for question. The validate function is not matched on.
func (r *MockResponder) Text(question, def string, validate func(string) error) (string, error) {
	args := r.Called(question, def)
	answer := args.String(0)
	if err := args.Error(1); err != nil {
		return "", err
	}
	if validate != nil {
		if err := validate(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

// NewMockResponder creates a MockResponder that answers every Confirm with confirm.
// Text expectations still have to be set by the caller.
func NewMockResponder(confirm bool) *MockResponder {
	r := &MockResponder{}
	r.On("Confirm", mock.AnythingOfType("string"), mock.AnythingOfType("bool")).Return(confirm, nil).Maybe()
	return r
}

// LookPathResult is the canned answer for one executable
type LookPathResult struct {
	Path  string
	Error error
}

// MockPathLookup is a mock implementation of detect.PathLookup for testing.
type MockPathLookup struct {
	ExpectedLookPathResults map[string]LookPathResult
}

func NewMockPathLookup() *MockPathLookup {
	return &MockPathLookup{
		ExpectedLookPathResults: make(map[string]LookPathResult),
	}
}

func (m *MockPathLookup) LookPath(file string) (string, error) {
	if res, ok := m.ExpectedLookPathResults[file]; ok {
		return res.Path, res.Error
	}
	return "", fmt.Errorf("mock LookPath: no expectation set for '%s'", file)
}
