// Package prompt asks the questions create-next-app needs answered when a flag is missing.
package prompt

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Responder answers yes/no and free text questions.
// Implementations return def when the user gives no answer.
type Responder interface {
	Confirm(question string, def bool) (bool, error)
	Text(question, def string, validate func(string) error) (string, error)
}

// New picks the terminal responder when interactive and the line responder otherwise.
func New(in io.Reader, out io.Writer, interactive bool) Responder {
	if interactive {
		return NewHuhResponder(in, out)
	}
	return NewLineResponder(in, out)
}

// IsTerminal reports whether r is a terminal file descriptor.
func IsTerminal(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
