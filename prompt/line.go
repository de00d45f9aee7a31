package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
)

type lineResponder struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLineResponder reads one answer per line, for stdin that is a pipe or a file.
func NewLineResponder(in io.Reader, out io.Writer) Responder {
	return &lineResponder{in: bufio.NewReader(in), out: out}
}

// readLine returns the next trimmed line and whether input is exhausted.
func (l *lineResponder) readLine() (string, bool, error) {
	line, err := l.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, err
	}
	return strings.TrimSpace(line), errors.Is(err, io.EOF), nil
}

func (l *lineResponder) Confirm(question string, def bool) (bool, error) {
	hint := lo.Ternary(def, "(Y/n)", "(y/N)")

	for {
		fmt.Fprintf(l.out, "? %s %s ", question, hint)

		answer, eof, err := l.readLine()
		if err != nil {
			return def, err
		}

		switch strings.ToLower(answer) {
		case "y", "yes":
			fmt.Fprintln(l.out, "Yes")
			return true, nil
		case "n", "no":
			fmt.Fprintln(l.out, "No")
			return false, nil
		case "":
			fmt.Fprintln(l.out, lo.Ternary(def, "Yes", "No"))
			return def, nil
		}

		if eof {
			fmt.Fprintln(l.out, lo.Ternary(def, "Yes", "No"))
			return def, nil
		}
		fmt.Fprintf(l.out, "\nPlease answer yes or no, got %q\n", answer)
	}
}

func (l *lineResponder) Text(question, def string, validate func(string) error) (string, error) {
	for {
		fmt.Fprintf(l.out, "? %s (%s) ", question, def)

		answer, eof, err := l.readLine()
		if err != nil {
			return def, err
		}
		if answer == "" {
			answer = def
		}

		if validate == nil {
			fmt.Fprintln(l.out, answer)
			return answer, nil
		}

		verr := validate(answer)
		if verr == nil {
			fmt.Fprintln(l.out, answer)
			return answer, nil
		}
		if eof {
			if answer != def && validate(def) == nil {
				fmt.Fprintln(l.out, def)
				return def, nil
			}
			return "", verr
		}
		fmt.Fprintf(l.out, "\n%s\n", verr)
	}
}
