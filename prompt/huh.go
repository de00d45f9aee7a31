package prompt

import (
	"io"

	"github.com/charmbracelet/huh"
)

type huhResponder struct {
	in  io.Reader
	out io.Writer
}

// NewHuhResponder renders questions as huh forms on the terminal.
func NewHuhResponder(in io.Reader, out io.Writer) Responder {
	return huhResponder{in: in, out: out}
}

func (h huhResponder) run(field huh.Field) error {
	return huh.NewForm(huh.NewGroup(field)).
		WithInput(h.in).
		WithOutput(h.out).
		Run()
}

func (h huhResponder) Confirm(question string, def bool) (bool, error) {
	value := def

	err := h.run(
		huh.NewConfirm().
			Title(question).
			Affirmative("Yes").
			Negative("No").
			Value(&value),
	)
	if err != nil {
		return def, err
	}
	return value, nil
}

func (h huhResponder) Text(question, def string, validate func(string) error) (string, error) {
	var value string

	err := h.run(
		huh.NewInput().
			Title(question).
			Placeholder(def).
			Value(&value).
			Validate(func(s string) error {
				if s == "" || validate == nil {
					return nil
				}
				return validate(s)
			}),
	)
	if err != nil {
		return def, err
	}
	if value == "" {
		return def, nil
	}
	return value, nil
}
