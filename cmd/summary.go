package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"

	"github.com/louiss0/create-next-app/detect"
)

// styles renders against one writer so colors are dropped when it is not a terminal.
type styles struct {
	success lipgloss.Style
	command lipgloss.Style
	path    lipgloss.Style
	notice  lipgloss.Style
}

func newStyles(w io.Writer) styles {
	renderer := lipgloss.NewRenderer(w)
	return styles{
		success: renderer.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		command: renderer.NewStyle().Foreground(lipgloss.Color("6")),
		path:    renderer.NewStyle().Foreground(lipgloss.Color("2")),
		notice:  renderer.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
	}
}

var scriptDescriptions = [][2]string{
	{"dev", "Starts the development server."},
	{"build", "Builds the app for production."},
	{"start", "Runs the built app in production mode."},
}

// cdPath is the shortest way to reach root from cwd.
func cdPath(cwd, root string) string {
	rel, err := filepath.Rel(cwd, root)
	if err != nil || strings.HasPrefix(rel, "..") {
		return root
	}
	return rel
}

func printCreating(w io.Writer, root string) {
	s := newStyles(w)
	fmt.Fprintf(w, "Creating a new Next.js app in %s.\n\n", s.path.Render(root))
}

func printSuccess(w io.Writer, appName, root, cwd, pm string) {
	s := newStyles(w)

	fmt.Fprintf(w, "\n%s Created %s at %s\n", s.success.Render("Success!"), appName, root)
	fmt.Fprintln(w, "Inside that directory, you can run several commands:")
	fmt.Fprintln(w)

	scriptTable := table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(lo.Map(scriptDescriptions, func(script [2]string, _ int) []string {
			return []string{s.command.Render(detect.RunScriptCommand(pm, script[0])), script[1]}
		})...)

	fmt.Fprintln(w, scriptTable.Render())
	fmt.Fprintln(w)

	fmt.Fprintln(w, "We suggest that you begin by typing:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s\n", s.command.Render("cd"), cdPath(cwd, root))
	fmt.Fprintf(w, "  %s\n\n", s.command.Render(detect.RunScriptCommand(pm, "dev")))
}

func printUpdateNotice(w io.Writer, notice fmt.Stringer, pm string) {
	s := newStyles(w)

	install := map[string]string{
		detect.NPM:  "npm i -g create-next-app",
		detect.PNPM: "pnpm add -g create-next-app",
		detect.YARN: "yarn global add create-next-app",
		detect.BUN:  "bun add -g create-next-app",
	}[pm]

	fmt.Fprintln(w, s.notice.Render(notice.String()))
	fmt.Fprintf(w, "We recommend always using the latest version of create-next-app\nTo update, run: %s\n\n", s.command.Render(install))
}
