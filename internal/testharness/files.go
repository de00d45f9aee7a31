package testharness

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/louiss0/create-next-app/internal/manifest"
	"github.com/louiss0/create-next-app/templates"
)

// ProjectFiles names files relative to a generated project.
type ProjectFiles struct {
	Cwd         string
	ProjectName string
	Files       []string
}

func (p ProjectFiles) root() string {
	return filepath.Join(p.Cwd, p.ProjectName)
}

// ProjectFilesShouldExist fails the test at the first file that is missing.
func ProjectFilesShouldExist(t T, p ProjectFiles) {
	t.Helper()

	for _, file := range p.Files {
		exists, err := afero.Exists(osFs, filepath.Join(p.root(), filepath.FromSlash(file)))
		if err != nil {
			t.Fatalf("failed to stat %s in %s: %v", file, p.ProjectName, err)
			return
		}
		if !exists {
			t.Fatalf("expected %s to exist in %s", file, p.ProjectName)
			return
		}
	}
}

// ProjectFilesShouldNotExist fails the test at the first file that is present.
func ProjectFilesShouldNotExist(t T, p ProjectFiles) {
	t.Helper()

	for _, file := range p.Files {
		exists, err := afero.Exists(osFs, filepath.Join(p.root(), filepath.FromSlash(file)))
		if err != nil {
			t.Fatalf("failed to stat %s in %s: %v", file, p.ProjectName, err)
			return
		}
		if exists {
			t.Fatalf("expected %s not to exist in %s", file, p.ProjectName)
			return
		}
	}
}

// TemplateProject describes the project a run should have produced.
type TemplateProject struct {
	Cwd         string
	ProjectName string
	Template    templates.Variant
	Mode        templates.Mode
	SrcDir      bool
	ESLint      bool
}

func (p TemplateProject) files(list []string) ProjectFiles {
	return ProjectFiles{Cwd: p.Cwd, ProjectName: p.ProjectName, Files: list}
}

var rootFiles = []string{
	manifest.FileName,
	".gitignore",
	"README.md",
	"next.config.js",
	"public/next.svg",
	"public/vercel.svg",
}

var configFiles = map[templates.Mode][]string{
	templates.TS: {"tsconfig.json", "next-env.d.ts"},
	templates.JS: {"jsconfig.json"},
}

// sourceFiles are relative to the project root or src/. The extension is added per mode.
var sourceFiles = map[templates.Variant][]string{
	templates.DEFAULT: {"pages/_app", "pages/_document", "pages/index", "pages/api/hello"},
	templates.APP:     {"app/layout", "app/page", "pages/api/hello"},
}

var styleFiles = map[templates.Variant][]string{
	templates.DEFAULT: {"styles/globals.css", "styles/Home.module.css"},
	templates.APP:     {"app/globals.css", "app/page.module.css"},
}

// onlyIn are paths that tell one variant from the other.
var onlyIn = map[templates.Variant][]string{
	templates.DEFAULT: {"styles", "pages/_app.tsx", "pages/_app.js", "pages/index.tsx", "pages/index.js"},
	templates.APP:     {"app"},
}

func extension(source string, mode templates.Mode) string {
	switch {
	case mode == templates.JS:
		return ".js"
	case strings.HasPrefix(source, "pages/api/"):
		return ".ts"
	default:
		return ".tsx"
	}
}

func otherMode(mode templates.Mode) templates.Mode {
	if mode == templates.TS {
		return templates.JS
	}
	return templates.TS
}

func otherVariant(variant templates.Variant) templates.Variant {
	if variant == templates.APP {
		return templates.DEFAULT
	}
	return templates.APP
}

func sourceRoot(srcDir bool) string {
	if srcDir {
		return templates.SRC_DIR
	}
	return ""
}

// ExpectedFiles lists every file a generated project must contain.
func ExpectedFiles(p TemplateProject) []string {
	base := sourceRoot(p.SrcDir)

	expected := append([]string{}, rootFiles...)
	expected = append(expected, configFiles[p.Mode]...)
	if p.ESLint {
		expected = append(expected, ".eslintrc.json")
	}

	for _, source := range sourceFiles[p.Template] {
		expected = append(expected, path.Join(base, source+extension(source, p.Mode)))
	}
	for _, style := range styleFiles[p.Template] {
		expected = append(expected, path.Join(base, style))
	}

	return expected
}

// UnexpectedFiles lists files that would show a wrong mode, layout or variant.
func UnexpectedFiles(p TemplateProject) []string {
	base := sourceRoot(p.SrcDir)
	wrongMode := otherMode(p.Mode)

	unexpected := append([]string{}, configFiles[wrongMode]...)
	if !p.ESLint {
		unexpected = append(unexpected, ".eslintrc.json")
	}

	for _, source := range sourceFiles[p.Template] {
		unexpected = append(unexpected, path.Join(base, source+extension(source, wrongMode)))
	}

	if p.SrcDir {
		unexpected = append(unexpected, "app", "pages", "styles")
	} else {
		unexpected = append(unexpected, templates.SRC_DIR)
	}

	for _, file := range onlyIn[otherVariant(p.Template)] {
		unexpected = append(unexpected, path.Join(base, file))
	}

	return lo.Uniq(unexpected)
}

// ShouldBeTemplateProject fails the test unless the project matches p's variant, mode and layout.
func ShouldBeTemplateProject(t T, p TemplateProject) {
	t.Helper()

	ProjectFilesShouldExist(t, p.files(ExpectedFiles(p)))
	ProjectFilesShouldNotExist(t, p.files(UnexpectedFiles(p)))

	shouldHaveSourceExtensions(t, p)
	shouldHaveManifestName(t, p)
}

// ShouldBeTypescriptProject is ShouldBeTemplateProject in TypeScript mode.
func ShouldBeTypescriptProject(t T, p TemplateProject) {
	t.Helper()

	p.Mode = templates.TS
	ShouldBeTemplateProject(t, p)
}

// ShouldBeJavascriptProject is ShouldBeTemplateProject in JavaScript mode.
func ShouldBeJavascriptProject(t T, p TemplateProject) {
	t.Helper()

	p.Mode = templates.JS
	ShouldBeTemplateProject(t, p)
}

// shouldHaveSourceExtensions walks app/ and pages/ and rejects scripts of the other language.
func shouldHaveSourceExtensions(t T, p TemplateProject) {
	t.Helper()

	var allowed []string
	if p.Mode == templates.TS {
		allowed = []string{".ts", ".tsx", ".css"}
	} else {
		allowed = []string{".js", ".jsx", ".css"}
	}

	root := filepath.Join(p.Cwd, p.ProjectName, sourceRoot(p.SrcDir))
	for _, dir := range []string{"app", "pages"} {
		start := filepath.Join(root, dir)
		if exists, _ := afero.DirExists(osFs, start); !exists {
			continue
		}

		err := afero.Walk(osFs, start, func(file string, info fs.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return err
			}
			if !lo.Contains(allowed, filepath.Ext(file)) {
				rel, _ := filepath.Rel(root, file)
				t.Fatalf("expected a %s source file, found %s in %s", p.Mode, filepath.ToSlash(rel), p.ProjectName)
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			t.Fatalf("failed to walk %s: %v", start, err)
			return
		}
	}
}

func shouldHaveManifestName(t T, p TemplateProject) {
	t.Helper()

	pkg, err := manifest.Read(osFs, filepath.Join(p.Cwd, p.ProjectName))
	if err != nil {
		t.Fatalf("failed to read the package.json of %s: %v", p.ProjectName, err)
		return
	}
	if pkg.Name != p.ProjectName {
		t.Fatalf("expected package.json name %q, got %q", p.ProjectName, pkg.Name)
	}
}
