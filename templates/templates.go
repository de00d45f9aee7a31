// Package templates holds the embedded Next.js starter projects and copies them to disk.
package templates

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/louiss0/create-next-app/custom_flags"
	"github.com/louiss0/create-next-app/internal/manifest"
)

//go:embed all:files
var files embed.FS

// Variant is the router a project starts with.
type Variant string

const (
	DEFAULT Variant = "default"
	APP     Variant = "app"
)

// Mode is the source language of a project.
type Mode string

const (
	TS Mode = "ts"
	JS Mode = "js"
)

const SRC_DIR = "src"

// renames maps template file names to their names in a generated project.
// Dotfiles are stored without their leading dot.
var renames = map[string]string{
	"gitignore":          ".gitignore",
	"eslintrc.json":      ".eslintrc.json",
	"README-template.md": "README.md",
}

// srcDirs move under src/ when the src layout is chosen.
var srcDirs = []string{"app", "pages", "styles"}

var sourceExtensions = []string{".js", ".jsx", ".ts", ".tsx"}

var configFiles = []string{"tsconfig.json", "jsconfig.json"}

// defaultPathsEntry matches `"@/*": ["./*"]` with any spacing.
var defaultPathsEntry = regexp.MustCompile(`"@/\*"(\s*):(\s*)\[(\s*)"\./\*"(\s*)\]`)

// aliasImport matches a quoted import specifier starting with the default alias prefix.
var aliasImport = regexp.MustCompile(`(['"])@/`)

// InstallOptions decide which files are written and how they are rewritten.
type InstallOptions struct {
	Root        string
	Variant     Variant
	Mode        Mode
	ESLint      bool
	SrcDir      bool
	ImportAlias string
}

func (o InstallOptions) validate() error {
	if o.Root == "" {
		return fmt.Errorf("a project root is required")
	}
	if !lo.Contains([]Variant{DEFAULT, APP}, o.Variant) {
		return fmt.Errorf("unknown template %q it must be %q or %q", o.Variant, DEFAULT, APP)
	}
	if !lo.Contains([]Mode{TS, JS}, o.Mode) {
		return fmt.Errorf("unknown mode %q it must be %q or %q", o.Mode, TS, JS)
	}
	return custom_flags.ValidateImportAlias(o.ImportAlias)
}

// sources are the embedded directories a project is assembled from, later ones win.
func (o InstallOptions) sources() []string {
	return []string{
		"files/shared",
		path.Join("files", string(o.Variant), "common"),
		path.Join("files", string(o.Variant), string(o.Mode)),
	}
}

// Install copies the template selected by opts into opts.Root and returns the
// written paths relative to the root, slash separated and sorted.
func Install(fsys afero.Fs, opts InstallOptions) ([]string, error) {
	if opts.ImportAlias == "" {
		opts.ImportAlias = custom_flags.DEFAULT_IMPORT_ALIAS
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	written := map[string]struct{}{}

	for _, source := range opts.sources() {
		err := fs.WalkDir(files, source, func(name string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				return nil
			}

			rel := strings.TrimPrefix(name, source+"/")
			if path.Base(rel) == "eslintrc.json" && !opts.ESLint {
				return nil
			}

			content, err := files.ReadFile(name)
			if err != nil {
				return err
			}

			dest := destination(rel, opts.SrcDir)
			content, err = rewrite(dest, content, opts)
			if err != nil {
				return err
			}

			target := filepath.Join(opts.Root, filepath.FromSlash(dest))
			if err := fsys.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
			}
			if err := afero.WriteFile(fsys, target, content, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", dest, err)
			}

			written[dest] = struct{}{}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to install the %s/%s template: %w", opts.Variant, opts.Mode, err)
		}
	}

	paths := lo.Keys(written)
	sort.Strings(paths)
	return paths, nil
}

// destination renames dotfiles and nests app, pages and styles under src/ when asked.
func destination(rel string, srcDir bool) string {
	dir, base := path.Split(rel)
	if renamed, ok := renames[base]; ok && dir == "" {
		base = renamed
	}
	rel = path.Join(dir, base)

	top, _, _ := strings.Cut(rel, "/")
	if srcDir && top != rel && lo.Contains(srcDirs, top) {
		return path.Join(SRC_DIR, rel)
	}
	return rel
}

func rewrite(dest string, content []byte, opts InstallOptions) ([]byte, error) {
	base := path.Base(dest)

	if lo.Contains(configFiles, base) {
		return rewriteConfig(base, content, opts)
	}

	if opts.ImportAlias != custom_flags.DEFAULT_IMPORT_ALIAS && lo.Contains(sourceExtensions, path.Ext(dest)) {
		prefix := strings.TrimSuffix(opts.ImportAlias, "*")
		return aliasImport.ReplaceAll(content, []byte("${1}"+escapeTemplate(prefix))), nil
	}

	return content, nil
}

type compilerConfig struct {
	CompilerOptions struct {
		Paths map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

// rewriteConfig points the paths entry of tsconfig.json or jsconfig.json at src/
// and renames its key to the chosen alias. The file keeps its layout.
func rewriteConfig(name string, content []byte, opts InstallOptions) ([]byte, error) {
	var before compilerConfig
	if err := json.Unmarshal(manifest.NormalizeJSONC(content), &before); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if _, ok := before.CompilerOptions.Paths[custom_flags.DEFAULT_IMPORT_ALIAS]; !ok {
		return content, nil
	}

	target := lo.Ternary(opts.SrcDir, "./"+SRC_DIR+"/*", "./*")
	replacement := fmt.Sprintf(`%q${1}:${2}[${3}%q${4}]`, escapeTemplate(opts.ImportAlias), target)
	rewritten := defaultPathsEntry.ReplaceAll(content, []byte(replacement))

	var after compilerConfig
	if err := json.Unmarshal(manifest.NormalizeJSONC(rewritten), &after); err != nil {
		return nil, fmt.Errorf("failed to rewrite %s: %w", name, err)
	}
	if got := after.CompilerOptions.Paths[opts.ImportAlias]; len(got) != 1 || got[0] != target {
		return nil, fmt.Errorf("failed to rewrite %s: paths entry for %s is %v", name, opts.ImportAlias, got)
	}

	return rewritten, nil
}

// escapeTemplate keeps a literal $ in a regexp replacement template.
func escapeTemplate(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}
