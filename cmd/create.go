package cmd

import (
	// standard library
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	// external
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// internal
	"github.com/louiss0/create-next-app/build_info"
	"github.com/louiss0/create-next-app/custom_errors"
	"github.com/louiss0/create-next-app/custom_flags"
	"github.com/louiss0/create-next-app/detect"
	"github.com/louiss0/create-next-app/env"
	"github.com/louiss0/create-next-app/internal/config"
	"github.com/louiss0/create-next-app/internal/gitinit"
	"github.com/louiss0/create-next-app/internal/manifest"
	"github.com/louiss0/create-next-app/internal/preferences"
	"github.com/louiss0/create-next-app/internal/projectdir"
	"github.com/louiss0/create-next-app/prompt"
	"github.com/louiss0/create-next-app/services"
	"github.com/louiss0/create-next-app/templates"
)

const UPDATE_CHECK_TIMEOUT = 3 * time.Second

// creator carries one invocation of the root command through every step.
type creator struct {
	c               *cobra.Command
	deps            Dependencies
	cfg             config.Config
	importAliasFlag custom_flags.ImportAliasFlag
	goEnv           env.GoEnv
	debugExecutor   DebugExecutor
	ci              bool
	responder       prompt.Responder
	out             io.Writer
}

func newCreator(c *cobra.Command, deps Dependencies, cfg config.Config, importAliasFlag custom_flags.ImportAliasFlag) *creator {
	in := c.InOrStdin()
	out := c.OutOrStdout()

	return &creator{
		c:               c,
		deps:            deps,
		cfg:             cfg,
		importAliasFlag: importAliasFlag,
		goEnv:           env.NewGoEnv(),
		debugExecutor:   deps.NewDebugExecutor(cfg.Debug),
		ci:              env.IsCI(deps.LookupEnv),
		responder:       deps.NewPromptResponder(in, out, deps.IsInteractive(in)),
		out:             out,
	}
}

func (cr *creator) run(args []string) error {
	flags := cr.c.Flags()
	store := preferences.NewStore(cr.deps.Fs, cr.cfg.ConfigDir)

	cr.debugExecutor.LogDebugMessageIfDebugIsTrue("Resolved configuration",
		"ci", cr.ci,
		"skipInstall", cr.cfg.SkipInstall,
		"disableGit", cr.cfg.DisableGit,
		"configDir", cr.cfg.ConfigDir,
	)

	if reset, _ := flags.GetBool(RESET_PREFERENCES_FLAG); reset {
		if err := store.Reset(); err != nil {
			return err
		}
		fmt.Fprintln(cr.out, "Preferences reset successfully")
		if len(args) == 0 {
			return nil
		}
	}

	name, err := cr.projectName(args)
	if err != nil {
		return err
	}

	cwd, err := cr.deps.Getwd()
	if err != nil {
		return err
	}

	root := name
	if !filepath.IsAbs(root) {
		root = filepath.Join(cwd, name)
	}
	appName := filepath.Base(root)

	if err := projectdir.ValidateName(appName); err != nil {
		return err
	}
	if err := projectdir.EnsureWriteable(cr.deps.Fs, filepath.Dir(root)); err != nil {
		return err
	}
	if err := projectdir.EnsureEmpty(cr.deps.Fs, root); err != nil {
		return err
	}

	prefs, err := store.Load()
	if err != nil {
		log.Warn("Ignoring stored preferences", "error", err)
		prefs = preferences.Preferences{}
	}

	resolver := &optionResolver{ci: cr.ci, responder: cr.responder, prefs: prefs}
	opts, err := resolver.resolve(flags, cr.importAliasFlag)
	if err != nil {
		return err
	}
	cr.debugExecutor.LogDebugMessageIfDebugIsTrue("Resolved project options",
		"typescript", opts.TypeScript,
		"eslint", opts.ESLint,
		"srcDir", opts.SrcDir,
		"experimentalApp", opts.ExperimentalApp,
		"importAlias", opts.ImportAlias,
	)

	if resolver.answered {
		if err := store.Save(resolver.prefs); err != nil {
			log.Warn("Could not remember your answers", "error", err)
		}
	}

	pm, err := detect.ResolvePackageManager(explicitPackageManager(flags), cr.deps.LookupEnv)
	if err != nil {
		return err
	}
	cr.debugExecutor.LogDebugMessageIfDebugIsTrue("Package manager selected", "pm", pm)

	if err := cr.scaffold(root, appName, opts); err != nil {
		return err
	}

	if err := cr.install(root, pm); err != nil {
		log.Error("The project was created but its dependencies were not installed", "path", root)
		return err
	}

	cr.initGit(root)

	printSuccess(cr.out, appName, root, cwd, pm)

	cr.checkForUpdate(pm)

	return nil
}

func (cr *creator) projectName(args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}

	if cr.ci {
		return "", custom_errors.CreateInvalidArgumentErrorWithMessage(
			fmt.Sprintf("%s, for example: %s %s", custom_errors.ErrMissingProjectName, cr.c.Name(), DEFAULT_PROJECT_NAME),
		)
	}

	name, err := cr.responder.Text(PROJECT_NAME_QUESTION, DEFAULT_PROJECT_NAME, func(answer string) error {
		return projectdir.ValidateName(filepath.Base(filepath.Clean(answer)))
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(name), nil
}

func (cr *creator) scaffold(root, appName string, opts projectOptions) error {
	if err := cr.deps.Fs.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", root, err)
	}

	printCreating(cr.out, root)

	written, err := templates.Install(cr.deps.Fs, templates.InstallOptions{
		Root:        root,
		Variant:     opts.variant(),
		Mode:        opts.mode(),
		ESLint:      opts.ESLint,
		SrcDir:      opts.SrcDir,
		ImportAlias: opts.ImportAlias,
	})
	if err != nil {
		return err
	}
	cr.debugExecutor.LogDebugMessageIfDebugIsTrue("Template installed", "files", len(written))

	pkg := manifest.Build(manifest.Options{
		Name:       appName,
		TypeScript: opts.TypeScript,
		ESLint:     opts.ESLint,
	})
	if err := manifest.Write(cr.deps.Fs, root, pkg); err != nil {
		return err
	}

	cr.goEnv.ExecuteIfModeIsProduction(func() {
		log.Info("Wrote package.json", "hash", manifest.Hash(pkg))
	})

	return nil
}

func (cr *creator) install(root, pm string) error {
	if cr.cfg.SkipInstall {
		cr.debugExecutor.LogDebugMessageIfDebugIsTrue("Skipping dependency installation")
		return nil
	}

	if err := detect.EnsureAvailable(pm, cr.deps.PathLookup); err != nil {
		return err
	}

	deps, err := manifest.Dependencies(cr.deps.Fs, root)
	if err != nil {
		return err
	}

	fmt.Fprintf(cr.out, "Installing dependencies with %s:\n", pm)
	for _, dep := range deps {
		fmt.Fprintf(cr.out, "- %s\n", dep)
	}
	fmt.Fprintln(cr.out)

	runner := cr.deps.CommandRunnerGetter()
	if err := runner.SetTargetDir(root); err != nil {
		return err
	}

	program, argv := detect.InstallCommand(pm)
	cr.debugExecutor.LogCommandIfDebugIsTrue(program, argv...)
	runner.Command(program, argv...)

	if err := runner.Run(); err != nil {
		return fmt.Errorf("failed to install dependencies with %s: %w", pm, err)
	}
	return nil
}

func (cr *creator) initGit(root string) {
	if cr.cfg.DisableGit {
		cr.debugExecutor.LogDebugMessageIfDebugIsTrue("Skipping git initialization")
		return
	}

	runner := cr.deps.CommandRunnerGetter()
	runner.SetOutput(io.Discard, io.Discard)

	result, err := gitinit.Init(cr.deps.Fs, root, runner, cr.deps.PathLookup)
	if err != nil {
		log.Warn("Could not initialize a git repository", "error", err)
		return
	}

	if result == gitinit.Initialized {
		fmt.Fprintln(cr.out, "Initialized a git repository.")
		return
	}
	cr.debugExecutor.LogDebugMessageIfDebugIsTrue("Skipped git initialization", "reason", result.String())
}

func (cr *creator) checkForUpdate(pm string) {
	if cr.cfg.SkipUpdateCheck || cr.ci || build_info.IsDevBuild() {
		return
	}

	ctx, cancel := context.WithTimeout(cr.c.Context(), UPDATE_CHECK_TIMEOUT)
	defer cancel()

	notice, err := services.CheckForUpdate(ctx, cr.deps.NewRegistryService(cr.cfg.Registry), build_info.CLI_VERSION.String())
	if err != nil {
		cr.debugExecutor.LogDebugMessageIfDebugIsTrue("Update check failed", "error", err)
		return
	}
	if notice != nil {
		printUpdateNotice(cr.out, notice, pm)
	}
}
