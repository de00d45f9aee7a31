package cmd_test

import (
	"errors"
	"io"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	testifyMock "github.com/stretchr/testify/mock"

	"github.com/louiss0/create-next-app/cmd"
	"github.com/louiss0/create-next-app/custom_errors"
	"github.com/louiss0/create-next-app/detect"
	"github.com/louiss0/create-next-app/internal/gitinit"
	"github.com/louiss0/create-next-app/internal/preferences"
	"github.com/louiss0/create-next-app/mock"
	"github.com/louiss0/create-next-app/testutil"
)

const CONFIG_DIR = "/home/user/.config"

var _ = Describe("create-next-app", func() {
	var (
		assertT *assert.Assertions
		runner  *mock.MockCommandRunner
		factory *testutil.RootCommandFactory
		fs      afero.Fs
	)

	projectPath := func(name string, parts ...string) string {
		return filepath.Join(append([]string{testutil.WORKING_DIR, name}, parts...)...)
	}

	readFile := func(path string) string {
		content, err := afero.ReadFile(fs, path)
		Expect(err).NotTo(HaveOccurred())
		return string(content)
	}

	exists := func(path string) bool {
		ok, err := afero.Exists(fs, path)
		Expect(err).NotTo(HaveOccurred())
		return ok
	}

	execute := func(stdin string, args ...string) (string, error) {
		stdout, _, err := testutil.ExecuteCmd(factory.CreateRootCmd(), stdin, args...)
		return stdout, err
	}

	offline := []string{"--skip-install", "--disable-git"}

	BeforeEach(func() {
		assertT = assert.New(GinkgoT())
		runner = mock.NewMockCommandRunner()
		factory = testutil.NewRootCommandFactory(runner)
		fs = factory.Fs()

		GinkgoT().Setenv("CNA_CONFIG_DIR", CONFIG_DIR)
		for _, key := range []string{"CNA_SKIP_INSTALL", "CNA_DISABLE_GIT", "CNA_DEBUG"} {
			GinkgoT().Setenv(key, "")
		}
	})

	AfterEach(func() {
		runner.AssertExpectations(GinkgoT())
		factory.DebugExecutor().AssertExpectations(GinkgoT())
	})

	Describe("project generation from flags", func() {
		It("creates a flat TypeScript project with the default template", func() {
			stdout, err := execute("", append([]string{"typescript-test", "--ts", "--eslint", "--no-src-dir", "--no-experimental-app"}, offline...)...)
			Expect(err).NotTo(HaveOccurred())

			for _, file := range []string{"package.json", "tsconfig.json", "next-env.d.ts", ".eslintrc.json", ".gitignore", "README.md", "pages/index.tsx", "pages/api/hello.ts", "styles/globals.css"} {
				assertT.True(exists(projectPath("typescript-test", file)), file)
			}
			assertT.False(exists(projectPath("typescript-test", "src")))
			assertT.False(exists(projectPath("typescript-test", "jsconfig.json")))

			assertT.Contains(stdout, "Creating a new Next.js app in "+projectPath("typescript-test"))
			assertT.Contains(stdout, "Success! Created typescript-test at "+projectPath("typescript-test"))
			assertT.Contains(stdout, "cd typescript-test")
			assertT.Contains(stdout, "npm run dev")
		})

		It("accepts --typescript as well as --ts", func() {
			_, err := execute("", append([]string{"long-flag", "--typescript", "--eslint", "--no-src-dir", "--no-experimental-app"}, offline...)...)
			Expect(err).NotTo(HaveOccurred())
			assertT.True(exists(projectPath("long-flag", "tsconfig.json")))
		})

		It("nests JavaScript sources under src/ with --js --src-dir", func() {
			_, err := execute("", append([]string{"javascript-test", "--js", "--eslint", "--src-dir", "--no-experimental-app"}, offline...)...)
			Expect(err).NotTo(HaveOccurred())

			assertT.True(exists(projectPath("javascript-test", "src", "pages", "index.js")))
			assertT.True(exists(projectPath("javascript-test", "src", "styles", "Home.module.css")))
			assertT.False(exists(projectPath("javascript-test", "pages")))
			assertT.False(exists(projectPath("javascript-test", "tsconfig.json")))
			assertT.Contains(readFile(projectPath("javascript-test", "jsconfig.json")), `"@/*": ["./src/*"]`)
		})

		It("lets the enabling form of a toggle win over the disabling one", func() {
			_, err := execute("", append([]string{"appdir-test", "--ts", "--experimental-app", "--eslint", "--no-src-dir", "--no-experimental-app"}, offline...)...)
			Expect(err).NotTo(HaveOccurred())

			assertT.True(exists(projectPath("appdir-test", "app", "layout.tsx")))
			assertT.True(exists(projectPath("appdir-test", "app", "page.tsx")))
			assertT.False(exists(projectPath("appdir-test", "pages", "index.tsx")))
			assertT.Contains(readFile(projectPath("appdir-test", "next.config.js")), "appDir: true")
		})

		It("treats explicit false values as answers instead of prompting", func() {
			factory.SetResponder(&mock.MockResponder{})

			_, err := execute("", append([]string{"explicit-false", "--ts=false", "--eslint=false", "--src-dir=false", "--no-experimental-app=false", "--import-alias", "@/*"}, offline...)...)
			Expect(err).NotTo(HaveOccurred())

			assertT.True(exists(projectPath("explicit-false", "jsconfig.json")))
			assertT.False(exists(projectPath("explicit-false", "tsconfig.json")))
			assertT.False(exists(projectPath("explicit-false", ".eslintrc.json")))
			assertT.False(exists(projectPath("explicit-false", "src")))
			assertT.True(exists(projectPath("explicit-false", "app", "page.js")))
		})

		It("omits the ESLint config with --no-eslint", func() {
			_, err := execute("", append([]string{"no-lint", "--js", "--no-eslint", "--no-src-dir", "--no-experimental-app"}, offline...)...)
			Expect(err).NotTo(HaveOccurred())

			assertT.False(exists(projectPath("no-lint", ".eslintrc.json")))
			assertT.NotContains(readFile(projectPath("no-lint", "package.json")), "eslint-config-next")
		})

		It("rewrites imports and paths for a custom import alias", func() {
			_, err := execute("", append([]string{"aliased", "--ts", "--eslint", "--no-src-dir", "--no-experimental-app", "--import-alias", "~/*"}, offline...)...)
			Expect(err).NotTo(HaveOccurred())

			assertT.Contains(readFile(projectPath("aliased", "tsconfig.json")), `"~/*": ["./*"]`)
			assertT.Contains(readFile(projectPath("aliased", "pages", "_app.tsx")), "'~/styles/globals.css'")
		})

		It("writes a package.json named after the project", func() {
			_, err := execute("", append([]string{"named-app", "--ts", "--eslint", "--no-src-dir", "--no-experimental-app"}, offline...)...)
			Expect(err).NotTo(HaveOccurred())

			pkg := readFile(projectPath("named-app", "package.json"))
			assertT.Contains(pkg, `"name": "named-app"`)
			assertT.Contains(pkg, `"typescript"`)
		})

		It("accepts an absolute project path", func() {
			Expect(fs.MkdirAll("/srv/sites", 0o755)).To(Succeed())

			_, err := execute("", append([]string{"/srv/sites/absolute-app", "--js", "--eslint", "--no-src-dir", "--no-experimental-app"}, offline...)...)
			Expect(err).NotTo(HaveOccurred())
			assertT.True(exists("/srv/sites/absolute-app/package.json"))
		})
	})

	Describe("flag validation", func() {
		DescribeTable("rejects conflicting flags",
			func(args ...string) {
				snapshot, err := testutil.SnapshotTree(fs, testutil.WORKING_DIR)
				Expect(err).NotTo(HaveOccurred())

				_, err = execute("", append([]string{"my-app"}, append(args, offline...)...)...)
				assertT.Error(err)

				testutil.AssertTreeUnchanged(GinkgoT(), snapshot)
			},
			Entry("typescript and javascript", "--ts", "--js"),
			Entry("two package managers", "--use-npm", "--use-pnpm"),
			Entry("an invalid import alias", "--ts", "--import-alias", "~"),
		)

		It("rejects more than one project directory", func() {
			_, err := execute("", "one", "two")
			assertT.Error(err)
		})
	})

	Describe("project directory checks", func() {
		It("rejects names npm would refuse", func() {
			snapshot, err := testutil.SnapshotTree(fs, testutil.WORKING_DIR)
			Expect(err).NotTo(HaveOccurred())

			_, err = execute("", append([]string{"My App", "--ts"}, offline...)...)
			assertT.ErrorIs(err, custom_errors.ErrInvalidProjectName)
			assertT.Contains(err.Error(), "name can no longer contain capital letters")

			testutil.AssertTreeUnchanged(GinkgoT(), snapshot)
		})

		It("refuses a directory holding conflicting files", func() {
			Expect(afero.WriteFile(fs, projectPath("taken", "package.json"), []byte("{}"), 0o644)).To(Succeed())

			_, err := execute("", append([]string{"taken", "--ts", "--eslint", "--no-src-dir", "--no-experimental-app"}, offline...)...)
			assertT.ErrorIs(err, custom_errors.ErrDirectoryNotEmpty)
			assertT.Contains(err.Error(), "package.json")
		})

		It("reuses a directory that only holds harmless files", func() {
			Expect(afero.WriteFile(fs, projectPath("harmless", "LICENSE"), []byte("MIT"), 0o644)).To(Succeed())

			_, err := execute("", append([]string{"harmless", "--ts", "--eslint", "--no-src-dir", "--no-experimental-app"}, offline...)...)
			Expect(err).NotTo(HaveOccurred())
			assertT.Equal("MIT", readFile(projectPath("harmless", "LICENSE")))
		})

		It("refuses a parent directory that cannot be written to", func() {
			base := afero.NewMemMapFs()
			Expect(base.MkdirAll(testutil.WORKING_DIR, 0o755)).To(Succeed())
			factory.SetFs(afero.NewReadOnlyFs(base))

			_, err := execute("", append([]string{"read-only", "--ts", "--eslint", "--no-src-dir", "--no-experimental-app"}, offline...)...)
			assertT.ErrorIs(err, custom_errors.ErrNotWriteable)
		})
	})

	Describe("CI mode", func() {
		BeforeEach(func() {
			factory.SetEnv("CI", "1").SetEnv("GITHUB_ACTIONS", "1")
			factory.SetResponder(&mock.MockResponder{})
		})

		It("uses the defaults without prompting", func() {
			_, err := execute("", append([]string{"ci-app"}, offline...)...)
			Expect(err).NotTo(HaveOccurred())

			assertT.True(exists(projectPath("ci-app", "tsconfig.json")))
			assertT.True(exists(projectPath("ci-app", ".eslintrc.json")))
			assertT.True(exists(projectPath("ci-app", "pages", "index.tsx")))
			assertT.False(exists(projectPath("ci-app", "src")))
			assertT.Contains(readFile(projectPath("ci-app", "tsconfig.json")), `"@/*": ["./*"]`)
		})

		It("still honours the flags it is given", func() {
			_, err := execute("", append([]string{"ci-js", "--js", "--src-dir"}, offline...)...)
			Expect(err).NotTo(HaveOccurred())
			assertT.True(exists(projectPath("ci-js", "src", "pages", "index.js")))
		})

		It("requires a project directory", func() {
			_, err := execute("", offline...)
			assertT.ErrorIs(err, custom_errors.ErrInvalidArgument)
			assertT.Contains(err.Error(), custom_errors.ErrMissingProjectName.Error())
		})

		It("does not remember anything", func() {
			_, err := execute("", append([]string{"ci-prefs"}, offline...)...)
			Expect(err).NotTo(HaveOccurred())
			assertT.False(exists(preferences.NewStore(fs, CONFIG_DIR).Path()))
		})
	})

	Describe("prompts", func() {
		var responder *mock.MockResponder

		BeforeEach(func() {
			responder = &mock.MockResponder{}
			factory.SetResponder(responder)
		})

		AfterEach(func() {
			responder.AssertExpectations(GinkgoT())
		})

		It("asks for every option that has no flag and remembers the answers", func() {
			responder.On("Confirm", cmd.TYPESCRIPT_QUESTION, true).Return(false, nil).Once()
			responder.On("Confirm", cmd.ESLINT_QUESTION, true).Return(true, nil).Once()
			responder.On("Confirm", cmd.SRC_DIR_QUESTION, false).Return(true, nil).Once()
			responder.On("Confirm", cmd.EXPERIMENTAL_APP_QUESTION, false).Return(false, nil).Once()
			responder.On("Text", cmd.IMPORT_ALIAS_QUESTION, "@/*").Return("#/*", nil).Once()

			_, err := execute("", append([]string{"prompted"}, offline...)...)
			Expect(err).NotTo(HaveOccurred())

			assertT.True(exists(projectPath("prompted", "src", "pages", "index.js")))
			assertT.Contains(readFile(projectPath("prompted", "jsconfig.json")), `"#/*": ["./src/*"]`)

			prefs, err := preferences.NewStore(fs, CONFIG_DIR).Load()
			Expect(err).NotTo(HaveOccurred())
			assertT.False(preferences.Bool(prefs.TypeScript, true))
			assertT.True(preferences.Bool(prefs.SrcDir, false))
			assertT.Equal("#/*", preferences.String(prefs.ImportAlias, ""))
		})

		It("offers the remembered answers as defaults", func() {
			Expect(preferences.NewStore(fs, CONFIG_DIR).Save(preferences.Preferences{
				TypeScript:  lo.ToPtr(false),
				ImportAlias: lo.ToPtr("~/*"),
			})).To(Succeed())

			responder.On("Confirm", cmd.TYPESCRIPT_QUESTION, false).Return(false, nil).Once()
			responder.On("Text", cmd.IMPORT_ALIAS_QUESTION, "~/*").Return("~/*", nil).Once()

			_, err := execute("", append([]string{"remembered", "--eslint", "--no-src-dir", "--no-experimental-app"}, offline...)...)
			Expect(err).NotTo(HaveOccurred())
			assertT.True(exists(projectPath("remembered", "jsconfig.json")))
		})

		It("asks for the project name when none is given", func() {
			responder.On("Text", cmd.PROJECT_NAME_QUESTION, cmd.DEFAULT_PROJECT_NAME).Return("prompted-name", nil).Once()

			_, err := execute("", append([]string{"--ts", "--eslint", "--no-src-dir", "--no-experimental-app", "--import-alias", "@/*"}, offline...)...)
			Expect(err).NotTo(HaveOccurred())
			assertT.True(exists(projectPath("prompted-name", "package.json")))
		})

		It("fails when the prompt fails", func() {
			responder.On("Confirm", cmd.TYPESCRIPT_QUESTION, true).Return(false, errors.New("user aborted")).Once()

			_, err := execute("", append([]string{"aborted", "--eslint", "--no-src-dir", "--no-experimental-app"}, offline...)...)
			assertT.ErrorContains(err, "user aborted")
			assertT.False(exists(projectPath("aborted")))
		})
	})

	Describe("answering prompts on stdin", func() {
		It("creates a JavaScript project when TypeScript is declined", func() {
			stdout, err := execute("N\n", append([]string{"choose-ts-js", "--eslint", "--no-src-dir", "--no-experimental-app"}, offline...)...)
			Expect(err).NotTo(HaveOccurred())

			assertT.Contains(stdout, cmd.TYPESCRIPT_QUESTION)
			assertT.True(exists(projectPath("choose-ts-js", "jsconfig.json")))
			assertT.False(exists(projectPath("choose-ts-js", "tsconfig.json")))
			assertT.Contains(readFile(projectPath("choose-ts-js", "jsconfig.json")), `"@/*"`)
		})

		It("creates a TypeScript project when TypeScript is accepted", func() {
			_, err := execute("y\n", append([]string{"choose-ts", "--eslint", "--no-src-dir", "--no-experimental-app"}, offline...)...)
			Expect(err).NotTo(HaveOccurred())
			assertT.True(exists(projectPath("choose-ts", "tsconfig.json")))
		})
	})

	Describe("package managers", func() {
		expectInstall := func(pm, root string) {
			runner.On("SetTargetDir", root).Return(nil).Once()
			runner.On("Command", pm, "install").Return().Once()
			runner.On("Run").Return(nil).Once()
		}

		It("installs with npm by default", func() {
			expectInstall(detect.NPM, projectPath("npm-app"))

			stdout, err := execute("", "npm-app", "--ts", "--eslint", "--no-src-dir", "--no-experimental-app", "--disable-git")
			Expect(err).NotTo(HaveOccurred())

			assertT.Contains(stdout, "Installing dependencies with npm:")
			assertT.Contains(stdout, "- next@")
			assertT.Contains(stdout, "- typescript@")
			assertT.Equal([]string{"npm install"}, runner.CommandLines())
			assertT.Equal(projectPath("npm-app"), runner.Calls[0].Dir)
		})

		DescribeTable("installs with the package manager a --use-* flag picks",
			func(flag, pm, devCommand string) {
				expectInstall(pm, projectPath("flagged"))

				stdout, err := execute("", "flagged", flag, "--js", "--eslint", "--no-src-dir", "--no-experimental-app", "--disable-git")
				Expect(err).NotTo(HaveOccurred())

				assertT.Equal([]string{pm + " install"}, runner.CommandLines())
				assertT.Contains(stdout, devCommand)
			},
			Entry("npm", "--use-npm", detect.NPM, "npm run dev"),
			Entry("pnpm", "--use-pnpm", detect.PNPM, "pnpm dev"),
			Entry("yarn", "--use-yarn", detect.YARN, "yarn dev"),
			Entry("bun", "--use-bun", detect.BUN, "bun dev"),
		)

		It("follows the package manager that launched it", func() {
			factory.SetEnv(detect.USER_AGENT_ENV_VAR, "yarn/1.22.19 npm/? node/v18.12.0 darwin x64")

			stdout, err := execute("", append([]string{"agent-app", "--ts", "--eslint", "--no-src-dir", "--no-experimental-app"}, offline...)...)
			Expect(err).NotTo(HaveOccurred())
			assertT.Contains(stdout, "yarn dev")
			assertT.NotContains(stdout, "npm run dev")
		})

		It("fails when the package manager is not installed", func() {
			factory.PathLookup().ExpectedLookPathResults[detect.BUN] = mock.LookPathResult{Error: errors.New("executable file not found in $PATH")}

			_, err := execute("", "missing-bun", "--use-bun", "--ts", "--eslint", "--no-src-dir", "--no-experimental-app", "--disable-git")
			assertT.ErrorIs(err, detect.ErrNoPackageManager)
			assertT.Empty(runner.CommandLines())
		})

		It("keeps the generated project when the install fails", func() {
			runner.On("SetTargetDir", projectPath("broken-install")).Return(nil).Once()
			runner.On("Command", detect.NPM, "install").Return().Once()
			runner.On("Run").Return(errors.New("exit status 1")).Once()

			stdout, err := execute("", "broken-install", "--ts", "--eslint", "--no-src-dir", "--no-experimental-app", "--disable-git")
			assertT.ErrorContains(err, "failed to install dependencies with npm")
			assertT.NotContains(stdout, "Success!")
			assertT.True(exists(projectPath("broken-install", "package.json")))
		})

		It("logs the install command in debug mode", func() {
			factory.UseStrictDebugExecutor()
			factory.DebugExpectations().ExpectCommandLog(detect.PNPM, "install")
			expectInstall(detect.PNPM, projectPath("debug-app"))

			_, err := execute("", "debug-app", "--debug", "--use-pnpm", "--ts", "--eslint", "--no-src-dir", "--no-experimental-app", "--disable-git")
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("git", func() {
		gitCommandLines := lo.Map(gitinit.Commands, func(args []string, _ int) string {
			return (mock.CommandCall{Name: detect.GIT, Args: args}).String()
		})

		It("creates the first commit", func() {
			root := projectPath("git-app")
			runner.On("SetOutput", io.Discard, io.Discard).Return().Once()
			runner.On("SetTargetDir", root).Return(nil).Once()
			for _, args := range gitinit.Commands {
				callArgs := lo.Map(append([]string{detect.GIT}, args...), func(arg string, _ int) interface{} { return arg })
				runner.On("Command", callArgs...).Return().Once()
			}
			runner.On("Run").Return(nil).Times(len(gitinit.Commands))

			stdout, err := execute("", "git-app", "--ts", "--eslint", "--no-src-dir", "--no-experimental-app", "--skip-install")
			Expect(err).NotTo(HaveOccurred())

			assertT.Contains(stdout, "Initialized a git repository.")
			assertT.Equal(gitCommandLines, runner.CommandLines())
		})

		It("leaves a project inside an existing repository alone", func() {
			Expect(fs.MkdirAll(filepath.Join(testutil.WORKING_DIR, ".git"), 0o755)).To(Succeed())
			runner.On("SetOutput", io.Discard, io.Discard).Return().Once()

			stdout, err := execute("", "nested-app", "--ts", "--eslint", "--no-src-dir", "--no-experimental-app", "--skip-install")
			Expect(err).NotTo(HaveOccurred())

			assertT.NotContains(stdout, "Initialized a git repository.")
			assertT.Empty(runner.CommandLines())
		})

		It("skips git when it is not installed", func() {
			factory.PathLookup().ExpectedLookPathResults[detect.GIT] = mock.LookPathResult{Error: errors.New("executable file not found in $PATH")}
			runner.On("SetOutput", io.Discard, io.Discard).Return().Once()

			_, err := execute("", "no-git", "--ts", "--eslint", "--no-src-dir", "--no-experimental-app", "--skip-install")
			Expect(err).NotTo(HaveOccurred())
			assertT.Empty(runner.CommandLines())
		})

		It("removes the repository and still succeeds when a git command fails", func() {
			root := projectPath("failing-git")
			runner.On("SetOutput", io.Discard, io.Discard).Return().Once()
			runner.On("SetTargetDir", root).Return(nil).Once()
			runner.On("Command", detect.GIT, "init").Return().Once().Run(func(testifyMock.Arguments) {
				Expect(fs.MkdirAll(filepath.Join(root, ".git"), 0o755)).To(Succeed())
			})
			runner.On("Command", detect.GIT, "checkout", "-b", "main").Return().Once()
			runner.On("Run").Return(nil).Once()
			runner.On("Run").Return(errors.New("exit status 128")).Once()

			stdout, err := execute("", "failing-git", "--ts", "--eslint", "--no-src-dir", "--no-experimental-app", "--skip-install")
			Expect(err).NotTo(HaveOccurred())

			assertT.Contains(stdout, "Success!")
			assertT.False(exists(filepath.Join(root, ".git")))
		})
	})

	Describe("--reset-preferences", func() {
		var store *preferences.Store

		BeforeEach(func() {
			store = preferences.NewStore(fs, CONFIG_DIR)
			Expect(store.Save(preferences.Preferences{SrcDir: lo.ToPtr(true)})).To(Succeed())
		})

		It("forgets the stored answers and exits without a project directory", func() {
			stdout, err := execute("", "--reset-preferences")
			Expect(err).NotTo(HaveOccurred())

			assertT.Contains(stdout, "Preferences reset successfully")
			assertT.False(exists(store.Path()))
		})

		It("continues with the project when one is given", func() {
			stdout, err := execute("", append([]string{"after-reset", "--reset-preferences", "--ts", "--eslint", "--no-src-dir", "--no-experimental-app", "--import-alias", "@/*"}, offline...)...)
			Expect(err).NotTo(HaveOccurred())

			assertT.Contains(stdout, "Preferences reset successfully")
			assertT.True(exists(projectPath("after-reset", "package.json")))
		})
	})

	Describe("configuration from the environment", func() {
		It("skips the install and git with CNA_ variables", func() {
			GinkgoT().Setenv("CNA_SKIP_INSTALL", "1")
			GinkgoT().Setenv("CNA_DISABLE_GIT", "true")

			stdout, err := execute("", "env-config", "--ts", "--eslint", "--no-src-dir", "--no-experimental-app")
			Expect(err).NotTo(HaveOccurred())

			assertT.NotContains(stdout, "Installing dependencies")
			assertT.Empty(runner.CommandLines())
		})
	})
})
