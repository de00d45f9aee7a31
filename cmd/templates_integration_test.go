package cmd_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/louiss0/create-next-app/internal/testharness"
	"github.com/louiss0/create-next-app/templates"
)

const SCENARIO_TIMEOUT = 2 * time.Minute

// spawn runs create-next-app in cwd and waits for it to exit successfully.
func spawn(ctx SpecContext, args []string, opts testharness.Options, feed string) {
	p := testharness.CreateNextApp(GinkgoT(), args, opts)

	if feed != "" {
		Expect(p.WriteStdin(feed)).To(Succeed())
	}

	exitCode, err := testharness.SpawnExitPromise(ctx, p)
	Expect(err).NotTo(HaveOccurred())
	Expect(exitCode).To(Equal(0), p.Output())
}

var _ = Describe("create-next-app templates", func() {
	if !testharness.Enabled() {
		It("should skip when -cna is not set", func() {})
		return
	}

	It("should prompt user to choose if --ts or --js is not provided", func(ctx SpecContext) {
		testharness.UseTempDir(GinkgoT(), func(cwd string) {
			projectName := "choose-ts-js"

			spawn(ctx, []string{projectName, "--eslint", "--no-src-dir", "--no-experimental-app"}, testharness.Options{Cwd: cwd}, "N\n")

			// Declining TypeScript gives a JavaScript project.
			testharness.ProjectFilesShouldExist(GinkgoT(), testharness.ProjectFiles{
				Cwd:         cwd,
				ProjectName: projectName,
				Files:       []string{"jsconfig.json"},
			})
			testharness.ProjectFilesShouldNotExist(GinkgoT(), testharness.ProjectFiles{
				Cwd:         cwd,
				ProjectName: projectName,
				Files:       []string{"tsconfig.json"},
			})
			testharness.ShouldBeJavascriptProject(GinkgoT(), testharness.TemplateProject{
				Cwd: cwd, ProjectName: projectName, Template: templates.DEFAULT, ESLint: true,
			})
		})
	}, SpecTimeout(SCENARIO_TIMEOUT))

	It("should create TS projects with --ts, --typescript", func(ctx SpecContext) {
		testharness.UseTempDir(GinkgoT(), func(cwd string) {
			projectName := "typescript-test"

			spawn(ctx, []string{projectName, "--ts", "--eslint", "--no-src-dir", "--no-experimental-app"}, testharness.Options{Cwd: cwd}, "")

			testharness.ShouldBeTypescriptProject(GinkgoT(), testharness.TemplateProject{
				Cwd: cwd, ProjectName: projectName, Template: templates.DEFAULT, ESLint: true,
			})
		})
	}, SpecTimeout(SCENARIO_TIMEOUT))

	It("should create TS projects with --ts, --typescript --src-dir", func(ctx SpecContext) {
		testharness.UseTempDir(GinkgoT(), func(cwd string) {
			projectName := "typescript-test"

			spawn(ctx, []string{projectName, "--ts", "--eslint", "--src-dir", "--no-experimental-app"}, testharness.Options{Cwd: cwd}, "")

			testharness.ShouldBeTypescriptProject(GinkgoT(), testharness.TemplateProject{
				Cwd: cwd, ProjectName: projectName, Template: templates.DEFAULT, SrcDir: true, ESLint: true,
			})
		})
	}, SpecTimeout(SCENARIO_TIMEOUT))

	It("should create TS projects with --ts, --typescript with CI=1", func(ctx SpecContext) {
		testharness.UseTempDir(GinkgoT(), func(cwd string) {
			projectName := "typescript-test"

			spawn(ctx, []string{projectName, "--ts", "--eslint"}, testharness.Options{
				Cwd: cwd,
				Env: map[string]string{"CI": "1", "GITHUB_ACTIONS": "1"},
			}, "")

			testharness.ShouldBeTypescriptProject(GinkgoT(), testharness.TemplateProject{
				Cwd: cwd, ProjectName: projectName, Template: templates.DEFAULT, ESLint: true,
			})
		})
	}, SpecTimeout(SCENARIO_TIMEOUT))

	It("should create JS projects with --js, --javascript", func(ctx SpecContext) {
		testharness.UseTempDir(GinkgoT(), func(cwd string) {
			projectName := "javascript-test"

			spawn(ctx, []string{projectName, "--js", "--eslint", "--no-src-dir", "--no-experimental-app"}, testharness.Options{Cwd: cwd}, "")

			testharness.ShouldBeJavascriptProject(GinkgoT(), testharness.TemplateProject{
				Cwd: cwd, ProjectName: projectName, Template: templates.DEFAULT, ESLint: true,
			})
		})
	}, SpecTimeout(SCENARIO_TIMEOUT))

	It("should create JS projects with --js, --javascript --src-dir", func(ctx SpecContext) {
		testharness.UseTempDir(GinkgoT(), func(cwd string) {
			projectName := "javascript-test"

			spawn(ctx, []string{projectName, "--js", "--eslint", "--src-dir", "--no-experimental-app"}, testharness.Options{Cwd: cwd}, "")

			testharness.ShouldBeJavascriptProject(GinkgoT(), testharness.TemplateProject{
				Cwd: cwd, ProjectName: projectName, Template: templates.DEFAULT, SrcDir: true, ESLint: true,
			})
		})
	}, SpecTimeout(SCENARIO_TIMEOUT))
})

var _ = Describe("create-next-app --experimental-app", func() {
	if !testharness.Enabled() {
		It("should skip when -cna is not set", func() {})
		return
	}

	It("should create TS appDir projects with --ts", func(ctx SpecContext) {
		testharness.UseTempDir(GinkgoT(), func(cwd string) {
			projectName := "appdir-test"

			spawn(ctx, []string{projectName, "--ts", "--experimental-app", "--eslint", "--no-src-dir", "--no-experimental-app"}, testharness.Options{Cwd: cwd}, "")

			testharness.ShouldBeTemplateProject(GinkgoT(), testharness.TemplateProject{
				Cwd: cwd, ProjectName: projectName, Template: templates.APP, Mode: templates.TS, ESLint: true,
			})
		})
	}, SpecTimeout(SCENARIO_TIMEOUT))

	It("should create JS appDir projects with --js", func(ctx SpecContext) {
		testharness.UseTempDir(GinkgoT(), func(cwd string) {
			projectName := "appdir-test"

			spawn(ctx, []string{projectName, "--js", "--experimental-app", "--eslint", "--no-src-dir", "--no-experimental-app"}, testharness.Options{Cwd: cwd}, "")

			testharness.ShouldBeTemplateProject(GinkgoT(), testharness.TemplateProject{
				Cwd: cwd, ProjectName: projectName, Template: templates.APP, Mode: templates.JS, ESLint: true,
			})
		})
	}, SpecTimeout(SCENARIO_TIMEOUT))

	It("should create JS appDir projects with --js --src-dir", func(ctx SpecContext) {
		testharness.UseTempDir(GinkgoT(), func(cwd string) {
			projectName := "appdir-test"

			spawn(ctx, []string{projectName, "--js", "--experimental-app", "--eslint", "--src-dir"}, testharness.Options{Cwd: cwd, Inherit: true}, "")

			testharness.ShouldBeTemplateProject(GinkgoT(), testharness.TemplateProject{
				Cwd: cwd, ProjectName: projectName, Template: templates.APP, Mode: templates.JS, SrcDir: true, ESLint: true,
			})
		})
	}, SpecTimeout(SCENARIO_TIMEOUT))
})
