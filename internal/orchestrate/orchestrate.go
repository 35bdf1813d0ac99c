// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package orchestrate runs the fixed batch-job sequence: clean the
// workspace, prepare the environment, optionally enter a virtual
// environment, fetch the repository manifest, import the repositories and
// delegate to the build-and-test step.
//
// Execution is strictly sequential; no step begins before the previous
// one's external process has exited. Each step is fatal unless explicitly
// marked advisory, in which case its failure is logged and the run
// continues.
package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/hashicorp/go-multierror"

	"github.com/matt-FFFFFF/stoop/internal/batchjob"
	"github.com/matt-FFFFFF/stoop/internal/color"
	"github.com/matt-FFFFFF/stoop/internal/ctxlog"
	"github.com/matt-FFFFFF/stoop/internal/envctx"
	"github.com/matt-FFFFFF/stoop/internal/executor"
	"github.com/matt-FFFFFF/stoop/internal/repofile"
	"github.com/matt-FFFFFF/stoop/internal/workspace"
)

const (
	defaultTerm     = "xterm-256color"
	ciDefaultBranch = "__ci_default"
	reposFileName   = "stoop.repos"
)

// Auxiliary tooling required by the later build and test steps.
var pipDependencies = []string{
	"nose",
	"pep8",
	"pyflakes",
	"flake8",
	"mock",
	"coverage",
	"EmPy",
	"vcstool",
}

// Seams for tests; stubbed with gostub.
var (
	newJob         = batchjob.New
	fetchRepoFile  = repofile.Fetch
	cleanWorkspace = workspace.Clean
	inDir          = envctx.InDir
)

var bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

// Run executes the whole batch job and returns the process exit status.
// A fatal step failure is returned as a *executor.FatalError carrying the
// failing command's exit status.
func Run(ctx context.Context, cfg *batchjob.Config, build BuildFunc, opts ...batchjob.Option) (int, error) {
	if cfg.ForceAnsiColor {
		color.Force()
	}

	cfg.ResolveSpaceNames()

	ctxlog.Info(ctx, "batch job configuration",
		"os", cfg.OS,
		"repoFileURL", cfg.RepoFileURL,
		"testBranch", cfg.TestBranch,
		"doVenv", cfg.DoVenv,
		"isolated", cfg.Isolated,
		"workspace", cfg.Workspace,
	)

	// Variant selection happens before any side effect so configuration
	// errors (venv on Windows) abort with zero subprocess calls.
	job, err := newJob(cfg, opts...)
	if err != nil {
		return 1, err
	}

	// Coerce colorized output from downstream tools.
	if _, err := envctx.EnsureEnv("TERM", defaultTerm); err != nil {
		return 1, err
	}

	if job.OS() == batchjob.OSWindows {
		// Tricks some tools (vcs among them) into emitting ANSI color codes.
		if err := envctx.SetEnv("ConEmuANSI", "ON"); err != nil {
			return 1, err
		}
	}

	banner("Using workspace: " + cfg.Workspace)

	if err := cleanWorkspace(ctx, cfg.Workspace); err != nil {
		return 1, err
	}

	if err := job.Pre(ctx); err != nil {
		return 1, err
	}

	if err := job.ShowEnv(ctx); err != nil {
		return 1, err
	}

	// Installing virtualenv tooling needs elevated privileges on Linux,
	// which are not assumed available; the host image must provide it.
	if job.OS() != batchjob.OSLinux {
		inv := executor.NewInvocation(job.Python(), "-m", "pip", "install", "-U", "virtualenv")
		if _, err := job.Run(ctx, inv); err != nil {
			return status(err), err
		}
	}

	result := 0

	err = inDir(cfg.Workspace, func() error {
		var err error
		result, err = insideWorkspace(ctx, cfg, job, build)

		return err
	})
	if err != nil {
		return status(err), err
	}

	return result, nil
}

// insideWorkspace is the portion of the sequence scoped to the workspace
// directory. The caller guarantees restoration of the previous working
// directory on every exit path.
func insideWorkspace(ctx context.Context, cfg *batchjob.Config, job batchjob.Job, build BuildFunc) (int, error) {
	advisory := &multierror.Error{}

	vcsCmd := []string{"vcs"}

	if cfg.DoVenv {
		inv := executor.NewInvocation(job.Python(), "-m", "virtualenv", "-p", job.Python(), "venv")
		if _, err := job.Run(ctx, inv); err != nil {
			return status(err), err
		}

		venvPath, err := filepath.Abs("venv")
		if err != nil {
			return 1, err
		}

		// Atomic from the caller's perspective: every step from here on
		// resolves the new bindings at call time.
		run, python := batchjob.VenvBindings(venvPath, job.Binding())
		job.PushRun(run)
		job.PushPython(python)

		if err := job.ShowEnv(ctx); err != nil {
			return status(err), err
		}

		// macOS can't invoke a script whose shebang line contains a space,
		// so vcs runs through the venv's interpreter explicitly.
		vcsCmd = []string{quote(job.Python()), quote(batchjob.VenvVcs(venvPath))}
	}

	// Upgrade packaging tooling.
	inv := executor.NewInvocation(quote(job.Python()), "-m", "pip", "install", "-U", "pip", "setuptools").WithShell()
	if _, err := job.Run(ctx, inv); err != nil {
		return status(err), err
	}

	// Diagnostic versions, informational only.
	runAdvisory(ctx, job, advisory,
		executor.NewInvocation(quote(job.Python()), "-c", `"import setuptools; print(setuptools.__version__)"`).WithShell().Advisory())
	runAdvisory(ctx, job, advisory,
		executor.NewInvocation(quote(job.Python()), "-m", "pip", "--version").WithShell().Advisory())

	// Install auxiliary tooling needed by the build and test steps.
	args := slices.Concat([]string{quote(job.Python()), "-m", "pip", "install", "-U"}, pipDependencies)
	if _, err := job.Run(ctx, executor.NewInvocation(args...).WithShell()); err != nil {
		return status(err), err
	}

	// Fetch the repository manifest and show it for audit.
	if err := fetchRepoFile(ctx, cfg.RepoFileURL, reposFileName); err != nil {
		return 1, err
	}

	if err := printManifest(ctx); err != nil {
		return 1, err
	}

	if err := workspace.EnsureDir(cfg.SourceSpace); err != nil {
		return 1, err
	}

	inv = executor.NewInvocation(slices.Concat(vcsCmd, []string{"import", quote(cfg.SourceSpace), "--input", reposFileName})...).WithShell()
	if _, err := job.Run(ctx, inv); err != nil {
		return status(err), err
	}

	if cfg.TestBranch != "" {
		if err := switchBranches(ctx, cfg, job, vcsCmd, advisory); err != nil {
			return status(err), err
		}
	}

	// Latest commit per repository, for reproducibility.
	inv = executor.NewInvocation(slices.Concat(vcsCmd, []string{"log", "-l1", quote(cfg.SourceSpace)})...).WithShell()
	if _, err := job.Run(ctx, inv); err != nil {
		return status(err), err
	}

	if err := job.SetupEnv(ctx); err != nil {
		return status(err), err
	}

	if err := advisory.ErrorOrNil(); err != nil {
		ctxlog.Warn(ctx, "advisory steps reported failures", "error", err)
	}

	return build(ctx, cfg, job)
}

// switchBranches tags the default branches with a well-known name, attempts
// to switch every repository to the test branch and rebases onto the tag.
// Only the middle step is advisory: some repositories legitimately lack the
// test branch.
func switchBranches(ctx context.Context, cfg *batchjob.Config, job batchjob.Job, vcsCmd []string, advisory *multierror.Error) error {
	banner("Attempting to create a well known branch name for all the default branches")

	inv := executor.NewInvocation(slices.Concat(vcsCmd, []string{"custom", ".", "--git", "--args", "checkout", "-b", ciDefaultBranch})...).WithShell()
	if _, err := job.Run(ctx, inv); err != nil {
		return err
	}

	banner(fmt.Sprintf("Attempting to switch all repositories to the %q branch", cfg.TestBranch))

	inv = executor.NewInvocation(slices.Concat(vcsCmd, []string{"custom", ".", "--args", "checkout", cfg.TestBranch})...).Advisory()
	runAdvisory(ctx, job, advisory, inv)

	banner(fmt.Sprintf("Attempting to rebase all repositories to the %q branch", ciDefaultBranch))

	inv = executor.NewInvocation(slices.Concat(vcsCmd, []string{"custom", ".", "--git", "--args", "rebase", ciDefaultBranch})...)
	if _, err := job.Run(ctx, inv); err != nil {
		return err
	}

	return nil
}

// runAdvisory executes a non-fatal invocation, logging a nonzero status and
// recording it for the end-of-run summary.
func runAdvisory(ctx context.Context, job batchjob.Job, advisory *multierror.Error, inv *executor.Invocation) {
	code, err := job.Run(ctx, inv)
	if err != nil {
		// Advisory invocations don't produce FatalError; anything else is a
		// spawn failure worth surfacing, but still not fatal to the run.
		ctxlog.Warn(ctx, "advisory command could not run", "command", inv.String(), "error", err)
		*advisory = *multierror.Append(advisory, err)

		return
	}

	if code != 0 {
		ctxlog.Warn(ctx, "advisory command failed", "command", inv.String(), "exitCode", code)
		*advisory = *multierror.Append(advisory, fmt.Errorf("%q returned exit code %d", inv.String(), code))
	}
}

// printManifest shows the fetched manifest contents and the repository
// names it lists.
func printManifest(ctx context.Context) error {
	data, err := workspace.ReadFile(reposFileName)
	if err != nil {
		return err
	}

	banner(fmt.Sprintf("Contents of %q:", reposFileName))
	fmt.Println(string(data))

	names, err := repofile.Names(data)
	if err != nil {
		// The schema is owned by the vcs tool; an unparseable manifest is
		// its problem to report, not ours.
		ctxlog.Warn(ctx, "could not list repository names", "error", err)
		return nil
	}

	ctxlog.Info(ctx, "repositories in manifest", "count", len(names), "names", names)

	return nil
}

// status maps a step error to the process exit status.
func status(err error) int {
	fatal := &executor.FatalError{}
	if errors.As(err, &fatal) {
		return fatal.ExitCode
	}

	return 1
}

func banner(msg string) {
	text := "==> " + msg
	if color.Enabled() {
		text = bannerStyle.Render(text)
	}

	fmt.Fprintln(os.Stdout, text)
}

// quote wraps a path for shell interpretation; workspace path names may
// contain white space.
func quote(s string) string {
	return `"` + s + `"`
}
