// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package orchestrate

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/matt-FFFFFF/stoop/internal/batchjob"
	"github.com/matt-FFFFFF/stoop/internal/ctxlog"
	"github.com/matt-FFFFFF/stoop/internal/executor"
)

// BuildFunc is the injected build-and-test step. It receives the
// configuration and the batch job and returns the step's exit status.
type BuildFunc func(ctx context.Context, cfg *batchjob.Config, job batchjob.Job) (int, error)

// AmentBuildAndTest is the default build-and-test step: ament build (fatal
// on failure), ament test (advisory), ament test_results (advisory).
//
// It returns success regardless of the test and result-collection outcomes:
// a build failure is the only failure that halts the pipeline. Set
// Config.FailOnTestError to propagate test failures into the status instead.
func AmentBuildAndTest(ctx context.Context, cfg *batchjob.Config, job batchjob.Job) (int, error) {
	amentPy := quote(filepath.Join(".", cfg.SourceSpace, "ament", "ament_tools", "scripts", "ament.py"))

	var isolated []string
	if cfg.Isolated {
		isolated = []string{"--isolated"}
	}

	buildArgs := slices.Concat(
		[]string{
			quote(job.Python()), "-u", amentPy, "build", "--build-tests",
			"--build-space", quote(cfg.BuildSpace),
			"--install-space", quote(cfg.InstallSpace),
			quote(cfg.SourceSpace),
		},
		isolated,
		cfg.AmentArgs,
	)
	if _, err := job.Run(ctx, executor.NewInvocation(buildArgs...).WithShell()); err != nil {
		return status(err), err
	}

	testArgs := slices.Concat(
		[]string{
			quote(job.Python()), "-u", amentPy, "test",
			"--build-space", quote(cfg.BuildSpace),
			"--install-space", quote(cfg.InstallSpace),
			// Skip building and installing, that just happened successfully.
			"--skip-build", "--skip-install",
			quote(cfg.SourceSpace),
		},
		isolated,
		cfg.AmentArgs,
	)

	retTest, err := job.Run(ctx, executor.NewInvocation(testArgs...).WithShell().Advisory())
	if err != nil {
		return 1, err
	}

	ctxlog.Info(ctx, "ament test returned", "exitCode", retTest)

	resultArgs := []string{quote(job.Python()), "-u", amentPy, "test_results", quote(cfg.BuildSpace)}

	retResults, err := job.Run(ctx, executor.NewInvocation(resultArgs...).WithShell().Advisory())
	if err != nil {
		return 1, err
	}

	ctxlog.Info(ctx, "ament test_results returned", "exitCode", retResults)

	if cfg.FailOnTestError && (retTest != 0 || retResults != 0) {
		return 1, nil
	}

	return 0, nil
}
