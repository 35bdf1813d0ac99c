// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package batchjob

import (
	"context"

	"github.com/matt-FFFFFF/stoop/internal/ctxlog"
	"github.com/matt-FFFFFF/stoop/internal/executor"
)

// linuxJob is the Linux variant. Virtualenv tooling installation is skipped
// for this variant: it would need elevated privileges, which are not assumed
// available, so the host or container image must provide a modern virtualenv.
type linuxJob struct {
	*baseJob
}

func (j *linuxJob) Pre(ctx context.Context) error {
	ctxlog.Debug(ctx, "pre-run hook", "os", OSLinux)
	return nil
}

func (j *linuxJob) ShowEnv(ctx context.Context) error {
	return j.showEnv(ctx)
}

func (j *linuxJob) SetupEnv(ctx context.Context) error {
	ctxlog.Debug(ctx, "setup-env hook", "os", OSLinux)
	return nil
}

// darwinJob is the macOS variant.
type darwinJob struct {
	*baseJob
}

func (j *darwinJob) Pre(ctx context.Context) error {
	ctxlog.Debug(ctx, "pre-run hook", "os", OSDarwin)
	return nil
}

func (j *darwinJob) ShowEnv(ctx context.Context) error {
	return j.showEnv(ctx)
}

func (j *darwinJob) SetupEnv(ctx context.Context) error {
	ctxlog.Debug(ctx, "setup-env hook", "os", OSDarwin)
	return nil
}

// windowsJob is the Windows variant.
type windowsJob struct {
	*baseJob
}

func (j *windowsJob) Pre(ctx context.Context) error {
	ctxlog.Debug(ctx, "pre-run hook", "os", OSWindows)
	return nil
}

func (j *windowsJob) ShowEnv(ctx context.Context) error {
	return j.showEnv(ctx)
}

// SetupEnv forces every later invocation through cmd.exe so that batch-file
// sourcing and PATH resolution behave the way the build tool expects. The
// wrapper layers on the binding active at setup time; an earlier rebind
// (e.g. a venv wrapper) stays in effect underneath.
func (j *windowsJob) SetupEnv(ctx context.Context) error {
	ctxlog.Debug(ctx, "setup-env hook", "os", OSWindows)

	base := j.Binding()
	j.PushRun(func(ctx context.Context, inv *executor.Invocation) (int, error) {
		shelled := inv.Clone()
		shelled.Shell = true

		return base(ctx, shelled)
	})

	return nil
}
