// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package batchjob provides the polymorphic batch-job core: one job variant
// per supported operating system, each owning the environment context for
// the duration of a single run and supplying OS-specific lifecycle hooks.
//
// A job's variant identity never changes mid-run; only its execution
// bindings do, e.g. when entering a virtual environment.
package batchjob

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/matt-FFFFFF/stoop/internal/ctxlog"
	"github.com/matt-FFFFFF/stoop/internal/envctx"
	"github.com/matt-FFFFFF/stoop/internal/executor"
)

// Supported OS variant names. These follow runtime.GOOS.
const (
	OSLinux   = "linux"
	OSDarwin  = "darwin"
	OSWindows = "windows"
)

var (
	// ErrVenvOnWindows is returned when a virtual environment is requested on
	// the Windows variant. Detected before any side-effecting step runs.
	ErrVenvOnWindows = errors.New("virtual environments are not supported on windows")
	// ErrUnsupportedOS is returned for OS names outside the closed variant set.
	ErrUnsupportedOS = errors.New("unsupported operating system")
)

// Job is one batch job, polymorphic over the OS variants.
// The three lifecycle hooks carry the OS-specific behavior; everything else
// is generic and delegates to the owned environment context.
type Job interface {
	// OS returns the variant name, one of OSLinux, OSDarwin, OSWindows.
	OS() string
	// Pre is the OS-specific preparatory hook. A no-op is a valid implementation.
	Pre(ctx context.Context) error
	// ShowEnv prints the environment for diagnostics. It must not mutate state.
	ShowEnv(ctx context.Context) error
	// SetupEnv layers any additional environment sourcing needed by the build
	// step. It composes with the current run binding, never replaces it.
	SetupEnv(ctx context.Context) error
	// Run executes the invocation through the currently active run binding.
	Run(ctx context.Context, inv *executor.Invocation) (int, error)
	// Binding returns the currently active run binding for composition.
	Binding() envctx.RunFunc
	// PushRun replaces the active run binding for all future invocations.
	PushRun(run envctx.RunFunc)
	// PushPython replaces the active interpreter path.
	PushPython(path string)
	// Python returns the currently active interpreter path.
	Python() string
}

type options struct {
	run    envctx.RunFunc
	python string
}

// Option customizes job construction, mainly for tests that substitute the
// run binding with a recording fake.
type Option func(*options)

// WithRunBinding sets the initial run binding.
func WithRunBinding(run envctx.RunFunc) Option {
	return func(o *options) {
		o.run = run
	}
}

// WithPython sets the initial interpreter path.
func WithPython(path string) Option {
	return func(o *options) {
		o.python = path
	}
}

// New selects the job variant for the configured or detected OS and
// constructs it. The variant is selected exactly once for the lifetime of
// the run. Requesting a virtual environment together with the Windows
// variant is a configuration error, rejected before any subprocess is
// spawned.
func New(cfg *Config, opts ...Option) (Job, error) {
	osName := cfg.OS
	if osName == "" {
		osName = runtime.GOOS
	}

	if osName != OSLinux && osName != OSDarwin && osName != OSWindows {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, osName)
	}

	if cfg.DoVenv && osName == OSWindows {
		return nil, ErrVenvOnWindows
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.run == nil {
		exe := executor.New()
		o.run = exe.Execute
	}

	if o.python == "" {
		o.python = defaultPython()
	}

	base := &baseJob{
		cfg: cfg,
		os:  osName,
		env: envctx.New(o.python, o.run),
	}

	switch osName {
	case OSLinux:
		return &linuxJob{base}, nil
	case OSDarwin:
		return &darwinJob{base}, nil
	default:
		return &windowsJob{base}, nil
	}
}

// baseJob carries the generic command-execution and context-mutation
// operations shared by every variant.
type baseJob struct {
	cfg *Config
	os  string
	env *envctx.Context
}

func (j *baseJob) OS() string {
	return j.os
}

func (j *baseJob) Run(ctx context.Context, inv *executor.Invocation) (int, error) {
	return j.env.Run(ctx, inv)
}

func (j *baseJob) Binding() envctx.RunFunc {
	return j.env.Binding()
}

func (j *baseJob) PushRun(run envctx.RunFunc) {
	j.env.PushRun(run)
}

func (j *baseJob) PushPython(path string) {
	j.env.PushPython(path)
}

func (j *baseJob) Python() string {
	return j.env.Python()
}

// showEnv is the shared diagnostic implementation: interpreter version and
// pip version through the current run binding, PATH from the process env.
// Diagnostic subprocesses are advisory; failure to run them never aborts.
func (j *baseJob) showEnv(ctx context.Context) error {
	ctxlog.Info(ctx, "environment", "python", j.Python(), "path", os.Getenv("PATH"))

	if _, err := j.Run(ctx, executor.NewInvocation(j.Python(), "--version").Advisory()); err != nil {
		return err
	}

	_, err := j.Run(ctx, executor.NewInvocation(j.Python(), "-m", "pip", "--version").Advisory())

	return err
}

// defaultPython locates the host interpreter used until a virtual
// environment replaces it.
func defaultPython() string {
	for _, candidate := range []string{"python3", "python"} {
		if path, err := exec.LookPath(candidate); err == nil {
			return path
		}
	}

	return "python3"
}
