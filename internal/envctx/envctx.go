// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package envctx holds the mutable execution state of one batch job: the
// active run binding, the active interpreter path, the process environment
// and scoped working-directory changes.
//
// The state is process-wide and owned exclusively by the single active batch
// job. Exactly one run binding and one interpreter path are active at any
// time; pushing a new one replaces the old for every future invocation and
// never retroactively changes commands already issued.
package envctx

import (
	"context"
	"errors"
	"os"

	"github.com/matt-FFFFFF/stoop/internal/executor"
)

// RunFunc is the active command-execution binding. Call sites read the
// current binding at call time and never cache it, which is what lets later
// steps transparently run inside a virtual environment.
type RunFunc func(ctx context.Context, inv *executor.Invocation) (int, error)

// ErrNoRunBinding is returned when a command is issued before a run binding is set.
var ErrNoRunBinding = errors.New("no run binding is active")

// Context is the mutable environment record for one batch job.
type Context struct {
	run    RunFunc
	python string
}

// New creates a Context with the initial interpreter path and run binding.
func New(python string, run RunFunc) *Context {
	return &Context{
		run:    run,
		python: python,
	}
}

// PushRun replaces the active run binding. All future invocations use the
// new binding; "push" denotes replacement, not nesting.
func (c *Context) PushRun(run RunFunc) {
	c.run = run
}

// PushPython replaces the active interpreter path.
func (c *Context) PushPython(path string) {
	c.python = path
}

// Python returns the currently active interpreter path.
func (c *Context) Python() string {
	return c.python
}

// Binding returns the currently active run binding, for composition by
// wrappers that must layer on top of it rather than replace it.
func (c *Context) Binding() RunFunc {
	return c.run
}

// Run executes the invocation through the currently active run binding.
func (c *Context) Run(ctx context.Context, inv *executor.Invocation) (int, error) {
	if c.run == nil {
		return -1, ErrNoRunBinding
	}

	return c.run(ctx, inv)
}

// InDir changes into dir for the duration of fn and restores the previous
// working directory on every exit path, including error returns from fn.
func InDir(dir string, fn func() error) (err error) {
	prev, err := os.Getwd()
	if err != nil {
		return err
	}

	if err := os.Chdir(dir); err != nil {
		return err
	}

	defer func() {
		if cdErr := os.Chdir(prev); cdErr != nil {
			err = errors.Join(err, cdErr)
		}
	}()

	return fn()
}

// EnsureEnv sets the environment variable to def if it is unset and returns
// the effective value. The mutation is visible to every subsequently spawned
// command for the remainder of the process.
func EnsureEnv(key, def string) (string, error) {
	if v := os.Getenv(key); v != "" {
		return v, nil
	}

	return def, os.Setenv(key, def)
}

// SetEnv sets the environment variable unconditionally.
func SetEnv(key, value string) error {
	return os.Setenv(key, value)
}
