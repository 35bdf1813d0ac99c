// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package executor

import (
	"maps"
	"strings"
)

// Invocation represents a single external command to run.
// It is constructed, executed and discarded per call site.
type Invocation struct {
	Args        []string          // Command tokens, the first is the executable.
	Shell       bool              // Run through a shell interpreter (quoting, globs, pipes).
	ExitOnError bool              // A nonzero exit status aborts the whole batch job.
	Env         map[string]string // Extra environment variables, merged over the process env.
	Label       string            // Optional label for logging.
}

// NewInvocation creates an Invocation from command tokens.
// Nonzero exit status is fatal by default.
func NewInvocation(args ...string) *Invocation {
	return &Invocation{
		Args:        args,
		ExitOnError: true,
	}
}

// WithShell marks the invocation to be run through a shell interpreter.
func (i *Invocation) WithShell() *Invocation {
	i.Shell = true
	return i
}

// Advisory marks a nonzero exit status as non-fatal: the status is returned
// to the caller, which decides whether to continue.
func (i *Invocation) Advisory() *Invocation {
	i.ExitOnError = false
	return i
}

// WithEnv merges extra environment variables into the invocation.
func (i *Invocation) WithEnv(env map[string]string) *Invocation {
	if i.Env == nil {
		i.Env = make(map[string]string, len(env))
	}

	maps.Copy(i.Env, env)

	return i
}

// Clone returns a deep copy so a wrapper can adjust an invocation without
// mutating the caller's value.
func (i *Invocation) Clone() *Invocation {
	c := &Invocation{
		Args:        append([]string(nil), i.Args...),
		Shell:       i.Shell,
		ExitOnError: i.ExitOnError,
		Label:       i.Label,
	}
	if i.Env != nil {
		c.Env = maps.Clone(i.Env)
	}

	return c
}

// String returns the invocation as a single command line.
func (i *Invocation) String() string {
	return strings.Join(i.Args, " ")
}
