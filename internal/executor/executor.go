// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package executor runs single external commands, optionally through a shell
// interpreter, handing the child process the caller's own streams so output
// interleaves in real issuance order.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/matt-FFFFFF/stoop/internal/ctxlog"
)

const (
	commandSwitchWindows = "/C"         // Command switch for Windows cmd.exe
	commandSwitchUnix    = "-c"         // Command switch for Unix-like shells
	winSystem32          = "System32"   // Directory where cmd.exe is located on Windows.
	cmdExe               = "cmd.exe"    // Command interpreter executable on Windows.
	binSh                = "/bin/sh"    // Default shell for Unix-like systems.
	winSystemRootEnv     = "SystemRoot" // Environment variable for Windows system root directory.
)

var (
	// ErrEmptyInvocation is returned when the invocation has no command tokens.
	ErrEmptyInvocation = errors.New("invocation has no command tokens")
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
)

// FatalError is returned when a command marked ExitOnError finishes with a
// nonzero exit status. The whole batch job terminates with that status.
type FatalError struct {
	Cmd      string
	ExitCode int
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", e.Cmd, e.ExitCode)
}

// Executor spawns child processes with unbuffered stream handover.
type Executor struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
}

// New returns an Executor wired to the process's own streams.
// The streams are handed to the child directly, so child output interleaves
// with this process's log lines in real issuance order.
func New() *Executor {
	return &Executor{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
	}
}

// Execute spawns the invocation as a child process and blocks until it exits.
// The exit status is returned in all cases; err is a *FatalError when the
// status is nonzero and the invocation is marked ExitOnError.
func (e *Executor) Execute(ctx context.Context, inv *Invocation) (int, error) {
	if len(inv.Args) == 0 {
		return -1, ErrEmptyInvocation
	}

	logger := ctxlog.Logger(ctx).With("label", inv.Label)
	logger.Debug("command info", "args", inv.Args, "shell", inv.Shell, "exitOnError", inv.ExitOnError)

	var cmd *exec.Cmd

	if inv.Shell {
		shell, flag := defaultShell(ctx)
		cmd = exec.CommandContext(ctx, shell, flag, inv.String())
	} else {
		cmd = exec.CommandContext(ctx, inv.Args[0], inv.Args[1:]...)
	}

	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	cmd.Stdin = e.Stdin
	cmd.Env = mergedEnv(inv.Env)

	err := cmd.Run()
	if err != nil {
		exitErr := &exec.ExitError{}
		if !errors.As(err, &exitErr) {
			return -1, errors.Join(ErrCouldNotStartProcess, err)
		}
	}

	code := cmd.ProcessState.ExitCode()
	logger.Debug("process finished", "exitCode", code)

	if code != 0 && inv.ExitOnError {
		return code, &FatalError{Cmd: inv.String(), ExitCode: code}
	}

	return code, nil
}

// mergedEnv layers the invocation's extra variables over the process env.
func mergedEnv(extra map[string]string) []string {
	env := os.Environ()
	for k, v := range extra {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	return env
}

func defaultShell(ctx context.Context) (string, string) {
	if runtime.GOOS == "windows" {
		systemRoot := os.Getenv(winSystemRootEnv)
		if systemRoot == "" {
			systemRoot = `C:\Windows`
		}

		return strings.Join([]string{systemRoot, winSystem32, cmdExe}, `\`), commandSwitchWindows
	}

	if shell := os.Getenv("SHELL"); shell != "" {
		ctxlog.Debug(ctx, "Using SHELL environment variable", "shell", shell)
		return shell, commandSwitchUnix
	}

	return binSh, commandSwitchUnix
}
