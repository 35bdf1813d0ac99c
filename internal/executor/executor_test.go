// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package executor

import (
	"bytes"
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestExecutor() (*Executor, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	return &Executor{Stdout: stdout, Stderr: stderr}, stdout, stderr
}

func TestExecuteSuccess(t *testing.T) {
	defer goleak.VerifyNone(t)

	if runtime.GOOS == "windows" {
		t.Skip("unix shell test")
	}

	e, stdout, _ := newTestExecutor()
	code, err := e.Execute(context.Background(), NewInvocation("echo", "hello").WithShell())

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "hello")
}

func TestExecuteFatalNonzero(t *testing.T) {
	defer goleak.VerifyNone(t)

	if runtime.GOOS == "windows" {
		t.Skip("unix shell test")
	}

	e, _, _ := newTestExecutor()
	code, err := e.Execute(context.Background(), NewInvocation("exit 3").WithShell())

	assert.Equal(t, 3, code)

	fatal := &FatalError{}
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, 3, fatal.ExitCode)
}

func TestExecuteAdvisoryNonzero(t *testing.T) {
	defer goleak.VerifyNone(t)

	if runtime.GOOS == "windows" {
		t.Skip("unix shell test")
	}

	e, _, _ := newTestExecutor()
	code, err := e.Execute(context.Background(), NewInvocation("exit 4").WithShell().Advisory())

	require.NoError(t, err)
	assert.Equal(t, 4, code)
}

func TestExecuteExtraEnv(t *testing.T) {
	defer goleak.VerifyNone(t)

	if runtime.GOOS == "windows" {
		t.Skip("unix shell test")
	}

	e, stdout, _ := newTestExecutor()
	inv := NewInvocation("echo $STOOP_TEST_VAR").WithShell().WithEnv(map[string]string{
		"STOOP_TEST_VAR": "present",
	})

	_, err := e.Execute(context.Background(), inv)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "present")
}

func TestExecuteEmptyInvocation(t *testing.T) {
	e, _, _ := newTestExecutor()
	code, err := e.Execute(context.Background(), NewInvocation())

	assert.Equal(t, -1, code)
	assert.ErrorIs(t, err, ErrEmptyInvocation)
}

func TestExecuteCommandNotFound(t *testing.T) {
	e, _, _ := newTestExecutor()
	code, err := e.Execute(context.Background(), NewInvocation("definitely-not-a-command-xyz"))

	assert.Equal(t, -1, code)
	assert.ErrorIs(t, err, ErrCouldNotStartProcess)
}

func TestInvocationClone(t *testing.T) {
	inv := NewInvocation("a", "b").WithShell().WithEnv(map[string]string{"K": "V"})
	clone := inv.Clone()

	clone.Args[0] = "changed"
	clone.Env["K"] = "changed"

	assert.Equal(t, "a", inv.Args[0])
	assert.Equal(t, "V", inv.Env["K"])
}

func TestInvocationString(t *testing.T) {
	inv := NewInvocation("vcs", "import", "src")
	assert.Equal(t, "vcs import src", inv.String())
}

func TestDefaultShellFromEnv(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix shell test")
	}

	t.Setenv("SHELL", "/bin/bash")

	shell, flag := defaultShell(context.Background())
	assert.Equal(t, "/bin/bash", shell)
	assert.Equal(t, commandSwitchUnix, flag)
}
