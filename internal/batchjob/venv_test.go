// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package batchjob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matt-FFFFFF/stoop/internal/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVenvBindings(t *testing.T) {
	var log []call

	venvPath := filepath.Join("/ws", "venv")
	run, python := VenvBindings(venvPath, recorder("host", &log))

	assert.Equal(t, filepath.Join(venvPath, "bin", "python"), python)

	_, err := run(context.Background(), executor.NewInvocation("pip", "install", "-U", "vcstool"))
	require.NoError(t, err)

	require.Len(t, log, 1)
	assert.Equal(t, "host", log[0].binding, "venv binding composes with the base binding")
	assert.Equal(t, venvPath, log[0].env["VIRTUAL_ENV"])
	assert.True(t, strings.HasPrefix(log[0].env["PATH"], filepath.Join(venvPath, "bin")+string(os.PathListSeparator)))
}

func TestVenvBindingsDoesNotMutateCallerInvocation(t *testing.T) {
	var log []call

	run, _ := VenvBindings("/ws/venv", recorder("host", &log))

	inv := executor.NewInvocation("pip", "--version")
	_, err := run(context.Background(), inv)
	require.NoError(t, err)

	assert.Nil(t, inv.Env, "caller's invocation stays untouched")
}

func TestVenvVcs(t *testing.T) {
	assert.Equal(t, filepath.Join("/ws/venv", "bin", "vcs"), VenvVcs("/ws/venv"))
}
