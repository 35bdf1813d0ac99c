// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workspace

import (
	"context"
	"testing"

	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanRemovesExistingContent(t *testing.T) {
	fs := afero.NewMemMapFs()

	defer gostub.Stub(&FsFactory, func() afero.Fs { return fs }).Reset()

	require.NoError(t, afero.WriteFile(fs, "workspace/stale.txt", []byte("old"), 0o644))

	require.NoError(t, Clean(context.Background(), "workspace"))

	exists, err := afero.Exists(fs, "workspace/stale.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	isDir, err := afero.DirExists(fs, "workspace")
	require.NoError(t, err)
	assert.True(t, isDir)
}

func TestCleanIsIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()

	defer gostub.Stub(&FsFactory, func() afero.Fs { return fs }).Reset()

	require.NoError(t, Clean(context.Background(), "workspace"))
	require.NoError(t, Clean(context.Background(), "workspace"))
}

func TestEnsureDir(t *testing.T) {
	fs := afero.NewMemMapFs()

	defer gostub.Stub(&FsFactory, func() afero.Fs { return fs }).Reset()

	require.NoError(t, EnsureDir("work space/source space"))

	isDir, err := afero.DirExists(fs, "work space/source space")
	require.NoError(t, err)
	assert.True(t, isDir)

	// Existing directory is left alone.
	require.NoError(t, EnsureDir("work space/source space"))
}

func TestReadWriteFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	defer gostub.Stub(&FsFactory, func() afero.Fs { return fs }).Reset()

	require.NoError(t, WriteFile("workspace/stoop.repos", []byte("repositories:")))

	data, err := ReadFile("workspace/stoop.repos")
	require.NoError(t, err)
	assert.Equal(t, "repositories:", string(data))
}
