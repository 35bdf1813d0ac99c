// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package repofile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `repositories:
  ament/ament_tools:
    type: git
    url: https://example.com/ament/ament_tools.git
    version: master
  demos/example_interfaces:
    type: git
    url: https://example.com/demos/example_interfaces.git
    version: master
`

func TestNames(t *testing.T) {
	names, err := Names([]byte(sampleManifest))
	require.NoError(t, err)
	assert.Equal(t, []string{"ament/ament_tools", "demos/example_interfaces"}, names)
}

func TestNamesEmptyManifest(t *testing.T) {
	names, err := Names([]byte("repositories:\n"))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestNamesInvalidYAML(t *testing.T) {
	_, err := Names([]byte("repositories: [unclosed"))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestFetchLocalFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.repos")
	require.NoError(t, os.WriteFile(src, []byte(sampleManifest), 0o644))

	dst := filepath.Join(dir, "out.repos")
	require.NoError(t, Fetch(context.Background(), src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, sampleManifest, string(data))
}

func TestFetchEmptySource(t *testing.T) {
	err := Fetch(context.Background(), "", "out.repos")
	assert.ErrorIs(t, err, ErrFetch)
}
