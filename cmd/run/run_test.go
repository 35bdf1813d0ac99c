// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package run

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/matt-FFFFFF/stoop/internal/batchjob"
)

// parseConfig runs the flag set through a throwaway command so the parsed
// configuration can be inspected without executing the batch job.
func parseConfig(t *testing.T, args ...string) (*batchjob.Config, error) {
	t.Helper()

	var (
		cfg    *batchjob.Config
		cfgErr error
	)

	cmd := &cli.Command{
		Name:  "run",
		Flags: flags(),
		Action: func(_ context.Context, c *cli.Command) error {
			cfg, cfgErr = configFromCommand(c)
			return nil
		},
	}

	err := cmd.Run(context.Background(), append([]string{"run"}, args...))
	require.NoError(t, err)

	return cfg, cfgErr
}

func TestConfigFromCommand(t *testing.T) {
	cfg, err := parseConfig(t,
		"--repo-file-url", "https://example.com/my.repos",
		"--test-branch", "release-x",
		"--white-space-in", "sourcespace",
		"--do-venv",
		"--os", "darwin",
		"--isolated",
		"--fail-on-test-error",
		"--", "--cmake-args", "-DCMAKE_BUILD_TYPE=Debug",
	)

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/my.repos", cfg.RepoFileURL)
	assert.Equal(t, "release-x", cfg.TestBranch)
	assert.Equal(t, []string{"sourcespace"}, cfg.WhiteSpaceIn)
	assert.True(t, cfg.DoVenv)
	assert.Equal(t, "darwin", cfg.OS)
	assert.True(t, cfg.Isolated)
	assert.True(t, cfg.FailOnTestError)
	assert.Equal(t, []string{"--cmake-args", "-DCMAKE_BUILD_TYPE=Debug"}, cfg.AmentArgs)
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(t, "--repo-file-url", "https://example.com/my.repos")

	require.NoError(t, err)
	assert.Empty(t, cfg.OS)
	assert.Empty(t, cfg.TestBranch)
	assert.False(t, cfg.DoVenv)
	assert.Empty(t, cfg.AmentArgs)
}

func TestConfigRejectsInvalidWhiteSpaceTarget(t *testing.T) {
	_, err := parseConfig(t,
		"--repo-file-url", "https://example.com/my.repos",
		"--white-space-in", "homespace",
	)

	assert.ErrorContains(t, err, "homespace")
}
