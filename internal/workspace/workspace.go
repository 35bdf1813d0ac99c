// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package workspace manages the on-disk workspace directory that a batch job
// assembles repositories into. Cleaning at the start of a run is the only
// state-reset mechanism: a run that fails midway leaves the workspace in
// whatever partial state the last completed step produced.
package workspace

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/stoop/internal/ctxlog"
	"github.com/spf13/afero"
)

// FsFactory is a function that returns an afero filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

const dirPerm = 0o755

// Clean removes the workspace directory and recreates it empty.
// It is idempotent: cleaning a missing workspace succeeds.
func Clean(ctx context.Context, path string) error {
	fs := FsFactory()

	ctxlog.Debug(ctx, "cleaning workspace", "path", path)

	if err := fs.RemoveAll(path); err != nil {
		return err
	}

	return fs.MkdirAll(path, dirPerm)
}

// EnsureDir creates the directory if it is absent.
func EnsureDir(path string) error {
	fs := FsFactory()

	exists, err := afero.DirExists(fs, path)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	return fs.MkdirAll(path, dirPerm)
}

// ReadFile reads a file through the workspace filesystem.
func ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(FsFactory(), path)
}

// WriteFile writes a file through the workspace filesystem.
func WriteFile(path string, data []byte) error {
	return afero.WriteFile(FsFactory(), path, data, os.FileMode(0o644))
}
