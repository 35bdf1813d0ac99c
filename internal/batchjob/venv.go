// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package batchjob

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matt-FFFFFF/stoop/internal/envctx"
	"github.com/matt-FFFFFF/stoop/internal/executor"
)

// VenvBindings returns the run binding and interpreter path for a virtual
// environment rooted at venvPath. The returned binding wraps base, injecting
// the venv's bin directory at the front of PATH and setting VIRTUAL_ENV, so
// every future invocation transparently runs inside the venv. Only POSIX
// layouts are produced: the Windows variant rejects venv mode at
// construction.
func VenvBindings(venvPath string, base envctx.RunFunc) (envctx.RunFunc, string) {
	binDir := filepath.Join(venvPath, "bin")
	python := filepath.Join(binDir, "python")

	run := func(ctx context.Context, inv *executor.Invocation) (int, error) {
		wrapped := inv.Clone().WithEnv(map[string]string{
			"VIRTUAL_ENV": venvPath,
			"PATH":        binDir + string(os.PathListSeparator) + os.Getenv("PATH"),
		})

		return base(ctx, wrapped)
	}

	return run, python
}

// VenvVcs returns the path of the vcs entry point inside the virtual
// environment. macOS cannot invoke a script whose shebang line contains a
// space, so callers run this through the venv's interpreter explicitly.
func VenvVcs(venvPath string) string {
	return filepath.Join(venvPath, "bin", "vcs")
}
