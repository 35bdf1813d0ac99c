// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"os"

	"github.com/matt-FFFFFF/stoop/cmd/run"
	"github.com/urfave/cli/v3"
)

// RootCmd is the root command for the CLI.
var RootCmd = &cli.Command{
	Commands: []*cli.Command{
		run.RunCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "stoop",
	Description: `Stoop builds and tests a multi-repository workspace as a single batch job.
It fetches a repository manifest, imports the listed repositories with vcs,
optionally builds inside a virtual environment, then runs the build tool in
build, test and test_results modes. The same fixed sequence runs identically
on Linux, macOS and Windows.`,
	Usage:     "stoop run --repo-file-url https://example.com/my.repos",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}
