// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package run

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/matt-FFFFFF/stoop/internal/batchjob"
	"github.com/matt-FFFFFF/stoop/internal/orchestrate"
)

const (
	repoFileURLFlag     = "repo-file-url"
	testBranchFlag      = "test-branch"
	whiteSpaceInFlag    = "white-space-in"
	doVenvFlag          = "do-venv"
	osFlag              = "os"
	isolatedFlag        = "isolated"
	forceAnsiColorFlag  = "force-ansi-color"
	failOnTestErrorFlag = "fail-on-test-error"
)

// RunCmd runs the batch job.
var RunCmd = &cli.Command{
	Name:        "run",
	Description: "Run the batch job: fetch the manifest, import the repositories, build and test.",
	Usage:       "stoop run --repo-file-url URL [flags] [-- AMENT_ARGS...]",
	ArgsUsage:   " [-- AMENT_ARGS...]",
	Flags:       flags(),
	Action:      actionFunc,
}

// flags returns a fresh flag set; flag values carry parse state, so shared
// instances would leak between runs.
func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     repoFileURLFlag,
			Usage:    "URL of the repos file to fetch and use as the basis of the batch job",
			Required: true,
		},
		&cli.StringFlag{
			Name:  testBranchFlag,
			Usage: "branch to attempt to check out before doing the batch job",
		},
		&cli.StringSliceFlag{
			Name:  whiteSpaceInFlag,
			Usage: fmt.Sprintf("folder structures in which white space should be added %v", batchjob.SpaceNames),
		},
		&cli.BoolFlag{
			Name:  doVenvFlag,
			Usage: "create and use a virtual environment in the build process",
		},
		&cli.StringFlag{
			Name:  osFlag,
			Usage: "override OS detection (linux, darwin, windows)",
		},
		&cli.BoolFlag{
			Name:  isolatedFlag,
			Usage: "build and install each package into separate folders",
		},
		&cli.BoolFlag{
			Name:  forceAnsiColorFlag,
			Usage: "force this program to output ANSI color",
		},
		&cli.BoolFlag{
			Name:  failOnTestErrorFlag,
			Usage: "propagate test failures into the exit status",
		},
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	cfg, err := configFromCommand(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	code, err := orchestrate.Run(ctx, cfg, orchestrate.AmentBuildAndTest)
	if err != nil {
		return err
	}

	if code != 0 {
		return cli.Exit("", code)
	}

	return nil
}

func configFromCommand(cmd *cli.Command) (*batchjob.Config, error) {
	whiteSpaceIn := cmd.StringSlice(whiteSpaceInFlag)
	for _, target := range whiteSpaceIn {
		if !slices.Contains(batchjob.SpaceNames, target) {
			return nil, fmt.Errorf("invalid %s value %q, must be one of %v", whiteSpaceInFlag, target, batchjob.SpaceNames)
		}
	}

	return &batchjob.Config{
		OS:              cmd.String(osFlag),
		RepoFileURL:     cmd.String(repoFileURLFlag),
		TestBranch:      cmd.String(testBranchFlag),
		WhiteSpaceIn:    whiteSpaceIn,
		DoVenv:          cmd.Bool(doVenvFlag),
		Isolated:        cmd.Bool(isolatedFlag),
		ForceAnsiColor:  cmd.Bool(forceAnsiColorFlag),
		FailOnTestError: cmd.Bool(failOnTestErrorFlag),
		// Everything after "--" passes through to the build tool.
		AmentArgs: cmd.Args().Slice(),
	}, nil
}
