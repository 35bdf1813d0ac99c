// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package batchjob

import "slices"

// Targets for whitespace injection into workspace path names. Injecting a
// space exercises the path-quoting behavior of the tools under test.
const (
	SpaceWorkspace    = "workspace"
	SpaceSourceSpace  = "sourcespace"
	SpaceBuildSpace   = "buildspace"
	SpaceInstallSpace = "installspace"
)

// SpaceNames lists the valid --white-space-in choices.
var SpaceNames = []string{SpaceWorkspace, SpaceSourceSpace, SpaceBuildSpace, SpaceInstallSpace}

// Config is the immutable-after-parse run configuration.
// The four derived space fields are computed once by ResolveSpaceNames and
// treated as immutable afterwards.
type Config struct {
	OS              string   // Target OS override; empty means detect.
	RepoFileURL     string   // URL of the repos file to fetch.
	TestBranch      string   // Branch to attempt to check out before the build.
	WhiteSpaceIn    []string // Which path names get a space injected.
	DoVenv          bool     // Create and use a virtual environment.
	Isolated        bool     // Build and install each package into separate folders.
	ForceAnsiColor  bool     // Force ANSI color output.
	FailOnTestError bool     // Propagate test failures into the exit status.
	AmentArgs       []string // Pass-through arguments for the build tool.

	// Derived path names, resolved once from WhiteSpaceIn.
	Workspace    string
	SourceSpace  string
	BuildSpace   string
	InstallSpace string
}

// ResolveSpaceNames computes the four workspace path names, injecting white
// space where requested. Purely a naming policy; later path handling quotes
// accordingly.
func (c *Config) ResolveSpaceNames() {
	pick := func(target, spaced, plain string) string {
		if slices.Contains(c.WhiteSpaceIn, target) {
			return spaced
		}

		return plain
	}

	c.Workspace = pick(SpaceWorkspace, "work space", "workspace")
	c.SourceSpace = pick(SpaceSourceSpace, "source space", "src")
	c.BuildSpace = pick(SpaceBuildSpace, "build space", "build")
	c.InstallSpace = pick(SpaceInstallSpace, "install space", "install")
}
