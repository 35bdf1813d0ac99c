// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main is the entry point for the stoop command-line application.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/matt-FFFFFF/stoop/cmd"
	"github.com/matt-FFFFFF/stoop/internal/ctxlog"
	"github.com/matt-FFFFFF/stoop/internal/executor"
	"github.com/matt-FFFFFF/stoop/internal/signalbroker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	err := cmd.RootCmd.Run(ctx, os.Args)
	if err != nil {
		// A failed batch step exits with the child process's own status.
		fatal := &executor.FatalError{}
		if errors.As(err, &fatal) {
			ctxlog.Logger(ctx).Error("batch job failed", "command", fatal.Cmd, "exitCode", fatal.ExitCode)
			os.Exit(fatal.ExitCode)
		}

		ctxlog.Logger(ctx).Error("command failed", "error", err)
		os.Exit(1)
	}

	os.Exit(0)
}
