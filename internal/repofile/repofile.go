// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package repofile fetches the repository manifest that a batch job imports
// repositories from. The manifest schema is owned by the vcs tool; this
// package decodes only enough of it to list repository names for the audit
// log.
package repofile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/goccy/go-yaml"
	getter "github.com/hashicorp/go-getter/v2"

	"github.com/matt-FFFFFF/stoop/internal/ctxlog"
)

var (
	// ErrFetch is returned when the manifest cannot be retrieved.
	ErrFetch = errors.New("failed to fetch repository manifest")
	// ErrDecode is returned when the manifest cannot be decoded.
	ErrDecode = errors.New("failed to decode repository manifest")
)

// Fetch retrieves the manifest from src and writes it to dst.
// src uses Hashicorp's go-getter syntax, so plain HTTP URLs and local paths
// both work. See https://github.com/hashicorp/go-getter.
func Fetch(ctx context.Context, src, dst string) error {
	if src == "" {
		return ErrFetch
	}

	wd, err := os.Getwd()
	if err != nil {
		return errors.Join(ErrFetch, err)
	}

	if !filepath.IsAbs(dst) {
		dst = filepath.Join(wd, dst)
	}

	ctxlog.Debug(ctx, "fetching repository manifest", "src", src, "dst", dst)

	cli := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     src,
		Dst:     dst,
		Pwd:     wd,
		GetMode: getter.ModeFile,
	}

	if _, err := cli.Get(ctx, req); err != nil {
		return errors.Join(ErrFetch, err)
	}

	return nil
}

// manifest mirrors the subset of the repos-file schema needed for auditing.
type manifest struct {
	Repositories map[string]struct {
		Type    string `yaml:"type"`
		URL     string `yaml:"url"`
		Version string `yaml:"version"`
	} `yaml:"repositories"`
}

// Names returns the sorted repository names listed in the manifest data.
func Names(data []byte) ([]string, error) {
	m := manifest{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	names := make([]string, 0, len(m.Repositories))
	for name := range m.Repositories {
		names = append(names, name)
	}

	slices.Sort(names)

	return names, nil
}
