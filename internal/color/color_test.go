// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"testing"

	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
)

func TestColorizeDisabled(t *testing.T) {
	defer gostub.Stub(&enabled, false).Reset()

	assert.Equal(t, "plain", Colorize("plain", FgRed))
}

func TestColorizeEnabled(t *testing.T) {
	defer gostub.Stub(&enabled, true).Reset()

	got := Colorize("text", Bold, FgCyan)
	assert.Equal(t, "\033[1;36mtext\033[0m", got)
}

func TestForceRespectsNoColor(t *testing.T) {
	defer gostub.Stub(&enabled, false).Reset()

	t.Setenv(NoColor, "1")
	Force()
	assert.False(t, Enabled())
}

func TestForceEnables(t *testing.T) {
	defer gostub.Stub(&enabled, false).Reset()

	t.Setenv(NoColor, "")
	Force()
	assert.True(t, Enabled())
}
