// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/rsii/internal/cloud"
	"github.com/jeranaias/rsii/internal/config"
	"github.com/jeranaias/rsii/internal/staging"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", &UsageError{Err: errors.New("unknown flag")}, ExitUsageError},
		{"config missing file", &config.LoadError{Path: "x", Err: fs.ErrNotExist}, ExitConfigError},
		{"config empty key", &config.LoadError{Field: "default.api-key", Err: config.ErrEmptyField}, ExitConfigError},
		{"no api key", &cloud.DispatchError{Err: cloud.ErrNotConfigured}, ExitConfigError},
		{"auth", &cloud.DispatchError{StatusCode: 401, Err: cloud.ErrAuthFailed}, ExitAuthError},
		{"rate limited", &cloud.DispatchError{StatusCode: 429, Err: cloud.ErrRateLimited}, ExitNetworkError},
		{"wrapped dispatch", fmt.Errorf("no response within 1s: %w", &cloud.DispatchError{Err: errors.New("timeout")}), ExitNetworkError},
		{"platform", fmt.Errorf("%w: plan9", staging.ErrUnsupportedPlatform), ExitUnsupportedPlatform},
		{"other", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFor(tt.err))
		})
	}
}

func TestDisplayError_Hints(t *testing.T) {
	tests := []struct {
		name string
		err  error
		hint string
	}{
		{"missing file", &config.LoadError{Path: "/tmp/c.toml", Err: fs.ErrNotExist}, "rsii --init"},
		{"empty key", &config.LoadError{Path: "/tmp/c.toml", Field: "default.api-key", Err: config.ErrEmptyField}, config.EnvAPIKey},
		{"auth", &cloud.DispatchError{Err: cloud.ErrAuthFailed}, "Check the api-key"},
		{"platform", staging.ErrUnsupportedPlatform, "--no-paste"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			DisplayError(&buf, tt.err)
			assert.Contains(t, buf.String(), "[ERROR]")
			assert.Contains(t, buf.String(), tt.hint)
		})
	}
}

func TestDisplayError_Nil(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestHighlightCommand(t *testing.T) {
	t.Cleanup(func() { ForceColorsEnabled(false) })

	ForceColorsEnabled(false)
	assert.Equal(t, "ls -la | grep go", HighlightCommand("ls -la | grep go", "linux"))

	ForceColorsEnabled(true)
	out := HighlightCommand("ls -la", "linux")
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "ls")

	out = HighlightCommand("Get-ChildItem -Force", "windows")
	assert.Contains(t, out, "\x1b[")
}
