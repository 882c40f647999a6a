// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package detect

import (
	"context"
	"runtime"
	"strings"
)

// =============================================================================
// SYSTEM INFO
// =============================================================================

// SystemInfo describes the host in one line, in the style of `uname -a`. The
// model uses it to pick commands that exist on this system.
//
// It never fails: when the platform query is unavailable the result falls
// back to GOOS/GOARCH. The string is untrusted and is embedded verbatim.
func SystemInfo(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	info, err := platformInfo()
	if err != nil || strings.TrimSpace(info) == "" {
		return fallbackInfo(), nil
	}
	return info, nil
}

func fallbackInfo() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// joinFields joins non-empty fields with single spaces.
func joinFields(fields ...string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}
