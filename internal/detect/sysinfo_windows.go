// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build windows

package detect

import (
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sys/windows"
)

// platformInfo reports the real kernel version. RtlGetVersion is not subject
// to the manifest-based version lie of GetVersionEx.
func platformInfo() (string, error) {
	v := windows.RtlGetVersion()
	if v == nil {
		return "", fmt.Errorf("RtlGetVersion returned nil")
	}
	host, _ := os.Hostname()
	return joinFields(
		"Windows",
		host,
		fmt.Sprintf("%d.%d.%d", v.MajorVersion, v.MinorVersion, v.BuildNumber),
		runtime.GOARCH,
	), nil
}
