// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package detect describes the host system for the model.
//
// # Usage
//
//	info, err := detect.SystemInfo(ctx)
//	// "Linux workstation 6.8.0-45-generic #45-Ubuntu SMP ... x86_64"
//
// # Sources
//
//   - Linux, macOS, BSD: uname(2) via golang.org/x/sys/unix
//   - Windows: RtlGetVersion via golang.org/x/sys/windows
//   - Anything else: GOOS/GOARCH
package detect
