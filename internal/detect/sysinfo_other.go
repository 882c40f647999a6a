// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly || windows)

package detect

import "errors"

func platformInfo() (string, error) {
	return "", errors.New("system info not available on this platform")
}
