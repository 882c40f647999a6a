// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package staging puts a resolved command in front of the user without
// running it: the command is copied to the clipboard, then a helper process
// simulates the paste keystroke into the focused window.
//
// # Key Types
//
//   - Stager: Writes a command to the clipboard
//   - PasteStrategy: Per-OS helper command (MacOSPaste, LinuxPaste, WindowsPaste)
//   - Paster: Starts the helper, fire-and-forget
//
// # Usage
//
//	strategy, err := staging.StrategyFor(runtime.GOOS)
//	if err != nil {
//	    return err // ErrUnsupportedPlatform
//	}
//	stager := staging.NewStager(nil)
//	paster := staging.NewPaster(strategy, nil)
//
//	if err := stager.Stage(cmd); err == nil {
//	    _ = paster.Trigger()
//	}
//
// # Platform Helpers
//
//   - macOS: osascript (System Events keystroke, needs Accessibility permission)
//   - Linux: xdotool (X11 only)
//   - Windows: powershell SendKeys
package staging
