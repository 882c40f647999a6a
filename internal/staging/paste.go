// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package staging

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// =============================================================================
// PASTE STRATEGIES
// =============================================================================

// ErrUnsupportedPlatform is returned by StrategyFor for operating systems
// without a paste strategy.
var ErrUnsupportedPlatform = errors.New("paste simulation not supported on this platform")

// DefaultPasteDelay gives the user time to release the Enter key before the
// synthetic paste keystroke lands.
const DefaultPasteDelay = time.Second

// PasteStrategy knows how to make the focused window paste the clipboard.
type PasteStrategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Command returns the helper executable and its arguments.
	Command() (name string, args []string)
}

// MacOSPaste sends Cmd+V through System Events.
type MacOSPaste struct {
	Delay time.Duration
}

// Name implements PasteStrategy.
func (MacOSPaste) Name() string { return "osascript" }

// Command implements PasteStrategy.
func (p MacOSPaste) Command() (string, []string) {
	return "osascript", []string{
		"-e", "delay " + seconds(p.Delay),
		"-e", `tell application "System Events" to keystroke "v" using command down`,
	}
}

// LinuxPaste sends Ctrl+V with xdotool. Requires an X11 session.
type LinuxPaste struct {
	Delay time.Duration
}

// Name implements PasteStrategy.
func (LinuxPaste) Name() string { return "xdotool" }

// Command implements PasteStrategy.
func (p LinuxPaste) Command() (string, []string) {
	return "xdotool", []string{"sleep", seconds(p.Delay), "key", "--clearmodifiers", "ctrl+v"}
}

// WindowsPaste sends Ctrl+V through System.Windows.Forms.SendKeys.
type WindowsPaste struct {
	Delay time.Duration
}

// Name implements PasteStrategy.
func (WindowsPaste) Name() string { return "powershell" }

// Command implements PasteStrategy.
func (p WindowsPaste) Command() (string, []string) {
	script := fmt.Sprintf("Start-Sleep -Milliseconds %d; "+
		"Add-Type -AssemblyName System.Windows.Forms; "+
		"[System.Windows.Forms.SendKeys]::SendWait('^v')", p.Delay.Milliseconds())
	return "powershell", []string{"-NoProfile", "-NonInteractive", "-Command", script}
}

// StrategyFor selects the strategy for goos, normally runtime.GOOS.
func StrategyFor(goos string) (PasteStrategy, error) {
	switch goos {
	case "darwin":
		return MacOSPaste{Delay: DefaultPasteDelay / 2}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return LinuxPaste{Delay: DefaultPasteDelay}, nil
	case "windows":
		return WindowsPaste{Delay: DefaultPasteDelay}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// =============================================================================
// PASTER
// =============================================================================

// Launcher starts a detached helper process without waiting for it.
type Launcher interface {
	Launch(name string, args ...string) error
}

// ExecLauncher starts helpers with os/exec.
type ExecLauncher struct{}

// Launch starts the process and releases it. The helper's exit status is
// never observed.
func (ExecLauncher) Launch(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// PasteError reports a helper that could not be started. The command is
// still on the clipboard when this happens.
type PasteError struct {
	Strategy string
	Err      error
}

func (e *PasteError) Error() string {
	return fmt.Sprintf("paste simulation failed (%s): %v", e.Strategy, e.Err)
}

func (e *PasteError) Unwrap() error {
	return e.Err
}

// Paster fires the paste keystroke for one strategy.
type Paster struct {
	strategy PasteStrategy
	launcher Launcher
}

// NewPaster returns a paster for strategy. A nil launcher uses ExecLauncher.
func NewPaster(strategy PasteStrategy, launcher Launcher) *Paster {
	if launcher == nil {
		launcher = ExecLauncher{}
	}
	return &Paster{strategy: strategy, launcher: launcher}
}

// Strategy returns the strategy this paster uses.
func (p *Paster) Strategy() PasteStrategy {
	return p.strategy
}

// Trigger starts the helper and returns immediately.
func (p *Paster) Trigger() error {
	name, args := p.strategy.Command()
	if err := p.launcher.Launch(name, args...); err != nil {
		return &PasteError{Strategy: p.strategy.Name(), Err: err}
	}
	return nil
}
