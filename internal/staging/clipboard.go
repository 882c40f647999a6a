// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package staging

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// =============================================================================
// CLIPBOARD
// =============================================================================

// ErrClipboardUnavailable is returned when the host has no usable clipboard
// backend (for example Linux without xclip, xsel or wl-copy).
var ErrClipboardUnavailable = errors.New("no clipboard backend available")

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// SystemClipboard is the OS clipboard.
type SystemClipboard struct{}

// WriteText replaces the clipboard's text content.
func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}

// StageError reports a command that could not be placed on the clipboard.
type StageError struct {
	Command string
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("failed to copy command to clipboard: %v", e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Stager places resolved commands on the clipboard.
type Stager struct {
	clip Clipboard
}

// NewStager returns a stager writing to clip, or to the system clipboard when
// clip is nil.
func NewStager(clip Clipboard) *Stager {
	if clip == nil {
		clip = SystemClipboard{}
	}
	return &Stager{clip: clip}
}

// Stage overwrites the clipboard with text. The previous content is lost.
func (s *Stager) Stage(text string) error {
	if err := s.clip.WriteText(text); err != nil {
		return &StageError{Command: text, Err: err}
	}
	return nil
}
