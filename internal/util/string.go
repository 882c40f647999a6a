// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// NormalizeQuery joins command-line words into one query, applies Unicode
// NFC normalization and trims surrounding whitespace. Inner whitespace,
// including newlines, is kept as typed.
func NormalizeQuery(words []string) string {
	return strings.TrimSpace(norm.NFC.String(strings.Join(words, " ")))
}

// UNICODE: Width-aware truncation keeps CJK and emoji aligned in tables.

// TruncateWidth truncates s to at most maxWidth terminal columns, ending
// with "..." when something was cut.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// OneLine collapses newlines and tabs so a multi-line command fits in a
// single table row.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StringWidth returns the display width of a string.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}
