// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
)

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// shellLexer picks the lexer for staged commands. PowerShell on Windows,
// bash everywhere else.
func shellLexer(goos string) chroma.Lexer {
	name := "bash"
	if goos == "windows" {
		name = "powershell"
	}
	lexer := lexers.Get(name)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// HighlightCommand returns cmd with ANSI shell syntax highlighting, or cmd
// unchanged when colors are disabled or highlighting fails.
func HighlightCommand(cmd, goos string) string {
	if !ColorsEnabled() {
		return cmd
	}

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := shellLexer(goos).Tokenise(nil, cmd)
	if err != nil {
		return cmd
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return cmd
	}
	return buf.String()
}

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

var (
	markdownRenderer     *glamour.TermRenderer
	markdownRendererOnce sync.Once
)

// renderMarkdown renders the model's free-text reply for the terminal.
// Returns the original content if the renderer is unavailable.
func renderMarkdown(content string) string {
	markdownRendererOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(min(GetTerminalWidth(), 100)),
		)
		if err == nil {
			markdownRenderer = r
		}
	})
	if markdownRenderer == nil {
		return content
	}
	out, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return out
}
