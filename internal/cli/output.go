// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rsii/internal/resolve"
	"github.com/jeranaias/rsii/internal/storage"
	"github.com/jeranaias/rsii/internal/util"
)

// printResult reports each command's outcome on stdout. Notices that are
// not commands go to stderr in dry-run mode, so stdout can be piped to a
// shell. Clipboard and paste failures are already logged as warnings; only
// the command itself is repeated here so it can be copied by hand.
func printResult(stdout, stderr io.Writer, res *resolve.Result, opts *options, goos string) {
	if res.NoToolCalls() {
		w := stdout
		if opts.dryRun {
			w = stderr
		}
		fmt.Fprintln(w, DimStyle.Render("No tool calls found"))
		if opts.verbose && strings.TrimSpace(res.Content) != "" {
			fmt.Fprint(w, renderMarkdown(res.Content))
		}
		return
	}

	if opts.dryRun {
		for _, out := range res.Commands {
			fmt.Fprintln(stdout, out.Command)
		}
		return
	}

	for _, out := range res.Commands {
		if out.Staged {
			fmt.Fprintln(stdout, SuccessStyle.Render("Command copied to clipboard"))
		}
		fmt.Fprintf(stdout, "  %s\n", HighlightCommand(out.Command, goos))
	}
}

// statusCol fits the widest history tag, "[PASTE]".
const statusCol = 7

// printHistory renders journal entries as a table, newest first.
func printHistory(w io.Writer, entries []storage.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No staged commands yet"))
		return
	}

	width := GetTerminalWidth()
	const timeCol = 16
	cmdCol := width - timeCol - statusCol - 4
	if cmdCol < 20 {
		cmdCol = 20
	}

	fmt.Fprintln(w, TitleStyle.Render("Staged commands"))
	fmt.Fprintln(w, RenderSeparator(min(width, timeCol+statusCol+cmdCol+4)))
	for _, e := range entries {
		fmt.Fprintf(w, "%-*s  %s  %s\n",
			timeCol, e.CreatedAt.Local().Format("2006-01-02 15:04"),
			historyStatus(e.Pasted),
			util.TruncateWidth(util.OneLine(e.Command), cmdCol),
		)
		if e.Query != "" {
			fmt.Fprintf(w, "%-*s  %s\n", timeCol, "", DimStyle.Render(util.TruncateWidth(util.OneLine(e.Query), cmdCol+statusCol)))
		}
	}
}

// historyStatus renders the paste outcome as a tag padded to statusCol.
// A copy without a paste is normal under --no-paste, so it is not a warning.
func historyStatus(pasted bool) string {
	tag := DimStyle.Render("[COPY]")
	if pasted {
		tag = SuccessStyle.Render("[PASTE]")
	}
	if pad := statusCol - lipgloss.Width(tag); pad > 0 {
		tag += strings.Repeat(" ", pad)
	}
	return tag
}
