// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompt composes the single user message sent to the model.
package prompt

import "strings"

const (
	systemInfoLabel = " Users system info: "
	queryLabel      = " \n User query:\n"
)

// Build interpolates the system prompt, the host description and the user's
// query, in that order. Every input survives as a contiguous substring.
func Build(systemPrompt, systemInfo, userQuery string) string {
	var b strings.Builder
	b.Grow(len(systemPrompt) + len(systemInfo) + len(userQuery) + len(systemInfoLabel) + len(queryLabel))
	b.WriteString(systemPrompt)
	b.WriteString(systemInfoLabel)
	b.WriteString(systemInfo)
	b.WriteString(queryLabel)
	b.WriteString(userQuery)
	return b.String()
}
