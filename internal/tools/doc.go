// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tools defines the call_command tool contract and extracts commands
// from the model's tool calls.
//
// # Key Types
//
//   - Tool: Tool definition with name, description, and parameters
//   - Call: A tool invocation as returned by the model
//   - ArgumentsError: A call whose arguments were not valid JSON
//
// # Usage
//
// Offer the tool to the model:
//
//	def := tools.Definition()
//
// Pull the commands out of the reply:
//
//	cmds, err := tools.FromResponse(resp)
//	if err != nil {
//	    // some calls were malformed; cmds still holds the good ones
//	}
//
// # Extraction Rules
//
// A call becomes a command only when its name is call_command, its arguments
// parse as a JSON object, and that object carries a non-empty string under
// "command". Anything else is skipped. Parse failures are reported per call
// and never discard the commands extracted from sibling calls.
package tools
