// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"encoding/json"
	"errors"
	"fmt"
)

// =============================================================================
// TOOL CALL EXTRACTION
// =============================================================================

// Call is a single tool invocation returned by the model. Arguments is the raw
// JSON text exactly as the model produced it.
type Call struct {
	ID        string
	Name      string
	Arguments string
}

// Response is anything that can hand over the tool calls of its first choice.
type Response interface {
	ToolCalls() []Call
}

// ArgumentsError reports a tool call whose arguments were not valid JSON.
type ArgumentsError struct {
	Index int    // position of the call in the response
	ID    string // tool call id, may be empty
	Err   error
}

func (e *ArgumentsError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("tool call %d (%s): invalid arguments: %v", e.Index, e.ID, e.Err)
	}
	return fmt.Sprintf("tool call %d: invalid arguments: %v", e.Index, e.Err)
}

func (e *ArgumentsError) Unwrap() error {
	return e.Err
}

// FromResponse extracts commands from a dispatcher response.
// A nil response yields no commands.
func FromResponse(r Response) ([]string, error) {
	if r == nil {
		return []string{}, nil
	}
	return ExtractCommands(r.ToolCalls())
}

// ExtractCommands returns the command argument of every call_command call, in
// response order. Calls to other tools, calls with empty arguments and calls
// without a non-empty string command are skipped.
//
// A call whose arguments fail to parse does not stop the walk: its
// *ArgumentsError is joined into the returned error and the remaining calls
// are still processed. The commands slice is never nil.
func ExtractCommands(calls []Call) ([]string, error) {
	commands := make([]string, 0, len(calls))
	var errs []error

	for i, call := range calls {
		if call.Name != CallCommandName {
			continue
		}
		if call.Arguments == "" {
			continue
		}

		var args map[string]any
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			errs = append(errs, &ArgumentsError{Index: i, ID: call.ID, Err: err})
			continue
		}

		cmd, ok := args[CommandArgument].(string)
		if !ok || cmd == "" {
			continue
		}
		commands = append(commands, cmd)
	}

	return commands, errors.Join(errs...)
}
