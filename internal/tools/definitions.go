// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

// =============================================================================
// TOOL DEFINITION
// =============================================================================

// CallCommandName is the only tool name the model is allowed to call.
const CallCommandName = "call_command"

// CommandArgument is the argument key carrying the shell command.
const CommandArgument = "command"

// Tool describes a function the model may invoke.
type Tool struct {
	// Name is the tool identifier sent to the model.
	Name string

	// Description explains to the model when to call the tool.
	Description string

	// Schema describes the tool's arguments.
	Schema Schema
}

// Schema defines the parameters a tool accepts.
type Schema struct {
	Parameters []Parameter
}

// Parameter is a single named argument of a tool.
type Parameter struct {
	Name        string
	Type        string // "string", "number", "boolean", "object", "array"
	Description string
	Required    bool
	Enum        []string
}

// RequiredNames returns the names of required parameters in declaration
// order. The result is never nil.
func (s Schema) RequiredNames() []string {
	names := []string{}
	for _, p := range s.Parameters {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

// CallCommandTool is the fixed contract with the model: one required string
// argument holding the command to stage.
var CallCommandTool = Tool{
	Name:        CallCommandName,
	Description: "calls the given command for user",
	Schema: Schema{
		Parameters: []Parameter{
			{
				Name:        CommandArgument,
				Type:        "string",
				Description: "The command to be executed",
				Required:    true,
			},
		},
	},
}

// Definition returns a copy of CallCommandTool. Mutating the result does not
// affect later calls.
func Definition() Tool {
	return CallCommandTool.Clone()
}

// Clone returns a deep copy of the tool.
func (t Tool) Clone() Tool {
	out := t
	if t.Schema.Parameters != nil {
		out.Schema.Parameters = make([]Parameter, len(t.Schema.Parameters))
		for i, p := range t.Schema.Parameters {
			if p.Enum != nil {
				p.Enum = append([]string(nil), p.Enum...)
			}
			out.Schema.Parameters[i] = p
		}
	}
	return out
}
