// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"encoding/json"

	"github.com/jeranaias/rsii/internal/tools"
)

// ToolChoiceRequired forces the model to answer with at least one tool call.
const ToolChoiceRequired = "required"

// =============================================================================
// REQUEST
// =============================================================================

// ChatMessage represents a single message in a chat conversation.
type ChatMessage struct {
	Role      string     `json:"role"` // "user", "assistant", or "system"
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{Role: "user", Content: content}
}

// ChatRequest represents a request to the chat completions endpoint.
type ChatRequest struct {
	Model      string        `json:"model"`
	Messages   []ChatMessage `json:"messages"`
	ToolChoice string        `json:"tool_choice,omitempty"`
	Tools      []Tool        `json:"tools,omitempty"`
}

// Tool is the wire form of a function the model may call.
type Tool struct {
	Type     string     `json:"type"`
	Function ToolSchema `json:"function"`
}

// ToolSchema names and describes a callable function.
type ToolSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  ToolParameters `json:"parameters"`
}

// ToolParameters is a JSON Schema object describing the arguments.
type ToolParameters struct {
	Type       string                  `json:"type"`
	Properties map[string]ToolProperty `json:"properties"`
	Required   []string                `json:"required"`
}

// ToolProperty describes a single argument.
type ToolProperty struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// ToolFromDefinition converts a tool definition to its wire form.
func ToolFromDefinition(tool tools.Tool) Tool {
	properties := make(map[string]ToolProperty, len(tool.Schema.Parameters))

	for _, param := range tool.Schema.Parameters {
		prop := ToolProperty{
			Type:        param.Type,
			Description: param.Description,
		}
		if len(param.Enum) > 0 {
			prop.Enum = append([]string(nil), param.Enum...)
		}
		properties[param.Name] = prop
	}

	return Tool{
		Type: "function",
		Function: ToolSchema{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters: ToolParameters{
				Type:       "object",
				Properties: properties,
				Required:   tool.Schema.RequiredNames(),
			},
		},
	}
}

// NewCommandRequest builds the request for one resolution: a single user
// message, the call_command tool, and tool_choice "required".
func NewCommandRequest(model, prompt string) ChatRequest {
	return ChatRequest{
		Model:      model,
		Messages:   []ChatMessage{NewUserMessage(prompt)},
		ToolChoice: ToolChoiceRequired,
		Tools:      []Tool{ToolFromDefinition(tools.Definition())},
	}
}

// =============================================================================
// RESPONSE
// =============================================================================

// ToolCall is a function invocation returned by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall holds the called function's name and its raw JSON arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// UnmarshalJSON accepts arguments encoded either as a JSON string (the
// OpenAI form) or as an inline object, which some compatible servers send.
func (f *FunctionCall) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Name = raw.Name
	f.Arguments = ""

	if len(raw.Arguments) == 0 || string(raw.Arguments) == "null" {
		return nil
	}
	if raw.Arguments[0] == '"' {
		return json.Unmarshal(raw.Arguments, &f.Arguments)
	}
	f.Arguments = string(raw.Arguments)
	return nil
}

// Choice is one candidate reply.
type Choice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// Usage reports token accounting for a request.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse represents a response from the chat completions endpoint.
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// GetContent returns the content of the first choice, or empty string if none.
func (r *ChatResponse) GetContent() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// ToolCalls returns the tool calls of the first choice in response order.
func (r *ChatResponse) ToolCalls() []tools.Call {
	if r == nil || len(r.Choices) == 0 {
		return nil
	}
	raw := r.Choices[0].Message.ToolCalls
	if len(raw) == 0 {
		return nil
	}
	calls := make([]tools.Call, 0, len(raw))
	for _, tc := range raw {
		calls = append(calls, tools.Call{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return calls
}
