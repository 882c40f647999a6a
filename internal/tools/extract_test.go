// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCommands(t *testing.T) {
	tests := []struct {
		name  string
		calls []Call
		want  []string
	}{
		{
			name:  "no calls",
			calls: nil,
			want:  []string{},
		},
		{
			name:  "single valid call",
			calls: []Call{{Name: "call_command", Arguments: `{"command":"ls -la"}`}},
			want:  []string{"ls -la"},
		},
		{
			name: "order preserved and duplicates kept",
			calls: []Call{
				{Name: "call_command", Arguments: `{"command":"pwd"}`},
				{Name: "call_command", Arguments: `{"command":"ls"}`},
				{Name: "call_command", Arguments: `{"command":"pwd"}`},
			},
			want: []string{"pwd", "ls", "pwd"},
		},
		{
			name: "unknown tool name skipped",
			calls: []Call{
				{Name: "run_python", Arguments: `{"command":"print(1)"}`},
				{Name: "call_command", Arguments: `{"command":"date"}`},
			},
			want: []string{"date"},
		},
		{
			name:  "empty arguments skipped",
			calls: []Call{{Name: "call_command", Arguments: ""}},
			want:  []string{},
		},
		{
			name: "missing or non-string command skipped",
			calls: []Call{
				{Name: "call_command", Arguments: `{}`},
				{Name: "call_command", Arguments: `{"command":42}`},
				{Name: "call_command", Arguments: `{"command":""}`},
				{Name: "call_command", Arguments: `{"cmd":"ls"}`},
				{Name: "call_command", Arguments: `null`},
			},
			want: []string{},
		},
		{
			name:  "extra fields ignored",
			calls: []Call{{Name: "call_command", Arguments: `{"command":"uptime","reason":"load"}`}},
			want:  []string{"uptime"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractCommands(tc.calls)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractCommands_MalformedCallIsolated(t *testing.T) {
	calls := []Call{
		{Name: "call_command", Arguments: `{"command":"echo one"}`},
		{ID: "call_2", Name: "call_command", Arguments: `{"command":`},
		{Name: "call_command", Arguments: `{"command":"echo three"}`},
	}

	got, err := ExtractCommands(calls)

	assert.Equal(t, []string{"echo one", "echo three"}, got)
	require.Error(t, err)

	var argErr *ArgumentsError
	require.True(t, errors.As(err, &argErr))
	assert.Equal(t, 1, argErr.Index)
	assert.Equal(t, "call_2", argErr.ID)
	assert.Contains(t, err.Error(), "call_2")
}

func TestExtractCommands_MultipleErrorsJoined(t *testing.T) {
	calls := []Call{
		{Name: "call_command", Arguments: `not json`},
		{Name: "call_command", Arguments: `[1,2]`},
	}

	got, err := ExtractCommands(calls)

	assert.Empty(t, got)
	require.Error(t, err)
	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	assert.Len(t, joined.Unwrap(), 2)
}

type fakeResponse []Call

func (f fakeResponse) ToolCalls() []Call { return f }

func TestFromResponse(t *testing.T) {
	got, err := FromResponse(fakeResponse{{Name: "call_command", Arguments: `{"command":"whoami"}`}})
	require.NoError(t, err)
	assert.Equal(t, []string{"whoami"}, got)

	got, err = FromResponse(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
