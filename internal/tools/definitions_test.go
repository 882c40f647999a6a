// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinition_Shape(t *testing.T) {
	def := Definition()

	assert.Equal(t, "call_command", def.Name)
	assert.Equal(t, "calls the given command for user", def.Description)
	require.Len(t, def.Schema.Parameters, 1)

	p := def.Schema.Parameters[0]
	assert.Equal(t, "command", p.Name)
	assert.Equal(t, "string", p.Type)
	assert.Equal(t, "The command to be executed", p.Description)
	assert.True(t, p.Required)
	assert.Equal(t, []string{"command"}, def.Schema.RequiredNames())
}

func TestDefinition_Deterministic(t *testing.T) {
	assert.Equal(t, Definition(), Definition())
}

func TestDefinition_IsCopy(t *testing.T) {
	def := Definition()
	def.Name = "rm_rf"
	def.Schema.Parameters[0].Required = false
	def.Schema.Parameters = append(def.Schema.Parameters, Parameter{Name: "extra"})

	fresh := Definition()
	assert.Equal(t, "call_command", fresh.Name)
	require.Len(t, fresh.Schema.Parameters, 1)
	assert.True(t, fresh.Schema.Parameters[0].Required)
}

func TestClone_CopiesEnum(t *testing.T) {
	orig := Tool{Schema: Schema{Parameters: []Parameter{{Name: "shell", Enum: []string{"bash", "zsh"}}}}}
	c := orig.Clone()
	c.Schema.Parameters[0].Enum[0] = "fish"

	assert.Equal(t, "bash", orig.Schema.Parameters[0].Enum[0])
}

func TestSchema_RequiredNamesNeverNil(t *testing.T) {
	names := Schema{Parameters: []Parameter{{Name: "a", Type: "string"}}}.RequiredNames()
	assert.NotNil(t, names)
	assert.Empty(t, names)
}
