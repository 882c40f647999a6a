// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTOML = `
[default]
model = "gpt-4o-mini"
api-key = "sk-file-key"
system-prompt = "You write shell commands."
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// clearEnv makes sure the developer's own RSII_* variables do not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvModel, EnvAPIKey, EnvSystemPrompt, EnvBaseURL, EnvConfigPath} {
		t.Setenv(k, "")
	}
}

// =============================================================================
// LOAD
// =============================================================================

func TestLoad_Valid(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, validTOML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.Default.Model)
	assert.Equal(t, "sk-file-key", cfg.Default.APIKey)
	assert.Equal(t, "You write shell commands.", cfg.Default.SystemPrompt)
	assert.Equal(t, path, cfg.Path)

	// Optional tables fall back to defaults.
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)
	assert.True(t, cfg.Paste.Enabled)
	assert.True(t, cfg.History.Enabled)
}

func TestLoad_OptionalTables(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, validTOML+`
[api]
base-url = "http://localhost:11434/v1"
timeout = "45s"

[paste]
enabled = false

[history]
enabled = false
path = "/tmp/rsii-history.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:11434/v1", cfg.API.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.API.Timeout)
	assert.False(t, cfg.Paste.Enabled)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, "/tmp/rsii-history.db", cfg.HistoryPath())
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
		want    error
	}{
		{
			name:    "missing model",
			content: "[default]\napi-key = \"k\"\nsystem-prompt = \"p\"\n",
			field:   "default.model",
			want:    ErrMissingField,
		},
		{
			name:    "missing api key",
			content: "[default]\nmodel = \"m\"\nsystem-prompt = \"p\"\n",
			field:   "default.api-key",
			want:    ErrMissingField,
		},
		{
			name:    "missing system prompt",
			content: "[default]\nmodel = \"m\"\napi-key = \"k\"\n",
			field:   "default.system-prompt",
			want:    ErrMissingField,
		},
		{
			name:    "empty api key",
			content: "[default]\nmodel = \"m\"\napi-key = \"\"\nsystem-prompt = \"p\"\n",
			field:   "default.api-key",
			want:    ErrEmptyField,
		},
		{
			name:    "no default table",
			content: "[api]\nbase-url = \"https://example.com\"\n",
			field:   "default.model",
			want:    ErrMissingField,
		},
		{
			name:    "malformed toml",
			content: "[default\nmodel = ",
			want:    ErrMalformed,
		},
		{
			name:    "wrong type",
			content: "[default]\nmodel = 42\napi-key = \"k\"\nsystem-prompt = \"p\"\n",
			want:    ErrMalformed,
		},
		{
			name:    "bad base url",
			content: validTOML + "[api]\nbase-url = \"ftp://example.com\"\n",
			field:   "api.base-url",
			want:    ErrInvalidValue,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			path := writeConfig(t, tc.content)

			cfg, err := Load(path)
			require.Error(t, err)
			assert.Nil(t, cfg)

			var le *LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, path, le.Path)
			assert.Equal(t, tc.field, le.Field)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nope.toml")

	_, err := Load(path)

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvModel, "env-model")
	t.Setenv(EnvAPIKey, "sk-env-key")
	t.Setenv(EnvBaseURL, "https://openrouter.ai/api/v1")

	cfg, err := Load(writeConfig(t, validTOML))
	require.NoError(t, err)

	assert.Equal(t, "env-model", cfg.Default.Model)
	assert.Equal(t, "sk-env-key", cfg.Default.APIKey)
	assert.Equal(t, "You write shell commands.", cfg.Default.SystemPrompt)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.API.BaseURL)
}

func TestLoad_EnvSuppliesMissingKey(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIKey, "sk-env-key")

	cfg, err := Load(writeConfig(t, "[default]\nmodel = \"m\"\nsystem-prompt = \"p\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "sk-env-key", cfg.Default.APIKey)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, validTOML)
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
}

func TestLoad_FixesPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	clearEnv(t)
	path := writeConfig(t, validTOML)

	_, err := Load(path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

// =============================================================================
// DEFAULT CONFIG
// =============================================================================

func TestEnsureDefault_WritesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	created, err := EnsureDefault(path)
	require.NoError(t, err)
	assert.True(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultTOML(), data)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	require.NoError(t, os.WriteFile(path, []byte("# mine"), 0600))
	created, err = EnsureDefault(path)
	require.NoError(t, err)
	assert.False(t, created)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# mine", string(data))
}

func TestDefaultTOML_Parses(t *testing.T) {
	cfg := Default()
	md, err := toml.Decode(string(DefaultTOML()), cfg)
	require.NoError(t, err)
	assert.Empty(t, md.Undecoded())

	assert.True(t, md.IsDefined("default", "model"))
	assert.True(t, md.IsDefined("default", "api-key"))
	assert.True(t, md.IsDefined("default", "system-prompt"))
	assert.NotEmpty(t, cfg.Default.Model)
	assert.NotEmpty(t, cfg.Default.SystemPrompt)
	// The shipped file has no key, so loading it untouched asks the user for one.
	assert.ErrorIs(t, cfg.Validate(), ErrEmptyField)
}

// =============================================================================
// DISPLAY
// =============================================================================

func TestString_RedactsAPIKey(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, validTOML))
	require.NoError(t, err)

	out := cfg.String()
	assert.NotContains(t, out, "sk-file-key")
	assert.Contains(t, out, "[REDACTED]")
	assert.Contains(t, out, "gpt-4o-mini")

	// The original is untouched.
	assert.Equal(t, "sk-file-key", cfg.Default.APIKey)
}

func TestHistoryPath_DefaultsNextToConfig(t *testing.T) {
	cfg := Default()
	cfg.Path = filepath.Join("home", "u", ".rsii", "config.toml")
	assert.Equal(t, filepath.Join("home", "u", ".rsii", "history.db"), cfg.HistoryPath())
}

func TestLoadError_Message(t *testing.T) {
	err := &LoadError{Path: "/x/config.toml", Field: "default.model", Err: ErrMissingField}
	assert.True(t, strings.Contains(err.Error(), "default.model"))
	assert.True(t, strings.Contains(err.Error(), "/x/config.toml"))
}

func TestDecode_SkipsRequiredChecks(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[history]\npath = \"/tmp/h.db\"\n")

	_, err := Load(path)
	require.Error(t, err)

	cfg, err := Decode(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/h.db", cfg.HistoryPath())
	assert.Equal(t, path, cfg.Path)
}
