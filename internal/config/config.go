// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/rsii/internal/util"
)

//go:embed default.config.toml
var defaultConfigTOML []byte

// DefaultTOML returns the config written by EnsureDefault.
func DefaultTOML() []byte {
	return append([]byte(nil), defaultConfigTOML...)
}

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the resolved configuration for one invocation.
type Config struct {
	Default DefaultConfig `toml:"default"`
	API     APIConfig     `toml:"api"`
	Paste   PasteConfig   `toml:"paste"`
	History HistoryConfig `toml:"history"`

	// Path is the file the config was loaded from.
	Path string `toml:"-"`
}

// DefaultConfig holds the required settings.
type DefaultConfig struct {
	Model        string `toml:"model"`
	APIKey       string `toml:"api-key"`
	SystemPrompt string `toml:"system-prompt"`
}

// APIConfig configures the chat completions endpoint.
type APIConfig struct {
	BaseURL string        `toml:"base-url"`
	Timeout time.Duration `toml:"timeout"`
}

// PasteConfig controls paste simulation.
type PasteConfig struct {
	Enabled bool `toml:"enabled"`
}

// HistoryConfig controls the staged-command journal.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// requiredKeys lists the keys that must be present in the file or the
// environment, with the env var that can stand in for each.
var requiredKeys = []struct {
	key []string
	env string
}{
	{[]string{"default", "model"}, EnvModel},
	{[]string{"default", "api-key"}, EnvAPIKey},
	{[]string{"default", "system-prompt"}, EnvSystemPrompt},
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultBaseURL is the endpoint used when [api] base-url is not set.
const DefaultBaseURL = "https://api.openai.com/v1"

// Default returns the optional settings' defaults. The required fields are
// left empty.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
		},
		Paste: PasteConfig{
			Enabled: true,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the rsii configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".rsii"), nil
}

// DefaultPath returns $RSII_CONFIG, or ~/.rsii/config.toml.
func DefaultPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// HistoryPath returns the journal location: [history] path, or history.db
// next to the config file.
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return expandHome(c.History.Path)
	}
	if c.Path != "" {
		return filepath.Join(filepath.Dir(c.Path), "history.db")
	}
	if dir, err := ConfigDir(); err == nil {
		return filepath.Join(dir, "history.db")
	}
	return "history.db"
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files should be 0600 (owner read/write only) to protect API keys.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD
// =============================================================================

// Load reads the config at path (DefaultPath when empty), applies environment
// overrides and validates it. Every failure is a *LoadError.
func Load(path string) (*Config, error) {
	cfg, md, err := decode(path)
	if err != nil {
		return nil, err
	}

	for _, rk := range requiredKeys {
		if !md.IsDefined(rk.key...) && os.Getenv(rk.env) == "" {
			return nil, &LoadError{Path: cfg.Path, Field: strings.Join(rk.key, "."), Err: ErrMissingField}
		}
	}

	if err := cfg.Validate(); err != nil {
		var ve ValidationError
		if errors.As(err, &ve) {
			return nil, &LoadError{Path: cfg.Path, Field: ve.Field, Err: err}
		}
		return nil, &LoadError{Path: cfg.Path, Err: err}
	}

	return cfg, nil
}

// Decode reads the config like Load but skips the required-field and value
// checks. It serves callers that only need the optional tables, such as the
// history listing.
func Decode(path string) (*Config, error) {
	cfg, _, err := decode(path)
	return cfg, err
}

func decode(path string) (*Config, toml.MetaData, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, toml.MetaData{}, &LoadError{Err: err}
		}
		path = p
	}
	path = expandHome(path)

	if _, err := os.Stat(path); err != nil {
		return nil, toml.MetaData{}, &LoadError{Path: path, Err: err}
	}

	// SECURITY: Check and fix file permissions if needed
	if err := ensureSecurePermissions(path); err != nil {
		// Not fatal: permissions might not be fixable on all systems.
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, md, &LoadError{Path: path, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	cfg.Path = path
	cfg.ApplyEnvOverrides()

	return cfg, md, nil
}

// EnsureDefault writes the bundled default config to path if nothing exists
// there yet. It reports whether a file was created.
func EnsureDefault(path string) (bool, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return false, err
		}
		path = p
	}
	path = expandHome(path)

	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := util.AtomicWriteFile(path, defaultConfigTOML, 0600); err != nil {
		return false, fmt.Errorf("failed to write default config: %w", err)
	}
	return true, nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the resolved values. The first problem found is returned as
// a ValidationError.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Default.Model) == "" {
		return ValidationError{Field: "default.model", Message: "must not be empty", Err: ErrEmptyField}
	}
	if strings.TrimSpace(c.Default.APIKey) == "" {
		return ValidationError{Field: "default.api-key", Message: "must not be empty", Err: ErrEmptyField}
	}
	if strings.TrimSpace(c.Default.SystemPrompt) == "" {
		return ValidationError{Field: "default.system-prompt", Message: "must not be empty", Err: ErrEmptyField}
	}

	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ValidationError{Field: "api.base-url", Message: "must be an http or https URL", Err: ErrInvalidValue}
		}
	}
	if c.API.Timeout < 0 {
		return ValidationError{Field: "api.timeout", Message: "must not be negative", Err: ErrInvalidValue}
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// Environment variables read by ApplyEnvOverrides and DefaultPath.
const (
	EnvModel        = "RSII_MODEL"
	EnvAPIKey       = "RSII_API_KEY"
	EnvSystemPrompt = "RSII_SYSTEM_PROMPT"
	EnvBaseURL      = "RSII_BASE_URL"
	EnvConfigPath   = "RSII_CONFIG"
)

// ApplyEnvOverrides applies environment variable overrides to the config.
// Empty variables are ignored.
func (c *Config) ApplyEnvOverrides() {
	if model := os.Getenv(EnvModel); model != "" {
		c.Default.Model = model
	}
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.Default.APIKey = key
	}
	if prompt := os.Getenv(EnvSystemPrompt); prompt != "" {
		c.Default.SystemPrompt = prompt
	}
	if base := os.Getenv(EnvBaseURL); base != "" {
		c.API.BaseURL = base
	}
}

// =============================================================================
// DISPLAY
// =============================================================================

// String renders the config as TOML.
// SECURITY: The API key is redacted so the output is safe to print or log.
func (c *Config) String() string {
	safe := *c
	if safe.Default.APIKey != "" {
		safe.Default.APIKey = "[REDACTED]"
	}

	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(safe); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return b.String()
}
