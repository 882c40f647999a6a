// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads rsii's TOML configuration.
//
// The file lives at ~/.rsii/config.toml unless RSII_CONFIG or --config points
// elsewhere. The [default] table's model, api-key and system-prompt keys are
// required; [api], [paste] and [history] are optional.
//
// # Key Types
//
//   - Config: Resolved settings for one invocation
//   - LoadError: Any failure to produce a usable Config
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    var le *config.LoadError
//	    errors.As(err, &le) // le.Path, le.Field
//	}
//
// # Environment Variables
//
//   - RSII_MODEL: overrides default.model
//   - RSII_API_KEY: overrides default.api-key
//   - RSII_SYSTEM_PROMPT: overrides default.system-prompt
//   - RSII_BASE_URL: overrides api.base-url
//   - RSII_CONFIG: config file path
//
// # Security
//
// Config files are chmod 0600 on load and written 0600 by EnsureDefault.
// String() redacts the API key.
package config
