// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the rsii command line.
//
// rsii has no subcommands: every positional word is part of the query, and
// the few extra modes (--init, --show-config, --history) are flags. Flags
// must come before the query.
//
// # Usage
//
//	os.Exit(cli.Execute(cli.App{Version: version.Resolve().String()}))
//
// # Exit Codes
//
//   - 0: success, including "no tool calls found" and an empty query
//   - 1: other failure
//   - 2: invalid flags
//   - 3: config missing, malformed or incomplete
//   - 4: API key rejected
//   - 5: model request failed
//   - 6: no paste strategy for this OS (use --no-paste)
package cli
