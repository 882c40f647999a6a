// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package resolve wires the command-resolution pipeline together.
//
// One Run makes exactly one model request. The commands it returns are
// staged one at a time, in the order the model produced them; when several
// are staged the last one is what remains on the clipboard.
//
// # Usage
//
//	p := resolve.New(resolve.Settings{Model: m, SystemPrompt: sp}, client).
//	    WithStager(staging.NewStager(nil)).
//	    WithPaster(paster).
//	    WithLogger(logger)
//	res, err := p.Run(ctx, "list files by size")
package resolve
