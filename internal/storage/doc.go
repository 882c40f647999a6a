// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage keeps a local journal of the commands rsii has staged.
//
// The journal is the user's own record for `rsii --history`. Nothing in it
// is ever sent back to the model.
//
// # Key Types
//
//   - Journal: SQLite-backed append-only log
//   - Entry: One staged command with its query, model and paste outcome
//
// # Usage
//
//	j, err := storage.OpenJournal(cfg.HistoryPath(), logger)
//	defer j.Close()
//	_, err = j.Record(ctx, storage.Entry{RequestID: id, Query: q, Command: cmd, Model: m})
//	recent, err := j.Recent(ctx, 10)
//
// # Storage Location
//
// ~/.rsii/history.db by default, created 0600. Uses the pure-Go
// modernc.org/sqlite driver, so no cgo is required.
package storage
