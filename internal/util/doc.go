// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across rsii.
//
// # Key Functions
//
//   - NormalizeQuery: Join CLI words into an NFC-normalized query
//   - TruncateWidth: Column-aware truncation for the history table
//   - AtomicWriteFile: Crash-safe file writing with fsync
package util
