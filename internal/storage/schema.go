// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

// Schema creates the journal table. It is safe to run on every open.
const Schema = `
CREATE TABLE IF NOT EXISTS staged_commands (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id  TEXT    NOT NULL,
	query       TEXT    NOT NULL,
	command     TEXT    NOT NULL,
	model       TEXT    NOT NULL,
	pasted      INTEGER NOT NULL DEFAULT 0,
	paste_error TEXT    NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_staged_commands_created ON staged_commands(created_at);
CREATE INDEX IF NOT EXISTS idx_staged_commands_request ON staged_commands(request_id);
`
