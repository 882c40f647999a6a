// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/rsii/internal/logging"
)

// ErrClosed is returned when the journal is used after Close.
var ErrClosed = errors.New("journal is closed")

// =============================================================================
// ENTRY
// =============================================================================

// Entry is one command placed on the clipboard.
type Entry struct {
	ID         int64
	RequestID  string
	Query      string
	Command    string
	Model      string
	Pasted     bool
	PasteError string
	CreatedAt  time.Time
}

// =============================================================================
// JOURNAL
// =============================================================================

// Journal is an append-only SQLite log of staged commands.
type Journal struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenJournal opens (creating if needed) the journal database at path.
// A nil logger disables logging.
func OpenJournal(path string, logger *zap.Logger) (*Journal, error) {
	logger = logging.OrNop(logger)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	// SECURITY: queries may mention paths or hosts. Create the file private so
	// SQLite gives the WAL and SHM files the same mode.
	if f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600); err == nil {
		f.Close()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=2000", // another rsii may be writing
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	restrictPermissions(path, logger)

	return &Journal{db: db}, nil
}

// Record appends an entry. A zero CreatedAt is set to now.
func (j *Journal) Record(ctx context.Context, e Entry) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return 0, ErrClosed
	}

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	res, err := j.db.ExecContext(ctx,
		`INSERT INTO staged_commands (request_id, query, command, model, pasted, paste_error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.RequestID, e.Query, e.Command, e.Model, boolToInt(e.Pasted), e.PasteError, e.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record staged command: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		return []Entry{}, nil
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, request_id, query, command, model, pasted, paste_error, created_at
		 FROM staged_commands ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var (
			e       Entry
			pasted  int
			created int64
		)
		if err := rows.Scan(&e.ID, &e.RequestID, &e.Query, &e.Command, &e.Model, &pasted, &e.PasteError, &created); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		e.Pasted = pasted != 0
		e.CreatedAt = time.UnixMilli(created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database. Further calls return ErrClosed.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}

// journalFiles are the database and its WAL-mode sidecars.
func journalFiles(path string) []string {
	return []string{path, path + "-wal", path + "-shm"}
}

// restrictPermissions tightens a journal created by an older version or
// another tool. Failures are not fatal.
func restrictPermissions(path string, logger *zap.Logger) {
	for _, f := range journalFiles(path) {
		info, err := os.Stat(f)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Debug("could not stat journal file", zap.String("path", f), zap.Error(err))
			}
			continue
		}
		if info.Mode().Perm()&0077 == 0 {
			continue
		}
		if err := os.Chmod(f, 0600); err != nil {
			logger.Debug("could not restrict journal permissions", zap.String("path", f), zap.Error(err))
		}
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
