// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := OpenJournal(filepath.Join(t.TempDir(), "nested", "history.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestJournal_RecordAndRecent(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, cmd := range []string{"ls", "pwd", "df -h"} {
		id, err := j.Record(ctx, Entry{
			RequestID: "req-1",
			Query:     "q",
			Command:   cmd,
			Model:     "gpt-4o-mini",
			Pasted:    i%2 == 0,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
		assert.Positive(t, id)
	}

	recent, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	assert.Equal(t, "df -h", recent[0].Command)
	assert.True(t, recent[0].Pasted)
	assert.Equal(t, "pwd", recent[1].Command)
	assert.False(t, recent[1].Pasted)
	assert.True(t, recent[0].CreatedAt.Equal(base.Add(2*time.Minute)))
	assert.Equal(t, "gpt-4o-mini", recent[0].Model)
}

func TestJournal_PasteErrorKept(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	_, err := j.Record(ctx, Entry{RequestID: "r", Query: "q", Command: "c", Model: "m", PasteError: "xdotool not found"})
	require.NoError(t, err)

	recent, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "xdotool not found", recent[0].PasteError)
	assert.False(t, recent[0].CreatedAt.IsZero())
}

func TestJournal_RecentZeroLimit(t *testing.T) {
	j := openTestJournal(t)
	recent, err := j.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestJournal_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	j, err := OpenJournal(path, nil)
	require.NoError(t, err)
	_, err = j.Record(ctx, Entry{RequestID: "r", Query: "q", Command: "uptime", Model: "m"})
	require.NoError(t, err)
	require.NoError(t, j.Close())

	j, err = OpenJournal(path, nil)
	require.NoError(t, err)
	defer j.Close()

	recent, err := j.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "uptime", recent[0].Command)
}

func TestJournal_Closed(t *testing.T) {
	j := openTestJournal(t)
	require.NoError(t, j.Close())
	require.NoError(t, j.Close())

	_, err := j.Record(context.Background(), Entry{})
	assert.ErrorIs(t, err, ErrClosed)
	_, err = j.Recent(context.Background(), 1)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestJournal_PrivatePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permissions")
	}
	path := filepath.Join(t.TempDir(), "history.db")
	// A journal left world-readable by an earlier run.
	require.NoError(t, os.WriteFile(path, nil, 0644))
	require.NoError(t, os.Chmod(path, 0644))

	j, err := OpenJournal(path, nil)
	require.NoError(t, err)
	defer j.Close()
	_, err = j.Record(context.Background(), Entry{RequestID: "r", Query: "q", Command: "id", Model: "m"})
	require.NoError(t, err)

	checked := 0
	for _, f := range journalFiles(path) {
		info, err := os.Stat(f)
		if os.IsNotExist(err) {
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), f)
		checked++
	}
	assert.GreaterOrEqual(t, checked, 2, "database and WAL file")
}

func TestJournal_NewFileIsPrivate(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permissions")
	}
	path := filepath.Join(t.TempDir(), "history.db")

	j, err := OpenJournal(path, nil)
	require.NoError(t, err)
	defer j.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
