//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package csvfile

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-eval-go/result"
)

func newRecord(t *testing.T, pairs ...string) *result.Record {
	t.Helper()
	require.Zero(t, len(pairs)%2)
	r := result.NewRecord()
	for i := 0; i < len(pairs); i += 2 {
		require.NoError(t, r.Add(pairs[i], pairs[i+1]))
	}
	return r
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestAppend_WritesHeaderThenRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path := filepath.Join(dir, "results.csv")
	rec, err := New(dir, "results.csv")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, rec.Append(ctx, newRecord(t, "index", "0", "question", "q0", "dummy_score", "0.1")))
	require.NoError(t, rec.Append(ctx, newRecord(t, "index", "1", "question", "q1", "dummy_score", "0.2")))
	require.NoError(t, rec.Close())

	rows := readRows(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"index", "question", "dummy_score"}, rows[0])
	assert.Equal(t, []string{"0", "q0", "0.1"}, rows[1])
	assert.Equal(t, []string{"1", "q1", "0.2"}, rows[2])
}

func TestAppend_FlushesEachRow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.csv")
	rec, err := New(dir, "results.csv")
	require.NoError(t, err)
	defer rec.Close()

	require.NoError(t, rec.Append(context.Background(), newRecord(t, "index", "0")))

	// The row must be on disk before Close.
	rows := readRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"0"}, rows[1])
}

func TestAppend_RejectsMismatchedColumns(t *testing.T) {
	rec, err := New(t.TempDir(), "results.csv")
	require.NoError(t, err)
	defer rec.Close()

	ctx := context.Background()
	require.NoError(t, rec.Append(ctx, newRecord(t, "index", "0", "question", "q0")))
	assert.Error(t, rec.Append(ctx, newRecord(t, "index", "1", "answer", "a1")))
	assert.Error(t, rec.Append(ctx, newRecord(t, "index", "1")))
}

func TestAppend_QuotesEmbeddedSeparators(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.csv")
	rec, err := New(dir, "results.csv")
	require.NoError(t, err)

	messy := "line one\nline two, with comma and \"quotes\""
	require.NoError(t, rec.Append(context.Background(), newRecord(t, "question", messy)))
	require.NoError(t, rec.Close())

	rows := readRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, messy, rows[1][0])
}

func TestAppend_AfterCloseFails(t *testing.T) {
	rec, err := New(t.TempDir(), "results.csv")
	require.NoError(t, err)
	require.NoError(t, rec.Close())
	require.NoError(t, rec.Close())

	assert.Error(t, rec.Append(context.Background(), newRecord(t, "index", "0")))
}

func TestNew_EmptyFilename(t *testing.T) {
	_, err := New(t.TempDir(), "")
	assert.Error(t, err)
}
