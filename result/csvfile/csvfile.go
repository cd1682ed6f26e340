//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package csvfile persists evaluation records to a local CSV file, one
// row per item, flushed after every append.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"trpc.group/trpc-go/trpc-eval-go/result"
)

// Verify that Recorder implements the result.Recorder interface.
var _ result.Recorder = (*Recorder)(nil)

// Recorder writes records to a CSV file. The first appended record
// fixes the header; later records must carry the same fields in the
// same order.
type Recorder struct {
	path string

	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
	header []string
	closed bool
}

// New creates the directory if needed and opens <dir>/<filename> for
// writing, truncating any previous run's output.
func New(dir, filename string) (*Recorder, error) {
	if filename == "" {
		return nil, fmt.Errorf("result filename is empty")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create result directory %s: %w", dir, err)
		}
	}
	path := filepath.Join(dir, filename)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create result file %s: %w", path, err)
	}
	return &Recorder{
		path:   path,
		file:   file,
		writer: csv.NewWriter(file),
	}, nil
}

// Path returns the output file path.
func (r *Recorder) Path() string { return r.path }

// Append writes one record as a CSV row, preceded by the header row on
// the first call, and flushes so the row survives a crash.
func (r *Recorder) Append(_ context.Context, record *result.Record) error {
	if record == nil || record.Len() == 0 {
		return fmt.Errorf("append empty record to %s", r.path)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("result file %s already closed", r.path)
	}
	names := record.Names()
	if r.header == nil {
		if err := r.writer.Write(names); err != nil {
			return fmt.Errorf("write result header: %w", err)
		}
		r.header = names
	} else if !sameHeader(r.header, names) {
		return fmt.Errorf("record fields %v do not match header %v", names, r.header)
	}
	if err := r.writer.Write(record.Values()); err != nil {
		return fmt.Errorf("write result row: %w", err)
	}
	r.writer.Flush()
	if err := r.writer.Error(); err != nil {
		return fmt.Errorf("flush result row: %w", err)
	}
	return nil
}

// Close flushes pending rows and closes the file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.writer.Flush()
	if err := r.writer.Error(); err != nil {
		r.file.Close()
		return fmt.Errorf("flush result file %s: %w", r.path, err)
	}
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("close result file %s: %w", r.path, err)
	}
	return nil
}

func sameHeader(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
