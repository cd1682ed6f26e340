//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package result defines the tabular record emitted per evaluated item
// and the recorder that persists it.
package result

import (
	"context"
	"fmt"
)

// Item status values written to the status column.
const (
	// StatusEvaluated marks an item that was answered and scored.
	StatusEvaluated Status = "evaluated"
	// StatusError marks an item whose chatbot or scorer call failed.
	StatusError Status = "error"
)

// Status describes the outcome of a single item.
type Status string

// String returns the column value for the status.
func (s Status) String() string { return string(s) }

// Field is one named cell of a record.
type Field struct {
	Name  string
	Value string
}

// Record is an ordered list of named fields. Field order determines
// column order in the output file, so every record of a run must carry
// the same fields in the same order.
type Record struct {
	fields []Field
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{}
}

// Add appends a field. Duplicate names are rejected to keep the header
// unambiguous.
func (r *Record) Add(name, value string) error {
	if name == "" {
		return fmt.Errorf("record field name is empty")
	}
	for _, f := range r.fields {
		if f.Name == name {
			return fmt.Errorf("record field %s added twice", name)
		}
	}
	r.fields = append(r.fields, Field{Name: name, Value: value})
	return nil
}

// Get returns the value of the named field.
func (r *Record) Get(name string) (string, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Names returns the field names in order.
func (r *Record) Names() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

// Values returns the field values in order.
func (r *Record) Values() []string {
	values := make([]string, len(r.fields))
	for i, f := range r.fields {
		values[i] = f.Value
	}
	return values
}

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.fields) }

// Recorder persists records one at a time. Append must make the record
// durable before returning so a crash mid-run loses at most the item
// in flight.
type Recorder interface {
	// Append persists one record.
	Append(ctx context.Context, record *Record) error
	// Close releases the underlying resources.
	Close() error
}
