//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package openai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaults(t *testing.T) {
	e := New()
	assert.Equal(t, DefaultModel, e.Model())
	assert.Equal(t, DefaultDimensions, e.dimensions)
	assert.Equal(t, DefaultMaxRetries, e.maxRetries)
}

func TestNewWithOptions(t *testing.T) {
	e := New(
		WithModel("text-embedding-3-large"),
		WithDimensions(3072),
		WithAPIKey("key"),
		WithBaseURL("http://localhost:8080"),
		WithMaxRetries(0),
	)
	assert.Equal(t, "text-embedding-3-large", e.Model())
	assert.Equal(t, 3072, e.dimensions)
	assert.Equal(t, 0, e.maxRetries)
}

func TestGetEmbeddingRejectsEmptyText(t *testing.T) {
	e := New(WithMaxRetries(0))
	_, err := e.GetEmbedding(context.Background(), "")
	assert.Error(t, err)
}

func TestGetBackoffDuration(t *testing.T) {
	e := New()
	assert.Equal(t, 100*time.Millisecond, e.getBackoffDuration(0))
	assert.Equal(t, 800*time.Millisecond, e.getBackoffDuration(3))
	// Attempts beyond the table reuse the last entry.
	assert.Equal(t, 800*time.Millisecond, e.getBackoffDuration(10))

	e.retryBackoff = nil
	assert.Equal(t, time.Duration(0), e.getBackoffDuration(0))
}
