//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package embedder defines the text embedding abstraction used by
// embedding-based scorers.
package embedder

import "context"

// Embedder generates vector embeddings for text.
type Embedder interface {
	// GetEmbedding returns the embedding vector for the given text.
	GetEmbedding(ctx context.Context, text string) ([]float64, error)
	// Model returns the identifier of the underlying embedding model.
	Model() string
}
