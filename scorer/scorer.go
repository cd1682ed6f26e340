//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package scorer defines the pluggable scoring abstraction and the
// registry that resolves configured scorer tags to constructors.
package scorer

import (
	"context"
	"errors"

	"trpc.group/trpc-go/trpc-eval-go/config"
)

// ErrBackend marks a per-item scoring failure (model inference error,
// network error, malformed judge reply). The evaluation engine records
// the item with an error marker and continues the run.
var ErrBackend = errors.New("scorer backend error")

// Scorer is a pluggable similarity metric between a reference answer
// and a predicted answer. Implementations are constructed once per run
// and must be safe for concurrent use.
type Scorer interface {
	// Score returns a similarity score for the prediction against the
	// reference.
	Score(ctx context.Context, reference, predicted string) (float64, error)
	// Name returns the registered scorer tag.
	Name() string
	// Parameters returns the resolved construction parameters, echoed
	// into the result file as the <tag>_params column.
	Parameters() map[string]string
}

// Builder constructs a scorer from the run configuration. Expensive
// resources (model clients) are acquired here, once per run.
type Builder func(cfg *config.Config) (Scorer, error)
