//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package chatbot defines the pluggable chatbot backend abstraction and
// the registry that resolves configured backend types to constructors.
package chatbot

import (
	"context"
	"errors"
	"time"

	"trpc.group/trpc-go/trpc-eval-go/config"
)

// ErrBackend marks a per-item chatbot failure (network error, timeout,
// malformed response). The evaluation engine records the item with an
// error marker and continues the run.
var ErrBackend = errors.New("chatbot backend error")

// Response is one predicted answer with the wall-clock duration of the
// call that produced it.
type Response struct {
	// Text is the predicted answer.
	Text string
	// Duration is the wall-clock time of the backend call.
	Duration time.Duration
}

// Chatbot is a pluggable source of predicted answers to a question.
type Chatbot interface {
	// Answer returns a prediction for the question. Implementations
	// measure the wall-clock duration of the call themselves.
	Answer(ctx context.Context, question string) (*Response, error)
	// Type returns the registered backend tag.
	Type() string
	// Parameters returns the resolved construction parameters, echoed
	// verbatim into the result file.
	Parameters() map[string]string
}

// Builder constructs a chatbot backend from the run configuration.
// answers holds the dataset's reference answers; backends that do not
// need them ignore the argument.
type Builder func(cfg *config.Config, answers []string) (Chatbot, error)
