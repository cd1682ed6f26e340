//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package lib provides a chatbot backend bound to a locally loaded
// model. It is a variant point: the engine stays agnostic to whichever
// Generator implementation is plugged in.
package lib

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trpc.group/trpc-go/trpc-eval-go/chatbot"
	"trpc.group/trpc-go/trpc-eval-go/config"
)

// Verify that Chatbot implements the chatbot.Chatbot interface.
var _ chatbot.Chatbot = (*Chatbot)(nil)

// Generator produces an answer from a locally loaded model.
type Generator interface {
	// Generate returns the model's answer for the question.
	Generate(ctx context.Context, question string) (string, error)
}

// Chatbot delegates questions to a local Generator.
type Chatbot struct {
	generator Generator
	modelPath string
}

// Option configures the library chatbot.
type Option func(*Chatbot)

// WithGenerator binds the local model implementation.
func WithGenerator(g Generator) Option {
	return func(c *Chatbot) { c.generator = g }
}

// WithModelPath records the path the model was loaded from, echoed as
// a construction parameter.
func WithModelPath(path string) Option {
	return func(c *Chatbot) { c.modelPath = path }
}

// New creates a library chatbot. A Generator must be bound.
func New(opt ...Option) (*Chatbot, error) {
	c := &Chatbot{}
	for _, o := range opt {
		o(c)
	}
	if c.generator == nil {
		return nil, errors.New("lib chatbot requires a generator")
	}
	return c, nil
}

// Builder rejects construction from configuration alone: a local model
// cannot be bound through the config file. Programs embedding a local
// model register their own builder that calls New with a Generator.
func Builder(*config.Config, []string) (chatbot.Chatbot, error) {
	return nil, errors.New("lib chatbot has no bound generator; register a custom builder")
}

// Answer delegates to the bound generator and measures the call.
func (c *Chatbot) Answer(ctx context.Context, question string) (*chatbot.Response, error) {
	start := time.Now()
	text, err := c.generator.Generate(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: local generation: %v", chatbot.ErrBackend, err)
	}
	return &chatbot.Response{Text: text, Duration: time.Since(start)}, nil
}

// Type returns the backend tag.
func (c *Chatbot) Type() string { return config.ChatbotTypeLib }

// Parameters returns the resolved construction parameters.
func (c *Chatbot) Parameters() map[string]string {
	params := map[string]string{"chatbot_type": config.ChatbotTypeLib}
	if c.modelPath != "" {
		params["model_path"] = c.modelPath
	}
	return params
}
