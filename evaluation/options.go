//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package evaluation

import (
	"trpc.group/trpc-go/trpc-eval-go/chatbot"
	chatbotregistry "trpc.group/trpc-go/trpc-eval-go/chatbot/registry"
	"trpc.group/trpc-go/trpc-eval-go/dataset"
	"trpc.group/trpc-go/trpc-eval-go/result"
	"trpc.group/trpc-go/trpc-eval-go/scorer"
	scorerregistry "trpc.group/trpc-go/trpc-eval-go/scorer/registry"
)

// Options is the configuration for the evaluation engine.
type Options struct {
	// Chatbot bypasses registry resolution when set.
	Chatbot chatbot.Chatbot
	// Scorers bypasses registry resolution when set.
	Scorers []scorer.Scorer
	// ChatbotRegistry resolves the configured chatbot type. Defaults to
	// the built-in registry.
	ChatbotRegistry chatbotregistry.Registry
	// ScorerRegistry resolves the configured scorer tags. Defaults to
	// the built-in registry.
	ScorerRegistry scorerregistry.Registry
	// Recorder persists the result rows. Defaults to a CSV file
	// recorder under the configured results directory.
	Recorder result.Recorder
	// Set bypasses dataset loading when set.
	Set *dataset.Set
	// Parallelism is the number of items evaluated concurrently.
	// Zero or negative keeps the sequential loop.
	Parallelism int
}

// Option is a function that configures the evaluation engine.
type Option func(*Options)

// NewOptions creates Options from the given Option list.
func NewOptions(opt ...Option) *Options {
	opts := &Options{
		ChatbotRegistry: chatbotregistry.New(),
		ScorerRegistry:  scorerregistry.New(),
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// WithChatbot injects a pre-built chatbot instead of resolving the
// configured type through the registry.
func WithChatbot(bot chatbot.Chatbot) Option {
	return func(o *Options) { o.Chatbot = bot }
}

// WithScorers injects pre-built scorers instead of resolving the
// configured tags through the registry.
func WithScorers(scorers ...scorer.Scorer) Option {
	return func(o *Options) { o.Scorers = scorers }
}

// WithChatbotRegistry replaces the chatbot builder registry.
func WithChatbotRegistry(r chatbotregistry.Registry) Option {
	return func(o *Options) { o.ChatbotRegistry = r }
}

// WithScorerRegistry replaces the scorer builder registry.
func WithScorerRegistry(r scorerregistry.Registry) Option {
	return func(o *Options) { o.ScorerRegistry = r }
}

// WithRecorder replaces the result recorder. The engine takes
// ownership and closes it on Close.
func WithRecorder(rec result.Recorder) Option {
	return func(o *Options) { o.Recorder = rec }
}

// WithDataset injects an already loaded dataset.
func WithDataset(set *dataset.Set) Option {
	return func(o *Options) { o.Set = set }
}

// WithParallelism evaluates up to n items concurrently. Rows are still
// appended in dataset order.
func WithParallelism(n int) Option {
	return func(o *Options) { o.Parallelism = n }
}
