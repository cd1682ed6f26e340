//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package registry manages the registration and retrieval of scorer
// builders. New metrics plug in by registering a builder under a new
// tag and naming that tag in the configuration.
package registry

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"trpc.group/trpc-go/trpc-eval-go/config"
	"trpc.group/trpc-go/trpc-eval-go/scorer"
	"trpc.group/trpc-go/trpc-eval-go/scorer/bert"
	"trpc.group/trpc-go/trpc-eval-go/scorer/dummy"
	"trpc.group/trpc-go/trpc-eval-go/scorer/llm"
	"trpc.group/trpc-go/trpc-eval-go/scorer/sbert"
)

// Registry defines the interface for scorer builder registries.
type Registry interface {
	// Register registers a builder under a scorer tag.
	Register(tag string, builder scorer.Builder) error
	// Get retrieves a builder by tag.
	Get(tag string) (scorer.Builder, error)
	// List returns the registered tags.
	List() []string
}

// registry is the default implementation of Registry.
type registry struct {
	mu       sync.RWMutex
	builders map[string]scorer.Builder
}

// New creates a scorer builder registry with the built-in scorers
// pre-registered.
func New() Registry {
	r := &registry{builders: make(map[string]scorer.Builder)}
	r.Register(config.ScorerDummy, dummy.Builder)
	r.Register(config.ScorerBERT, bert.Builder)
	r.Register(config.ScorerSBERT, sbert.Builder)
	r.Register(config.ScorerLLM, llm.Builder)
	return r
}

// Register registers a builder under a scorer tag.
// A same-tag builder will be overwritten.
func (r *registry) Register(tag string, builder scorer.Builder) error {
	if builder == nil {
		return errors.New("builder is nil")
	}
	if tag == "" {
		return errors.New("scorer tag is empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[tag] = builder
	return nil
}

// Get gets a builder by tag.
// Returns a wrapped os.ErrNotExist if the tag is not registered.
func (r *registry) Get(tag string) (scorer.Builder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.builders[tag]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("get scorer builder %s: %w", tag, os.ErrNotExist)
}

// List returns the registered tags sorted lexicographically.
func (r *registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.builders))
	for tag := range r.builders {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
