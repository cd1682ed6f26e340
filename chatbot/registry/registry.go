//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package registry manages the registration and retrieval of chatbot
// backend builders. Adding a new backend never requires touching the
// evaluation engine: register a builder under a new tag and name that
// tag in the configuration.
package registry

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"trpc.group/trpc-go/trpc-eval-go/chatbot"
	"trpc.group/trpc-go/trpc-eval-go/chatbot/api"
	"trpc.group/trpc-go/trpc-eval-go/chatbot/dummy"
	"trpc.group/trpc-go/trpc-eval-go/chatbot/lib"
	"trpc.group/trpc-go/trpc-eval-go/chatbot/openai"
	"trpc.group/trpc-go/trpc-eval-go/config"
)

// Registry defines the interface for chatbot builder registries.
type Registry interface {
	// Register registers a builder under a backend tag.
	Register(tag string, builder chatbot.Builder) error
	// Get retrieves a builder by tag.
	Get(tag string) (chatbot.Builder, error)
	// List returns the registered tags.
	List() []string
}

// registry is the default implementation of Registry.
type registry struct {
	mu       sync.RWMutex
	builders map[string]chatbot.Builder
}

// New creates a chatbot builder registry with the built-in backends
// pre-registered.
func New() Registry {
	r := &registry{builders: make(map[string]chatbot.Builder)}
	r.Register(config.ChatbotTypeDummy, dummy.Builder)
	r.Register(config.ChatbotTypeAPI, api.Builder)
	r.Register(config.ChatbotTypeLib, lib.Builder)
	r.Register(config.ChatbotTypeOpenAI, openai.Builder)
	return r
}

// Register registers a builder under a backend tag.
// A same-tag builder will be overwritten.
func (r *registry) Register(tag string, builder chatbot.Builder) error {
	if builder == nil {
		return errors.New("builder is nil")
	}
	if tag == "" {
		return errors.New("backend tag is empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[tag] = builder
	return nil
}

// Get gets a builder by tag.
// Returns a wrapped os.ErrNotExist if the tag is not registered.
func (r *registry) Get(tag string) (chatbot.Builder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.builders[tag]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("get chatbot builder %s: %w", tag, os.ErrNotExist)
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
