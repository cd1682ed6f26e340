//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package openai provides a chatbot backend driven by the OpenAI chat
// completions API or any compatible endpoint.
package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"trpc.group/trpc-go/trpc-eval-go/chatbot"
	"trpc.group/trpc-go/trpc-eval-go/config"
)

// Verify that Chatbot implements the chatbot.Chatbot interface.
var _ chatbot.Chatbot = (*Chatbot)(nil)

// DefaultModel is the default chat completion model.
const DefaultModel = "gpt-4o-mini"

// Chatbot answers questions with a single-turn chat completion.
type Chatbot struct {
	client openai.Client
	model  string

	apiKey         string
	baseURL        string
	requestOptions []option.RequestOption
}

// Option configures the OpenAI chatbot.
type Option func(*Chatbot)

// WithModel sets the chat completion model.
func WithModel(model string) Option {
	return func(c *Chatbot) { c.model = model }
}

// WithAPIKey sets the API key. If not provided the SDK falls back to
// the OPENAI_API_KEY environment variable.
func WithAPIKey(apiKey string) Option {
	return func(c *Chatbot) { c.apiKey = apiKey }
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Chatbot) { c.baseURL = baseURL }
}

// WithRequestOptions appends extra request options for the SDK client.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(c *Chatbot) { c.requestOptions = append(c.requestOptions, opts...) }
}

// New creates an OpenAI chatbot.
func New(opt ...Option) *Chatbot {
	c := &Chatbot{model: DefaultModel}
	for _, o := range opt {
		o(c)
	}
	clientOpts := make([]option.RequestOption, 0, len(c.requestOptions)+2)
	if c.apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(c.apiKey))
	}
	if c.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(c.baseURL))
	}
	clientOpts = append(clientOpts, c.requestOptions...)
	c.client = openai.NewClient(clientOpts...)
	return c
}

// Builder constructs the OpenAI backend for the registry.
func Builder(cfg *config.Config, _ []string) (chatbot.Chatbot, error) {
	opts := []Option{WithAPIKey(config.OpenAIKey())}
	if cfg.OpenAI.Model != "" {
		opts = append(opts, WithModel(cfg.OpenAI.Model))
	}
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.OpenAI.BaseURL))
	}
	return New(opts...), nil
}

// Answer sends the question as a single user message and returns the
// first choice content with the round-trip duration.
func (c *Chatbot) Answer(ctx context.Context, question string) (*chatbot.Response, error) {
	request := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(question),
		},
	}
	start := time.Now()
	completion, err := c.client.Chat.Completions.New(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("%w: chat completion: %v", chatbot.ErrBackend, err)
	}
	duration := time.Since(start)
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: chat completion returned no choices", chatbot.ErrBackend)
	}
	return &chatbot.Response{Text: completion.Choices[0].Message.Content, Duration: duration}, nil
}

// Type returns the backend tag.
func (c *Chatbot) Type() string { return config.ChatbotTypeOpenAI }

// Parameters returns the resolved construction parameters.
func (c *Chatbot) Parameters() map[string]string {
	params := map[string]string{
		"chatbot_type": config.ChatbotTypeOpenAI,
		"model":        c.model,
	}
	if c.baseURL != "" {
		params["base_url"] = c.baseURL
	}
	return params
}
