//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package llm provides a scorer that asks a judge model to rate how
// well the prediction matches the reference answer.
package llm

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"trpc.group/trpc-go/trpc-eval-go/config"
	"trpc.group/trpc-go/trpc-eval-go/scorer"
)

// Verify that Scorer implements the scorer.Scorer interface.
var _ scorer.Scorer = (*Scorer)(nil)

// DefaultModel is the default judge model.
const DefaultModel = "gpt-4o-mini"

const judgeSystemPrompt = "You are grading a chatbot answer against a reference answer. " +
	"Rate how well the candidate matches the reference on a scale from 0.0 " +
	"(completely wrong or unrelated) to 1.0 (fully equivalent in meaning). " +
	"Reply with the number only."

const judgeUserPromptFormat = "Reference answer:\n%s\n\nCandidate answer:\n%s\n\nRating:"

// Scorer rates a prediction by prompting a judge model and parsing the
// numeric rating from its reply.
type Scorer struct {
	client openai.Client
	model  string

	apiKey         string
	baseURL        string
	requestOptions []option.RequestOption
}

// Option configures the LLM-judged scorer.
type Option func(*Scorer)

// WithModel sets the judge model.
func WithModel(model string) Option {
	return func(s *Scorer) { s.model = model }
}

// WithAPIKey sets the API key. If not provided the SDK falls back to
// the OPENAI_API_KEY environment variable.
func WithAPIKey(apiKey string) Option {
	return func(s *Scorer) { s.apiKey = apiKey }
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return func(s *Scorer) { s.baseURL = baseURL }
}

// WithRequestOptions appends extra request options for the SDK client.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(s *Scorer) { s.requestOptions = append(s.requestOptions, opts...) }
}

// New creates an LLM-judged scorer.
func New(opt ...Option) *Scorer {
	s := &Scorer{model: DefaultModel}
	for _, o := range opt {
		o(s)
	}
	clientOpts := make([]option.RequestOption, 0, len(s.requestOptions)+2)
	if s.apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(s.apiKey))
	}
	if s.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(s.baseURL))
	}
	clientOpts = append(clientOpts, s.requestOptions...)
	s.client = openai.NewClient(clientOpts...)
	return s
}

// Builder constructs the LLM-judged scorer for the registry.
func Builder(cfg *config.Config) (scorer.Scorer, error) {
	opts := []Option{WithAPIKey(config.OpenAIKey())}
	if cfg.LLM.Model != "" {
		opts = append(opts, WithModel(cfg.LLM.Model))
	}
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.OpenAI.BaseURL))
	}
	return New(opts...), nil
}

// Score asks the judge model for a rating and returns it. Replies that
// do not parse to a number in [0, 1] are backend errors.
func (s *Scorer) Score(ctx context.Context, reference, predicted string) (float64, error) {
	request := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(judgeSystemPrompt),
			openai.UserMessage(fmt.Sprintf(judgeUserPromptFormat, reference, predicted)),
		},
	}
	completion, err := s.client.Chat.Completions.New(ctx, request)
	if err != nil {
		return 0, fmt.Errorf("%w: judge completion: %v", scorer.ErrBackend, err)
	}
	if len(completion.Choices) == 0 {
		return 0, fmt.Errorf("%w: judge completion returned no choices", scorer.ErrBackend)
	}
	return parseRating(completion.Choices[0].Message.Content)
}

// Name returns the scorer tag.
func (s *Scorer) Name() string { return config.ScorerLLM }

// Parameters returns the resolved construction parameters.
func (s *Scorer) Parameters() map[string]string {
	params := map[string]string{"model": s.model}
	if s.baseURL != "" {
		params["base_url"] = s.baseURL
	}
	return params
}

// parseRating extracts the numeric rating from the judge reply. Judges
// occasionally wrap the number in prose, so the first parseable token
// wins.
func parseRating(reply string) (float64, error) {
	for _, token := range strings.Fields(reply) {
		token = strings.Trim(token, ".,;:!")
		rating, err := strconv.ParseFloat(token, 64)
		if err != nil {
			continue
		}
		if rating < 0 || rating > 1 {
			return 0, fmt.Errorf("%w: judge rating %v out of range", scorer.ErrBackend, rating)
		}
		return rating, nil
	}
	return 0, fmt.Errorf("%w: judge reply %q contains no rating", scorer.ErrBackend, reply)
}
