//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package sbert provides a semantic-similarity scorer that embeds the
// reference and the prediction and reports their cosine similarity.
package sbert

import (
	"context"
	"errors"
	"fmt"
	"math"

	"trpc.group/trpc-go/trpc-eval-go/config"
	"trpc.group/trpc-go/trpc-eval-go/embedder"
	openaiembedder "trpc.group/trpc-go/trpc-eval-go/embedder/openai"
	"trpc.group/trpc-go/trpc-eval-go/scorer"
)

// Verify that Scorer implements the scorer.Scorer interface.
var _ scorer.Scorer = (*Scorer)(nil)

// Scorer embeds both texts and scores them by cosine similarity,
// clamped to [0, 1].
type Scorer struct {
	embedder embedder.Embedder
}

// Option configures the semantic-similarity scorer.
type Option func(*Scorer)

// WithEmbedder replaces the embedding backend.
func WithEmbedder(e embedder.Embedder) Option {
	return func(s *Scorer) { s.embedder = e }
}

// New creates a semantic-similarity scorer. An embedder is required.
func New(opt ...Option) (*Scorer, error) {
	s := &Scorer{}
	for _, o := range opt {
		o(s)
	}
	if s.embedder == nil {
		return nil, errors.New("sbert scorer requires an embedder")
	}
	return s, nil
}

// Builder constructs the semantic-similarity scorer for the registry,
// backed by the OpenAI embeddings API.
func Builder(cfg *config.Config) (scorer.Scorer, error) {
	opts := []openaiembedder.Option{
		openaiembedder.WithAPIKey(config.OpenAIKey()),
	}
	if cfg.SBERT.ModelName != "" {
		opts = append(opts, openaiembedder.WithModel(cfg.SBERT.ModelName))
	}
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, openaiembedder.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	return New(WithEmbedder(openaiembedder.New(opts...)))
}

// Score embeds both texts and returns their cosine similarity. Negative
// similarities are reported as zero so the score stays in [0, 1].
func (s *Scorer) Score(ctx context.Context, reference, predicted string) (float64, error) {
	refVec, err := s.embedder.GetEmbedding(ctx, reference)
	if err != nil {
		return 0, fmt.Errorf("%w: embed reference: %v", scorer.ErrBackend, err)
	}
	predVec, err := s.embedder.GetEmbedding(ctx, predicted)
	if err != nil {
		return 0, fmt.Errorf("%w: embed prediction: %v", scorer.ErrBackend, err)
	}
	sim, err := cosineSimilarity(refVec, predVec)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", scorer.ErrBackend, err)
	}
	if sim < 0 {
		return 0, nil
	}
	return sim, nil
}

// Name returns the scorer tag.
func (s *Scorer) Name() string { return config.ScorerSBERT }

// Parameters returns the resolved construction parameters.
func (s *Scorer) Parameters() map[string]string {
	return map[string]string{"model_name": s.embedder.Model()}
}

// cosineSimilarity computes dot(a, b) / (|a| * |b|).
func cosineSimilarity(a, b []float64) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, errors.New("empty embedding vector")
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimensions differ: %d vs %d", len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, errors.New("zero-magnitude embedding vector")
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
