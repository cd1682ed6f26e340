//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package dummy provides a random-baseline scorer. Its output carries
// no quality signal; it exists to sanity-check the pipeline.
package dummy

import (
	"context"
	"math/rand"
	"strconv"
	"sync"

	"trpc.group/trpc-go/trpc-eval-go/config"
	"trpc.group/trpc-go/trpc-eval-go/scorer"
)

// Verify that Scorer implements the scorer.Scorer interface.
var _ scorer.Scorer = (*Scorer)(nil)

// DefaultSeed keeps baseline runs reproducible.
const DefaultSeed int64 = 42

// Scorer returns a random score in [0, 1], damped by the length
// difference between the reference and the prediction.
type Scorer struct {
	seed int64

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures the dummy scorer.
type Option func(*Scorer)

// WithSeed seeds the random source.
func WithSeed(seed int64) Option {
	return func(s *Scorer) { s.seed = seed }
}

// New creates a dummy scorer.
func New(opt ...Option) *Scorer {
	s := &Scorer{seed: DefaultSeed}
	for _, o := range opt {
		o(s)
	}
	s.rng = rand.New(rand.NewSource(s.seed))
	return s
}

// Builder constructs the dummy scorer for the registry.
func Builder(*config.Config) (scorer.Scorer, error) {
	return New(), nil
}

// Score returns a random value in [0, 1]. Longer length differences
// shrink the score toward zero.
func (s *Scorer) Score(_ context.Context, reference, predicted string) (float64, error) {
	diff := len(predicted) - len(reference)
	if diff < 0 {
		diff = -diff
	}
	s.mu.Lock()
	v := s.rng.Float64()
	s.mu.Unlock()
	score := v / float64(diff+1)
	if score < 0 {
		score = 0
	}
	return score, nil
}

// Name returns the scorer tag.
func (s *Scorer) Name() string { return config.ScorerDummy }

// Parameters returns the resolved construction parameters.
func (s *Scorer) Parameters() map[string]string {
	return map[string]string{"seed": strconv.FormatInt(s.seed, 10)}
}
