//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package bert provides a token-overlap scorer reporting the unigram
// F-measure between the reference and the prediction, rescaled the way
// BERTScore-style metrics report a single quality number.
package bert

import (
	"context"
	"regexp"
	"strings"

	"trpc.group/trpc-go/trpc-eval-go/config"
	"trpc.group/trpc-go/trpc-eval-go/scorer"
)

// Verify that Scorer implements the scorer.Scorer interface.
var _ scorer.Scorer = (*Scorer)(nil)

// DefaultLang is the default scoring language.
const DefaultLang = "en"

var (
	// nonWordRE matches one or more characters that are neither letters
	// nor digits. Unicode classes keep umlauts and accents intact.
	nonWordRE = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// Scorer computes unigram precision, recall, and F1 between reference
// and predicted token multisets.
type Scorer struct {
	lang string
}

// Option configures the token-overlap scorer.
type Option func(*Scorer)

// WithLang sets the scoring language, echoed as a parameter.
func WithLang(lang string) Option {
	return func(s *Scorer) { s.lang = lang }
}

// New creates a token-overlap scorer.
func New(opt ...Option) *Scorer {
	s := &Scorer{lang: DefaultLang}
	for _, o := range opt {
		o(s)
	}
	return s
}

// Builder constructs the token-overlap scorer for the registry.
func Builder(cfg *config.Config) (scorer.Scorer, error) {
	if cfg.BERT.Lang != "" {
		return New(WithLang(cfg.BERT.Lang)), nil
	}
	return New(), nil
}

// Score returns the unigram F-measure in [0, 1]. Either side
// tokenizing to nothing scores zero.
func (s *Scorer) Score(_ context.Context, reference, predicted string) (float64, error) {
	refTokens := tokenize(reference)
	predTokens := tokenize(predicted)
	if len(refTokens) == 0 || len(predTokens) == 0 {
		return 0, nil
	}
	refCounts := countTokens(refTokens)
	predCounts := countTokens(predTokens)

	var overlap int
	for token, cnt := range refCounts {
		if predCnt, ok := predCounts[token]; ok {
			if predCnt < cnt {
				overlap += predCnt
			} else {
				overlap += cnt
			}
		}
	}
	precision := float64(overlap) / float64(len(predTokens))
	recall := float64(overlap) / float64(len(refTokens))
	if precision+recall == 0 {
		return 0, nil
	}
	return 2 * precision * recall / (precision + recall), nil
}

// Name returns the scorer tag.
func (s *Scorer) Name() string { return config.ScorerBERT }

// Parameters returns the resolved construction parameters.
func (s *Scorer) Parameters() map[string]string {
	return map[string]string{"lang": s.lang}
}

// tokenize lowercases, normalizes punctuation to spaces, and splits on
// whitespace.
func tokenize(text string) []string {
	text = strings.ToLower(text)
	text = nonWordRE.ReplaceAllString(text, " ")
	return strings.Fields(text)
}

func countTokens(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	return counts
}
