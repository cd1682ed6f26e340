//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package bert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-eval-go/config"
)

func TestScore_IdenticalText(t *testing.T) {
	s := New()
	got, err := s.Score(context.Background(), "the answer is 42", "the answer is 42")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-9)
}

func TestScore_CaseAndPunctuationInsensitive(t *testing.T) {
	s := New()
	got, err := s.Score(context.Background(), "The Answer, is 42!", "the answer is 42")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-9)
}

func TestScore_PartialOverlap(t *testing.T) {
	s := New()
	// reference: [the answer is 42], predicted: [the answer is wrong]
	// overlap 3, precision 3/4, recall 3/4, f1 = 0.75.
	got, err := s.Score(context.Background(), "the answer is 42", "the answer is wrong")
	require.NoError(t, err)
	assert.InDelta(t, 0.75, got, 1e-9)
}

func TestScore_NoOverlap(t *testing.T) {
	s := New()
	got, err := s.Score(context.Background(), "alpha beta", "gamma delta")
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestScore_EmptySides(t *testing.T) {
	s := New()
	got, err := s.Score(context.Background(), "", "anything")
	require.NoError(t, err)
	assert.Zero(t, got)

	got, err = s.Score(context.Background(), "anything", "...")
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestScore_RepeatedTokensClipped(t *testing.T) {
	s := New()
	// reference: [a a b], predicted: [a a a a]
	// overlap min(2,4)=2, precision 2/4, recall 2/3.
	got, err := s.Score(context.Background(), "a a b", "a a a a")
	require.NoError(t, err)
	p, r := 0.5, 2.0/3.0
	assert.InDelta(t, 2*p*r/(p+r), got, 1e-9)
}

func TestScore_UnicodeTokens(t *testing.T) {
	s := New(WithLang("de"))
	got, err := s.Score(context.Background(), "schöne Grüße", "schöne grüße!")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-9)
}

func TestBuilder(t *testing.T) {
	cfg := &config.Config{BERT: config.BERTConfig{Lang: "de"}}
	s, err := Builder(cfg)
	require.NoError(t, err)
	assert.Equal(t, config.ScorerBERT, s.Name())
	assert.Equal(t, map[string]string{"lang": "de"}, s.Parameters())
}
