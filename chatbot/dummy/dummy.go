//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package dummy provides a chatbot backend that answers with a uniform
// random pick from a fixed pool. Seeded with the dataset's own
// reference answers it acts as a no-information baseline predictor.
package dummy

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"trpc.group/trpc-go/trpc-eval-go/chatbot"
	"trpc.group/trpc-go/trpc-eval-go/config"
)

// Verify that Chatbot implements the chatbot.Chatbot interface.
var _ chatbot.Chatbot = (*Chatbot)(nil)

// fallbackAnswers seeds the pool when no dataset answers are available.
var fallbackAnswers = []string{"42.", "Great question.", "I don't know.", "Hakuna matata."}

// Chatbot picks answers uniformly at random from its pool.
type Chatbot struct {
	answers       []string
	defaultAnswer string

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures the dummy chatbot.
type Option func(*Chatbot)

// WithAnswers sets the answer pool.
func WithAnswers(answers []string) Option {
	return func(c *Chatbot) {
		c.answers = answers
	}
}

// WithDefaultAnswer sets the answer returned when the pool is empty.
func WithDefaultAnswer(answer string) Option {
	return func(c *Chatbot) {
		c.defaultAnswer = answer
	}
}

// WithSeed seeds the random source, making the pick sequence
// reproducible.
func WithSeed(seed int64) Option {
	return func(c *Chatbot) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// New creates a dummy chatbot. At least one pool answer or a default
// answer must be supplied.
func New(opt ...Option) (*Chatbot, error) {
	c := &Chatbot{}
	for _, o := range opt {
		o(c)
	}
	if len(c.answers) == 0 && c.defaultAnswer == "" {
		return nil, errors.New("must provide at least one answer or a default answer")
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c, nil
}

// Builder constructs the dummy backend for the registry. The dataset's
// reference answers become the pool; a fixed fallback pool is used when
// the dataset holds none.
func Builder(_ *config.Config, answers []string) (chatbot.Chatbot, error) {
	pool := answers
	if len(pool) == 0 {
		pool = fallbackAnswers
	}
	return New(WithAnswers(pool), WithDefaultAnswer(fallbackAnswers[0]))
}

// Answer ignores the question and returns a random pool answer. The
// reported duration is the wall-clock time of the selection.
func (c *Chatbot) Answer(_ context.Context, _ string) (*chatbot.Response, error) {
	start := time.Now()
	answer := c.defaultAnswer
	if len(c.answers) > 0 {
		c.mu.Lock()
		answer = c.answers[c.rng.Intn(len(c.answers))]
		c.mu.Unlock()
	}
	return &chatbot.Response{Text: answer, Duration: time.Since(start)}, nil
}

// Type returns the backend tag.
func (c *Chatbot) Type() string { return config.ChatbotTypeDummy }

// Parameters returns the resolved construction parameters.
func (c *Chatbot) Parameters() map[string]string {
	return map[string]string{
		"chatbot_type":     config.ChatbotTypeDummy,
		"answer_pool_size": strconv.Itoa(len(c.answers)),
	}
}

// Answers returns the current answer pool.
func (c *Chatbot) Answers() []string { return c.answers }
