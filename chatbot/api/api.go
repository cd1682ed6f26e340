//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package api provides a chatbot backend that posts questions to a
// remote REST chat endpoint.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"trpc.group/trpc-go/trpc-eval-go/chatbot"
	"trpc.group/trpc-go/trpc-eval-go/config"
	"trpc.group/trpc-go/trpc-eval-go/dataset"
)

// Verify that Chatbot implements the chatbot.Chatbot interface.
var _ chatbot.Chatbot = (*Chatbot)(nil)

const (
	// DefaultTimeout bounds a single chat round trip.
	DefaultTimeout = 10 * time.Second
	// DefaultTokenType is the Authorization header scheme.
	DefaultTokenType = "Bearer"

	defaultApproach      = "abc"
	defaultRetrievalMode = "hybrid"
	chatPath             = "/chat"
)

// chatRequest is the wire format the remote endpoint consumes.
type chatRequest struct {
	History   []dataset.ChatTurn `json:"history"`
	Approach  string             `json:"approach"`
	Overrides chatOverrides      `json:"overrides"`
}

type chatOverrides struct {
	RetrievalMode    string   `json:"retrieval_mode"`
	SemanticRanker   bool     `json:"semantic_ranker"`
	SemanticCaptions bool     `json:"semantic_captions"`
	Top              int      `json:"top"`
	Temperature      float64  `json:"temperature"`
	CategoryFilter   []string `json:"category_filter"`
}

// chatResponse is the wire format the remote endpoint produces.
type chatResponse struct {
	Answer *string `json:"answer"`
}

// Chatbot posts questions to a remote chat endpoint and reports the
// true round-trip duration.
type Chatbot struct {
	endpoint      string
	token         string
	tokenType     string
	approach      string
	retrievalMode string
	client        *http.Client
}

// Option configures the API chatbot.
type Option func(*Chatbot)

// WithToken sets the Authorization credential.
func WithToken(token string) Option {
	return func(c *Chatbot) { c.token = token }
}

// WithTokenType sets the Authorization scheme, e.g. "Bearer".
func WithTokenType(tokenType string) Option {
	return func(c *Chatbot) { c.tokenType = tokenType }
}

// WithApproach sets the retrieval approach forwarded to the endpoint.
func WithApproach(approach string) Option {
	return func(c *Chatbot) { c.approach = approach }
}

// WithRetrievalMode sets the retrieval mode forwarded to the endpoint.
func WithRetrievalMode(mode string) Option {
	return func(c *Chatbot) { c.retrievalMode = mode }
}

// WithTimeout bounds a single chat round trip.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Chatbot) { c.client.Timeout = timeout }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Chatbot) { c.client = client }
}

// New creates an API chatbot for the given host or URL. A bare host is
// addressed as https://<host>/chat.
func New(url string, opt ...Option) (*Chatbot, error) {
	if url == "" {
		return nil, errors.New("api url is empty")
	}
	if !strings.Contains(url, "://") {
		url = "https://" + url
	}
	c := &Chatbot{
		endpoint:      strings.TrimSuffix(url, "/") + chatPath,
		tokenType:     DefaultTokenType,
		approach:      defaultApproach,
		retrievalMode: defaultRetrievalMode,
		client:        &http.Client{Timeout: DefaultTimeout},
	}
	for _, o := range opt {
		o(c)
	}
	return c, nil
}

// Builder constructs the API backend for the registry. The credential
// comes from the environment, never from the configuration file.
func Builder(cfg *config.Config, _ []string) (chatbot.Chatbot, error) {
	opts := []Option{
		WithToken(config.APIToken()),
		WithTokenType(cfg.API.TokenType),
	}
	if cfg.API.TimeoutSeconds > 0 {
		opts = append(opts, WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second))
	}
	return New(cfg.API.URL, opts...)
}

// Answer posts the question to the remote endpoint and resolves the
// textual answer from the JSON response. Transport failures, timeouts,
// error statuses, and unparseable responses are per-item backend
// errors.
func (c *Chatbot) Answer(ctx context.Context, question string) (*chatbot.Response, error) {
	payload := chatRequest{
		History:  dataset.QuestionToHistory(question),
		Approach: c.approach,
		Overrides: chatOverrides{
			RetrievalMode:    c.retrievalMode,
			SemanticRanker:   true,
			SemanticCaptions: false,
			Top:              3,
			Temperature:      0.7,
			CategoryFilter:   []string{},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encode chat request: %v", chatbot.ErrBackend, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build chat request: %v", chatbot.ErrBackend, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", c.tokenType+" "+c.token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: post chat request: %v", chatbot.ErrBackend, err)
	}
	defer resp.Body.Close()
	duration := time.Since(start)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: chat endpoint returned status %d", chatbot.ErrBackend, resp.StatusCode)
	}
	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode chat response: %v", chatbot.ErrBackend, err)
	}
	if decoded.Answer == nil {
		return nil, fmt.Errorf("%w: chat response has no answer field", chatbot.ErrBackend)
	}
	return &chatbot.Response{Text: *decoded.Answer, Duration: duration}, nil
}

// Type returns the backend tag.
func (c *Chatbot) Type() string { return config.ChatbotTypeAPI }

// Parameters returns the resolved construction parameters.
func (c *Chatbot) Parameters() map[string]string {
	return map[string]string{
		"chatbot_type":    config.ChatbotTypeAPI,
		"url":             c.endpoint,
		"approach":        c.approach,
		"retrieval_mode":  c.retrievalMode,
		"timeout_seconds": strconv.Itoa(int(c.client.Timeout / time.Second)),
	}
}
