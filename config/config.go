//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package config loads and validates the evaluation run configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Chatbot type tags resolvable through the chatbot registry.
const (
	ChatbotTypeDummy  = "dummy"
	ChatbotTypeAPI    = "api"
	ChatbotTypeLib    = "lib"
	ChatbotTypeOpenAI = "openai"
)

// Scorer tags resolvable through the scorer registry.
const (
	ScorerDummy = "dummy"
	ScorerBERT  = "bert"
	ScorerSBERT = "sbert"
	ScorerLLM   = "llm"
)

// Environment variables holding credentials. Secrets are never read
// from the config file.
const (
	EnvAPIToken  = "CHATBOT_API_TOKEN"
	EnvOpenAIKey = "OPENAI_API_KEY"
)

// Config is the full evaluation run configuration.
type Config struct {
	// ChatbotType selects the chatbot backend to evaluate.
	ChatbotType string `mapstructure:"chatbot_type"`
	// DatasetPath points to the CSV or JSON dataset file.
	DatasetPath string `mapstructure:"dataset_path"`
	// Scorers is the ordered list of scorer tags to run per item.
	// Order is preserved in the result columns.
	Scorers []string `mapstructure:"scorers"`
	// API configures the remote REST chatbot backend.
	API APIConfig `mapstructure:"api"`
	// BERT configures the token-overlap scorer.
	BERT BERTConfig `mapstructure:"bert"`
	// SBERT configures the embedding-similarity scorer.
	SBERT SBERTConfig `mapstructure:"sbert"`
	// LLM configures the LLM-judged scorer.
	LLM LLMConfig `mapstructure:"llm"`
	// OpenAI configures the OpenAI chatbot backend and embedder.
	OpenAI OpenAIConfig `mapstructure:"openai"`
	// ChatbotParams is an open mapping echoed verbatim into the result
	// file as param_<n> columns.
	ChatbotParams map[string]string `mapstructure:"chatbot_params"`
	// Results configures where the result CSV is written.
	Results ResultsConfig `mapstructure:"results"`
	// LogLevel sets the process log level.
	LogLevel string `mapstructure:"log_level"`
}

// APIConfig configures the REST chatbot backend.
type APIConfig struct {
	URL       string `mapstructure:"url"`
	TokenType string `mapstructure:"token_type"`
	// TimeoutSeconds bounds a single chat round trip.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// BERTConfig configures the token-overlap scorer.
type BERTConfig struct {
	Lang string `mapstructure:"lang"`
}

// SBERTConfig configures the embedding-similarity scorer.
type SBERTConfig struct {
	ModelName string `mapstructure:"model_name"`
}

// LLMConfig configures the LLM-judged scorer.
type LLMConfig struct {
	Model string `mapstructure:"model"`
}

// OpenAIConfig configures the OpenAI chatbot backend.
type OpenAIConfig struct {
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// ResultsConfig configures result persistence.
type ResultsConfig struct {
	Directory string `mapstructure:"directory"`
	Filename  string `mapstructure:"filename"`
}

// Load reads a YAML configuration file into a Config. Environment
// variables prefixed with TRPC_EVAL override file values. Callers
// apply their own overrides before Validate.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	v.SetEnvPrefix("TRPC_EVAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration invariants that can be verified
// without resolving registry entries.
func (c *Config) Validate() error {
	if c.ChatbotType == "" {
		return fmt.Errorf("chatbot_type is empty")
	}
	if c.DatasetPath == "" {
		return fmt.Errorf("dataset_path is empty")
	}
	if len(c.Scorers) == 0 {
		return fmt.Errorf("scorers is empty")
	}
	seen := make(map[string]bool, len(c.Scorers))
	for _, tag := range c.Scorers {
		if tag == "" {
			return fmt.Errorf("scorers contains an empty tag")
		}
		if seen[tag] {
			return fmt.Errorf("scorer %s listed more than once", tag)
		}
		seen[tag] = true
	}
	if c.ChatbotType == ChatbotTypeAPI && c.API.URL == "" {
		return fmt.Errorf("api.url is required for chatbot_type api")
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("api.timeout_seconds must not be negative")
	}
	return nil
}

// APIToken returns the remote chatbot credential from the environment.
func APIToken() string {
	return os.Getenv(EnvAPIToken)
}

// OpenAIKey returns the OpenAI credential from the environment.
func OpenAIKey() string {
	return os.Getenv(EnvOpenAIKey)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("chatbot_type", ChatbotTypeDummy)
	v.SetDefault("scorers", []string{ScorerDummy})
	v.SetDefault("api.token_type", "Bearer")
	v.SetDefault("api.timeout_seconds", 10)
	v.SetDefault("bert.lang", "en")
	v.SetDefault("sbert.model_name", "text-embedding-3-small")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("results.directory", "./results")
	v.SetDefault("results.filename", "evaluation_results.csv")
	v.SetDefault("log_level", "info")
}
