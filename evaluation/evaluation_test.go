//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package evaluation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-eval-go/chatbot"
	"trpc.group/trpc-go/trpc-eval-go/config"
	"trpc.group/trpc-go/trpc-eval-go/result"
	"trpc.group/trpc-go/trpc-eval-go/scorer"
)

const qaContent = `pair_id,question_id,answer_id,question_text,answer_text,answer_quality
1,1,1,What is six times seven?,42.,0.9
2,1,2,What is six times seven?,Forty-two.,0.7
3,2,3,Who wrote Faust?,Goethe.,1.0
`

const chatContent = `id,timestamp,history,rating,message
1,"01.01.2024, 10:00:00.000000","[{'user': 'hi', 'bot': 'hello'}]",5,done
2,"01.01.2024, 10:01:00.000000","[{'user': 'hi', 'bot': 'hello'}, {'user': 'still there?'}]",4,
3,"01.01.2024, 10:02:00.000000","[{'user': 'anyone?'}]",3,silent
`

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testConfig(datasetPath string, scorers ...string) *config.Config {
	return &config.Config{
		ChatbotType: config.ChatbotTypeDummy,
		DatasetPath: datasetPath,
		Scorers:     scorers,
	}
}

// memoryRecorder collects records in memory.
type memoryRecorder struct {
	mu      sync.Mutex
	records []*result.Record
	closed  bool
}

func (m *memoryRecorder) Append(_ context.Context, record *result.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *memoryRecorder) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// stubChatbot answers every question with a fixed text, failing on one
// designated question.
type stubChatbot struct {
	answer string
	failOn string
}

func (s *stubChatbot) Answer(_ context.Context, question string) (*chatbot.Response, error) {
	if s.failOn != "" && question == s.failOn {
		return nil, fmt.Errorf("%w: connection refused", chatbot.ErrBackend)
	}
	return &chatbot.Response{Text: s.answer, Duration: time.Millisecond}, nil
}

func (s *stubChatbot) Type() string { return "stub" }

func (s *stubChatbot) Parameters() map[string]string {
	return map[string]string{"chatbot_type": "stub"}
}

// stubScorer returns a fixed score, failing on a designated prediction.
type stubScorer struct {
	name   string
	score  float64
	failOn string
}

func (s *stubScorer) Score(_ context.Context, _, predicted string) (float64, error) {
	if s.failOn != "" && predicted == s.failOn {
		return 0, fmt.Errorf("%w: judge unavailable", scorer.ErrBackend)
	}
	return s.score, nil
}

func (s *stubScorer) Name() string { return s.name }

func (s *stubScorer) Parameters() map[string]string {
	return map[string]string{"fixed": strconv.FormatFloat(s.score, 'f', -1, 64)}
}

func TestRun_QAPairsOneRowPerItem(t *testing.T) {
	cfg := testConfig(writeDataset(t, qaContent), "alpha", "beta")
	rec := &memoryRecorder{}
	engine, err := New(cfg,
		WithChatbot(&stubChatbot{answer: "A"}),
		WithScorers(&stubScorer{name: "alpha", score: 1.0}, &stubScorer{name: "beta", score: 0.5}),
		WithRecorder(rec),
	)
	require.NoError(t, err)
	defer engine.Close()

	summary, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 3, summary.Evaluated)
	assert.Zero(t, summary.Skipped)
	assert.Zero(t, summary.Failed)
	require.Len(t, rec.records, 3)

	first := rec.records[0]
	got := func(name string) string {
		value, ok := first.Get(name)
		require.True(t, ok, "missing column %s", name)
		return value
	}
	assert.Equal(t, "0", got("index"))
	assert.Equal(t, "What is six times seven?", got("question"))
	assert.Equal(t, "42.", got("reference_answer"))
	assert.Equal(t, "A", got("predicted_answer"))
	assert.Equal(t, "evaluated", got("status"))
	assert.Empty(t, got("error"))
	assert.Equal(t, "1", got("alpha_score"))
	assert.Equal(t, "0.5", got("beta_score"))
	assert.Equal(t, engine.RunID(), got("run_id"))
	assert.Equal(t, "stub", got("chatbot_type"))
	assert.Equal(t, cfg.DatasetPath, got("dataset_path"))
	assert.Equal(t, `["alpha","beta"]`, got("scorers"))

	duration, err := strconv.ParseFloat(got("duration"), 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, duration, 0.0)

	// Shared question_id still produces independent rows.
	second := rec.records[1]
	question, _ := second.Get("question")
	assert.Equal(t, "What is six times seven?", question)
}

func TestRun_ColumnSetIsPureFunctionOfConfig(t *testing.T) {
	cfg := testConfig(writeDataset(t, qaContent), "alpha")
	cfg.ChatbotParams = map[string]string{"top": "3", "mode": "hybrid"}
	rec := &memoryRecorder{}
	engine, err := New(cfg,
		WithChatbot(&stubChatbot{answer: "A", failOn: "Who wrote Faust?"}),
		WithScorers(&stubScorer{name: "alpha", score: 1.0}),
		WithRecorder(rec),
	)
	require.NoError(t, err)
	defer engine.Close()

	_, err = engine.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, rec.records, 3)

	want := []string{
		"index", "question", "reference_answer", "predicted_answer",
		"duration", "status", "error", "alpha_score",
		"run_id", "chatbot_type", "dataset_path", "scorers",
		"alpha_params", "param_0", "param_1",
	}
	for _, record := range rec.records {
		assert.Equal(t, want, record.Names())
	}
	// ChatbotParams columns are stable: sorted by key.
	value, _ := rec.records[0].Get("param_0")
	assert.Equal(t, "mode=hybrid", value)
	value, _ = rec.records[0].Get("param_1")
	assert.Equal(t, "top=3", value)
}

func TestRun_FailingItemDoesNotAbortRun(t *testing.T) {
	cfg := testConfig(writeDataset(t, qaContent), "alpha")
	rec := &memoryRecorder{}
	engine, err := New(cfg,
		WithChatbot(&stubChatbot{answer: "A", failOn: "Who wrote Faust?"}),
		WithScorers(&stubScorer{name: "alpha", score: 1.0}),
		WithRecorder(rec),
	)
	require.NoError(t, err)
	defer engine.Close()

	summary, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Evaluated)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, rec.records, 3)

	failed := rec.records[2]
	status, _ := failed.Get("status")
	assert.Equal(t, "error", status)
	message, _ := failed.Get("error")
	assert.Contains(t, message, "connection refused")
	score, _ := failed.Get("alpha_score")
	assert.Empty(t, score)
}

func TestRun_FailingScorerIsolated(t *testing.T) {
	cfg := testConfig(writeDataset(t, qaContent), "alpha")
	rec := &memoryRecorder{}
	engine, err := New(cfg,
		WithChatbot(&stubChatbot{answer: "A"}),
		WithScorers(&stubScorer{name: "alpha", score: 1.0, failOn: "A"}),
		WithRecorder(rec),
	)
	require.NoError(t, err)
	defer engine.Close()

	summary, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Failed)
	require.Len(t, rec.records, 3)
	for _, record := range rec.records {
		// The prediction is still recorded even though scoring failed.
		predicted, _ := record.Get("predicted_answer")
		assert.Equal(t, "A", predicted)
		status, _ := record.Get("status")
		assert.Equal(t, "error", status)
	}
}

func TestRun_ChatSessionsSkipRules(t *testing.T) {
	cfg := testConfig(writeDataset(t, chatContent), "alpha")
	rec := &memoryRecorder{}
	engine, err := New(cfg,
		WithChatbot(&stubChatbot{answer: "A"}),
		WithScorers(&stubScorer{name: "alpha", score: 1.0}),
		WithRecorder(rec),
	)
	require.NoError(t, err)
	defer engine.Close()

	summary, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Evaluated)
	assert.Equal(t, 2, summary.Skipped)
	require.Len(t, rec.records, 1)

	record := rec.records[0]
	index, _ := record.Get("index")
	assert.Equal(t, "1", index)
	question, _ := record.Get("question")
	assert.Contains(t, question, "This is our past conversation:")
	assert.Contains(t, question, "still there?")
	reference, _ := record.Get("reference_answer")
	assert.Equal(t, "hello", reference)
}

func TestRun_ParallelKeepsDatasetOrder(t *testing.T) {
	cfg := testConfig(writeDataset(t, qaContent), "alpha")
	rec := &memoryRecorder{}
	engine, err := New(cfg,
		WithChatbot(&stubChatbot{answer: "A"}),
		WithScorers(&stubScorer{name: "alpha", score: 1.0}),
		WithRecorder(rec),
		WithParallelism(4),
	)
	require.NoError(t, err)
	defer engine.Close()

	summary, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Evaluated)
	require.Len(t, rec.records, 3)
	for i, record := range rec.records {
		index, _ := record.Get("index")
		assert.Equal(t, strconv.Itoa(i), index)
	}
}

func TestRun_DefaultRegistriesRoundTrip(t *testing.T) {
	cfg := testConfig(writeDataset(t, qaContent), config.ScorerDummy, config.ScorerBERT)
	rec := &memoryRecorder{}
	engine, err := New(cfg, WithRecorder(rec))
	require.NoError(t, err)
	defer engine.Close()

	summary, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Evaluated)
	for _, record := range rec.records {
		for _, column := range []string{"dummy_score", "bert_score"} {
			raw, ok := record.Get(column)
			require.True(t, ok)
			score, err := strconv.ParseFloat(raw, 64)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	}
}

func TestRun_CanceledContext(t *testing.T) {
	cfg := testConfig(writeDataset(t, qaContent), "alpha")
	engine, err := New(cfg,
		WithChatbot(&stubChatbot{answer: "A"}),
		WithScorers(&stubScorer{name: "alpha", score: 1.0}),
		WithRecorder(&memoryRecorder{}),
	)
	require.NoError(t, err)
	defer engine.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_UnknownScorerTag(t *testing.T) {
	cfg := testConfig(writeDataset(t, qaContent), "nonexistent")
	_, err := New(cfg, WithChatbot(&stubChatbot{answer: "A"}), WithRecorder(&memoryRecorder{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNew_UnknownChatbotType(t *testing.T) {
	cfg := testConfig(writeDataset(t, qaContent), "dummy")
	cfg.ChatbotType = "nonexistent"
	_, err := New(cfg, WithRecorder(&memoryRecorder{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNew_DatasetLoadFailure(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "missing.csv"), "dummy")
	_, err := New(cfg, WithRecorder(&memoryRecorder{}))
	require.Error(t, err)
}

func TestClose_ClosesRecorder(t *testing.T) {
	cfg := testConfig(writeDataset(t, qaContent), "alpha")
	rec := &memoryRecorder{}
	engine, err := New(cfg,
		WithChatbot(&stubChatbot{answer: "A"}),
		WithScorers(&stubScorer{name: "alpha", score: 1.0}),
		WithRecorder(rec),
	)
	require.NoError(t, err)
	require.NoError(t, engine.Close())
	assert.True(t, rec.closed)
}
