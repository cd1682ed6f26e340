//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package evaluation drives the per-item evaluation loop: derive
// question and reference from the dataset, obtain a prediction from the
// chatbot, run every configured scorer, and persist one result row per
// item. A failing item is recorded and the run continues.
package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"trpc.group/trpc-go/trpc-eval-go/chatbot"
	"trpc.group/trpc-go/trpc-eval-go/config"
	"trpc.group/trpc-go/trpc-eval-go/dataset"
	"trpc.group/trpc-go/trpc-eval-go/log"
	"trpc.group/trpc-go/trpc-eval-go/result"
	"trpc.group/trpc-go/trpc-eval-go/result/csvfile"
	"trpc.group/trpc-go/trpc-eval-go/scorer"
)

// Engine evaluates every dataset item against the configured chatbot
// and scorers and persists one row per evaluated item.
type Engine struct {
	cfg      *config.Config
	set      *dataset.Set
	bot      chatbot.Chatbot
	scorers  []scorer.Scorer
	recorder result.Recorder
	runID    string
	pool     *ants.PoolWithFunc
}

// Summary is the outcome of a run.
type Summary struct {
	// RunID identifies the run; it is echoed in every row.
	RunID string
	// Total is the number of dataset items.
	Total int
	// Evaluated is the number of items answered and scored.
	Evaluated int
	// Skipped is the number of items that produced no row.
	Skipped int
	// Failed is the number of items recorded with an error status.
	Failed int
}

// item is one evaluable dataset entry with its derived question and
// reference answer.
type item struct {
	index     int
	question  string
	reference string
}

// outcome is the per-item evaluation result before record assembly.
type outcome struct {
	predicted string
	duration  time.Duration
	scores    []float64
	err       error
}

// New resolves the configured chatbot and scorers through the
// registries and builds the engine. Resolution failures are
// configuration errors and happen before any item is touched.
func New(cfg *config.Config, opt ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := NewOptions(opt...)

	set := opts.Set
	if set == nil {
		loaded, err := dataset.Load(cfg.DatasetPath)
		if err != nil {
			return nil, fmt.Errorf("load dataset: %w", err)
		}
		set = loaded
	}

	bot := opts.Chatbot
	if bot == nil {
		builder, err := opts.ChatbotRegistry.Get(cfg.ChatbotType)
		if err != nil {
			return nil, err
		}
		built, err := builder(cfg, set.ReferenceAnswers())
		if err != nil {
			return nil, fmt.Errorf("build chatbot %s: %w", cfg.ChatbotType, err)
		}
		bot = built
	}

	scorers := opts.Scorers
	if scorers == nil {
		scorers = make([]scorer.Scorer, 0, len(cfg.Scorers))
		for _, tag := range cfg.Scorers {
			builder, err := opts.ScorerRegistry.Get(tag)
			if err != nil {
				return nil, err
			}
			built, err := builder(cfg)
			if err != nil {
				return nil, fmt.Errorf("build scorer %s: %w", tag, err)
			}
			scorers = append(scorers, built)
		}
	}
	if len(scorers) == 0 {
		return nil, errors.New("no scorers resolved")
	}

	recorder := opts.Recorder
	if recorder == nil {
		rec, err := csvfile.New(cfg.Results.Directory, cfg.Results.Filename)
		if err != nil {
			return nil, err
		}
		recorder = rec
	}

	e := &Engine{
		cfg:      cfg,
		set:      set,
		bot:      bot,
		scorers:  scorers,
		recorder: recorder,
		runID:    uuid.NewString(),
	}
	if opts.Parallelism > 0 {
		pool, err := newItemEvalPool(opts.Parallelism)
		if err != nil {
			return nil, fmt.Errorf("create item evaluation pool: %w", err)
		}
		e.pool = pool
	}
	return e, nil
}

// Close releases the engine's resources, including the recorder.
func (e *Engine) Close() error {
	if e.pool != nil {
		e.pool.Release()
	}
	return e.recorder.Close()
}

// RunID returns the identifier stamped on every row of this run.
func (e *Engine) RunID() string { return e.runID }

// Run evaluates every item and returns the run summary. Persistence
// failures abort the run; item failures do not.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	items := e.deriveItems()
	summary := &Summary{
		RunID:   e.runID,
		Total:   e.set.Len(),
		Skipped: e.set.Len() - len(items),
	}
	log.Infof("run %s: evaluating %d of %d items from %s with chatbot %s",
		e.runID, len(items), summary.Total, e.cfg.DatasetPath, e.bot.Type())

	if e.pool != nil {
		outcomes := e.evaluateParallel(ctx, items)
		for i := range items {
			if err := e.record(ctx, items[i], outcomes[i], summary); err != nil {
				return nil, err
			}
		}
	} else {
		for _, it := range items {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("evaluation canceled: %w", err)
			}
			out := e.evaluateItem(ctx, it)
			if err := e.record(ctx, it, out, summary); err != nil {
				return nil, err
			}
		}
	}
	log.Infof("run %s: complete, evaluated=%d skipped=%d failed=%d",
		e.runID, summary.Evaluated, summary.Skipped, summary.Failed)
	return summary, nil
}

// deriveItems maps dataset entries to evaluable items. QA pairs map
// one to one. Chat sessions are skipped when the last turn already has
// a bot answer, and when no turn has one there is no reference to
// score against, so those are skipped too.
func (e *Engine) deriveItems() []item {
	items := make([]item, 0, e.set.Len())
	switch e.set.Kind() {
	case dataset.KindQAPairs:
		for i := 0; i < e.set.Len(); i++ {
			pair := e.set.Pair(i)
			items = append(items, item{
				index:     i,
				question:  pair.QuestionText,
				reference: pair.AnswerText,
			})
		}
	case dataset.KindChatHistory:
		for i := 0; i < e.set.Len(); i++ {
			session := e.set.Session(i)
			if session.Answered() {
				log.Debugf("item %d: session %d already answered, skipping", i, session.ID)
				continue
			}
			reference := session.Reference()
			if reference == "" {
				log.Debugf("item %d: session %d has no reference answer, skipping", i, session.ID)
				continue
			}
			items = append(items, item{
				index:     i,
				question:  dataset.HistoryToQuestion(session.History, e.lang()),
				reference: reference,
			})
		}
	}
	return items
}

// evaluateItem answers and scores a single item. Errors are captured
// in the outcome, never returned, so one bad item cannot stop the run.
func (e *Engine) evaluateItem(ctx context.Context, it item) *outcome {
	response, err := e.bot.Answer(ctx, it.question)
	if err != nil {
		log.Warnf("item %d: answer: %v", it.index, err)
		return &outcome{err: err}
	}
	out := &outcome{
		predicted: response.Text,
		duration:  response.Duration,
		scores:    make([]float64, len(e.scorers)),
	}
	for i, s := range e.scorers {
		score, err := s.Score(ctx, it.reference, response.Text)
		if err != nil {
			log.Warnf("item %d: scorer %s: %v", it.index, s.Name(), err)
			out.scores = nil
			out.err = err
			return out
		}
		out.scores[i] = score
	}
	return out
}

// record assembles and durably appends the row for one item.
func (e *Engine) record(ctx context.Context, it item, out *outcome, summary *Summary) error {
	rec, err := e.buildRecord(it, out)
	if err != nil {
		return fmt.Errorf("build record for item %d: %w", it.index, err)
	}
	if err := e.recorder.Append(ctx, rec); err != nil {
		return fmt.Errorf("append result for item %d: %w", it.index, err)
	}
	if out.err != nil {
		summary.Failed++
	} else {
		summary.Evaluated++
	}
	return nil
}

// buildRecord lays out the row. The column set depends only on the
// configuration, so every row of a run carries the same columns.
func (e *Engine) buildRecord(it item, out *outcome) (*result.Record, error) {
	status, errMessage := result.StatusEvaluated, ""
	if out.err != nil {
		status, errMessage = result.StatusError, out.err.Error()
	}
	rec := result.NewRecord()
	cells := [][2]string{
		{"index", strconv.Itoa(it.index)},
		{"question", it.question},
		{"reference_answer", it.reference},
		{"predicted_answer", out.predicted},
		{"duration", strconv.FormatFloat(out.duration.Seconds(), 'f', 6, 64)},
		{"status", status.String()},
		{"error", errMessage},
	}
	for i, s := range e.scorers {
		value := ""
		if out.scores != nil {
			value = strconv.FormatFloat(out.scores[i], 'f', -1, 64)
		}
		cells = append(cells, [2]string{s.Name() + "_score", value})
	}
	scorerNames := make([]string, len(e.scorers))
	for i, s := range e.scorers {
		scorerNames[i] = s.Name()
	}
	scorersJSON, err := json.Marshal(scorerNames)
	if err != nil {
		return nil, fmt.Errorf("encode scorer names: %w", err)
	}
	cells = append(cells,
		[2]string{"run_id", e.runID},
		[2]string{"chatbot_type", e.bot.Type()},
		[2]string{"dataset_path", e.cfg.DatasetPath},
		[2]string{"scorers", string(scorersJSON)},
	)
	for _, s := range e.scorers {
		paramsJSON, err := json.Marshal(s.Parameters())
		if err != nil {
			return nil, fmt.Errorf("encode parameters of scorer %s: %w", s.Name(), err)
		}
		cells = append(cells, [2]string{s.Name() + "_params", string(paramsJSON)})
	}
	keys := make([]string, 0, len(e.cfg.ChatbotParams))
	for key := range e.cfg.ChatbotParams {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for i, key := range keys {
		cells = append(cells, [2]string{
			fmt.Sprintf("param_%d", i),
			key + "=" + e.cfg.ChatbotParams[key],
		})
	}
	for _, cell := range cells {
		if err := rec.Add(cell[0], cell[1]); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// lang selects the language for flattening multi-turn histories.
func (e *Engine) lang() string {
	if e.cfg.BERT.Lang != "" {
		return e.cfg.BERT.Lang
	}
	return "en"
}
