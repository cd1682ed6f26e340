//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package dataset loads question-answer evaluation datasets from CSV or
// JSON files and exposes them as typed, re-iterable record sets.
package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout is the fixed textual timestamp format of chat history
// datasets: day.month.year, hour:minute:second.microsecond.
const TimestampLayout = "02.01.2006, 15:04:05.000000"

// defaultMessage replaces an absent rating rationale.
const defaultMessage = "No message provided."

// Kind identifies the schema of a dataset file.
type Kind int

const (
	// KindAuto detects the schema from the file contents.
	KindAuto Kind = iota
	// KindQAPairs is the flat question/reference-answer schema.
	KindQAPairs
	// KindChatHistory is the multi-turn conversation schema.
	KindChatHistory
)

// String returns the textual name of the dataset kind.
func (k Kind) String() string {
	switch k {
	case KindQAPairs:
		return "qa_pairs"
	case KindChatHistory:
		return "chat_history"
	default:
		return "auto"
	}
}

// QAPair is one question paired with one reference answer and a
// human-assigned quality score in [-1, 1].
type QAPair struct {
	PairID        int     `json:"pair_id"`
	QuestionID    int     `json:"question_id"`
	AnswerID      int     `json:"answer_id"`
	QuestionText  string  `json:"question_text"`
	AnswerText    string  `json:"answer_text"`
	AnswerQuality float64 `json:"answer_quality"`
}

// ChatTurn is a single round of a conversation. Bot is empty for an
// unanswered prompt awaiting prediction.
type ChatTurn struct {
	User string `json:"user"`
	Bot  string `json:"bot,omitempty"`
}

// ChatSession is one multi-turn conversation with an overall human
// rating in [1, 5] and a free-text rationale.
type ChatSession struct {
	ID        int        `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	History   []ChatTurn `json:"history"`
	Rating    int        `json:"rating"`
	Message   string     `json:"message"`
}

// Answered reports whether the session needs no prediction: its history
// already ends in an answered turn.
func (s *ChatSession) Answered() bool {
	if len(s.History) == 0 {
		return false
	}
	return s.History[len(s.History)-1].Bot != ""
}

// Reference returns the most recent bot answer in the history, or the
// empty string when the session holds none.
func (s *ChatSession) Reference() string {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Bot != "" {
			return s.History[i].Bot
		}
	}
	return ""
}

// FormatError reports a malformed dataset row. Row is the 1-based data
// row index within the source file.
type FormatError struct {
	Row int
	Err error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("dataset row %d: %v", e.Row, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FormatError) Unwrap() error { return e.Err }

func formatErrorf(row int, format string, args ...any) error {
	return &FormatError{Row: row, Err: fmt.Errorf(format, args...)}
}

// Set is a loaded dataset. It is read-only and supports repeated
// iteration by index.
type Set struct {
	kind     Kind
	pairs    []QAPair
	sessions []ChatSession
}

// Kind returns the schema of the loaded dataset.
func (s *Set) Kind() Kind { return s.kind }

// Len returns the number of records in the dataset.
func (s *Set) Len() int {
	if s.kind == KindQAPairs {
		return len(s.pairs)
	}
	return len(s.sessions)
}

// Pair returns the i-th QA pair. It panics when the dataset does not
// hold QA pairs; callers dispatch on Kind first.
func (s *Set) Pair(i int) QAPair {
	if s.kind != KindQAPairs {
		panic("dataset: Pair called on a chat history set")
	}
	return s.pairs[i]
}

// Session returns the i-th chat session. It panics when the dataset
// does not hold chat sessions; callers dispatch on Kind first.
func (s *Set) Session(i int) ChatSession {
	if s.kind != KindChatHistory {
		panic("dataset: Session called on a QA pair set")
	}
	return s.sessions[i]
}

// ReferenceAnswers collects every reference answer in the dataset.
// Sessions with no bot turn contribute nothing. The result seeds the
// dummy chatbot's answer pool.
func (s *Set) ReferenceAnswers() []string {
	answers := make([]string, 0, s.Len())
	switch s.kind {
	case KindQAPairs:
		for _, p := range s.pairs {
			answers = append(answers, p.AnswerText)
		}
	case KindChatHistory:
		for i := range s.sessions {
			if ref := s.sessions[i].Reference(); ref != "" {
				answers = append(answers, ref)
			}
		}
	}
	return answers
}

// Load reads a dataset file, detecting both the container format from
// the file extension (.json is JSON, everything else CSV) and the
// record schema from the contents.
func Load(path string) (*Set, error) {
	return LoadKind(path, KindAuto)
}

// LoadKind reads a dataset file with a declared record schema. A file
// whose contents do not match the declared schema fails with a
// FormatError. The source file is never mutated.
func LoadKind(path string, kind Kind) (*Set, error) {
	if path == "" {
		return nil, errors.New("dataset path is empty")
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return loadJSON(path, kind)
	}
	return loadCSV(path, kind)
}

func validatePair(row int, p *QAPair) error {
	if p.AnswerQuality < -1.0 || p.AnswerQuality > 1.0 {
		return formatErrorf(row, "answer_quality %v outside [-1, 1]", p.AnswerQuality)
	}
	return nil
}

func validateSession(row int, s *ChatSession) error {
	if len(s.History) == 0 {
		return formatErrorf(row, "history is empty")
	}
	for i, turn := range s.History {
		if turn.User == "" && turn.Bot == "" {
			return formatErrorf(row, "history turn %d has neither user nor bot message", i)
		}
	}
	if s.Rating < 1 || s.Rating > 5 {
		return formatErrorf(row, "rating %d outside [1, 5]", s.Rating)
	}
	if s.Message == "" {
		s.Message = defaultMessage
	}
	return nil
}
