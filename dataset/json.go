//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// jsonSession mirrors ChatSession with the textual timestamp form used
// in dataset files.
type jsonSession struct {
	ID        *int       `json:"id"`
	Timestamp *string    `json:"timestamp"`
	History   []ChatTurn `json:"history"`
	Rating    *int       `json:"rating"`
	Message   string     `json:"message"`
}

// jsonPair mirrors QAPair with pointer fields so absent keys are
// distinguishable from zero values.
type jsonPair struct {
	PairID        *int     `json:"pair_id"`
	QuestionID    *int     `json:"question_id"`
	AnswerID      *int     `json:"answer_id"`
	QuestionText  *string  `json:"question_text"`
	AnswerText    *string  `json:"answer_text"`
	AnswerQuality *float64 `json:"answer_quality"`
}

func loadJSON(path string, kind Kind) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	detected, err := detectJSONKind(rows, kind)
	if err != nil {
		return nil, err
	}
	switch detected {
	case KindQAPairs:
		pairs, err := parseJSONPairs(rows)
		if err != nil {
			return nil, err
		}
		return &Set{kind: KindQAPairs, pairs: pairs}, nil
	default:
		sessions, err := parseJSONSessions(rows)
		if err != nil {
			return nil, err
		}
		return &Set{kind: KindChatHistory, sessions: sessions}, nil
	}
}

func detectJSONKind(rows []json.RawMessage, declared Kind) (Kind, error) {
	if declared != KindAuto {
		return declared, nil
	}
	if len(rows) == 0 {
		return KindAuto, formatErrorf(0, "cannot detect schema of an empty dataset")
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(rows[0], &probe); err != nil {
		return KindAuto, formatErrorf(1, "record is not an object: %v", err)
	}
	hasAll := func(required []string) bool {
		for _, name := range required {
			if _, ok := probe[name]; !ok {
				return false
			}
		}
		return true
	}
	if hasAll(qaColumns) {
		return KindQAPairs, nil
	}
	if hasAll(chatColumns[:len(chatColumns)-1]) { // message may be omitted
		return KindChatHistory, nil
	}
	return KindAuto, formatErrorf(1, "unknown dataset format: fields match neither qa_pairs nor chat_history")
}

func parseJSONPairs(rows []json.RawMessage) ([]QAPair, error) {
	pairs := make([]QAPair, 0, len(rows))
	seen := make(map[int]bool, len(rows))
	for i, raw := range rows {
		rowNum := i + 1
		var jp jsonPair
		if err := json.Unmarshal(raw, &jp); err != nil {
			return nil, formatErrorf(rowNum, "malformed record: %v", err)
		}
		if jp.PairID == nil || jp.QuestionID == nil || jp.AnswerID == nil ||
			jp.QuestionText == nil || jp.AnswerText == nil || jp.AnswerQuality == nil {
			return nil, formatErrorf(rowNum, "missing required qa_pairs field")
		}
		if seen[*jp.PairID] {
			return nil, formatErrorf(rowNum, "duplicate pair_id %d", *jp.PairID)
		}
		seen[*jp.PairID] = true
		pair := QAPair{
			PairID:        *jp.PairID,
			QuestionID:    *jp.QuestionID,
			AnswerID:      *jp.AnswerID,
			QuestionText:  *jp.QuestionText,
			AnswerText:    *jp.AnswerText,
			AnswerQuality: *jp.AnswerQuality,
		}
		if err := validatePair(rowNum, &pair); err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func parseJSONSessions(rows []json.RawMessage) ([]ChatSession, error) {
	sessions := make([]ChatSession, 0, len(rows))
	for i, raw := range rows {
		rowNum := i + 1
		var js jsonSession
		if err := json.Unmarshal(raw, &js); err != nil {
			return nil, formatErrorf(rowNum, "malformed record: %v", err)
		}
		if js.ID == nil || js.Timestamp == nil || js.Rating == nil {
			return nil, formatErrorf(rowNum, "missing required chat_history field")
		}
		timestamp, err := time.Parse(TimestampLayout, *js.Timestamp)
		if err != nil {
			return nil, formatErrorf(rowNum, "malformed timestamp %q: %v", *js.Timestamp, err)
		}
		session := ChatSession{
			ID:        *js.ID,
			Timestamp: timestamp,
			History:   js.History,
			Rating:    *js.Rating,
			Message:   js.Message,
		}
		if err := validateSession(rowNum, &session); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}
