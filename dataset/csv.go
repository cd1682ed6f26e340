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
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	qaColumns   = []string{"pair_id", "question_id", "answer_id", "question_text", "answer_text", "answer_quality"}
	chatColumns = []string{"id", "timestamp", "history", "rating", "message"}
)

func loadCSV(path string, kind Kind) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, formatErrorf(0, "dataset %s has no header row", path)
	}
	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.TrimSpace(name)] = i
	}
	detected, err := detectKind(columns, kind)
	if err != nil {
		return nil, err
	}
	switch detected {
	case KindQAPairs:
		pairs, err := parsePairRows(records[1:], columns)
		if err != nil {
			return nil, err
		}
		return &Set{kind: KindQAPairs, pairs: pairs}, nil
	default:
		sessions, err := parseSessionRows(records[1:], columns)
		if err != nil {
			return nil, err
		}
		return &Set{kind: KindChatHistory, sessions: sessions}, nil
	}
}

// detectKind resolves the record schema from the header columns. When a
// schema was declared, its required columns must all be present.
func detectKind(columns map[string]int, declared Kind) (Kind, error) {
	missing := func(required []string) string {
		for _, name := range required {
			if _, ok := columns[name]; !ok {
				return name
			}
		}
		return ""
	}
	switch declared {
	case KindQAPairs:
		if name := missing(qaColumns); name != "" {
			return KindAuto, formatErrorf(0, "missing required column %s", name)
		}
		return KindQAPairs, nil
	case KindChatHistory:
		if name := missing(chatColumns); name != "" {
			return KindAuto, formatErrorf(0, "missing required column %s", name)
		}
		return KindChatHistory, nil
	default:
		if missing(qaColumns) == "" {
			return KindQAPairs, nil
		}
		if missing(chatColumns) == "" {
			return KindChatHistory, nil
		}
		return KindAuto, formatErrorf(0, "unknown dataset format: columns match neither qa_pairs nor chat_history")
	}
}

func parsePairRows(rows [][]string, columns map[string]int) ([]QAPair, error) {
	pairs := make([]QAPair, 0, len(rows))
	seen := make(map[int]bool, len(rows))
	for i, row := range rows {
		rowNum := i + 1
		pairID, err := intField(rowNum, row, columns, "pair_id")
		if err != nil {
			return nil, err
		}
		questionID, err := intField(rowNum, row, columns, "question_id")
		if err != nil {
			return nil, err
		}
		answerID, err := intField(rowNum, row, columns, "answer_id")
		if err != nil {
			return nil, err
		}
		quality, err := floatField(rowNum, row, columns, "answer_quality")
		if err != nil {
			return nil, err
		}
		if seen[pairID] {
			return nil, formatErrorf(rowNum, "duplicate pair_id %d", pairID)
		}
		seen[pairID] = true
		pair := QAPair{
			PairID:        pairID,
			QuestionID:    questionID,
			AnswerID:      answerID,
			QuestionText:  row[columns["question_text"]],
			AnswerText:    row[columns["answer_text"]],
			AnswerQuality: quality,
		}
		if err := validatePair(rowNum, &pair); err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func parseSessionRows(rows [][]string, columns map[string]int) ([]ChatSession, error) {
	sessions := make([]ChatSession, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 1
		id, err := intField(rowNum, row, columns, "id")
		if err != nil {
			return nil, err
		}
		timestamp, err := time.Parse(TimestampLayout, row[columns["timestamp"]])
		if err != nil {
			return nil, formatErrorf(rowNum, "malformed timestamp %q: %v", row[columns["timestamp"]], err)
		}
		history, err := parseTurnList(rowNum, row[columns["history"]])
		if err != nil {
			return nil, err
		}
		rating, err := intField(rowNum, row, columns, "rating")
		if err != nil {
			return nil, err
		}
		session := ChatSession{
			ID:        id,
			Timestamp: timestamp,
			History:   history,
			Rating:    rating,
			Message:   row[columns["message"]],
		}
		if err := validateSession(rowNum, &session); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func intField(row int, record []string, columns map[string]int, name string) (int, error) {
	value := strings.TrimSpace(record[columns[name]])
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, formatErrorf(row, "column %s: %q is not an integer", name, value)
	}
	return n, nil
}

func floatField(row int, record []string, columns map[string]int, name string) (float64, error) {
	value := strings.TrimSpace(record[columns[name]])
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, formatErrorf(row, "column %s: %q is not a number", name, value)
	}
	return f, nil
}
