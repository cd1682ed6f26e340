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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const qaHeader = "pair_id,question_id,answer_id,question_text,answer_text,answer_quality\n"

const chatHeader = "id,timestamp,history,rating,message\n"

func writeDataset(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadQAPairsCSV(t *testing.T) {
	path := writeDataset(t, "qa.csv", qaHeader+
		"1,1,10,What is Go?,A programming language.,0.9\n"+
		"2,1,11,What is Go?,A board game.,-0.5\n")

	set, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, KindQAPairs, set.Kind())
	require.Equal(t, 2, set.Len())

	first := set.Pair(0)
	assert.Equal(t, 1, first.PairID)
	assert.Equal(t, "What is Go?", first.QuestionText)
	assert.Equal(t, "A programming language.", first.AnswerText)
	assert.InDelta(t, 0.9, first.AnswerQuality, 1e-9)

	// Shared question_id must yield independent records.
	second := set.Pair(1)
	assert.Equal(t, 2, second.PairID)
	assert.Equal(t, first.QuestionID, second.QuestionID)
	assert.NotEqual(t, first.AnswerID, second.AnswerID)

	assert.Equal(t, []string{"A programming language.", "A board game."}, set.ReferenceAnswers())
}

func TestLoadQAPairsRejectsOutOfRangeQuality(t *testing.T) {
	path := writeDataset(t, "qa.csv", qaHeader+"1,1,10,Q,A,1.5\n")

	_, err := Load(path)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, 1, formatErr.Row)
	assert.Contains(t, err.Error(), "answer_quality")
}

func TestLoadQAPairsRejectsDuplicatePairID(t *testing.T) {
	path := writeDataset(t, "qa.csv", qaHeader+"1,1,10,Q,A,0.5\n1,2,11,Q2,A2,0.5\n")

	_, err := Load(path)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, 2, formatErr.Row)
	assert.Contains(t, err.Error(), "duplicate pair_id")
}

func TestLoadChatHistoryCSV(t *testing.T) {
	path := writeDataset(t, "chat.csv", chatHeader+
		`1,"01.03.2024, 10:30:00.000000","[{'user': 'Can I substitute almond milk?', 'bot': 'Yes, usually 1:1.'}, {'user': 'Even in baking?'}]",4,Helpful answer.`+"\n"+
		`2,"02.03.2024, 11:00:00.000000","[{'user': 'Hi', 'bot': 'You\'re welcome!'}]",5,`+"\n")

	set, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, KindChatHistory, set.Kind())
	require.Equal(t, 2, set.Len())

	first := set.Session(0)
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2024, first.Timestamp.Year())
	require.Len(t, first.History, 2)
	assert.Equal(t, "Can I substitute almond milk?", first.History[0].User)
	assert.Equal(t, "Yes, usually 1:1.", first.History[0].Bot)
	assert.False(t, first.Answered())
	assert.Equal(t, "Yes, usually 1:1.", first.Reference())

	second := set.Session(1)
	assert.True(t, second.Answered())
	assert.Equal(t, "You're welcome!", second.History[0].Bot)
	assert.Equal(t, "No message provided.", second.Message)
}

func TestLoadChatHistoryRejectsOutOfRangeRating(t *testing.T) {
	path := writeDataset(t, "chat.csv", chatHeader+
		`1,"01.03.2024, 10:30:00.000000","[{'user': 'Hi'}]",6,msg`+"\n")

	_, err := Load(path)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, err.Error(), "rating")
}

func TestLoadChatHistoryRejectsMalformedTimestamp(t *testing.T) {
	path := writeDataset(t, "chat.csv", chatHeader+
		`1,"2024-03-01 10:30:00","[{'user': 'Hi'}]",4,msg`+"\n")

	_, err := Load(path)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, err.Error(), "timestamp")
}

func TestLoadChatHistoryRejectsEmptyTurn(t *testing.T) {
	path := writeDataset(t, "chat.csv", chatHeader+
		`1,"01.03.2024, 10:30:00.000000","[{'user': ''}]",4,msg`+"\n")

	_, err := Load(path)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, err.Error(), "neither user nor bot")
}

func TestLoadChatHistoryRejectsMalformedHistory(t *testing.T) {
	for _, cell := range []string{"not a list", "[{'speaker': 'Hi'}]", "[{'user': 'Hi'}"} {
		path := writeDataset(t, "chat.csv", chatHeader+
			`1,"01.03.2024, 10:30:00.000000","`+cell+`",4,msg`+"\n")
		_, err := Load(path)
		var formatErr *FormatError
		assert.ErrorAs(t, err, &formatErr, "history cell %q", cell)
	}
}

func TestLoadUnknownFormat(t *testing.T) {
	path := writeDataset(t, "odd.csv", "a,b,c\n1,2,3\n")

	_, err := Load(path)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, err.Error(), "unknown dataset format")
}

func TestLoadKindMissingColumn(t *testing.T) {
	path := writeDataset(t, "chat.csv", chatHeader+
		`1,"01.03.2024, 10:30:00.000000","[{'user': 'Hi'}]",4,msg`+"\n")

	_, err := LoadKind(path, KindQAPairs)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, err.Error(), "missing required column pair_id")
}

func TestLoadJSONQAPairs(t *testing.T) {
	path := writeDataset(t, "qa.json", `[
		{"pair_id": 1, "question_id": 1, "answer_id": 10,
		 "question_text": "Q", "answer_text": "A", "answer_quality": 0.5}
	]`)

	set, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, KindQAPairs, set.Kind())
	require.Equal(t, 1, set.Len())
	assert.Equal(t, "A", set.Pair(0).AnswerText)
}

func TestLoadJSONChatHistory(t *testing.T) {
	path := writeDataset(t, "chat.json", `[
		{"id": 1, "timestamp": "01.03.2024, 10:30:00.000000",
		 "history": [{"user": "Hi", "bot": "Hello"}], "rating": 5,
		 "message": "Good."}
	]`)

	set, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, KindChatHistory, set.Kind())
	require.Equal(t, 1, set.Len())
	session := set.Session(0)
	assert.True(t, session.Answered())
}

func TestLoadJSONMissingField(t *testing.T) {
	path := writeDataset(t, "qa.json", `[
		{"pair_id": 1, "question_id": 1, "answer_id": 10,
		 "question_text": "Q", "answer_text": "A", "answer_quality": 0.5},
		{"pair_id": 2, "question_id": 2, "answer_id": 11,
		 "question_text": "Q2", "answer_quality": 0.5}
	]`)

	_, err := Load(path)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, 2, formatErr.Row)
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
	var formatErr *FormatError
	assert.False(t, errors.As(err, &formatErr))
}

func TestHistoryToQuestion(t *testing.T) {
	single := []ChatTurn{{User: "What time is it?"}}
	assert.Equal(t, "What time is it?", HistoryToQuestion(single, "en"))

	multi := []ChatTurn{
		{User: "First question", Bot: "First answer"},
		{User: "Unanswered aside"},
		{User: "Final question"},
	}
	question := HistoryToQuestion(multi, "en")
	assert.Contains(t, question, "This is our past conversation:")
	assert.Contains(t, question, "User: First question\nBot: First answer")
	assert.Contains(t, question, "Bot: No response.")
	assert.Contains(t, question, "User: Final question")

	german := HistoryToQuestion(multi, "de")
	assert.Contains(t, german, "Dies ist unser bisheriges Gespräch:")

	assert.Empty(t, HistoryToQuestion(nil, "en"))
}

func TestQuestionToHistory(t *testing.T) {
	history := QuestionToHistory("Hi")
	require.Len(t, history, 1)
	assert.Equal(t, "Hi", history[0].User)
	assert.Empty(t, history[0].Bot)
}

func TestSetIterationIsRestartable(t *testing.T) {
	path := writeDataset(t, "qa.csv", qaHeader+"1,1,10,Q,A,0.5\n2,2,11,Q2,A2,0.5\n")
	set, err := Load(path)
	require.NoError(t, err)

	for pass := 0; pass < 2; pass++ {
		var ids []int
		for i := 0; i < set.Len(); i++ {
			ids = append(ids, set.Pair(i).PairID)
		}
		assert.Equal(t, []int{1, 2}, ids)
	}
}
