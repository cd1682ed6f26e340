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
	"fmt"
	"strings"
)

// Prompts used to flatten a multi-turn history into one question.
const (
	promptPresentationEN = "This is our past conversation:"
	promptQueryEN        = "Now, this is my last question, which you are asked to answer:"
	promptPresentationDE = "Dies ist unser bisheriges Gespräch:"
	promptQueryDE        = "Nun, hier ist meine letzte Frage, die du beantworten sollst:"
	noResponse           = "No response."
)

// QuestionToHistory wraps a bare question string into a single-turn
// history, the shape remote chat endpoints consume.
func QuestionToHistory(question string) []ChatTurn {
	return []ChatTurn{{User: question}}
}

// HistoryToQuestion flattens a chat history into a single question
// string. A single-turn history yields the bare user message; longer
// histories are framed so the chatbot sees the past conversation before
// the final question. lang selects the framing language ("de" for
// German, anything else English).
func HistoryToQuestion(history []ChatTurn, lang string) string {
	if len(history) == 0 {
		return ""
	}
	if len(history) == 1 {
		return history[0].User
	}
	presentation, query := promptPresentationEN, promptQueryEN
	if lang == "de" {
		presentation, query = promptPresentationDE, promptQueryDE
	}
	var sb strings.Builder
	sb.WriteString(presentation)
	sb.WriteString("\n\n")
	for i, turn := range history[:len(history)-1] {
		if i > 0 {
			sb.WriteString("\n")
		}
		bot := turn.Bot
		if bot == "" {
			bot = noResponse
		}
		fmt.Fprintf(&sb, "User: %s\nBot: %s", turn.User, bot)
	}
	sb.WriteString("\n\n")
	sb.WriteString(query)
	sb.WriteString("\n\nUser: ")
	sb.WriteString(history[len(history)-1].User)
	return sb.String()
}

// parseTurnList parses a history cell into chat turns. Cells hold a
// list of turn mappings in either JSON or Python-literal notation
// (single-quoted strings with backslash escapes), so the parser accepts
// both quote styles.
func parseTurnList(row int, s string) ([]ChatTurn, error) {
	p := &turnListParser{input: []rune(s)}
	turns, err := p.parse()
	if err != nil {
		return nil, formatErrorf(row, "malformed history: %v", err)
	}
	return turns, nil
}

type turnListParser struct {
	input []rune
	pos   int
}

func (p *turnListParser) parse() ([]ChatTurn, error) {
	p.skipSpace()
	if err := p.expect('['); err != nil {
		return nil, err
	}
	var turns []ChatTurn
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return turns, p.expectEnd()
	}
	for {
		turn, err := p.parseTurn()
		if err != nil {
			return nil, err
		}
		turns = append(turns, turn)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()
		case ']':
			p.pos++
			return turns, p.expectEnd()
		default:
			return nil, fmt.Errorf("expected ',' or ']' at offset %d", p.pos)
		}
	}
}

func (p *turnListParser) parseTurn() (ChatTurn, error) {
	var turn ChatTurn
	if err := p.expect('{'); err != nil {
		return turn, err
	}
	for {
		p.skipSpace()
		key, err := p.parseString()
		if err != nil {
			return turn, err
		}
		p.skipSpace()
		if err := p.expect(':'); err != nil {
			return turn, err
		}
		p.skipSpace()
		value, err := p.parseString()
		if err != nil {
			return turn, err
		}
		switch key {
		case "user":
			turn.User = value
		case "bot":
			turn.Bot = value
		default:
			return turn, fmt.Errorf("unexpected turn key %q", key)
		}
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return turn, nil
		default:
			return turn, fmt.Errorf("expected ',' or '}' at offset %d", p.pos)
		}
	}
}

func (p *turnListParser) parseString() (string, error) {
	quote := p.peek()
	if quote != '\'' && quote != '"' {
		return "", fmt.Errorf("expected string at offset %d", p.pos)
	}
	p.pos++
	var sb strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch c {
		case '\\':
			p.pos++
			if p.pos >= len(p.input) {
				return "", fmt.Errorf("unterminated escape at offset %d", p.pos)
			}
			switch esc := p.input[p.pos]; esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			default:
				sb.WriteRune(esc)
			}
			p.pos++
		case quote:
			p.pos++
			return sb.String(), nil
		default:
			sb.WriteRune(c)
			p.pos++
		}
	}
	return "", fmt.Errorf("unterminated string at offset %d", p.pos)
}

func (p *turnListParser) expect(c rune) error {
	if p.peek() != c {
		return fmt.Errorf("expected %q at offset %d", c, p.pos)
	}
	p.pos++
	return nil
}

func (p *turnListParser) expectEnd() error {
	p.skipSpace()
	if p.pos != len(p.input) {
		return fmt.Errorf("trailing content at offset %d", p.pos)
	}
	return nil
}

func (p *turnListParser) peek() rune {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *turnListParser) skipSpace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}
