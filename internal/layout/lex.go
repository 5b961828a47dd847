// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package layout implements a lexer and parser for textual board layouts.
//
package layout

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Type is a token type.
//
type Type int

// Tokens
const (
	EOF Type = iota
	Word
	BracketOpen
	BracketClose
	Comma
	Newline
)

var typeNames = [...]string{"end of input", "word", "'['", "']'", "','", "end of line"}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// Pos is a position in the input. Lines and columns start at 1.
//
type Pos struct {
	Line, Col int
}

func (p Pos) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Col)
}

// Item is a lexed token.
//
type Item struct {
	Type  Type
	Pos   Pos
	Value string
}

func (i Item) String() string {
	if i.Type == Word {
		return strconv.Quote(i.Value)
	}
	return i.Type.String()
}

const eof = -1

// StateFn is a lexer state function. A nil StateFn returns the lexer to its
// initial state.
//
type StateFn func(l *Lexer) StateFn

// Lexer is a state function based lexer.
//
type Lexer struct {
	input string
	off   int // offset of the next rune
	cur   rune
	width int
	pos   Pos // position of cur
	next  Pos // position of the next rune
	start Pos // start of the current token
	state StateFn
	items []Item
}

// NewLexer returns a new lexer for the given input.
//
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, next: Pos{1, 1}}
}

// Lex returns the next token.
//
func (l *Lexer) Lex() Item {
	for len(l.items) == 0 {
		if l.state == nil {
			l.state = lexInit(l)
		} else {
			l.state = l.state(l)
		}
	}
	i := l.items[0]
	l.items = l.items[1:]
	return i
}

// Next consumes the next rune and returns it.
//
func (l *Lexer) Next() rune {
	l.pos = l.next
	if l.off >= len(l.input) {
		l.cur, l.width = eof, 0
		return eof
	}
	l.cur, l.width = utf8.DecodeRuneInString(l.input[l.off:])
	l.off += l.width
	if l.cur == '\n' {
		l.next = Pos{l.next.Line + 1, 1}
	} else {
		l.next.Col++
	}
	return l.cur
}

// Backup steps back one rune. Can only be called once per call of Next.
//
func (l *Lexer) Backup() {
	l.off -= l.width
	l.width = 0
	l.next = l.pos
}

// Current returns the last rune returned by Next.
//
func (l *Lexer) Current() rune { return l.cur }

// Emit emits a token starting at the position of the current rune.
//
func (l *Lexer) Emit(t Type, value string) {
	l.items = append(l.items, Item{t, l.start, value})
}

func isDelim(r rune) bool {
	return r == eof || unicode.IsSpace(r) || r == '[' || r == ']' || r == ','
}

func lexInit(l *Lexer) StateFn {
	r := l.Next()
	l.start = l.pos
	switch {
	case r == eof:
		return lexEOF
	case r == '\n':
		l.Emit(Newline, "\n")
	case unicode.IsSpace(r):
	case r == '[':
		l.Emit(BracketOpen, "[")
	case r == ']':
		l.Emit(BracketClose, "]")
	case r == ',':
		l.Emit(Comma, ",")
	default:
		return lexWord
	}
	return nil
}

func lexWord(l *Lexer) StateFn {
	var buf strings.Builder
	buf.WriteRune(l.Current())
	for r := l.Next(); !isDelim(r); r = l.Next() {
		buf.WriteRune(r)
	}
	l.Backup()
	l.Emit(Word, buf.String())
	return nil
}

// lexEOF places the lexer in End-Of-File state.
// Once in this state, the lexer will only emit EOF.
//
func lexEOF(l *Lexer) StateFn {
	l.start = l.pos
	l.Emit(EOF, "")
	return lexEOF
}
