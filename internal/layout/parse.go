// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package layout

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Node is a parsed layout cell.
//
type Node interface {
	Position() Pos
}

// Atom is a single token cell, like "+", "42" or "add>".
//
type Atom struct {
	Pos  Pos
	Text string
}

// Position implements Node.
//
func (a *Atom) Position() Pos { return a.Pos }

// List is a bracketed, comma separated list of nodes.
//
type List struct {
	Pos   Pos
	Elems []Node
}

// Position implements Node.
//
func (l *List) Position() Pos { return l.Pos }

// Grid is a parsed layout. All rows have the same width.
//
type Grid struct {
	Rows  [][]Node
	Width int
}

// Height returns the number of rows.
//
func (g *Grid) Height() int { return len(g.Rows) }

// Error is a parse error.
//
type Error struct {
	Pos Pos
	Msg string
}

func (e *Error) Error() string {
	return "line " + strconv.Itoa(e.Pos.Line) + ", col " + strconv.Itoa(e.Pos.Col) + ": " + e.Msg
}

// Errorf returns an *Error at pos.
//
func Errorf(pos Pos, format string, args ...any) error {
	return errors.WithStack(&Error{pos, fmt.Sprintf(format, args...)})
}

// Parse parses a layout. Blank lines are ignored.
//
func Parse(input string) (*Grid, error) {
	p := parser{l: NewLexer(input)}
	return p.grid()
}

type parser struct {
	l *Lexer
	i Item
}

func (p *parser) next() { p.i = p.l.Lex() }

func (p *parser) grid() (*Grid, error) {
	g := new(Grid)
	var row []Node
	var rowPos Pos
	endRow := func() error {
		if len(row) == 0 {
			return nil
		}
		if g.Width == 0 {
			g.Width = len(row)
		} else if len(row) != g.Width {
			return Errorf(rowPos, "row has %d cells, expected %d", len(row), g.Width)
		}
		g.Rows = append(g.Rows, row)
		row = nil
		return nil
	}

	p.next()
	for {
		switch p.i.Type {
		case EOF:
			if err := endRow(); err != nil {
				return nil, err
			}
			if len(g.Rows) == 0 {
				return nil, Errorf(p.i.Pos, "empty layout")
			}
			return g, nil
		case Newline:
			if err := endRow(); err != nil {
				return nil, err
			}
			p.next()
			continue
		}
		if len(row) == 0 {
			rowPos = p.i.Pos
		}
		n, err := p.node()
		if err != nil {
			return nil, err
		}
		row = append(row, n)
	}
}

// node parses a single cell and moves past it.
//
func (p *parser) node() (Node, error) {
	switch p.i.Type {
	case Word:
		a := &Atom{p.i.Pos, p.i.Value}
		p.next()
		return a, nil
	case BracketOpen:
		return p.list()
	}
	return nil, Errorf(p.i.Pos, "unexpected %s", p.i)
}

func (p *parser) list() (Node, error) {
	l := &List{Pos: p.i.Pos}
	p.next()
	if p.i.Type == BracketClose {
		p.next()
		return l, nil
	}
	for {
		n, err := p.node()
		if err != nil {
			return nil, err
		}
		l.Elems = append(l.Elems, n)
		switch p.i.Type {
		case Comma:
			p.next()
		case BracketClose:
			p.next()
			return l, nil
		default:
			return nil, Errorf(p.i.Pos, "expected ',' or ']', got %s", p.i)
		}
	}
}
