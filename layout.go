// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ton

import (
	"strconv"
	"unicode/utf8"

	"github.com/db47h/ton/internal/layout"
)

// ParseLayout builds a board from a textual layout. One row of cells per
// line, cells separated by white space:
//
//	.          Empty
//	+          Wire
//	#          Anchor
//	m          Mu
//	42, -1     Integer
//	true       Boolean
//	[1,[2]]    List
//	add>       Processor for the named gate, facing ^ N, > E, v S or < W
//	@name>     Chip whose board is chips[name]
//
// Chip boards are copied. opts configure the returned board.
//
func ParseLayout(src string, chips map[string]*Board, opts ...Option) (*Board, error) {
	g, err := layout.Parse(src)
	if err != nil {
		return nil, err
	}
	b := newBoard(g.Width, g.Height(), opts)
	for y, row := range g.Rows {
		for x, n := range row {
			c, err := layoutCell(n, chips)
			if err != nil {
				return nil, err
			}
			b.set(Point{x, y}, c)
		}
	}
	return b, nil
}

// MustParseLayout is like ParseLayout but panics on error.
//
func MustParseLayout(src string, chips map[string]*Board, opts ...Option) *Board {
	b, err := ParseLayout(src, chips, opts...)
	if err != nil {
		panic(err)
	}
	return b
}

func layoutCell(n layout.Node, chips map[string]*Board) (Cell, error) {
	if l, ok := n.(*layout.List); ok {
		vs := make([]Value, len(l.Elems))
		for i, e := range l.Elems {
			c, err := layoutCell(e, chips)
			if err != nil {
				return nil, err
			}
			v, ok := c.(Value)
			if !ok {
				return nil, layout.Errorf(e.Position(), "%s", f("lists can only hold values, got %s", c.Kind()))
			}
			vs[i] = v
		}
		return NewList(vs...), nil
	}

	a := n.(*layout.Atom)
	switch a.Text {
	case ".":
		return &Empty{}, nil
	case "+":
		return &Wire{}, nil
	case "#":
		return &Anchor{}, nil
	case "m":
		return &Mu{}, nil
	case "true":
		return NewBoolean(true), nil
	case "false":
		return NewBoolean(false), nil
	}
	if i, err := strconv.ParseInt(a.Text, 10, 64); err == nil {
		return NewInteger(i), nil
	}

	r, sz := utf8.DecodeLastRuneInString(a.Text)
	facing, ok := DirectionFromGlyph(r)
	name := a.Text[:len(a.Text)-sz]
	if !ok || name == "" {
		return nil, layout.Errorf(a.Pos, "%s", f("invalid cell %q", a.Text))
	}
	if name[0] == '@' {
		b, ok := chips[name[1:]]
		if !ok {
			return nil, layout.Errorf(a.Pos, "%s", f("unknown chip %q", name[1:]))
		}
		return NewChip(facing, b.Copy()), nil
	}
	g, ok := LookupGate(name)
	if !ok {
		return nil, layout.Errorf(a.Pos, "%s", f("unknown gate %q", name))
	}
	return g.New(facing), nil
}
