// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ton

import (
	"path/filepath"
	"strings"
)

// DefaultChipSize is the width and height of the board of a new chip.
//
const DefaultChipSize = 5

// A Chip is a cell embedding its own board. The inner board advances exactly
// once per generation of the outer board:
//
//	- for each side, values found on the outer neighbor facing that side are
//	  copied onto the wires lying on the matching edge of the inner board;
//	- the inner board ticks;
//	- the first value found on the inner board edges, scanning sides in
//	  Sides order, becomes the chip's next state in the outer board. Values
//	  imported during the same tick are not exported back.
//
// The inner board edges are mapped as if the chip was facing North: the
// FRONT side is the inner North edge, LEFT the West edge, and so on.
//
// A chip exclusively owns its board: copying a chip copies its board.
//
type Chip struct {
	Directional
	Board *Board
	// Source is the path the board has been imported from. It is empty for
	// plain chips.
	Source string
}

// NewChip returns a new chip embedding b. If b is nil, the chip gets an empty
// DefaultChipSize square board.
//
func NewChip(facing Direction, b *Board) *Chip {
	if b == nil {
		b, _ = NewBoard(DefaultChipSize, DefaultChipSize)
	}
	return &Chip{Directional: Directional{Facing: facing}, Board: b}
}

// NewImport returns a new chip whose board is loaded from the given file.
//
func NewImport(path string, facing Direction) (*Chip, error) {
	b, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	c := NewChip(facing, b)
	c.Source = path
	return c, nil
}

func (*Chip) cell() {}

// Kind returns KindImport for imported chips and KindChip otherwise.
//
func (c *Chip) Kind() Kind {
	if c.Source != "" {
		return KindImport
	}
	return KindChip
}

// Pins implements Cell. Chips connect on all edges.
//
func (*Chip) Pins() Connex { return AllPins }

// Describe implements Cell.
//
func (c *Chip) Describe() string {
	name := "chip"
	if c.Source != "" {
		name = strings.TrimSuffix(filepath.Base(c.Source), filepath.Ext(c.Source))
	}
	return "@" + name + string(c.Facing.Glyph())
}

// Copy implements Cell.
//
func (c *Chip) Copy() Cell {
	return &Chip{Directional: c.Directional, Board: c.Board.Copy(), Source: c.Source}
}

// clone copies c for its next generation. The inner board keeps its random
// source.
//
func (c *Chip) clone() *Chip {
	return &Chip{Directional: c.Directional, Board: c.Board.clone(), Source: c.Source}
}

// edge returns the inner board positions lying on side s.
//
func (c *Chip) edge(s Side) []Point {
	b := c.Board
	var ps []Point
	switch DirectionOf(s, N) {
	case N:
		for x := 0; x < b.width; x++ {
			ps = append(ps, Point{x, 0})
		}
	case E:
		for y := 0; y < b.height; y++ {
			ps = append(ps, Point{b.width - 1, y})
		}
	case S:
		for x := 0; x < b.width; x++ {
			ps = append(ps, Point{x, b.height - 1})
		}
	case W:
		for y := 0; y < b.height; y++ {
			ps = append(ps, Point{0, y})
		}
	}
	return ps
}

// Transition implements Cell.
//
func (c *Chip) Transition(n Neighborhood, env *Env) Step {
	next := c.clone()
	inner := next.Board

	imported := make(map[Point]bool)
	for _, s := range Sides {
		v, ok := n.Get(DirectionOf(s, c.Facing)).(Value)
		if !ok {
			continue
		}
		for _, p := range next.edge(s) {
			if inner.at(p).Kind() == KindWire {
				inner.set(p, v.Copy())
				imported[p] = true
			}
		}
	}

	inner.tick(env.Rand().Uint64(), env.Log, nil)

	for _, s := range Sides {
		for _, p := range next.edge(s) {
			if imported[p] {
				continue
			}
			if v, ok := inner.at(p).(Value); ok {
				env.Log.Trace().Str("side", s.String()).Int("x", p.X).Int("y", p.Y).Str("value", v.Describe()).Msg("chip output")
				return stay(v)
			}
		}
	}
	return stay(next)
}
