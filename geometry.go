// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ton

import (
	"iter"
	"math/bits"
	"strconv"
	"strings"
)

// A Direction is one of the four grid directions. Directions are numbered
// clockwise starting from North.
//
type Direction uint8

// Grid directions.
const (
	N Direction = iota
	E
	S
	W
)

// Directions lists all directions in clockwise order. This is also the order
// in which neighborhoods are iterated.
//
var Directions = [...]Direction{N, E, S, W}

var (
	dirNames  = [...]string{"N", "E", "S", "W"}
	dirGlyphs = [...]rune{'^', '>', 'v', '<'}
	dirDeltas = [...]Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
)

// Valid returns true if d is one of N, E, S or W.
//
func (d Direction) Valid() bool { return d <= W }

func (d Direction) String() string {
	if !d.Valid() {
		return "Direction(" + strconv.Itoa(int(d)) + ")"
	}
	return dirNames[d]
}

// Glyph returns the arrow glyph used in board layouts for a cell facing d.
//
func (d Direction) Glyph() rune { return dirGlyphs[d&3] }

// Rotate returns d rotated clockwise by r.
//
func (d Direction) Rotate(r Rotation) Direction {
	return Direction((uint8(d) + uint8(r)) & 3)
}

// Opposite returns the direction facing away from d.
//
func (d Direction) Opposite() Direction { return d.Rotate(R180) }

// Connex returns the single bit Connex for d.
//
func (d Direction) Connex() Connex { return 1 << (d & 3) }

// ParseDirection parses a direction name (N, E, S, W) or glyph (^ > v <).
//
func ParseDirection(s string) (Direction, bool) {
	for i, n := range dirNames {
		if s == n || s == string(dirGlyphs[i]) {
			return Direction(i), true
		}
	}
	return 0, false
}

// DirectionFromGlyph returns the direction for an arrow glyph.
//
func DirectionFromGlyph(r rune) (Direction, bool) {
	for i, g := range dirGlyphs {
		if g == r {
			return Direction(i), true
		}
	}
	return 0, false
}

// A Rotation is a clockwise rotation by a multiple of 90°.
//
type Rotation uint8

// Rotations.
const (
	R0 Rotation = iota
	R90
	R180
	R270
)

// Degrees returns r in degrees.
//
func (r Rotation) Degrees() int { return int(r&3) * 90 }

// Add returns r+o.
//
func (r Rotation) Add(o Rotation) Rotation { return (r + o) & 3 }

// Sub returns r-o.
//
func (r Rotation) Sub(o Rotation) Rotation { return (r - o) & 3 }

// Neg returns the rotation half a turn away from r.
//
func (r Rotation) Neg() Rotation { return r.Add(R180) }

func (r Rotation) String() string { return strconv.Itoa(r.Degrees()) + "°" }

// A Side is a direction relative to a cell's facing.
//
type Side uint8

// Sides, numbered clockwise from the front.
const (
	Front Side = iota
	Right
	Back
	Left
)

// Sides lists all sides in scan order.
//
var Sides = [...]Side{Front, Left, Back, Right}

var sideNames = [...]string{"front", "right", "back", "left"}

func (s Side) String() string {
	if s > Left {
		return "Side(" + strconv.Itoa(int(s)) + ")"
	}
	return sideNames[s]
}

// ParseSide parses a lowercase side name.
//
func ParseSide(name string) (Side, bool) {
	for i, n := range sideNames {
		if n == name {
			return Side(i), true
		}
	}
	return 0, false
}

// DirectionOf returns the absolute direction of side s for a cell facing
// facing. It is the inverse of SideOf.
//
func DirectionOf(s Side, facing Direction) Direction {
	return facing.Rotate(Rotation(s))
}

// SideOf returns the side of a cell facing facing that points towards d.
//
func SideOf(d Direction, facing Direction) Side {
	return Side((uint8(d) - uint8(facing)) & 3)
}

// Connex is a bit set of directions.
//
type Connex uint8

// Has returns true if d is in c.
//
func (c Connex) Has(d Direction) bool { return c&d.Connex() != 0 }

// Count returns the number of directions in c.
//
func (c Connex) Count() int { return bits.OnesCount8(uint8(c & 0xf)) }

// Rotate rotates all directions in c clockwise by r.
//
func (c Connex) Rotate(r Rotation) Connex {
	var o Connex
	for d := range c.All() {
		o |= d.Rotate(r).Connex()
	}
	return o
}

// All iterates over the directions in c, clockwise from N.
//
func (c Connex) All() iter.Seq[Direction] {
	return func(yield func(Direction) bool) {
		for _, d := range Directions {
			if c.Has(d) && !yield(d) {
				return
			}
		}
	}
}

func (c Connex) String() string {
	if c&0xf == 0 {
		return "-"
	}
	var b strings.Builder
	for d := range c.All() {
		b.WriteString(d.String())
	}
	return b.String()
}

// AllPins is the Connex of cells that connect on all four edges.
//
const AllPins Connex = 0xf

// A Point is a grid coordinate. Y grows southwards.
//
type Point struct {
	X, Y int
}

// Add returns the point adjacent to p in direction d.
//
func (p Point) Add(d Direction) Point {
	dd := dirDeltas[d&3]
	return Point{p.X + dd.X, p.Y + dd.Y}
}

// Around iterates over the four points adjacent to p.
//
func Around(p Point) iter.Seq2[Direction, Point] {
	return func(yield func(Direction, Point) bool) {
		for _, d := range Directions {
			if !yield(d, p.Add(d)) {
				return
			}
		}
	}
}
