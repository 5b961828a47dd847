// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ton

import (
	"iter"
	"math/rand/v2"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Board errors.
var (
	ErrDimensions  = errors.New(f("board dimensions must be at least 1x1"))
	ErrOutOfBounds = errors.New(f("position out of bounds"))
	ErrOrder       = errors.New(f("evaluation order is not a permutation of the board positions"))
)

// seedSalt derives the second PCG word from a single seed.
const seedSalt = 0x9e3779b97f4a7c15

// A Board is a 2D grid of cells and the unit of simulation.
//
// Each Tick, every cell computes its next state from the current generation
// only, then all results are installed at once.
//
type Board struct {
	width, height int
	cells         []Cell // row-major
	gen           uint64

	src rand.Source
	log zerolog.Logger
}

// An Option configures a Board.
//
type Option func(b *Board)

// WithSource sets the board's random source. One value is drawn from it per
// generation.
//
func WithSource(src rand.Source) Option {
	return func(b *Board) { b.src = src }
}

// WithSeed seeds the board's random source.
//
func WithSeed(seed uint64) Option {
	return WithSource(rand.NewPCG(seed, seed^seedSalt))
}

// WithLogger sets the board's logger.
//
func WithLogger(l zerolog.Logger) Option {
	return func(b *Board) { b.log = l }
}

// NewBoard returns a new board of the given size filled with Empty cells.
//
func NewBoard(width, height int, opts ...Option) (*Board, error) {
	if width < 1 || height < 1 {
		return nil, errors.Wrapf(ErrDimensions, "%dx%d", width, height)
	}
	b := newBoard(width, height, opts)
	for i := range b.cells {
		b.cells[i] = &Empty{}
	}
	return b, nil
}

func newBoard(width, height int, opts []Option) *Board {
	b := &Board{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
		log:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(b)
	}
	if b.src == nil {
		b.src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return b
}

// Width returns the board width.
//
func (b *Board) Width() int { return b.width }

// Height returns the board height.
//
func (b *Board) Height() int { return b.height }

// Generation returns the number of generations computed since the board was
// created.
//
func (b *Board) Generation() uint64 { return b.gen }

// InBounds returns true if x, y is on the board.
//
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Board) index(p Point) int   { return p.Y*b.width + p.X }
func (b *Board) point(i int) Point   { return Point{i % b.width, i / b.width} }
func (b *Board) at(p Point) Cell     { return b.cells[b.index(p)] }
func (b *Board) set(p Point, c Cell) { b.cells[b.index(p)] = c }

// Get returns the cell at x, y or nil if x, y is out of bounds.
//
func (b *Board) Get(x, y int) Cell {
	if !b.InBounds(x, y) {
		return nil
	}
	return b.at(Point{x, y})
}

// Place puts c at x, y. A nil cell is replaced by Empty. The board takes
// ownership of c.
//
func (b *Board) Place(x, y int, c Cell) error {
	if !b.InBounds(x, y) {
		return errors.Wrapf(ErrOutOfBounds, "%d,%d", x, y)
	}
	if c == nil {
		c = &Empty{}
	}
	b.set(Point{x, y}, c)
	return nil
}

// Remove clears the cell at x, y.
//
func (b *Board) Remove(x, y int) error {
	return b.Place(x, y, nil)
}

// All iterates over all positions and cells in row-major order.
//
func (b *Board) All() iter.Seq2[Point, Cell] {
	return func(yield func(Point, Cell) bool) {
		for i, c := range b.cells {
			if !yield(b.point(i), c) {
				return
			}
		}
	}
}

// Neighbors returns the neighborhood of x, y in the current generation.
//
func (b *Board) Neighbors(x, y int) Neighborhood {
	var n Neighborhood
	for d, p := range Around(Point{x, y}) {
		if b.InBounds(p.X, p.Y) {
			n.cells[d] = b.at(p)
		} else {
			n.edges |= d.Connex()
		}
	}
	return n
}

// Connex returns the directions in which the cell at x, y and its neighbors
// have matching pins.
//
func (b *Board) Connex(x, y int) Connex {
	c := b.Get(x, y)
	if c == nil {
		return 0
	}
	return b.Neighbors(x, y).Connex() & c.Pins()
}

// Tick advances the board by one generation.
//
func (b *Board) Tick() {
	b.tick(b.src.Uint64(), b.log, nil)
}

// TickOrdered advances the board by one generation, evaluating cells in the
// given order. order must be a permutation of all board positions. The
// result is the same as Tick for any valid order.
//
func (b *Board) TickOrdered(order []Point) error {
	if len(order) != len(b.cells) {
		return errors.Wrapf(ErrOrder, "got %d positions, need %d", len(order), len(b.cells))
	}
	seen := make([]bool, len(b.cells))
	for _, p := range order {
		if !b.InBounds(p.X, p.Y) || seen[b.index(p)] {
			return errors.Wrapf(ErrOrder, "at %d,%d", p.X, p.Y)
		}
		seen[b.index(p)] = true
	}
	b.tick(b.src.Uint64(), b.log, order)
	return nil
}

func (b *Board) tick(seed uint64, log zerolog.Logger, order []Point) {
	next := make([]Cell, len(b.cells))
	// each wire claims only the processor it copies from, and a processor
	// feeds every side it provides, so claims never compete.
	claimed := make(map[int]struct{})

	eval := func(i int) {
		p := b.point(i)
		env := NewEnv(seed, uint64(i), log)
		st := b.cells[i].Transition(b.Neighbors(p.X, p.Y), env)
		next[i] = st.Next
		for _, c := range st.Claims {
			q := p.Add(c.Dir)
			if !b.InBounds(q.X, q.Y) {
				panic("claim out of bounds from " + b.cells[i].Describe())
			}
			claimed[b.index(q)] = struct{}{}
		}
	}
	if order == nil {
		for i := range b.cells {
			eval(i)
		}
	} else {
		for _, p := range order {
			eval(b.index(p))
		}
	}

	for t := range claimed {
		p, ok := next[t].(*Processor)
		if !ok {
			panic("claim on a non-processor cell " + next[t].Describe())
		}
		next[t] = p.fire()
	}

	b.cells = next
	b.gen++
	log.Debug().Uint64("generation", b.gen).Int("fired", len(claimed)).Msg("tick")
}

// Run ticks the board until done returns true or limit generations have been
// computed. It returns the number of generations computed and whether done
// returned true. A nil done runs exactly limit generations.
//
func (b *Board) Run(limit int, done func(b *Board) bool) (int, bool) {
	for i := 0; i < limit; i++ {
		if done != nil && done(b) {
			return i, true
		}
		b.Tick()
	}
	return limit, done != nil && done(b)
}

// Copy returns a deep copy of b. The copy gets its own random source,
// configured by opts.
//
func (b *Board) Copy(opts ...Option) *Board {
	c := newBoard(b.width, b.height, append([]Option{WithLogger(b.log)}, opts...))
	c.gen = b.gen
	for i, cell := range b.cells {
		c.cells[i] = cell.Copy()
	}
	return c
}

// clone returns a deep copy of b sharing its random source.
//
func (b *Board) clone() *Board {
	c := &Board{
		width:  b.width,
		height: b.height,
		cells:  make([]Cell, len(b.cells)),
		gen:    b.gen,
		src:    b.src,
		log:    b.log,
	}
	for i, cell := range b.cells {
		if ch, ok := cell.(*Chip); ok {
			c.cells[i] = ch.clone()
			continue
		}
		c.cells[i] = cell.Copy()
	}
	return c
}

// Equal reports whether b and o have the same dimensions and structurally
// equal cells.
//
func (b *Board) Equal(o *Board) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.width != o.width || b.height != o.height {
		return false
	}
	for i := range b.cells {
		if !Equal(b.cells[i], o.cells[i]) {
			return false
		}
	}
	return true
}

// String returns the board layout, one row per line. Boards without chips
// can be parsed back with ParseLayout.
//
func (b *Board) String() string {
	ds := make([]string, len(b.cells))
	ws := make([]int, b.width)
	for i, c := range b.cells {
		ds[i] = c.Describe()
		if x := i % b.width; len(ds[i]) > ws[x] {
			ws[x] = len(ds[i])
		}
	}
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			d := ds[y*b.width+x]
			sb.WriteString(d)
			if x < b.width-1 {
				sb.WriteString(strings.Repeat(" ", ws[x]-len(d)+1))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
