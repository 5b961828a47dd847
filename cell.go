// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ton

import (
	"math/rand/v2"
	"strconv"

	"github.com/rs/zerolog"
)

// Kind identifies a cell variant.
//
type Kind uint8

// Cell kinds. KindAny is not a cell kind; gate inputs use it to accept any
// value.
const (
	KindEmpty Kind = iota
	KindWire
	KindAnchor
	KindMu
	KindProcessor
	KindInteger
	KindBoolean
	KindList
	KindChip
	KindImport
	KindAny
)

var kindNames = [...]string{
	KindEmpty:     "empty",
	KindWire:      "wire",
	KindAnchor:    "anchor",
	KindMu:        "mu",
	KindProcessor: "processor",
	KindInteger:   "integer",
	KindBoolean:   "boolean",
	KindList:      "list",
	KindChip:      "chip",
	KindImport:    "import",
	KindAny:       "any",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

func parseKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// Accepts returns true if value v satisfies a gate input of kind k.
//
func (k Kind) Accepts(v Value) bool {
	return v != nil && (k == KindAny || v.Kind() == k)
}

// A Cell is a single grid entity. The set of cell types is closed: Empty,
// Wire, Anchor, Mu, Processor, Integer, Boolean, List and Chip.
//
// Transition must not modify the receiver. Cells returned in a Step must not
// be shared with any other grid position of the next generation.
//
type Cell interface {
	// Kind returns the cell variant.
	Kind() Kind
	// Pins returns the directions through which the cell connects.
	Pins() Connex
	// Transition computes the cell's state for the next generation.
	Transition(n Neighborhood, env *Env) Step
	// CycleForward and CycleBackward cycle the cell through its edit-time
	// states (rotation, value increment, etc). They modify the cell in place.
	CycleForward()
	CycleBackward()
	// Describe returns a short human readable representation of the cell.
	Describe() string
	// Copy returns a deep copy of the cell.
	Copy() Cell

	cell()
}

// Step is the outcome of a cell transition: the next state of the cell and
// the claims it makes on neighboring processors.
//
type Step struct {
	Next   Cell
	Claims []Claim
}

// A Claim asks the board to fire the processor in direction Dir. A processor
// fires once per generation however many cells claim it.
//
type Claim struct {
	Dir Direction
}

// Env is the context of a single cell transition. Its random source is
// derived from the generation seed and the cell position so that results do
// not depend on the order in which cells are evaluated.
//
type Env struct {
	seed, stream uint64
	rng          *rand.Rand
	Log          zerolog.Logger
}

// NewEnv returns a transition environment for the given seed and stream.
//
func NewEnv(seed, stream uint64, log zerolog.Logger) *Env {
	return &Env{seed: seed, stream: stream, Log: log}
}

// Rand returns the random source of the transition.
//
func (e *Env) Rand() *rand.Rand {
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(e.seed, e.stream))
	}
	return e.rng
}

func stay(c Cell) Step { return Step{Next: c} }

func decay() Step { return Step{Next: &Empty{}} }

// connective returns true for cells that keep a wire alive.
//
func connective(c Cell) bool {
	switch c.Kind() {
	case KindWire, KindProcessor, KindAnchor, KindChip, KindImport:
		return true
	}
	return false
}

// Empty is the default, absorbing cell state.
//
type Empty struct{}

func (*Empty) cell()                                {}
func (*Empty) Kind() Kind                           { return KindEmpty }
func (*Empty) Pins() Connex                         { return 0 }
func (e *Empty) Transition(Neighborhood, *Env) Step { return stay(e) }
func (*Empty) CycleForward()                        {}
func (*Empty) CycleBackward()                       {}
func (*Empty) Describe() string                     { return "." }
func (*Empty) Copy() Cell                           { return &Empty{} }

// Anchor is a sink that keeps adjacent values alive.
//
type Anchor struct{}

func (*Anchor) cell()                                {}
func (*Anchor) Kind() Kind                           { return KindAnchor }
func (*Anchor) Pins() Connex                         { return AllPins }
func (a *Anchor) Transition(Neighborhood, *Env) Step { return stay(a) }
func (*Anchor) CycleForward()                        {}
func (*Anchor) CycleBackward()                       {}
func (*Anchor) Describe() string                     { return "#" }
func (*Anchor) Copy() Cell                           { return &Anchor{} }

// Mu is an inert holder cell.
//
type Mu struct{}

func (*Mu) cell()                                {}
func (*Mu) Kind() Kind                           { return KindMu }
func (*Mu) Pins() Connex                         { return 0 }
func (m *Mu) Transition(Neighborhood, *Env) Step { return stay(m) }
func (*Mu) CycleForward()                        {}
func (*Mu) CycleBackward()                       {}
func (*Mu) Describe() string                     { return "m" }
func (*Mu) Copy() Cell                           { return &Mu{} }

// A Wire carries values between cells. It connects on all four edges.
//
type Wire struct{}

func (*Wire) cell()            {}
func (*Wire) Kind() Kind       { return KindWire }
func (*Wire) Pins() Connex     { return AllPins }
func (*Wire) CycleForward()    {}
func (*Wire) CycleBackward()   {}
func (*Wire) Describe() string { return "+" }
func (*Wire) Copy() Cell       { return &Wire{} }

// Transition implements Cell. In priority order, a wire:
//
//	- becomes a copy of a neighboring value, chosen at random;
//	- claims the output of a fed neighboring processor that provides towards
//	  it, chosen at random, and becomes that output;
//	- stays a wire if at least two of its neighbors are grid edges or
//	  connective cells;
//	- decays to Empty.
//
func (w *Wire) Transition(n Neighborhood, env *Env) Step {
	var values []Value
	for _, c := range n.All() {
		if v, ok := c.(Value); ok {
			values = append(values, v)
		}
	}
	if len(values) > 0 {
		return stay(values[pick(env, len(values))].Copy())
	}

	fallback := w.settle(n)

	type candidate struct {
		dir Direction
		out Cell
	}
	var cs []candidate
	for d, c := range n.All() {
		p, ok := c.(*Processor)
		if !ok {
			continue
		}
		from := d.Opposite()
		if p.Fired || !p.IsFed() || !p.WillProvide(from) {
			continue
		}
		cs = append(cs, candidate{d, p.Output(SideOf(from, p.Facing))})
	}
	if len(cs) > 0 {
		c := cs[pick(env, len(cs))]
		return Step{
			Next:   c.out,
			Claims: []Claim{{Dir: c.dir}},
		}
	}
	return stay(fallback)
}

// settle returns the state of w when no value reaches it.
//
func (w *Wire) settle(n Neighborhood) Cell {
	links := 0
	for _, d := range Directions {
		if n.IsEdge(d) {
			links++
		} else if c := n.Get(d); c != nil && connective(c) {
			links++
		}
	}
	if links >= 2 {
		return w
	}
	return &Empty{}
}

func pick(env *Env, n int) int {
	if n == 1 {
		return 0
	}
	return env.Rand().IntN(n)
}

// Directional is the base of oriented cells.
//
type Directional struct {
	Facing Direction
}

// CycleForward rotates the cell clockwise.
//
func (d *Directional) CycleForward() { d.Facing = d.Facing.Rotate(R90) }

// CycleBackward rotates the cell counter-clockwise.
//
func (d *Directional) CycleBackward() { d.Facing = d.Facing.Rotate(R270) }

// Equal reports whether a and b are structurally equal.
//
func Equal(a, b Cell) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case *Empty, *Wire, *Anchor, *Mu:
		return true
	case *Integer:
		b := b.(*Integer)
		return a.Index == b.Index && a.Value == b.Value
	case *Boolean:
		b := b.(*Boolean)
		return a.Index == b.Index && a.Value == b.Value
	case *List:
		b := b.(*List)
		if a.Index != b.Index || len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if !Equal(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	case *Processor:
		b := b.(*Processor)
		if a.Gate.Name != b.Gate.Name || a.Facing != b.Facing || a.Fired != b.Fired || len(a.Args) != len(b.Args) {
			return false
		}
		for s, v := range a.Args {
			if !Equal(v, b.Args[s]) {
				return false
			}
		}
		return true
	case *Chip:
		b := b.(*Chip)
		return a.Facing == b.Facing && a.Source == b.Source && a.Board.Equal(b.Board)
	}
	panic("unknown cell type")
}
