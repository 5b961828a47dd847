// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ton

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/errors"
)

// A ProcessFn combines the captured arguments of a processor into its
// outputs. A nil or missing output is delivered as Empty.
//
// ProcessFn's must be pure: they must not modify args and must return fresh
// cells.
//
type ProcessFn func(args map[Side]Value) map[Side]Cell

// A Gate is the blueprint of a processor.
//
// Custom gates are implemented by creating a Gate:
//
//	double := &ton.Gate{
//		Name:    "double",
//		Inputs:  map[ton.Side]ton.Kind{ton.Back: ton.KindInteger},
//		Outputs: []ton.Side{ton.Front},
//		Process: func(args map[ton.Side]ton.Value) map[ton.Side]ton.Cell {
//			v := args[ton.Back].(*ton.Integer).Value
//			return map[ton.Side]ton.Cell{ton.Front: ton.NewInteger(2 * v)}
//		}}
//
// Then register it so that boards using it can be loaded back:
//
//	err := ton.RegisterGate(double)
//
type Gate struct {
	// Gate name. Names are used in layouts and saved boards and must be
	// lowercase identifiers.
	Name string
	// Inputs maps input sides to the kind of value they accept.
	Inputs map[Side]Kind
	// Outputs lists the output sides.
	Outputs []Side

	Process ProcessFn
}

// New returns a new processor for g facing the given direction.
//
func (g *Gate) New(facing Direction) *Processor {
	return &Processor{
		Directional: Directional{Facing: facing},
		Gate:        g,
		Args:        make(map[Side]Value, len(g.Inputs)),
	}
}

func (g *Gate) isOutput(s Side) bool { return slices.Contains(g.Outputs, s) }

var (
	gateMu sync.RWMutex
	gates  = make(map[string]*Gate)
)

// RegisterGate makes a gate available by name to layouts and board loading.
//
func RegisterGate(g *Gate) error {
	if g == nil || g.Name == "" || g.Process == nil {
		return errors.New(f("invalid gate"))
	}
	gateMu.Lock()
	defer gateMu.Unlock()
	if _, ok := gates[g.Name]; ok {
		return errors.New(f("gate %s already registered", g.Name))
	}
	gates[g.Name] = g
	return nil
}

// LookupGate returns the registered gate with the given name.
//
func LookupGate(name string) (*Gate, bool) {
	gateMu.RLock()
	defer gateMu.RUnlock()
	g, ok := gates[name]
	return g, ok
}

// GateNames returns the names of all registered gates in lexical order.
//
func GateNames() []string {
	gateMu.RLock()
	defer gateMu.RUnlock()
	return slices.Sorted(maps.Keys(gates))
}

// A Processor is a single-fire gate. It captures typed arguments from its
// input sides over one or more generations. Once fed, its output is claimed
// by a neighboring wire, which fires it. A fired processor decays to Empty
// on the next generation.
//
type Processor struct {
	Directional
	Gate *Gate
	// Args holds the captured arguments. Captured arguments are never
	// replaced.
	Args  map[Side]Value
	Fired bool
}

func (*Processor) cell() {}

// Kind implements Cell.
//
func (*Processor) Kind() Kind { return KindProcessor }

// Pins returns the directions of the processor's input and output sides.
//
func (p *Processor) Pins() Connex {
	var c Connex
	for s := range p.Gate.Inputs {
		c |= DirectionOf(s, p.Facing).Connex()
	}
	for _, s := range p.Gate.Outputs {
		c |= DirectionOf(s, p.Facing).Connex()
	}
	return c
}

// IsFed returns true if all inputs of p have been captured.
//
func (p *Processor) IsFed() bool {
	for s := range p.Gate.Inputs {
		if _, ok := p.Args[s]; !ok {
			return false
		}
	}
	return true
}

// IsWaitingFor returns true if p is not fed and the side facing direction d
// is an input that has not been captured yet.
//
func (p *Processor) IsWaitingFor(d Direction) bool {
	if p.Fired || p.IsFed() {
		return false
	}
	s := SideOf(d, p.Facing)
	if _, ok := p.Gate.Inputs[s]; !ok {
		return false
	}
	_, got := p.Args[s]
	return !got
}

// WillProvide returns true if the side facing direction d is an output.
//
func (p *Processor) WillProvide(d Direction) bool {
	return p.Gate.isOutput(SideOf(d, p.Facing))
}

// Outputs runs the gate's process function over the captured arguments.
//
func (p *Processor) Outputs() map[Side]Cell {
	if !p.IsFed() {
		return nil
	}
	return p.Gate.Process(p.Args)
}

// Output returns a copy of the cell produced on side s. It returns Empty if
// the gate produces nothing there.
//
func (p *Processor) Output(s Side) Cell {
	if c := p.Outputs()[s]; c != nil {
		return c.Copy()
	}
	return &Empty{}
}

// Transition implements Cell. A fired processor decays. Otherwise, values
// found on unfilled input sides and of the expected kind are captured.
//
func (p *Processor) Transition(n Neighborhood, _ *Env) Step {
	if p.Fired {
		return decay()
	}
	var next *Processor
	for d, c := range n.All() {
		v, ok := c.(Value)
		if !ok {
			continue
		}
		s := SideOf(d, p.Facing)
		k, ok := p.Gate.Inputs[s]
		if !ok || !k.Accepts(v) {
			continue
		}
		if _, got := p.Args[s]; got {
			continue
		}
		if next == nil {
			next = p.Copy().(*Processor)
		}
		next.Args[s] = v.Copy().(Value)
	}
	if next == nil {
		return stay(p)
	}
	return stay(next)
}

// Describe returns the gate name followed by the facing glyph.
//
func (p *Processor) Describe() string {
	return p.Gate.Name + string(p.Facing.Glyph())
}

// Copy implements Cell.
//
func (p *Processor) Copy() Cell {
	c := &Processor{
		Directional: p.Directional,
		Gate:        p.Gate,
		Args:        make(map[Side]Value, len(p.Gate.Inputs)),
		Fired:       p.Fired,
	}
	for s, v := range p.Args {
		c.Args[s] = v.Copy().(Value)
	}
	return c
}

// fire returns a fired copy of p. Firing a processor twice is a bug.
//
func (p *Processor) fire() *Processor {
	if p.Fired {
		panic("processor " + p.Describe() + " fired twice")
	}
	c := p.Copy().(*Processor)
	c.Fired = true
	return c
}
