// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ton

import (
	"strconv"
	"strings"
)

// A Value is a transient, data carrying cell: Integer, Boolean or List.
// A value survives a generation only while a neighboring processor waits for
// it or a neighboring Anchor holds it.
//
type Value interface {
	Cell
	// Slot returns the value's index within its enclosing list.
	Slot() int
	setSlot(i int)
}

// ValueBase holds the bookkeeping shared by all values.
//
type ValueBase struct {
	// Index is the position of the value in the List holding it, 0 for free
	// standing values.
	Index int
}

// Slot implements Value.
//
func (v *ValueBase) Slot() int { return v.Index }

func (v *ValueBase) setSlot(i int) { v.Index = i }

// Pins implements Cell. Values do not connect.
//
func (*ValueBase) Pins() Connex { return 0 }

func (*ValueBase) cell() {}

// valueStep keeps v alive if a neighboring processor still waits for it or if
// it is anchored.
//
func valueStep(v Value, n Neighborhood) Step {
	for d, c := range n.All() {
		switch c := c.(type) {
		case *Anchor:
			return stay(v)
		case *Processor:
			if c.IsWaitingFor(d.Opposite()) {
				return stay(v)
			}
		}
	}
	return decay()
}

// Integer is an integer value.
//
type Integer struct {
	ValueBase
	Value int64
}

// NewInteger returns a new Integer.
//
func NewInteger(v int64) *Integer { return &Integer{Value: v} }

func (*Integer) Kind() Kind                               { return KindInteger }
func (i *Integer) Transition(n Neighborhood, _ *Env) Step { return valueStep(i, n) }
func (i *Integer) CycleForward()                          { i.Value++ }
func (i *Integer) CycleBackward()                         { i.Value-- }
func (i *Integer) Describe() string                       { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) Copy() Cell {
	c := *i
	return &c
}

// Boolean is a boolean value.
//
type Boolean struct {
	ValueBase
	Value bool
}

// NewBoolean returns a new Boolean.
//
func NewBoolean(v bool) *Boolean { return &Boolean{Value: v} }

func (*Boolean) Kind() Kind                               { return KindBoolean }
func (b *Boolean) Transition(n Neighborhood, _ *Env) Step { return valueStep(b, n) }
func (b *Boolean) CycleForward()                          { b.Value = !b.Value }
func (b *Boolean) CycleBackward()                         { b.Value = !b.Value }
func (b *Boolean) Describe() string                       { return strconv.FormatBool(b.Value) }
func (b *Boolean) Copy() Cell {
	c := *b
	return &c
}

// List is an ordered sequence of values. Lists are handled by value: gates
// operating on lists produce new lists.
//
type List struct {
	ValueBase
	Values []Value
}

// NewList returns a list holding copies of the given values.
//
func NewList(vs ...Value) *List {
	l := &List{Values: make([]Value, len(vs))}
	for i, v := range vs {
		l.Values[i] = v.Copy().(Value)
	}
	l.reindex()
	return l
}

func (l *List) reindex() {
	for i, v := range l.Values {
		v.setSlot(i)
	}
}

func (*List) Kind() Kind                               { return KindList }
func (l *List) Transition(n Neighborhood, _ *Env) Step { return valueStep(l, n) }

// CycleForward rotates the list contents to the left.
//
func (l *List) CycleForward() {
	if len(l.Values) > 1 {
		l.Values = append(l.Values[1:], l.Values[0])
		l.reindex()
	}
}

// CycleBackward rotates the list contents to the right.
//
func (l *List) CycleBackward() {
	if n := len(l.Values); n > 1 {
		l.Values = append([]Value{l.Values[n-1]}, l.Values[:n-1]...)
		l.reindex()
	}
}

func (l *List) Describe() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range l.Values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(v.Describe())
	}
	b.WriteByte(']')
	return b.String()
}

func (l *List) Copy() Cell {
	c := &List{ValueBase: l.ValueBase}
	if l.Values != nil {
		c.Values = make([]Value, len(l.Values))
		for i, v := range l.Values {
			c.Values[i] = v.Copy().(Value)
		}
	}
	return c
}

// sameValue reports whether a and b hold the same payload, regardless of
// their list index.
//
func sameValue(a, b Value) bool {
	switch a := a.(type) {
	case *Integer:
		b, ok := b.(*Integer)
		return ok && a.Value == b.Value
	case *Boolean:
		b, ok := b.(*Boolean)
		return ok && a.Value == b.Value
	case *List:
		b, ok := b.(*List)
		if !ok || len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if !sameValue(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	}
	return false
}
