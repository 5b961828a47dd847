// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ton

type out = map[Side]Cell

func integer(v Value) int64 { return v.(*Integer).Value }
func boolean(v Value) bool  { return v.(*Boolean).Value }
func list(v Value) *List    { return v.(*List) }

// front returns a single output on the front side.
func front(c Cell) map[Side]Cell { return out{Front: c} }

func arith(name string, fn func(a, b int64) int64) *Gate {
	return &Gate{
		Name:    name,
		Inputs:  map[Side]Kind{Left: KindInteger, Right: KindInteger},
		Outputs: []Side{Front},
		Process: func(args map[Side]Value) map[Side]Cell {
			return front(NewInteger(fn(integer(args[Left]), integer(args[Right]))))
		},
	}
}

// Builtin gates.
//
// Unless noted otherwise, single-input gates read their BACK side and all
// gates write to their FRONT side.
var (
	// Diode forwards any value.
	Diode = &Gate{
		Name:    "diode",
		Inputs:  map[Side]Kind{Back: KindAny},
		Outputs: []Side{Front},
		Process: func(args map[Side]Value) map[Side]Cell {
			return front(args[Back].Copy())
		},
	}

	// Not negates a boolean.
	Not = &Gate{
		Name:    "not",
		Inputs:  map[Side]Kind{Back: KindBoolean},
		Outputs: []Side{Front},
		Process: func(args map[Side]Value) map[Side]Cell {
			return front(NewBoolean(!boolean(args[Back])))
		},
	}

	// Transistor forwards its BACK value if its LEFT boolean is true. It
	// produces Empty otherwise.
	Transistor = &Gate{
		Name:    "transistor",
		Inputs:  map[Side]Kind{Back: KindAny, Left: KindBoolean},
		Outputs: []Side{Front},
		Process: func(args map[Side]Value) map[Side]Cell {
			if boolean(args[Left]) {
				return front(args[Back].Copy())
			}
			return front(&Empty{})
		},
	}

	// Adder sums its LEFT and RIGHT integers.
	Adder = arith("add", func(a, b int64) int64 { return a + b })
	// Subtractor subtracts its RIGHT integer from its LEFT integer.
	Subtractor = arith("sub", func(a, b int64) int64 { return a - b })
	// Multiplier multiplies its LEFT and RIGHT integers.
	Multiplier = arith("mul", func(a, b int64) int64 { return a * b })

	// Equals compares its LEFT and RIGHT values.
	Equals = &Gate{
		Name:    "eq",
		Inputs:  map[Side]Kind{Left: KindAny, Right: KindAny},
		Outputs: []Side{Front},
		Process: func(args map[Side]Value) map[Side]Cell {
			return front(NewBoolean(sameValue(args[Left], args[Right])))
		},
	}

	// LessThan returns LEFT < RIGHT.
	LessThan = &Gate{
		Name:    "lt",
		Inputs:  map[Side]Kind{Left: KindInteger, Right: KindInteger},
		Outputs: []Side{Front},
		Process: func(args map[Side]Value) map[Side]Cell {
			return front(NewBoolean(integer(args[Left]) < integer(args[Right])))
		},
	}

	// Append appends its LEFT value to its BACK list.
	Append = &Gate{
		Name:    "append",
		Inputs:  map[Side]Kind{Back: KindList, Left: KindAny},
		Outputs: []Side{Front},
		Process: func(args map[Side]Value) map[Side]Cell {
			l := list(args[Back])
			return front(NewList(append(l.Values[:len(l.Values):len(l.Values)], args[Left])...))
		},
	}

	// Pop splits its BACK list into its head, on the LEFT side, and the
	// remaining values, on the FRONT side. Popping an empty list produces
	// an empty list and no head.
	Pop = &Gate{
		Name:    "pop",
		Inputs:  map[Side]Kind{Back: KindList},
		Outputs: []Side{Front, Left},
		Process: func(args map[Side]Value) map[Side]Cell {
			l := list(args[Back])
			if len(l.Values) == 0 {
				return out{Front: NewList(), Left: &Empty{}}
			}
			head := l.Values[0].Copy().(Value)
			head.setSlot(0)
			return out{Front: NewList(l.Values[1:]...), Left: head}
		},
	}

	// Length returns the length of its BACK list.
	Length = &Gate{
		Name:    "len",
		Inputs:  map[Side]Kind{Back: KindList},
		Outputs: []Side{Front},
		Process: func(args map[Side]Value) map[Side]Cell {
			return front(NewInteger(int64(len(list(args[Back]).Values))))
		},
	}
)

func init() {
	for _, g := range []*Gate{Diode, Not, Transistor, Adder, Subtractor, Multiplier, Equals, LessThan, Append, Pop, Length} {
		if err := RegisterGate(g); err != nil {
			panic(err)
		}
	}
}
