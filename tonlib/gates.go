// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package tonlib provides a library of reusable gates and chips for ton.
//
// Importing the package registers its gates.
//
package tonlib

import (
	"github.com/db47h/ton"
)

type and struct {
	A   bool `ton:"in,left"`
	B   bool `ton:"in,right"`
	Out bool `ton:"out,front"`
}

func (g *and) Eval() { g.Out = g.A && g.B }

type or struct {
	A   bool `ton:"in,left"`
	B   bool `ton:"in,right"`
	Out bool `ton:"out,front"`
}

func (g *or) Eval() { g.Out = g.A || g.B }

type xor struct {
	A   bool `ton:"in,left"`
	B   bool `ton:"in,right"`
	Out bool `ton:"out,front"`
}

func (g *xor) Eval() { g.Out = g.A != g.B }

type div struct {
	A   int64     `ton:"in,left"`
	B   int64     `ton:"in,right"`
	Out ton.Value `ton:"out,front"`
}

func (g *div) Eval() {
	if g.B != 0 {
		g.Out = ton.NewInteger(g.A / g.B)
	}
}

type mod struct {
	A   int64     `ton:"in,left"`
	B   int64     `ton:"in,right"`
	Out ton.Value `ton:"out,front"`
}

func (g *mod) Eval() {
	if g.B != 0 {
		g.Out = ton.NewInteger(g.A % g.B)
	}
}

type neg struct {
	In  int64 `ton:"in,back"`
	Out int64 `ton:"out,front"`
}

func (g *neg) Eval() { g.Out = -g.In }

// Gates.
//
//	And, Or, Xor: boolean operators, inputs left and right, output front.
//	Div, Mod: integer division and remainder of left by right. Dividing by
//	          zero produces Empty.
//	Neg:      negates the integer on its back side.
//
var (
	And = ton.MakeGate("and", (*and)(nil))
	Or  = ton.MakeGate("or", (*or)(nil))
	Xor = ton.MakeGate("xor", (*xor)(nil))
	Div = ton.MakeGate("div", (*div)(nil))
	Mod = ton.MakeGate("mod", (*mod)(nil))
	Neg = ton.MakeGate("neg", (*neg)(nil))
)

func init() {
	for _, g := range []*ton.Gate{And, Or, Xor, Div, Mod, Neg} {
		if err := ton.RegisterGate(g); err != nil {
			panic(err)
		}
	}
}
