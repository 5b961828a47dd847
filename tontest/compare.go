// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package tontest provides utility functions for testing boards.
//
package tontest

import (
	"math/rand/v2"
	"testing"

	"github.com/db47h/ton"
)

// Order returns a random permutation of the positions of b.
//
func Order(b *ton.Board, rng *rand.Rand) []ton.Point {
	w := b.Width()
	ps := make([]ton.Point, w*b.Height())
	for i, j := range rng.Perm(len(ps)) {
		ps[i] = ton.Point{X: j % w, Y: j / w}
	}
	return ps
}

// CompareOrders checks that the generations of b do not depend on the order in
// which cells are evaluated. For each of ticks generations, copies of b
// sharing the same seed are ticked in row-major and perms random orders, then
// compared. b itself is not modified.
//
func CompareOrders(t testing.TB, b *ton.Board, seed uint64, ticks, perms int) {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, 0))
	ref := b.Copy(ton.WithSeed(seed))
	cs := make([]*ton.Board, perms)
	for i := range cs {
		cs[i] = b.Copy(ton.WithSeed(seed))
	}
	for g := 0; g < ticks; g++ {
		ref.Tick()
		for i, c := range cs {
			if err := c.TickOrdered(Order(c, rng)); err != nil {
				t.Fatalf("%+v", err)
			}
			if !c.Equal(ref) {
				t.Fatalf("generation %d, order %d: boards differ\nrow-major:\n%swith random order:\n%s", g+1, i, ref, c)
			}
		}
	}
}

// AssertLayout checks that b matches the given layout. It reports whether
// the test passed.
//
func AssertLayout(t testing.TB, b *ton.Board, layout string, chips map[string]*ton.Board) bool {
	t.Helper()
	want, err := ton.ParseLayout(layout, chips)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if !b.Equal(want) {
		t.Errorf("generation %d: got\n%swant\n%s", b.Generation(), b, want)
		return false
	}
	return true
}

// Settle ticks b until a generation is identical to the previous one, or
// limit generations have been computed. It returns the number of generations
// computed and whether b settled.
//
func Settle(b *ton.Board, limit int) (int, bool) {
	prev := b.Copy()
	return b.Run(limit, func(b *ton.Board) bool {
		if b.Generation() == prev.Generation() {
			return false
		}
		if b.Equal(prev) {
			return true
		}
		prev = b.Copy()
		return false
	})
}
