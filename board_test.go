// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ton_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/db47h/ton"
	"github.com/db47h/ton/tontest"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	b, err := ton.NewBoard(3, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Width())
	assert.Equal(t, 2, b.Height())
	for _, c := range b.All() {
		assert.Equal(t, ton.KindEmpty, c.Kind())
	}
	assert.Nil(t, b.Get(3, 0))
	assert.Nil(t, b.Get(0, -1))

	_, err = ton.NewBoard(0, 2)
	assert.True(t, errors.Is(err, ton.ErrDimensions), "%v", err)
}

func TestPlaceRemove(t *testing.T) {
	b, _ := ton.NewBoard(2, 2)
	require.NoError(t, b.Place(1, 0, &ton.Wire{}))
	assert.Equal(t, ton.KindWire, b.Get(1, 0).Kind())
	require.NoError(t, b.Remove(1, 0))
	assert.Equal(t, ton.KindEmpty, b.Get(1, 0).Kind())
	assert.True(t, errors.Is(b.Place(2, 0, &ton.Wire{}), ton.ErrOutOfBounds))
}

func TestWireDecay(t *testing.T) {
	// single connective neighbor
	b := ton.MustParseLayout(`
		. + .
		. + .
		. . .`, nil)
	b.Tick()
	tontest.AssertLayout(t, b, `
		. + .
		. . .
		. . .`, nil)
	// the top wire still had the center wire and the edge
	b.Tick()
	tontest.AssertLayout(t, b, ". . .\n. . .\n. . .", nil)

	// two connective neighbors
	b = ton.MustParseLayout(`
		. + .
		# + .
		. . .`, nil)
	b.Tick()
	tontest.AssertLayout(t, b, `
		. + .
		# + .
		. . .`, nil)
}

func TestWireEdges(t *testing.T) {
	// a lone wire in a corner has two edges
	b := ton.MustParseLayout("+ .\n. .", nil)
	b.Tick()
	tontest.AssertLayout(t, b, "+ .\n. .", nil)
	// but not in the middle of a row
	b = ton.MustParseLayout(". + .\n. . .", nil)
	b.Tick()
	tontest.AssertLayout(t, b, ". . .\n. . .", nil)
}

func TestPropagation(t *testing.T) {
	b := ton.MustParseLayout("+ 5 +", nil)
	b.Tick()
	tontest.AssertLayout(t, b, "5 . 5", nil)
	b.Tick()
	tontest.AssertLayout(t, b, ". . .", nil)
}

func TestAnchor(t *testing.T) {
	b := ton.MustParseLayout("# [1,true] + + .", nil)
	b.Tick()
	tontest.AssertLayout(t, b, "# [1,true] [1,true] + .", nil)
	b.Tick()
	tontest.AssertLayout(t, b, "# [1,true] . [1,true] .", nil)
}

func TestMu(t *testing.T) {
	b := ton.MustParseLayout("m 3 m", nil)
	b.Tick()
	tontest.AssertLayout(t, b, "m . m", nil)
}

func TestDeterminism(t *testing.T) {
	const src = `
		1     +     2
		+     #     +
		false +     [3]`
	b1 := ton.MustParseLayout(src, nil, ton.WithSeed(42))
	b2 := ton.MustParseLayout(src, nil, ton.WithSeed(42))
	for i := 0; i < 8; i++ {
		b1.Tick()
		b2.Tick()
		require.True(t, b1.Equal(b2), "generation %d:\n%s\n%s", i+1, b1, b2)
	}
}

func TestRandomChoice(t *testing.T) {
	seen := make(map[int64]bool)
	for seed := uint64(0); seed < 64 && len(seen) < 2; seed++ {
		b := ton.MustParseLayout("1 + 2", nil, ton.WithSeed(seed))
		b.Tick()
		v, ok := b.Get(1, 0).(*ton.Integer)
		require.True(t, ok, "got %s", b.Get(1, 0).Describe())
		seen[v.Value] = true
	}
	assert.Equal(t, map[int64]bool{1: true, 2: true}, seen)
}

func TestSynchronicity(t *testing.T) {
	data := []string{
		"+ 5 +",
		`
		1     +     2
		+     #     +
		false +     [3]`,
		`
		.  2    .
		.  add> +
		.  3    +`,
		`
		.       +    .
		[1,2,3] pop> +
		.       .    .`,
		`
		true  .          .
		7     transistor> +
		.     .          +`,
	}
	for _, src := range data {
		tontest.CompareOrders(t, ton.MustParseLayout(src, nil), 7, 6, 4)
	}
}

func TestTickOrdered(t *testing.T) {
	b := ton.MustParseLayout("+ 5 +", nil)
	err := b.TickOrdered([]ton.Point{{X: 0, Y: 0}, {X: 1, Y: 0}})
	assert.True(t, errors.Is(err, ton.ErrOrder))
	err = b.TickOrdered([]ton.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 0}})
	assert.True(t, errors.Is(err, ton.ErrOrder))
	assert.Equal(t, uint64(0), b.Generation())
	require.NoError(t, b.TickOrdered([]ton.Point{{X: 2, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}}))
	tontest.AssertLayout(t, b, "5 . 5", nil)
	assert.Equal(t, uint64(1), b.Generation())
}

func TestRun(t *testing.T) {
	b := ton.MustParseLayout("+ + + 5", nil)
	n, ok := b.Run(10, func(b *ton.Board) bool { return b.Get(0, 0).Kind() == ton.KindInteger })
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	assert.Equal(t, uint64(3), b.Generation())

	n, ok = b.Run(2, nil)
	assert.False(t, ok)
	assert.Equal(t, 2, n)

	n, ok = tontest.Settle(ton.MustParseLayout("# . +", nil), 10)
	assert.True(t, ok)
	assert.Equal(t, 1, n)
}

func TestCopy(t *testing.T) {
	b := ton.MustParseLayout("# [1,2] +", nil)
	c := b.Copy()
	assert.True(t, b.Equal(c))
	c.Get(1, 0).CycleForward()
	assert.False(t, b.Equal(c))
	assert.Equal(t, "[1,2]", b.Get(1, 0).Describe())
	assert.Equal(t, "[2,1]", c.Get(1, 0).Describe())
}

func TestString(t *testing.T) {
	const src = "# [1,2] add>\n+ -4    not^\n"
	b := ton.MustParseLayout(src, nil)
	assert.Equal(t, src, b.String())
	assert.True(t, b.Equal(ton.MustParseLayout(b.String(), nil)))
}

func TestConnexAt(t *testing.T) {
	b := ton.MustParseLayout(`
		.  +    .
		+  not> +
		.  3    .`, nil)
	// not> has pins W (back) and E (front)
	assert.Equal(t, ton.E.Connex()|ton.W.Connex(), b.Connex(1, 1))
	assert.Equal(t, ton.E.Connex(), b.Connex(0, 1))
	assert.Equal(t, ton.Connex(0), b.Connex(1, 0))
	assert.Equal(t, ton.Connex(0), b.Connex(1, 2))
}

func TestTickLog(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	b := ton.MustParseLayout("+ 5 +", nil, ton.WithLogger(log))
	b.Tick()
	assert.True(t, strings.Contains(buf.String(), `"generation":1`), buf.String())
	assert.True(t, strings.Contains(buf.String(), `"message":"tick"`), buf.String())
}

func TestClaimsFireOnce(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	// both wires claim the same pop
	b := ton.MustParseLayout(`
		.       +    .
		[1,2,3] pop> +
		.       .    .`, nil, ton.WithLogger(log))
	b.Tick()
	buf.Reset()
	b.Tick()
	assert.Equal(t, "1", b.Get(1, 0).Describe())
	assert.Equal(t, "[2,3]", b.Get(2, 1).Describe())
	assert.True(t, strings.Contains(buf.String(), `"fired":1`), buf.String())
}
