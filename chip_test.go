// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ton_test

import (
	"path/filepath"
	"testing"

	"github.com/db47h/ton"
	"github.com/db47h/ton/tontest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChipImport(t *testing.T) {
	inner := ton.MustParseLayout(`
		. + #
		. + .
		. + .`, nil)
	b := ton.MustParseLayout(`
		. 7   .
		. @c^ .
		. .   .`, map[string]*ton.Board{"c": inner})

	b.Tick()
	c, ok := b.Get(1, 1).(*ton.Chip)
	require.True(t, ok, "got %s", b.Get(1, 1).Describe())
	assert.Equal(t, "7", c.Board.Get(1, 0).Describe())
	assert.Equal(t, "7", c.Board.Get(1, 1).Describe())
	assert.Equal(t, ton.KindWire, c.Board.Get(1, 2).Kind())
	assert.Equal(t, uint64(1), c.Board.Generation())
	assert.Equal(t, ton.KindEmpty, b.Get(1, 0).Kind())
	// the layout board is left untouched
	assert.Equal(t, ton.KindWire, inner.Get(1, 0).Kind())
}

func TestChipExport(t *testing.T) {
	inner := ton.MustParseLayout(`
		. + #
		. + .`, nil)
	chips := map[string]*ton.Board{"c": inner}
	data := []struct {
		name   string
		layout string
	}{
		{"north", `
			. 7   .
			. @c^ .
			. .   .`},
		{"east", `
			. .   .
			. @c> 7
			. .   .`},
		{"west", `
			. .   .
			7 @c< .
			. .   .`},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			b := ton.MustParseLayout(d.layout, chips)
			b.Tick()
			tontest.AssertLayout(t, b, ". . .\n. 7 .\n. . .", nil)
		})
	}
}

func TestChipBackToFront(t *testing.T) {
	// values reaching the back side of a chip facing north land on the
	// south edge of its board.
	inner := ton.MustParseLayout(`
		. + #
		. + .`, nil)
	b := ton.MustParseLayout(`
		. @c^ .
		. 7   .`, map[string]*ton.Board{"c": inner})
	b.Tick()
	tontest.AssertLayout(t, b, ". 7 .\n. . .", nil)
}

func TestChipCopy(t *testing.T) {
	c := ton.NewChip(ton.E, nil)
	assert.Equal(t, ton.DefaultChipSize, c.Board.Width())
	assert.Equal(t, ton.KindChip, c.Kind())
	assert.Equal(t, "@chip>", c.Describe())
	require.NoError(t, c.Board.Place(0, 0, &ton.Wire{}))
	cc := c.Copy().(*ton.Chip)
	assert.True(t, ton.Equal(c, cc))
	require.NoError(t, cc.Board.Place(0, 0, &ton.Anchor{}))
	assert.Equal(t, ton.KindWire, c.Board.Get(0, 0).Kind())
	assert.False(t, ton.Equal(c, cc))
}

func TestNewImport(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "relay.ton")
	inner := ton.MustParseLayout(". + #\n. + .", nil)
	require.NoError(t, inner.SaveFile(name))

	c, err := ton.NewImport(name, ton.N)
	require.NoError(t, err)
	assert.Equal(t, ton.KindImport, c.Kind())
	assert.Equal(t, "@relay^", c.Describe())
	assert.True(t, inner.Equal(c.Board))

	b, _ := ton.NewBoard(3, 3)
	require.NoError(t, b.Place(1, 1, c))
	require.NoError(t, b.Place(1, 0, ton.NewInteger(7)))
	b.Tick()
	assert.Equal(t, "7", b.Get(1, 1).Describe())

	_, err = ton.NewImport(filepath.Join(dir, "missing.ton"), ton.N)
	assert.Error(t, err)
}

func TestChipSynchronicity(t *testing.T) {
	inner := ton.MustParseLayout(`
		+ + #
		1 + 2
		+ + +`, nil)
	b := ton.MustParseLayout(`
		+ 7   +
		+ @c> +
		# +   +`, map[string]*ton.Board{"c": inner})
	tontest.CompareOrders(t, b, 3, 5, 3)
}

type countingSource struct{ n int }

func (s *countingSource) Uint64() uint64 { s.n++; return uint64(s.n) }

func TestChipKeepsSource(t *testing.T) {
	src := &countingSource{}
	inner, err := ton.NewBoard(3, 3, ton.WithSource(src))
	require.NoError(t, err)
	b, _ := ton.NewBoard(3, 3, ton.WithSeed(1))
	require.NoError(t, b.Place(1, 1, ton.NewChip(ton.N, inner)))

	b.Tick()
	b.Tick()
	c := b.Get(1, 1).(*ton.Chip)
	assert.Equal(t, uint64(2), c.Board.Generation())
	// inner ticks draw from the outer board
	assert.Equal(t, 0, src.n)
	c.Board.Tick()
	assert.Equal(t, 1, src.n)
}
