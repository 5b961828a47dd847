// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ton_test

import (
	"testing"

	"github.com/db47h/ton"
	"github.com/db47h/ton/internal/layout"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayout(t *testing.T) {
	inner := ton.MustParseLayout("+", nil)
	b, err := ton.ParseLayout(`
		. + # m
		-12 true [] [1,[false]]
		diode^ not> transistorv @x<`, map[string]*ton.Board{"x": inner})
	require.NoError(t, err)
	assert.Equal(t, 4, b.Width())
	assert.Equal(t, 3, b.Height())

	kinds := []ton.Kind{
		ton.KindEmpty, ton.KindWire, ton.KindAnchor, ton.KindMu,
		ton.KindInteger, ton.KindBoolean, ton.KindList, ton.KindList,
		ton.KindProcessor, ton.KindProcessor, ton.KindProcessor, ton.KindChip,
	}
	i := 0
	for p, c := range b.All() {
		assert.Equal(t, kinds[i], c.Kind(), "at %v", p)
		i++
	}
	assert.Equal(t, int64(-12), b.Get(0, 1).(*ton.Integer).Value)
	l := b.Get(3, 1).(*ton.List)
	assert.Equal(t, 1, l.Values[1].Slot())
	assert.Equal(t, ton.S, b.Get(2, 2).(*ton.Processor).Facing)
	assert.Same(t, ton.Transistor, b.Get(2, 2).(*ton.Processor).Gate)
	c := b.Get(3, 2).(*ton.Chip)
	assert.Equal(t, ton.W, c.Facing)
	assert.NotSame(t, inner, c.Board)
	assert.True(t, inner.Equal(c.Board))
}

func TestParseLayoutErrors(t *testing.T) {
	data := []struct {
		in  string
		pos layout.Pos
	}{
		{"+ + +\n+ +", layout.Pos{Line: 2, Col: 1}},
		{"+ frob>", layout.Pos{Line: 1, Col: 3}},
		{"+ add", layout.Pos{Line: 1, Col: 3}},
		{"+\n@nope^", layout.Pos{Line: 2, Col: 1}},
		{". [1,+]", layout.Pos{Line: 1, Col: 6}},
		{"^", layout.Pos{Line: 1, Col: 1}},
	}
	for _, d := range data {
		t.Run(d.in, func(t *testing.T) {
			_, err := ton.ParseLayout(d.in, nil)
			require.Error(t, err)
			var le *layout.Error
			require.True(t, errors.As(err, &le), "%v", err)
			assert.Equal(t, d.pos, le.Pos)
		})
	}
	assert.Panics(t, func() { ton.MustParseLayout("@x^", nil) })
}
