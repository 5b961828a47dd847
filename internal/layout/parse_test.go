// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package layout_test

import (
	"testing"

	"github.com/db47h/ton/internal/layout"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer(t *testing.T) {
	l := layout.NewLexer("+ add>\n [1,x]")
	want := []layout.Item{
		{layout.Word, layout.Pos{1, 1}, "+"},
		{layout.Word, layout.Pos{1, 3}, "add>"},
		{layout.Newline, layout.Pos{1, 7}, "\n"},
		{layout.BracketOpen, layout.Pos{2, 2}, "["},
		{layout.Word, layout.Pos{2, 3}, "1"},
		{layout.Comma, layout.Pos{2, 4}, ","},
		{layout.Word, layout.Pos{2, 5}, "x"},
		{layout.BracketClose, layout.Pos{2, 6}, "]"},
		{layout.EOF, layout.Pos{2, 7}, ""},
	}
	for _, w := range want {
		assert.Equal(t, w, l.Lex())
	}
	// EOF is sticky
	assert.Equal(t, layout.EOF, l.Lex().Type)
}

func TestParse(t *testing.T) {
	g, err := layout.Parse("\n. + 3\n\n[1,[true]] [] add<\n")
	require.NoError(t, err)
	assert.Equal(t, 3, g.Width)
	assert.Equal(t, 2, g.Height())

	assert.Equal(t, "+", g.Rows[0][1].(*layout.Atom).Text)
	l := g.Rows[1][0].(*layout.List)
	assert.Equal(t, layout.Pos{4, 1}, l.Position())
	require.Len(t, l.Elems, 2)
	assert.Equal(t, "1", l.Elems[0].(*layout.Atom).Text)
	assert.Equal(t, "true", l.Elems[1].(*layout.List).Elems[0].(*layout.Atom).Text)
	assert.Empty(t, g.Rows[1][1].(*layout.List).Elems)
	assert.Equal(t, "add<", g.Rows[1][2].(*layout.Atom).Text)
}

func TestParseErrors(t *testing.T) {
	data := []struct {
		in  string
		pos layout.Pos
	}{
		{"", layout.Pos{1, 1}},
		{"+ +\n+", layout.Pos{2, 1}},
		{"+ ]", layout.Pos{1, 3}},
		{"[1 2]", layout.Pos{1, 4}},
		{"[1,", layout.Pos{1, 4}},
		{". ,", layout.Pos{1, 3}},
	}
	for _, d := range data {
		t.Run(d.in, func(t *testing.T) {
			_, err := layout.Parse(d.in)
			require.Error(t, err)
			var le *layout.Error
			require.True(t, errors.As(err, &le), "%v", err)
			assert.Equal(t, d.pos, le.Pos)
		})
	}
}
