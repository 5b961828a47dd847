// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ton_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"

	"github.com/db47h/ton"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBoard(t *testing.T) *ton.Board {
	t.Helper()
	inner := ton.MustParseLayout(`
		. + #
		. + .`, nil)
	b := ton.MustParseLayout(`
		#  [1,true,[2,false]] +     .
		.  7                  @c^   .
		+  +                  add<  3`, map[string]*ton.Board{"c": inner})
	// partially fed adder
	p := b.Get(2, 2).(*ton.Processor)
	p.Args[ton.Right] = ton.NewInteger(3)
	fired := ton.Not.New(ton.S)
	fired.Args[ton.Back] = ton.NewBoolean(true)
	fired.Fired = true
	require.NoError(t, b.Place(3, 0, fired))
	return b
}

func TestSaveLoad(t *testing.T) {
	b := sampleBoard(t)
	b.Tick()

	var buf bytes.Buffer
	require.NoError(t, b.Save(&buf))
	l, err := ton.Load(&buf)
	require.NoError(t, err)
	require.True(t, b.Equal(l), "saved:\n%sloaded:\n%s", b, l)
	assert.Equal(t, b.Generation(), l.Generation())

	// both boards evolve identically
	b1, b2 := b.Copy(ton.WithSeed(9)), l.Copy(ton.WithSeed(9))
	for i := 0; i < 6; i++ {
		b1.Tick()
		b2.Tick()
		require.True(t, b1.Equal(b2), "generation %d", b1.Generation())
	}
}

func TestSaveLoadFile(t *testing.T) {
	b := sampleBoard(t)
	name := filepath.Join(t.TempDir(), "board.ton")
	require.NoError(t, b.SaveFile(name))
	l, err := ton.LoadFile(name)
	require.NoError(t, err)
	assert.True(t, b.Equal(l))

	_, err = ton.LoadFile(filepath.Join(t.TempDir(), "nope.ton"))
	assert.Error(t, err)
	var de *ton.DeserializationError
	assert.False(t, errors.As(err, &de))
}

func TestLoadImport(t *testing.T) {
	dir := t.TempDir()
	inner := ton.MustParseLayout(". + #\n. + .", nil)
	require.NoError(t, inner.SaveFile(filepath.Join(dir, "relay.ton")))

	// an import without its board is reloaded from its source, relative
	// to the file being loaded.
	name := filepath.Join(dir, "main.ton")
	raw := encodeRaw(t, `{"format":"ton","version":1}`,
		`{"width":1,"height":1,"cells":[{"variant":"import","facing":"E","source":"relay.ton"}]}`)
	require.NoError(t, os.WriteFile(name, raw.Bytes(), 0o644))
	b, err := ton.LoadFile(name)
	require.NoError(t, err)
	c, ok := b.Get(0, 0).(*ton.Chip)
	require.True(t, ok)
	assert.Equal(t, "relay.ton", c.Source)
	assert.Equal(t, ton.E, c.Facing)
	assert.True(t, inner.Equal(c.Board))
}

func encodeRaw(t *testing.T, header, doc string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = zw.Write([]byte(header + "\n" + doc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return &buf
}

func TestLoadErrors(t *testing.T) {
	const hdr = `{"format":"ton","version":1}`
	data := []struct {
		name   string
		header string
		doc    string
	}{
		{"bad header", `{"format":"png","version":1}`, `{}`},
		{"bad version", `{"format":"ton","version":99}`, `{}`},
		{"no header", `{`, ``},
		{"bad json", hdr, `{"width":`},
		{"missing cells", hdr, `{"width":1,"height":1}`},
		{"unknown variant", hdr, `{"width":1,"height":1,"cells":[{"variant":"laser"}]}`},
		{"unknown field", hdr, `{"width":1,"height":1,"cells":[{"variant":"wire","color":"red"}]}`},
		{"bad facing", hdr, `{"width":1,"height":1,"cells":[{"variant":"processor","gate":"add","facing":"NE"}]}`},
		{"missing facing", hdr, `{"width":1,"height":1,"cells":[{"variant":"processor","gate":"add"}]}`},
		{"missing gate", hdr, `{"width":1,"height":1,"cells":[{"variant":"processor","facing":"N"}]}`},
		{"wire payload", hdr, `{"width":1,"height":1,"cells":[{"variant":"wire","board":{"width":1,"height":1,"cells":[{"variant":"empty"}]}}]}`},
		{"integer payload", hdr, `{"width":1,"height":1,"cells":[{"variant":"integer","int":1,"values":[]}]}`},
		{"mu facing", hdr, `{"width":1,"height":1,"cells":[{"variant":"mu","facing":"E"}]}`},
		{"chip facing", hdr, `{"width":1,"height":1,"cells":[{"variant":"chip","board":{"width":1,"height":1,"cells":[{"variant":"empty"}]}}]}`},
		{"chip source", hdr, `{"width":1,"height":1,"cells":[{"variant":"chip","facing":"N","source":"x.ton","board":{"width":1,"height":1,"cells":[{"variant":"empty"}]}}]}`},
		{"dimensions", hdr, `{"width":2,"height":1,"cells":[{"variant":"wire"}]}`},
		{"zero width", hdr, `{"width":0,"height":1,"cells":[]}`},
		{"unknown gate", hdr, `{"width":1,"height":1,"cells":[{"variant":"processor","gate":"laser","facing":"N"}]}`},
		{"arg kind", hdr, `{"width":1,"height":1,"cells":[{"variant":"processor","gate":"add","facing":"N","args":{"left":{"variant":"boolean","bool":true}}}]}`},
		{"arg side", hdr, `{"width":1,"height":1,"cells":[{"variant":"processor","gate":"add","facing":"N","args":{"back":{"variant":"integer","int":1}}}]}`},
		{"arg not a value", hdr, `{"width":1,"height":1,"cells":[{"variant":"processor","gate":"add","facing":"N","args":{"left":{"variant":"wire"}}}]}`},
		{"integer", hdr, `{"width":1,"height":1,"cells":[{"variant":"integer"}]}`},
		{"boolean", hdr, `{"width":1,"height":1,"cells":[{"variant":"boolean","int":1}]}`},
		{"list item", hdr, `{"width":1,"height":1,"cells":[{"variant":"list","values":[{"variant":"mu"}]}]}`},
		{"chip board", hdr, `{"width":1,"height":1,"cells":[{"variant":"chip","facing":"N"}]}`},
		{"nested", hdr, `{"width":1,"height":1,"cells":[{"variant":"chip","facing":"N","board":{"width":1,"height":1,"cells":[{"variant":"processor","gate":"laser","facing":"N"}]}}]}`},
		{"import source", hdr, `{"width":1,"height":1,"cells":[{"variant":"import","facing":"N","board":{"width":1,"height":1,"cells":[{"variant":"empty"}]}}]}`},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			_, err := ton.Load(encodeRaw(t, d.header, d.doc))
			require.Error(t, err)
			var de *ton.DeserializationError
			assert.True(t, errors.As(err, &de), "%v", err)
		})
	}

	_, err := ton.Load(bytes.NewReader([]byte("not a zstd stream")))
	var de *ton.DeserializationError
	assert.True(t, errors.As(err, &de), "%v", err)
}

func TestDeserializationErrorWhere(t *testing.T) {
	_, err := ton.Load(encodeRaw(t, `{"format":"ton","version":1}`,
		`{"width":2,"height":1,"cells":[{"variant":"empty"},{"variant":"chip","facing":"W","board":{"width":1,"height":1,"cells":[{"variant":"processor","gate":"laser","facing":"N"}]}}]}`))
	var de *ton.DeserializationError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "cells[1].board.cells[0]", de.Where)
	assert.Contains(t, de.Error(), "laser")
}

func TestFromRecordErrors(t *testing.T) {
	one := int64(1)
	empty := &ton.BoardRecord{Width: 1, Height: 1, Cells: []*ton.CellRecord{{Variant: "empty"}}}
	data := []struct {
		name string
		cell *ton.CellRecord
		msg  string
	}{
		{"processor facing", &ton.CellRecord{Variant: "processor", Gate: "add"}, "without a facing"},
		{"chip facing", &ton.CellRecord{Variant: "chip", Board: empty}, "without a facing"},
		{"import facing", &ton.CellRecord{Variant: "import", Source: "x.ton", Board: empty}, "without a facing"},
		{"wire board", &ton.CellRecord{Variant: "wire", Board: empty}, "unexpected field board"},
		{"integer values", &ton.CellRecord{Variant: "integer", Int: &one, Values: []*ton.CellRecord{}}, "unexpected field values"},
		{"mu facing", &ton.CellRecord{Variant: "mu", Facing: "N"}, "unexpected field facing"},
		{"list gate", &ton.CellRecord{Variant: "list", Gate: "add"}, "unexpected field gate"},
		{"empty index", &ton.CellRecord{Variant: "empty", Index: 2}, "unexpected field index"},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			_, err := ton.FromRecord(&ton.BoardRecord{Width: 1, Height: 1, Cells: []*ton.CellRecord{d.cell}}, "")
			var de *ton.DeserializationError
			require.True(t, errors.As(err, &de), "%v", err)
			assert.Equal(t, "cells[0]", de.Where)
			assert.Contains(t, de.Error(), d.msg)
		})
	}
}

func TestLoadReadError(t *testing.T) {
	errDisk := errors.New("disk failure")
	var buf bytes.Buffer
	require.NoError(t, sampleBoard(t).Save(&buf))
	for _, n := range []int{0, 4, buf.Len() / 2} {
		r := io.MultiReader(bytes.NewReader(buf.Bytes()[:n]), iotest.ErrReader(errDisk))
		_, err := ton.Load(r)
		require.Error(t, err, "prefix %d", n)
		assert.True(t, errors.Is(err, errDisk), "prefix %d: %v", n, err)
		var de *ton.DeserializationError
		assert.False(t, errors.As(err, &de), "prefix %d: %v", n, err)
	}
}
