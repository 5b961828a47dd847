// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ton

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Dump returns a structured debug view of b. It is the same as b.Record()
// with the Connex of every cell filled in, nested boards included.
//
func Dump(b *Board) *BoardRecord {
	r := b.Record()
	fillConnex(b, r)
	return r
}

func fillConnex(b *Board, r *BoardRecord) {
	for i, c := range b.cells {
		p := b.point(i)
		r.Cells[i].Connex = b.Connex(p.X, p.Y).String()
		if ch, ok := c.(*Chip); ok {
			fillConnex(ch.Board, r.Cells[i].Board)
		}
	}
}

// DumpYAML writes the debug view of b to w in YAML format.
//
func DumpYAML(w io.Writer, b *Board) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Dump(b)); err != nil {
		return errors.Wrap(err, "dump")
	}
	return errors.Wrap(enc.Close(), "dump")
}
