// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tonlib

import (
	"strconv"

	"github.com/db47h/ton"
)

// Relay returns the board of a chip that outputs any value reaching its front
// side in the same generation.
//
//	. + #
//	. + .
//
func Relay() *ton.Board {
	return ton.MustParseLayout(`
		. + #
		. + .`, nil)
}

// Offset returns the board of a chip adding n to an integer reaching its
// left side. The result is output three generations later.
//
//	. . .    . .
//	+ + addv n .
//	. . +    . .
//
func Offset(n int64) *ton.Board {
	return ton.MustParseLayout(`
		. . .    . .
		+ + addv `+strconv.FormatInt(n, 10)+` .
		. . +    . .`, nil)
}

// Incrementer returns Offset(1).
//
func Incrementer() *ton.Board { return Offset(1) }

// Chips returns the library chips by name, for use with ton.ParseLayout.
//
//	relay: Relay()
//	inc:   Incrementer()
//	dec:   Offset(-1)
//
func Chips() map[string]*ton.Board {
	return map[string]*ton.Board{
		"relay": Relay(),
		"inc":   Incrementer(),
		"dec":   Offset(-1),
	}
}
