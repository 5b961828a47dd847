// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ton

import "iter"

// A Neighborhood is a read-only view of the cells adjacent to a grid position.
// A direction may hold no cell, either because it points off the grid (an
// edge) or because it has been filtered out.
//
type Neighborhood struct {
	cells [4]Cell
	edges Connex
}

// NewNeighborhood returns a neighborhood holding the given cells. Directions
// missing from cells are treated as grid edges.
//
func NewNeighborhood(cells map[Direction]Cell) Neighborhood {
	var n Neighborhood
	for _, d := range Directions {
		if c := cells[d]; c != nil {
			n.cells[d] = c
		} else {
			n.edges |= d.Connex()
		}
	}
	return n
}

// Get returns the cell in direction d or nil.
//
func (n Neighborhood) Get(d Direction) Cell { return n.cells[d&3] }

// IsEdge returns true if direction d points off the grid.
//
func (n Neighborhood) IsEdge(d Direction) bool { return n.edges.Has(d) }

// Edges returns the directions pointing off the grid.
//
func (n Neighborhood) Edges() Connex { return n.edges }

// All iterates over the present neighbors in clockwise order from N.
//
func (n Neighborhood) All() iter.Seq2[Direction, Cell] {
	return func(yield func(Direction, Cell) bool) {
		for _, d := range Directions {
			if c := n.cells[d]; c != nil && !yield(d, c) {
				return
			}
		}
	}
}

// Directions returns the set of directions holding a cell.
//
func (n Neighborhood) Directions() Connex {
	var c Connex
	for d := range n.All() {
		c |= d.Connex()
	}
	return c
}

// Len returns the number of present neighbors.
//
func (n Neighborhood) Len() int { return n.Directions().Count() }

// Filter returns a neighborhood holding only the neighbors for which pred
// returns true. Edges are preserved.
//
func (n Neighborhood) Filter(pred func(Direction, Cell) bool) Neighborhood {
	r := Neighborhood{edges: n.edges}
	for d, c := range n.All() {
		if pred(d, c) {
			r.cells[d] = c
		}
	}
	return r
}

// Connex returns the directions whose neighbor has a pin facing back towards
// the center of the neighborhood.
//
func (n Neighborhood) Connex() Connex {
	var c Connex
	for d, cell := range n.All() {
		if cell.Pins().Has(d.Opposite()) {
			c |= d.Connex()
		}
	}
	return c
}
