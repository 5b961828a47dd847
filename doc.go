/*
Package ton implements a simulator for a grid based visual dataflow language.

A program is a Board: a 2D grid of cells that all advance in lockstep, one
generation per Tick. Wires carry values (integers, booleans and lists) between
processors, which capture typed arguments on their input sides and, once fed,
are fired by a neighboring wire claiming their output. Chips embed a whole
board in a single cell and exchange values with the outer grid through the
inner board edges.

Boards are built with the Board API, from a textual layout (see ParseLayout)
or loaded from a file saved with Board.Save.

The simulation is synchronous: the next generation depends only on the
current one, never on the order in which cells are evaluated. Random choices,
like which of several neighboring values a wire copies, are drawn from a
source derived from the board's random source and the cell position. Boards
created with the same seed produce the same generations.

*/
package ton
