// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package script builds boards from Starlark scripts.
//
// Scripts get the following predeclared functions:
//
//	board(w, h)               new empty board
//	layout(src)               board from a textual layout
//	load_board(path)          board loaded from a saved file
//	empty(), wire(), anchor(), mu()
//	integer(n), boolean(b), list(v...)
//	gate(name, facing="N")    processor
//	chip(board, facing="N")   chip embedding a copy of board
//	import_chip(path, facing="N")
//
// Boards have the width, height and generation attributes and the place(x,
// y, cell), remove(x, y), get(x, y), tick(n=1), save(path) and describe()
// methods. place accepts cells, integers, booleans, lists and single cell
// layout strings like "add>".
//
// All boards bound to global variables once the script has run are returned
// by Exec.
//
package script

import (
	"context"
	"sort"

	"github.com/db47h/ton"
	"github.com/db47h/ton/translate"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var f = translate.From

// Option configures script execution.
//
type Option func(*config)

type config struct {
	vars  map[string]string
	chips map[string]*ton.Board
	log   zerolog.Logger
	opts  []ton.Option
}

// WithChips makes the given boards available as chips to layout.
//
func WithChips(chips map[string]*ton.Board) Option {
	return func(c *config) { c.chips = chips }
}

// WithPredeclared defines global string variables visible to the script.
//
func WithPredeclared(vars map[string]string) Option {
	return func(c *config) { c.vars = vars }
}

// WithLogger sets the logger used for the print builtin.
//
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.log = l }
}

// WithBoardOptions sets the options used for every board created by the
// script.
//
func WithBoardOptions(opts ...ton.Option) Option {
	return func(c *config) { c.opts = opts }
}

// Exec runs the script src. filename is used in error messages and, if src
// is nil, is read as the script source. Execution stops with an error if ctx
// is canceled.
//
func Exec(ctx context.Context, filename string, src any, opts ...Option) (map[string]*ton.Board, error) {
	cfg := config{log: zerolog.Nop()}
	for _, o := range opts {
		o(&cfg)
	}

	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			cfg.log.Info().Str("script", filename).Msg(msg)
		},
	}
	stop := context.AfterFunc(ctx, func() { thread.Cancel(context.Cause(ctx).Error()) })
	defer stop()

	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, filename, src, cfg.builtins())
	if err != nil {
		if ee, ok := err.(*starlark.EvalError); ok {
			return nil, errors.New(ee.Backtrace())
		}
		return nil, errors.WithStack(err)
	}

	boards := make(map[string]*ton.Board)
	for name, v := range globals {
		if b, ok := v.(*Board); ok {
			boards[name] = b.b
		}
	}
	return boards, nil
}

// Names returns the sorted keys of boards.
//
func Names(boards map[string]*ton.Board) []string {
	ns := make([]string, 0, len(boards))
	for n := range boards {
		ns = append(ns, n)
	}
	sort.Strings(ns)
	return ns
}

func (c *config) builtins() starlark.StringDict {
	simple := func(name string, mk func() ton.Cell) *starlark.Builtin {
		return starlark.NewBuiltin(name, func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
				return nil, err
			}
			return &Cell{mk()}, nil
		})
	}
	d := starlark.StringDict{
		"board":       starlark.NewBuiltin("board", c.newBoard),
		"layout":      starlark.NewBuiltin("layout", c.layout),
		"load_board":  starlark.NewBuiltin("load_board", c.loadBoard),
		"empty":       simple("empty", func() ton.Cell { return &ton.Empty{} }),
		"wire":        simple("wire", func() ton.Cell { return &ton.Wire{} }),
		"anchor":      simple("anchor", func() ton.Cell { return &ton.Anchor{} }),
		"mu":          simple("mu", func() ton.Cell { return &ton.Mu{} }),
		"integer":     starlark.NewBuiltin("integer", integer),
		"boolean":     starlark.NewBuiltin("boolean", boolean),
		"list":        starlark.NewBuiltin("list", list),
		"gate":        starlark.NewBuiltin("gate", gate),
		"chip":        starlark.NewBuiltin("chip", chip),
		"import_chip": starlark.NewBuiltin("import_chip", importChip),
	}
	for k, v := range c.vars {
		d[k] = starlark.String(v)
	}
	return d
}

func (c *config) wrap(b *ton.Board) *Board { return &Board{b: b, cfg: c} }

func (c *config) newBoard(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var w, h int
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "w", &w, "h", &h); err != nil {
		return nil, err
	}
	b, err := ton.NewBoard(w, h, c.opts...)
	if err != nil {
		return nil, err
	}
	return c.wrap(b), nil
}

func (c *config) layout(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var src string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "src", &src); err != nil {
		return nil, err
	}
	b, err := ton.ParseLayout(src, c.chips, c.opts...)
	if err != nil {
		return nil, err
	}
	return c.wrap(b), nil
}

func (c *config) loadBoard(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var path string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "path", &path); err != nil {
		return nil, err
	}
	b, err := ton.LoadFile(path, c.opts...)
	if err != nil {
		return nil, err
	}
	return c.wrap(b), nil
}

func integer(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var v starlark.Value
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &v); err != nil {
		return nil, err
	}
	n, ok := v.(starlark.Int)
	if !ok {
		return nil, errors.New(f("%s: got %s, want int", fn.Name(), v.Type()))
	}
	i, ok := n.Int64()
	if !ok {
		return nil, errors.New(f("%s: integer out of range", fn.Name()))
	}
	return &Cell{ton.NewInteger(i)}, nil
}

func boolean(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var v bool
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &v); err != nil {
		return nil, err
	}
	return &Cell{ton.NewBoolean(v)}, nil
}

func list(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, errors.New(f("%s: unexpected keyword arguments", fn.Name()))
	}
	vs := make([]ton.Value, len(args))
	for i, a := range args {
		v, err := toValue(a)
		if err != nil {
			return nil, errors.Wrap(err, fn.Name())
		}
		vs[i] = v
	}
	return &Cell{ton.NewList(vs...)}, nil
}

func facingArg(name, s string) (ton.Direction, error) {
	d, ok := ton.ParseDirection(s)
	if !ok {
		return 0, errors.New(f("%s: invalid facing %q", name, s))
	}
	return d, nil
}

func gate(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	facing := "N"
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "facing?", &facing); err != nil {
		return nil, err
	}
	d, err := facingArg(fn.Name(), facing)
	if err != nil {
		return nil, err
	}
	g, ok := ton.LookupGate(name)
	if !ok {
		return nil, errors.New(f("%s: unknown gate %q", fn.Name(), name))
	}
	return &Cell{g.New(d)}, nil
}

func chip(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var b *Board
	facing := "N"
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "board", &b, "facing?", &facing); err != nil {
		return nil, err
	}
	d, err := facingArg(fn.Name(), facing)
	if err != nil {
		return nil, err
	}
	return &Cell{ton.NewChip(d, b.b.Copy())}, nil
}

func importChip(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var path string
	facing := "N"
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "path", &path, "facing?", &facing); err != nil {
		return nil, err
	}
	d, err := facingArg(fn.Name(), facing)
	if err != nil {
		return nil, err
	}
	c, err := ton.NewImport(path, d)
	if err != nil {
		return nil, err
	}
	return &Cell{c}, nil
}
