// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package script

import (
	"github.com/db47h/ton"
	"github.com/pkg/errors"
	"go.starlark.net/starlark"
)

// Cell wraps a ton.Cell into a Starlark value.
//
type Cell struct {
	c ton.Cell
}

var _ starlark.HasAttrs = (*Cell)(nil)

// Unwrap returns the wrapped cell.
//
func (c *Cell) Unwrap() ton.Cell { return c.c }

func (c *Cell) String() string        { return c.c.Describe() }
func (c *Cell) Type() string          { return "cell" }
func (c *Cell) Freeze()               {}
func (c *Cell) Truth() starlark.Bool  { return c.c.Kind() != ton.KindEmpty }
func (c *Cell) Hash() (uint32, error) { return 0, errors.New(f("unhashable type: cell")) }

func (c *Cell) Attr(name string) (starlark.Value, error) {
	switch name {
	case "kind":
		return starlark.String(c.c.Kind().String()), nil
	case "value":
		switch v := c.c.(type) {
		case *ton.Integer:
			return starlark.MakeInt64(v.Value), nil
		case *ton.Boolean:
			return starlark.Bool(v.Value), nil
		}
		return starlark.None, nil
	}
	return nil, nil
}

func (c *Cell) AttrNames() []string { return []string{"kind", "value"} }

// toCell converts a Starlark value to a new cell.
//
func toCell(v starlark.Value, chips map[string]*ton.Board) (ton.Cell, error) {
	switch v := v.(type) {
	case *Cell:
		return v.c.Copy(), nil
	case starlark.NoneType:
		return &ton.Empty{}, nil
	case starlark.String:
		b, err := ton.ParseLayout(string(v), chips)
		if err != nil {
			return nil, err
		}
		if b.Width() != 1 || b.Height() != 1 {
			return nil, errors.New(f("%q is not a single cell", string(v)))
		}
		return b.Get(0, 0), nil
	}
	return toValue(v)
}

// toValue converts integers, booleans, lists, tuples and value cells.
//
func toValue(v starlark.Value) (ton.Value, error) {
	switch v := v.(type) {
	case *Cell:
		if tv, ok := v.c.Copy().(ton.Value); ok {
			return tv, nil
		}
		return nil, errors.New(f("%s is not a value", v.c.Kind()))
	case starlark.Bool:
		return ton.NewBoolean(bool(v)), nil
	case starlark.Int:
		i, ok := v.Int64()
		if !ok {
			return nil, errors.New(f("integer out of range"))
		}
		return ton.NewInteger(i), nil
	case starlark.Indexable:
		if _, ok := v.(starlark.String); ok {
			break
		}
		vs := make([]ton.Value, v.Len())
		for i := range vs {
			e, err := toValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			vs[i] = e
		}
		return ton.NewList(vs...), nil
	}
	return nil, errors.New(f("cannot convert %s to a value", v.Type()))
}

// Board wraps a *ton.Board into a Starlark value.
//
type Board struct {
	b      *ton.Board
	cfg    *config
	frozen bool
}

var _ starlark.HasAttrs = (*Board)(nil)

// Unwrap returns the wrapped board.
//
func (b *Board) Unwrap() *ton.Board { return b.b }

func (b *Board) String() string        { return b.b.String() }
func (b *Board) Type() string          { return "board" }
func (b *Board) Freeze()               { b.frozen = true }
func (b *Board) Truth() starlark.Bool  { return true }
func (b *Board) Hash() (uint32, error) { return 0, errors.New(f("unhashable type: board")) }

type boardMethod func(b *Board, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

var boardMethods = map[string]boardMethod{
	"place":    (*Board).place,
	"remove":   (*Board).remove,
	"get":      (*Board).get,
	"tick":     (*Board).tick,
	"save":     (*Board).save,
	"describe": (*Board).describe,
}

func (b *Board) Attr(name string) (starlark.Value, error) {
	switch name {
	case "width":
		return starlark.MakeInt(b.b.Width()), nil
	case "height":
		return starlark.MakeInt(b.b.Height()), nil
	case "generation":
		return starlark.MakeUint64(b.b.Generation()), nil
	}
	m, ok := boardMethods[name]
	if !ok {
		return nil, nil
	}
	return starlark.NewBuiltin(name, func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		return m(fn.Receiver().(*Board), fn, args, kwargs)
	}).BindReceiver(b), nil
}

func (b *Board) AttrNames() []string {
	ns := []string{"generation", "height", "width"}
	for n := range boardMethods {
		ns = append(ns, n)
	}
	return ns
}

func (b *Board) mutable(name string) error {
	if b.frozen {
		return errors.New(f("%s: cannot modify frozen board", name))
	}
	return nil
}

func (b *Board) place(fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		x, y int
		v    starlark.Value
	)
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "x", &x, "y", &y, "cell", &v); err != nil {
		return nil, err
	}
	if err := b.mutable(fn.Name()); err != nil {
		return nil, err
	}
	c, err := toCell(v, b.cfg.chips)
	if err != nil {
		return nil, errors.Wrap(err, fn.Name())
	}
	if err := b.b.Place(x, y, c); err != nil {
		return nil, errors.Wrap(err, fn.Name())
	}
	return starlark.None, nil
}

func (b *Board) remove(fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x, y int
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "x", &x, "y", &y); err != nil {
		return nil, err
	}
	if err := b.mutable(fn.Name()); err != nil {
		return nil, err
	}
	if err := b.b.Remove(x, y); err != nil {
		return nil, errors.Wrap(err, fn.Name())
	}
	return starlark.None, nil
}

func (b *Board) get(fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x, y int
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "x", &x, "y", &y); err != nil {
		return nil, err
	}
	c := b.b.Get(x, y)
	if c == nil {
		return nil, errors.Wrapf(ton.ErrOutOfBounds, "%s: %d,%d", fn.Name(), x, y)
	}
	return &Cell{c.Copy()}, nil
}

func (b *Board) tick(fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	n := 1
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "n?", &n); err != nil {
		return nil, err
	}
	if err := b.mutable(fn.Name()); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		b.b.Tick()
	}
	return starlark.MakeUint64(b.b.Generation()), nil
}

func (b *Board) save(fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var path string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "path", &path); err != nil {
		return nil, err
	}
	if err := b.b.SaveFile(path); err != nil {
		return nil, err
	}
	return starlark.None, nil
}

func (b *Board) describe(fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return starlark.String(b.b.String()), nil
}
