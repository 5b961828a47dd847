// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/db47h/ton"
	"github.com/db47h/ton/library"
	"github.com/db47h/ton/script"
	"github.com/pkg/errors"
)

func (e *env) boardOptions() []ton.Option {
	return append(e.cfg.boardOptions(), ton.WithLogger(e.log))
}

func newCmd(e *env, args []string) error {
	fs := e.flags("new", "path [width height]")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	w, h := e.cfg.width, e.cfg.height
	if fs.NArg() > 1 {
		if fs.NArg() != 3 {
			fs.Usage()
			return errUsage
		}
		var err error
		if w, err = atoi(fs, "width", fs.Arg(1)); err != nil {
			return err
		}
		if h, err = atoi(fs, "height", fs.Arg(2)); err != nil {
			return err
		}
	}
	b, err := ton.NewBoard(w, h)
	if err != nil {
		return err
	}
	if err = b.SaveFile(fs.Arg(0)); err != nil {
		return err
	}
	e.log.Info().Str("path", fs.Arg(0)).Int("width", w).Int("height", h).Msg(f("board created"))
	return nil
}

// runCmd ticks a board until the cell at x, y holds a value and prints that
// cell.
//
func runCmd(e *env, args []string) error {
	fs := e.flags("run", "[-max n] [-o out] path x y")
	maxTicks := fs.Int("max", e.cfg.maxTicks, f("maximum number of generations"))
	out := fs.String("o", "", f("save the final board to this file"))
	if err := parse(fs, args, 3); err != nil {
		return err
	}
	x, err := atoi(fs, "x", fs.Arg(1))
	if err != nil {
		return err
	}
	y, err := atoi(fs, "y", fs.Arg(2))
	if err != nil {
		return err
	}
	b, err := ton.LoadFile(fs.Arg(0), e.boardOptions()...)
	if err != nil {
		return err
	}
	if !b.InBounds(x, y) {
		return errors.Wrapf(ton.ErrOutOfBounds, "%d,%d", x, y)
	}

	start := time.Now()
	n, ok := b.Run(*maxTicks, func(b *ton.Board) bool {
		if e.ctx.Err() != nil {
			return true
		}
		_, isValue := b.Get(x, y).(ton.Value)
		return isValue
	})
	if err := e.ctx.Err(); err != nil {
		return errors.WithStack(err)
	}
	e.log.Info().Int("generations", n).Dur("elapsed", time.Since(start)).Bool("done", ok).Msg(f("run complete"))

	if *out != "" {
		if err := b.SaveFile(*out); err != nil {
			return err
		}
	}
	fmt.Fprintln(e.stdout, b.Get(x, y).Describe())
	if !ok {
		return errors.New(f("no value at %d,%d after %d generations", x, y, n))
	}
	return nil
}

func dumpCmd(e *env, args []string) error {
	fs := e.flags("dump", "[-layout] path")
	asLayout := fs.Bool("layout", false, f("print the board as a layout"))
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	b, err := ton.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	if *asLayout {
		_, err = fmt.Fprint(e.stdout, b.String())
		return errors.WithStack(err)
	}
	return ton.DumpYAML(e.stdout, b)
}

// defines collects repeated -D name=value flags.
//
type defines map[string]string

func (d defines) String() string { return "" }

func (d defines) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return errors.New(f("expected name=value, got %q", s))
	}
	d[k] = v
	return nil
}

func scriptCmd(e *env, args []string) error {
	fs := e.flags("script", "[-D name=value] [-o dir] [-lib] file.star")
	vars := make(defines)
	fs.Var(vars, "D", f("define a string variable"))
	dir := fs.String("o", "", f("save boards to this directory"))
	toLib := fs.Bool("lib", false, f("store boards in the library"))
	if err := parse(fs, args, 1); err != nil {
		return err
	}

	opts := []script.Option{
		script.WithPredeclared(vars),
		script.WithLogger(e.log),
		script.WithBoardOptions(e.boardOptions()...),
	}
	// library boards are available as chips if the library exists.
	var lib *library.Library
	if _, err := os.Stat(e.cfg.library); err == nil || *toLib {
		if lib, err = library.Open(e.cfg.library); err != nil {
			return err
		}
		defer lib.Close()
		chips, err := lib.Chips(e.ctx)
		if err != nil {
			return err
		}
		opts = append(opts, script.WithChips(chips))
	}

	boards, err := script.Exec(e.ctx, fs.Arg(0), nil, opts...)
	if err != nil {
		return err
	}
	for _, name := range script.Names(boards) {
		b := boards[name]
		switch {
		case *toLib:
			if err := lib.Put(e.ctx, name, b); err != nil {
				return err
			}
			e.log.Info().Str("board", name).Msg(f("board stored"))
		case *dir != "":
			path := filepath.Join(*dir, name+".ton")
			if err := b.SaveFile(path); err != nil {
				return err
			}
			e.log.Info().Str("board", name).Str("path", path).Msg(f("board saved"))
		default:
			fmt.Fprintf(e.stdout, "%s:\n%s", name, b)
		}
	}
	return nil
}

func libCmd(e *env, args []string) error {
	fs := e.flags("lib", "put name path | get name path | list | rm name")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	need := map[string]int{"put": 3, "get": 3, "list": 1, "rm": 2}
	verb := fs.Arg(0)
	n, ok := need[verb]
	if !ok || fs.NArg() != n {
		fs.Usage()
		return errUsage
	}

	lib, err := library.Open(e.cfg.library)
	if err != nil {
		return err
	}
	defer lib.Close()

	switch verb {
	case "put":
		b, err := ton.LoadFile(fs.Arg(2))
		if err != nil {
			return err
		}
		return lib.Put(e.ctx, fs.Arg(1), b)
	case "get":
		b, err := lib.Get(e.ctx, fs.Arg(1))
		if err != nil {
			return err
		}
		return b.SaveFile(fs.Arg(2))
	case "rm":
		return lib.Delete(e.ctx, fs.Arg(1))
	}

	es, err := lib.List(e.ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	for _, en := range es {
		fmt.Fprintf(tw, "%s\t%dx%d\t%d\t%s\n", en.Name, en.Width, en.Height, en.Generation, en.Updated.Format(time.DateTime))
	}
	return errors.WithStack(tw.Flush())
}
