// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command ton creates, runs and inspects ton boards.
//
//	ton [-config file] [-seed n] [-log level] command [arguments]
//
// Commands:
//
//	new path [w h]           create an empty board
//	run [-max n] [-o out] path x y
//	                         tick until the cell at x, y holds a value
//	dump [-layout] path      print a board as YAML or as a layout
//	script [-D k=v] [-o dir] [-lib] file.star
//	                         build boards from a Starlark script
//	lib put name path | get name path | list | rm name
//	                         manage the board library
//
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/db47h/ton/internal/logging"
	"github.com/db47h/ton/translate"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var f = translate.From

// errUsage reports a command line error. The usage has already been printed.
//
var errUsage = errors.New("usage")

type env struct {
	ctx    context.Context
	cfg    config
	log    zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

type command func(e *env, args []string) error

var commands = map[string]command{
	"new":    newCmd,
	"run":    runCmd,
	"dump":   dumpCmd,
	"script": scriptCmd,
	"lib":    libCmd,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ton", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", "", f("configuration file (default %s)", defaultConfigFile))
	seed := fs.String("seed", "", f("random seed"))
	level := fs.String("log", "", f("log level"))
	fs.Usage = func() {
		fmt.Fprintln(stderr, f("usage: ton [flags] new|run|dump|script|lib [arguments]"))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *seed != "" {
		s, err := strconv.ParseUint(*seed, 0, 64)
		if err != nil {
			fmt.Fprintln(stderr, f("invalid seed %q", *seed))
			return 2
		}
		cfg.seed, cfg.seeded = s, true
	}
	if *level != "" {
		cfg.logLevel = *level
	}

	lc := logging.DefaultConfig(logging.ProfileRuntime)
	if cfg.logLevel != "" {
		lvl, ok := logging.ParseLevel(cfg.logLevel)
		if !ok {
			fmt.Fprintln(stderr, f("invalid log level %q", cfg.logLevel))
			return 2
		}
		lc.Level = lvl
	}
	e := &env{ctx: ctx, cfg: cfg, log: lc.New(stderr), stdout: stdout, stderr: stderr}

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		fmt.Fprintln(stderr, f("unknown command %q", fs.Arg(0)))
		fs.Usage()
		return 2
	}
	if err := cmd(e, fs.Args()[1:]); err != nil {
		if err == errUsage || err == flag.ErrHelp {
			return 2
		}
		e.log.Error().Err(err).Msg(f("%s failed", fs.Arg(0)))
		e.log.Debug().Msgf("%+v", err)
		return 1
	}
	return 0
}

// flags returns a flag set for the named subcommand.
//
func (e *env) flags(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprintln(e.stderr, f("usage: ton %s %s", name, usage))
		fs.PrintDefaults()
	}
	return fs
}

// parse parses args and checks that at least min positional arguments
// remain.
//
func parse(fs *flag.FlagSet, args []string, min int) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() < min {
		fs.Usage()
		return errUsage
	}
	return nil
}

func atoi(fs *flag.FlagSet, name, s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		fmt.Fprintln(fs.Output(), f("invalid %s %q", name, s))
		fs.Usage()
		return 0, errUsage
	}
	return i, nil
}
