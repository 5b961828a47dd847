// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/db47h/ton"
	"github.com/pkg/errors"
)

const defaultConfigFile = "ton.toml"

type fileConfig struct {
	Seed     uint64 `toml:"seed"`
	MaxTicks int    `toml:"max_ticks"`
	LogLevel string `toml:"log_level"`
	Library  string `toml:"library"`
	Board    struct {
		Width  int `toml:"width"`
		Height int `toml:"height"`
	} `toml:"board"`
}

type config struct {
	seed     uint64
	seeded   bool
	maxTicks int
	logLevel string
	library  string
	width    int
	height   int
}

func defaultConfig() config {
	return config{
		maxTicks: 1000,
		library:  "ton.db",
		width:    ton.DefaultChipSize,
		height:   ton.DefaultChipSize,
	}
}

// loadConfig reads the TOML configuration file at path. A missing default
// configuration file is not an error.
//
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return config{}, errors.Wrapf(err, "load config %s", path)
	}
	if und := meta.Undecoded(); len(und) > 0 {
		return config{}, errors.Errorf("load config %s: unknown key %s", path, und[0])
	}

	if meta.IsDefined("seed") {
		cfg.seed, cfg.seeded = raw.Seed, true
	}
	if meta.IsDefined("max_ticks") {
		if raw.MaxTicks < 0 {
			return config{}, errors.Errorf("load config %s: negative max_ticks", path)
		}
		cfg.maxTicks = raw.MaxTicks
	}
	if meta.IsDefined("log_level") {
		cfg.logLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("library") {
		cfg.library = strings.TrimSpace(raw.Library)
	}
	if meta.IsDefined("board", "width") {
		cfg.width = raw.Board.Width
	}
	if meta.IsDefined("board", "height") {
		cfg.height = raw.Board.Height
	}
	return cfg, nil
}

func (cfg config) boardOptions() []ton.Option {
	if cfg.seeded {
		return []ton.Option{ton.WithSeed(cfg.seed)}
	}
	return nil
}
