// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package library implements a named board library stored in an SQLite
// database.
//
// Boards are stored in their saved form, so that any board can be used as a
// chip by name in layouts.
//
package library

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/db47h/ton"
	"github.com/db47h/ton/translate"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

var f = translate.From

// ErrNotFound is returned when a board is not in the library.
//
var ErrNotFound = errors.New(f("no such board"))

// Entry describes a stored board.
//
type Entry struct {
	Name       string
	Width      int
	Height     int
	Generation uint64
	Updated    time.Time
}

// Library is a board library.
//
type Library struct {
	db *sql.DB
}

// Open opens or creates the library at the given path.
//
func Open(path string) (*Library, error) {
	if path == "" {
		return nil, errors.New(f("empty library path"))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.WithStack(err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open library")
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initDB(db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "open library")
	}
	return &Library{db: db}, nil
}

func initDB(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS boards (
			name TEXT PRIMARY KEY,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			generation INTEGER NOT NULL,
			updated INTEGER NOT NULL,
			data BLOB NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the library.
//
func (l *Library) Close() error {
	return errors.WithStack(l.db.Close())
}

// Put stores b under the given name, replacing any board with the same name.
//
func (l *Library) Put(ctx context.Context, name string, b *ton.Board) error {
	if name == "" {
		return errors.New(f("empty board name"))
	}
	var buf bytes.Buffer
	if err := b.Save(&buf); err != nil {
		return err
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO boards (name, width, height, generation, updated, data) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET width=excluded.width, height=excluded.height,
			generation=excluded.generation, updated=excluded.updated, data=excluded.data`,
		name, b.Width(), b.Height(), int64(b.Generation()), time.Now().UnixNano(), buf.Bytes())
	return errors.Wrapf(err, "put %s", name)
}

// Get loads the named board. opts configure the returned board.
//
func (l *Library) Get(ctx context.Context, name string, opts ...ton.Option) (*ton.Board, error) {
	var data []byte
	err := l.db.QueryRowContext(ctx, `SELECT data FROM boards WHERE name = ?`, name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, errors.Wrap(ErrNotFound, name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", name)
	}
	b, err := ton.Load(bytes.NewReader(data), opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", name)
	}
	return b, nil
}

// List returns all entries in name order.
//
func (l *Library) List(ctx context.Context) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT name, width, height, generation, updated FROM boards ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "list")
	}
	defer rows.Close()
	var es []Entry
	for rows.Next() {
		var (
			e       Entry
			gen     int64
			updated int64
		)
		if err := rows.Scan(&e.Name, &e.Width, &e.Height, &gen, &updated); err != nil {
			return nil, errors.Wrap(err, "list")
		}
		e.Generation = uint64(gen)
		e.Updated = time.Unix(0, updated)
		es = append(es, e)
	}
	return es, errors.Wrap(rows.Err(), "list")
}

// Delete removes the named board.
//
func (l *Library) Delete(ctx context.Context, name string) error {
	res, err := l.db.ExecContext(ctx, `DELETE FROM boards WHERE name = ?`, name)
	if err != nil {
		return errors.Wrapf(err, "delete %s", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "delete %s", name)
	}
	if n == 0 {
		return errors.Wrap(ErrNotFound, name)
	}
	return nil
}

// Chips loads all boards in the library, keyed by name, for use with
// ton.ParseLayout.
//
func (l *Library) Chips(ctx context.Context) (map[string]*ton.Board, error) {
	es, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]*ton.Board, len(es))
	for _, e := range es {
		b, err := l.Get(ctx, e.Name)
		if err != nil {
			return nil, err
		}
		m[e.Name] = b
	}
	return m, nil
}
