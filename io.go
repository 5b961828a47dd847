// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ton

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Saved boards are zstd compressed streams holding a one line JSON header
// followed by a JSON encoded BoardRecord.
const (
	FormatName    = "ton"
	FormatVersion = 1
)

//go:embed board.schema.json
var schemaSource string

const schemaURL = "https://github.com/db47h/ton/board.schema.json"

var boardSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, bytes.NewReader([]byte(schemaSource))); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

type header struct {
	Format  string `json:"format"`
	Version int    `json:"version"`
}

// A BoardRecord is the serialized form of a Board.
//
type BoardRecord struct {
	Width      int           `json:"width" yaml:"width"`
	Height     int           `json:"height" yaml:"height"`
	Generation uint64        `json:"generation,omitempty" yaml:"generation,omitempty"`
	Cells      []*CellRecord `json:"cells" yaml:"cells"` // row-major
}

// A CellRecord is the serialized form of a Cell. Only the fields relevant to
// Variant are set.
//
type CellRecord struct {
	Variant string `json:"variant" yaml:"variant"`
	Facing  string `json:"facing,omitempty" yaml:"facing,omitempty"`

	// processor
	Gate  string                 `json:"gate,omitempty" yaml:"gate,omitempty"`
	Args  map[string]*CellRecord `json:"args,omitempty" yaml:"args,omitempty"`
	Fired bool                   `json:"fired,omitempty" yaml:"fired,omitempty"`

	// values
	Int    *int64        `json:"int,omitempty" yaml:"int,omitempty"`
	Bool   *bool         `json:"bool,omitempty" yaml:"bool,omitempty"`
	Index  int           `json:"index,omitempty" yaml:"index,omitempty"`
	Values []*CellRecord `json:"values,omitempty" yaml:"values,omitempty"`

	// chips
	Source string       `json:"source,omitempty" yaml:"source,omitempty"`
	Board  *BoardRecord `json:"board,omitempty" yaml:"board,omitempty"`

	// Connex is only filled in by Dump.
	Connex string `json:"-" yaml:"connex,omitempty"`
}

// Record returns the serialized form of b.
//
func (b *Board) Record() *BoardRecord {
	r := &BoardRecord{
		Width:      b.width,
		Height:     b.height,
		Generation: b.gen,
		Cells:      make([]*CellRecord, len(b.cells)),
	}
	for i, c := range b.cells {
		r.Cells[i] = RecordOf(c)
	}
	return r
}

// RecordOf returns the serialized form of c.
//
func RecordOf(c Cell) *CellRecord {
	r := &CellRecord{Variant: c.Kind().String()}
	switch c := c.(type) {
	case *Processor:
		r.Facing = c.Facing.String()
		r.Gate = c.Gate.Name
		r.Fired = c.Fired
		if len(c.Args) > 0 {
			r.Args = make(map[string]*CellRecord, len(c.Args))
			for s, v := range c.Args {
				r.Args[s.String()] = RecordOf(v)
			}
		}
	case *Integer:
		v := c.Value
		r.Int, r.Index = &v, c.Index
	case *Boolean:
		v := c.Value
		r.Bool, r.Index = &v, c.Index
	case *List:
		r.Index = c.Index
		for _, v := range c.Values {
			r.Values = append(r.Values, RecordOf(v))
		}
	case *Chip:
		r.Facing = c.Facing.String()
		r.Source = c.Source
		r.Board = c.Board.Record()
	}
	return r
}

// Save writes b to w. The board's random source is not saved.
//
func (b *Board) Save(w io.Writer) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return errors.Wrap(err, "zstd")
	}
	enc := json.NewEncoder(zw)
	if err = enc.Encode(header{FormatName, FormatVersion}); err == nil {
		err = enc.Encode(b.Record())
	}
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	return errors.Wrap(err, "save board")
}

// SaveFile writes b to the named file. The file is written to a temporary
// file first then renamed.
//
func (b *Board) SaveFile(name string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(name), filepath.Base(name)+".*")
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if err = b.Save(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.Rename(tmp.Name(), name))
}

// Load reads a board saved with Save. opts configure the returned board.
//
// The state of the random source is not saved: a loaded board only evolves
// like the saved one if both use the same source, e.g. with WithSeed.
//
// All errors caused by malformed input are of type *DeserializationError.
// Read errors from r are returned as is.
//
func Load(r io.Reader, opts ...Option) (*Board, error) {
	return load(r, "", opts)
}

// LoadFile reads a board from the named file.
//
func LoadFile(name string, opts ...Option) (*Board, error) {
	fh, err := os.Open(name)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer fh.Close()
	return load(fh, name, opts)
}

// ioReader records the first error other than io.EOF returned by r.
//
type ioReader struct {
	r   io.Reader
	mu  sync.Mutex
	err error
}

func (ir *ioReader) Read(p []byte) (int, error) {
	n, err := ir.r.Read(p)
	if err != nil && err != io.EOF {
		ir.mu.Lock()
		if ir.err == nil {
			ir.err = err
		}
		ir.mu.Unlock()
	}
	return n, err
}

func (ir *ioReader) failure() error {
	ir.mu.Lock()
	defer ir.mu.Unlock()
	return ir.err
}

func load(r io.Reader, path string, opts []Option) (*Board, error) {
	ir := &ioReader{r: r}
	// read failures of r are returned as is, anything else is malformed
	// input.
	bad := func(where string, err error) error {
		if ioErr := ir.failure(); ioErr != nil {
			return errors.WithStack(ioErr)
		}
		return &DeserializationError{Path: path, Where: where, Err: err}
	}
	zr, err := zstd.NewReader(ir, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, bad("", err)
	}
	defer zr.Close()
	br := bufio.NewReader(zr)

	line, err := br.ReadBytes('\n')
	if err != nil {
		return nil, bad("header", err)
	}
	var h header
	if err = json.Unmarshal(line, &h); err != nil {
		return nil, bad("header", err)
	}
	if h.Format != FormatName {
		return nil, bad("header", errors.New(f("not a board file")))
	}
	if h.Version != FormatVersion {
		return nil, bad("header", errors.New(f("unsupported version %d", h.Version)))
	}

	data, err := io.ReadAll(br)
	if err != nil {
		return nil, bad("", err)
	}
	s, err := boardSchema()
	if err != nil {
		return nil, errors.Wrap(err, "board schema")
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err = dec.Decode(&doc); err != nil {
		return nil, bad("", err)
	}
	if err = s.Validate(doc); err != nil {
		return nil, bad("", err)
	}
	var rec BoardRecord
	if err = json.Unmarshal(data, &rec); err != nil {
		return nil, bad("", err)
	}
	return FromRecord(&rec, path, opts...)
}

// FromRecord rebuilds a board from its serialized form. path is only used in
// error messages.
//
func FromRecord(r *BoardRecord, path string, opts ...Option) (*Board, error) {
	d := decoder{path: path}
	return d.board(r, "", opts)
}

type decoder struct {
	path string
}

func (d *decoder) errorf(where string, format string, args ...any) error {
	return &DeserializationError{Path: d.path, Where: where, Err: errors.New(f(format, args...))}
}

func (d *decoder) board(r *BoardRecord, where string, opts []Option) (*Board, error) {
	if r.Width < 1 || r.Height < 1 {
		return nil, d.errorf(where, "invalid board size %dx%d", r.Width, r.Height)
	}
	if len(r.Cells) != r.Width*r.Height {
		return nil, d.errorf(where, "got %d cells for a %dx%d board", len(r.Cells), r.Width, r.Height)
	}
	b := newBoard(r.Width, r.Height, opts)
	b.gen = r.Generation
	for i, cr := range r.Cells {
		c, err := d.cell(cr, where+"cells["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		b.cells[i] = c
	}
	return b, nil
}

func (d *decoder) value(r *CellRecord, where string) (Value, error) {
	c, err := d.cell(r, where)
	if err != nil {
		return nil, err
	}
	v, ok := c.(Value)
	if !ok {
		return nil, d.errorf(where, "%s is not a value", r.Variant)
	}
	return v, nil
}

func (d *decoder) facing(r *CellRecord, where string) (Direction, error) {
	if r.Facing == "" {
		return 0, d.errorf(where, "%s without a facing", r.Variant)
	}
	dir, ok := ParseDirection(r.Facing)
	if !ok {
		return 0, d.errorf(where, "invalid facing %q", r.Facing)
	}
	return dir, nil
}

func (d *decoder) cell(r *CellRecord, where string) (Cell, error) {
	if r == nil {
		return nil, d.errorf(where, "missing cell")
	}
	k, ok := parseKind(r.Variant)
	if !ok || k == KindAny {
		return nil, d.errorf(where, "unknown variant %q", r.Variant)
	}
	if name := misplaced(r, k); name != "" {
		return nil, d.errorf(where, "unexpected field %s in %s", name, r.Variant)
	}
	switch k {
	case KindEmpty:
		return &Empty{}, nil
	case KindWire:
		return &Wire{}, nil
	case KindAnchor:
		return &Anchor{}, nil
	case KindMu:
		return &Mu{}, nil
	case KindInteger:
		if r.Int == nil {
			return nil, d.errorf(where, "integer without a value")
		}
		return &Integer{ValueBase{r.Index}, *r.Int}, nil
	case KindBoolean:
		if r.Bool == nil {
			return nil, d.errorf(where, "boolean without a value")
		}
		return &Boolean{ValueBase{r.Index}, *r.Bool}, nil
	case KindList:
		l := &List{ValueBase: ValueBase{r.Index}, Values: make([]Value, 0, len(r.Values))}
		for i, vr := range r.Values {
			v, err := d.value(vr, where+".values["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			l.Values = append(l.Values, v)
		}
		return l, nil
	case KindProcessor:
		return d.processor(r, where)
	}
	return d.chip(r, k, where)
}

func (d *decoder) processor(r *CellRecord, where string) (Cell, error) {
	facing, err := d.facing(r, where)
	if err != nil {
		return nil, err
	}
	g, ok := LookupGate(r.Gate)
	if !ok {
		return nil, d.errorf(where, "unknown gate %q", r.Gate)
	}
	p := g.New(facing)
	p.Fired = r.Fired
	for name, ar := range r.Args {
		aw := where + ".args." + name
		s, ok := ParseSide(name)
		if !ok {
			return nil, d.errorf(aw, "invalid side %q", name)
		}
		k, ok := g.Inputs[s]
		if !ok {
			return nil, d.errorf(aw, "gate %s has no %s input", g.Name, name)
		}
		v, err := d.value(ar, aw)
		if err != nil {
			return nil, err
		}
		if !k.Accepts(v) {
			return nil, d.errorf(aw, "gate %s expects %s on its %s side, got %s", g.Name, k, name, v.Kind())
		}
		p.Args[s] = v
	}
	return p, nil
}

func (d *decoder) chip(r *CellRecord, k Kind, where string) (Cell, error) {
	facing, err := d.facing(r, where)
	if err != nil {
		return nil, err
	}
	if k == KindImport && r.Source == "" {
		return nil, d.errorf(where, "import without a source")
	}
	if r.Board == nil {
		if k != KindImport {
			return nil, d.errorf(where, "chip without a board")
		}
		c, err := NewImport(d.resolve(r.Source), facing)
		if err != nil {
			return nil, err
		}
		c.Source = r.Source
		return c, nil
	}
	b, err := d.board(r.Board, where+".board.", nil)
	if err != nil {
		return nil, err
	}
	c := NewChip(facing, b)
	if k == KindImport {
		c.Source = r.Source
	}
	return c, nil
}

// misplaced returns the name of the first field of r that does not belong to
// kind k, or "" if there is none.
//
func misplaced(r *CellRecord, k Kind) string {
	directional := k == KindProcessor || k == KindChip || k == KindImport
	value := k == KindInteger || k == KindBoolean || k == KindList
	chip := k == KindChip || k == KindImport
	for _, f := range []struct {
		name  string
		set   bool
		valid bool
	}{
		{"facing", r.Facing != "", directional},
		{"gate", r.Gate != "", k == KindProcessor},
		{"args", r.Args != nil, k == KindProcessor},
		{"fired", r.Fired, k == KindProcessor},
		{"int", r.Int != nil, k == KindInteger},
		{"bool", r.Bool != nil, k == KindBoolean},
		{"index", r.Index != 0, value},
		{"values", r.Values != nil, k == KindList},
		{"source", r.Source != "", k == KindImport},
		{"board", r.Board != nil, chip},
	} {
		if f.set && !f.valid {
			return f.name
		}
	}
	return ""
}

// resolve returns the path of an imported board relative to the directory
// of the file being loaded.
//
func (d *decoder) resolve(src string) string {
	if filepath.IsAbs(src) || d.path == "" {
		return src
	}
	return filepath.Join(filepath.Dir(d.path), src)
}
