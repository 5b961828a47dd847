// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ton

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Evaluator is the interface that custom gates built using reflection must
// implement. See MakeGate.
//
type Evaluator interface {
	Eval()
}

var (
	valueType   = reflect.TypeOf((*Value)(nil)).Elem()
	listType    = reflect.TypeOf((*List)(nil))
	integerType = reflect.TypeOf(int64(0))
	booleanType = reflect.TypeOf(false)
)

type gateField struct {
	index int
	side  Side
	in    bool
}

// MakeGate wraps an Evaluator into a custom gate. Inputs and outputs are
// identified by field tags.
//
// The field tag must be `ton:"in"` or `ton:"out"`. By default, the side is
// the field name in lowercase. A specific side can be forced by adding it in
// the tag: `ton:"in,left"`.
//
// Field types map to value kinds: int64 to integers, bool to booleans, *List
// to lists and Value to any value. Input fields are set before Eval is called
// on a fresh instance of the Evaluator's type. A nil *List or Value output
// delivers Empty.
//
func MakeGate(name string, e Evaluator) *Gate {
	typ := reflect.TypeOf(e)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if k := typ.Kind(); k != reflect.Struct {
		panic(errors.Errorf("unsupported type %q for %q", k, typ.Name()))
	}

	g := &Gate{
		Name:   name,
		Inputs: make(map[Side]Kind),
	}
	var fields []gateField
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		tag, ok := sf.Tag.Lookup("ton")
		if !ok {
			continue
		}
		tv := strings.Split(tag, ",")
		side := strings.ToLower(sf.Name)
		if len(tv) > 1 && tv[1] != "" {
			side = tv[1]
		}
		s, ok := ParseSide(side)
		if !ok {
			panic(errors.Errorf("invalid side %q for field %q in %q", side, sf.Name, typ.Name()))
		}
		k, ok := fieldKind(sf.Type)
		if !ok {
			panic(errors.Errorf("unsupported type %q for field %q in %q", sf.Type, sf.Name, typ.Name()))
		}
		fd := gateField{index: i, side: s}
		switch tv[0] {
		case "in":
			if _, dup := g.Inputs[s]; dup {
				panic(errors.Errorf("duplicate input %s in %q", s, typ.Name()))
			}
			fd.in = true
			g.Inputs[s] = k
		case "out":
			if g.isOutput(s) {
				panic(errors.Errorf("duplicate output %s in %q", s, typ.Name()))
			}
			g.Outputs = append(g.Outputs, s)
		default:
			panic(errors.Errorf("unsupported tag %q for field %q in %q", tag, sf.Name, typ.Name()))
		}
		fields = append(fields, fd)
	}
	for s := range g.Inputs {
		if g.isOutput(s) {
			panic(errors.Errorf("side %s of %q is both an input and an output", s, typ.Name()))
		}
	}
	g.Process = evalGate(typ, fields)
	return g
}

func fieldKind(t reflect.Type) (Kind, bool) {
	switch t {
	case integerType:
		return KindInteger, true
	case booleanType:
		return KindBoolean, true
	case listType:
		return KindList, true
	case valueType:
		return KindAny, true
	}
	return 0, false
}

func evalGate(typ reflect.Type, fields []gateField) ProcessFn {
	return func(args map[Side]Value) map[Side]Cell {
		v := reflect.New(typ)
		e := v.Elem()
		for _, fd := range fields {
			if !fd.in {
				continue
			}
			fv := e.Field(fd.index)
			switch a := args[fd.side].(type) {
			case *Integer:
				if fv.Kind() == reflect.Int64 {
					fv.SetInt(a.Value)
					continue
				}
			case *Boolean:
				if fv.Kind() == reflect.Bool {
					fv.SetBool(a.Value)
					continue
				}
			}
			fv.Set(reflect.ValueOf(args[fd.side].Copy()))
		}

		v.Interface().(Evaluator).Eval()

		outs := make(map[Side]Cell)
		for _, fd := range fields {
			if fd.in {
				continue
			}
			fv := e.Field(fd.index)
			switch fv.Kind() {
			case reflect.Int64:
				outs[fd.side] = NewInteger(fv.Int())
			case reflect.Bool:
				outs[fd.side] = NewBoolean(fv.Bool())
			default:
				if !fv.IsNil() {
					outs[fd.side] = fv.Interface().(Cell)
				}
			}
		}
		return outs
	}
}
