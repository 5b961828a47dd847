// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ton

import (
	"github.com/db47h/ton/translate"
)

var f = translate.From

// A DeserializationError is returned when a saved board cannot be loaded.
//
type DeserializationError struct {
	// Path of the offending file, if any.
	Path string
	// Where within the document the error was found, if known.
	Where string
	Err   error
}

func (e *DeserializationError) Error() string {
	msg := f("cannot load board")
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Where != "" {
		msg += " at " + e.Where
	}
	return msg + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
//
func (e *DeserializationError) Unwrap() error { return e.Err }

// Cause returns the underlying error.
//
func (e *DeserializationError) Cause() error { return e.Err }
