// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package translate formats user facing messages for the user's locale.
//
// Message keys are en-US fmt formats.
//
package translate

import (
	"sync/atomic"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/message"
)

// Fallback is the language used when the user locale cannot be determined.
//
const Fallback = "en-US"

var printer atomic.Pointer[message.Printer]

func init() {
	locales, err := locale.GetLocales()
	if err != nil || len(locales) == 0 {
		locales = []string{Fallback}
	}
	SetLanguage(locales...)
}

// SetLanguage selects the best match for the given BCP 47 language tags.
//
func SetLanguage(tags ...string) {
	printer.Store(message.NewPrinter(message.MatchLanguage(tags...)))
}

// From translates the en-US Sprintf format key and formats it with args.
//
func From(key message.Reference, args ...any) string {
	return printer.Load().Sprintf(key, args...)
}
