// Package translate localizes user-visible strings of the simulator.
//
// Catalog keys are the en-US fmt formats of the fault messages raised by
// the memory, cpu, emulator and script packages, and of the CLI's
// diagnostics. Memory faults carry the access width and byte address,
// opcode faults the instruction word in hex, and runtime faults the pc
// and segment label. Numbers are rendered with the locale's grouping, so
// step counts read "1,234,567" under en-US.
//
// The catalog is extracted with gotext from the packages that call From.
package translate

//go:generate go tool gotext -srclang=en-US update -out=catalog.go -lang=en-US github.com/ezrec/risc5/...

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("risc5: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// SetLanguage forces the output language, ignoring the host locale.
func SetLanguage(tag language.Tag) {
	printer = message.NewPrinter(tag)
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
