package console

import (
	"os"

	"github.com/mattn/go-isatty"
)

// Interactive reports whether f is a terminal. Piped input gets no banner or
// typing indicator.
func Interactive(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
