package main

import (
	"io"
	"os"

	"golang.org/x/term"
)

// getTerminalWidth returns the width of w if it is a terminal, or 0 otherwise.
func getTerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
