package config

import (
	"os"

	"golang.org/x/term"
)

// colorOutput reports whether log output to stream could be colorized. NO_COLOR
// and dumb terminals are honored.
func colorOutput(stream *os.File) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set || os.Getenv("TERM") == "dumb" {
		return false
	}
	if !term.IsTerminal(int(stream.Fd())) {
		return false
	}
	return enableEscapes(stream)
}
