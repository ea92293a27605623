//go:build windows

package config

import (
	"os"

	"golang.org/x/sys/windows"
)

// enableEscapes turns on VT100 processing for console, it fails on consoles
// which do not support it (before Windows 10).
func enableEscapes(stream *os.File) bool {
	h := windows.Handle(stream.Fd())

	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	if mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 {
		return true
	}
	return windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}
