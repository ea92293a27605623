//go:build !windows

package config

import "os"

// terminals outside of Windows console understand escape sequences as is
func enableEscapes(*os.File) bool {
	return true
}
