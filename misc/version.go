// Package misc keeps program identity.
package misc

import "runtime/debug"

const appName = "cssb"

// Set with -ldflags "-X cssb/misc.version=..." during release builds.
var (
	version = "dev"
	gitHash = ""
)

// GetAppName returns program name as used in logs and file names.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns VCS revision program was built from, falling back to
// build information embedded by go toolchain.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return "unknown"
}
