package generate

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"cssb/config"
	"cssb/document"
	"cssb/state"
)

// buildOutputPath returns output file path for document. When destination is
// an existing directory file name is derived either from the source name or,
// if requested, from the document title. It cleans up name and if requested
// transliterates it. Otherwise destination is used as is.
func buildOutputPath(doc *document.Document, src, dst string, format config.OutputFmt, env *state.LocalEnv) string {
	if fi, err := os.Stat(dst); err != nil || !fi.IsDir() {
		return dst
	}
	return filepath.Join(dst, buildFileName(doc, src, format, env))
}

func buildFileName(doc *document.Document, src string, format config.OutputFmt, env *state.LocalEnv) string {
	baseName := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	if env.Cfg.Output.NameFromTitle && strings.TrimSpace(doc.Title) != "" {
		baseName = strings.TrimSpace(doc.Title)
	}
	if env.Cfg.Output.Transliterate {
		baseName = slug.Make(baseName)
	}
	return cleanFileName(baseName) + format.Ext()
}

// cleanFileName drops characters not allowed in file names on any of the
// supported systems, so results could be moved between them. Leading dots
// would hide file and trailing dots and spaces are dropped by Windows.
func cleanFileName(in string) string {
	out := strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(`<>:"/\|?*`, r) {
			return -1
		}
		return r
	}, in)
	out = strings.TrimRight(strings.TrimLeft(out, "."), ". ")
	if len(out) == 0 {
		return "_bad_file_name_"
	}
	return out
}
