// Package archive reads selector documents packed into zip bundles.
package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"golang.org/x/text/encoding"
)

// WalkFunc is called for every matching bundle entry. The name is the entry
// path inside bundle, r is valid only for the duration of the call.
type WalkFunc func(name string, r io.Reader) error

// Walker visits documents in zip bundles.
type Walker struct {
	// Names is used to decode entry names not marked as UTF-8. Zip does not
	// define name encoding, so old bundles could carry names in a legacy
	// code page. When nil names are used as stored.
	Names encoding.Encoding
	// Match selects entries to visit by decoded name, nil accepts everything.
	Match func(name string) bool
}

// Walk visits matching regular files in bundle in the order they are stored.
// Bundles with absolute or escaping entry names are rejected as a whole.
func (w *Walker) Walk(ctx context.Context, bundle string, walkFn WalkFunc) error {
	zr, err := zip.OpenReader(bundle)
	if err != nil {
		return err
	}
	defer zr.Close()

	names := make([]string, len(zr.File))
	for i, f := range zr.File {
		if names[i], err = w.entryName(f); err != nil {
			return err
		}
		if !isSafePath(names[i]) {
			return fmt.Errorf("bundle entry %q: unsafe path", names[i])
		}
	}

	for i, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if f.FileInfo().IsDir() || (w.Match != nil && !w.Match(names[i])) {
			continue
		}
		if err := visit(f, names[i], walkFn); err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) entryName(f *zip.File) (string, error) {
	if w.Names == nil || !f.NonUTF8 {
		return f.Name, nil
	}
	name, err := w.Names.NewDecoder().String(f.Name)
	if err != nil {
		return "", fmt.Errorf("unable to decode bundle entry name %q: %w", f.Name, err)
	}
	return name, nil
}

func visit(f *zip.File, name string, walkFn WalkFunc) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("unable to open bundle entry %q: %w", name, err)
	}
	defer rc.Close()
	return walkFn(name, rc)
}

// isSafePath reports whether entry name stays inside bundle root.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(strings.ReplaceAll(name, `\`, "/"), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
