package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"cssb/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare opens report archive at configured destination, falling back to
// temporary file.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{file: f, entries: make(map[string]entry)}, nil
}

// entry is either a snapshot of data or a file read when report is closed.
type entry struct {
	path  string
	data  []byte
	stamp time.Time
}

// Report collects troubleshooting material: configuration, sources and logs.
// Everything is written to zip archive on Close. All methods are no-op on nil
// report, so callers do not have to check whether report was requested.
// Report is not safe for concurrent use.
type Report struct {
	file    *os.File
	entries map[string]entry
}

// Name returns absolute name of report archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store registers file to be read when report is closed, so it gets final
// content (logs). Registering different files under the same name panics.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if old, exists := r.entries[name]; exists && old.path != path {
		panic(fmt.Sprintf("report entry %q already points to %s, not %s", name, old.path, path))
	}
	r.entries[name] = entry{path: path}
}

// StoreData puts data into report under name. Names must be unique.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	if _, exists := r.entries[name]; exists {
		panic(fmt.Sprintf("report entry %q already exists", name))
	}
	r.entries[name] = entry{data: data, stamp: time.Now()}
}

// StoreCopy reads file now and puts its content into report. Name collisions
// are resolved by adding numeric suffix, so the same source processed several
// times is kept in every state.
func (r *Report) StoreCopy(name, path string) error {
	if r == nil {
		return nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("report could only keep regular files: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	unique := name
	for i := 1; ; i++ {
		if _, exists := r.entries[unique]; !exists {
			break
		}
		unique = fmt.Sprintf("%s.%d", name, i)
	}
	r.entries[unique] = entry{data: data, stamp: fi.ModTime()}
	return nil
}

// Close writes report archive.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	defer r.file.Close()

	arc := zip.NewWriter(r.file)
	if err := r.write(arc); err != nil {
		arc.Close()
		return err
	}
	return arc.Close()
}

// write puts MANIFEST and all entries in name order into archive. Files
// which disappeared before report was closed are listed but skipped.
func (r *Report) write(arc *zip.Writer) error {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)

	now := time.Now()
	var manifest strings.Builder
	for _, name := range names {
		e := r.entries[name]
		source := e.path
		if source == "" {
			source = fmt.Sprintf("(%d bytes)", len(e.data))
		}
		stamp := e.stamp
		if stamp.IsZero() {
			stamp = now
		}
		fmt.Fprintf(&manifest, "%s\t%s\t%s\n", stamp.UTC().Format(time.RFC3339), name, source)
	}
	if err := addFile(arc, "MANIFEST", now, strings.NewReader(manifest.String())); err != nil {
		return err
	}

	for _, name := range names {
		e := r.entries[name]
		if e.path == "" {
			if err := addFile(arc, name, e.stamp, bytes.NewReader(e.data)); err != nil {
				return err
			}
			continue
		}
		if err := addPath(arc, name, e.path); err != nil {
			return err
		}
	}
	return nil
}

func addPath(arc *zip.Writer, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}
	return addFile(arc, name, fi.ModTime(), f)
}

func addFile(arc *zip.Writer, name string, t time.Time, src io.Reader) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
