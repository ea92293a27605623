package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func openReport(t *testing.T) (*Report, string) {
	t.Helper()
	name := filepath.Join(t.TempDir(), "report.zip")
	r, err := (&ReporterConfig{Destination: name}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	return r, name
}

func readArchive(t *testing.T, name string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()

	files := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("unable to read %s: %v", f.Name, err)
		}
		files[f.Name] = string(data)
	}
	return files
}

func writeSource(t *testing.T, content string) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "cards.yaml")
	if err := os.WriteFile(src, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}
	return src
}

func TestReport_Archive(t *testing.T) {
	r, name := openReport(t)
	if r.Name() != name {
		t.Errorf("Name() = %q, want %q", r.Name(), name)
	}

	src := writeSource(t, "selectors: []\n")
	r.StoreData("config/config.yaml", []byte("version: 1\n"))
	r.Store("final.log", src)
	if err := r.StoreCopy("sources/cards.yaml", src); err != nil {
		t.Fatalf("StoreCopy() error = %v", err)
	}
	r.Store("missing.log", filepath.Join(t.TempDir(), "never-written.log"))

	// stored files are read on close, copies keep content at the time of call
	if err := os.WriteFile(src, []byte("selectors: [changed]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := r.StoreCopy("sources/cards.yaml", src); err != nil {
		t.Fatalf("StoreCopy() error = %v", err)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	files := readArchive(t, name)
	want := map[string]string{
		"config/config.yaml":   "version: 1\n",
		"final.log":            "selectors: [changed]\n",
		"sources/cards.yaml":   "selectors: []\n",
		"sources/cards.yaml.1": "selectors: [changed]\n",
	}
	for entry, content := range want {
		if files[entry] != content {
			t.Errorf("entry %s = %q, want %q", entry, files[entry], content)
		}
	}
	if _, ok := files["missing.log"]; ok {
		t.Error("absent file must be skipped")
	}

	manifest := strings.Split(strings.TrimSpace(files["MANIFEST"]), "\n")
	if len(manifest) != 5 {
		t.Fatalf("MANIFEST has %d lines, want 5:\n%s", len(manifest), files["MANIFEST"])
	}
	for i, entry := range []string{"config/config.yaml", "final.log", "missing.log", "sources/cards.yaml", "sources/cards.yaml.1"} {
		if fields := strings.Split(manifest[i], "\t"); len(fields) != 3 || fields[1] != entry {
			t.Errorf("MANIFEST line %d = %q, want entry %s", i, manifest[i], entry)
		}
	}
	if !strings.HasSuffix(manifest[0], "(11 bytes)") {
		t.Errorf("MANIFEST data line = %q", manifest[0])
	}
}

func TestReport_StoreCopyErrors(t *testing.T) {
	r, _ := openReport(t)
	defer r.Close()

	if err := r.StoreCopy("x", filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
	if err := r.StoreCopy("x", t.TempDir()); err == nil {
		t.Error("expected error for directory")
	}
	if len(r.entries) != 0 {
		t.Errorf("failed copies must not be registered: %v", r.entries)
	}
}

func TestReport_Conflicts(t *testing.T) {
	tests := []struct {
		name string
		fn   func(r *Report)
	}{
		{"data twice", func(r *Report) {
			r.StoreData("a", []byte("1"))
			r.StoreData("a", []byte("2"))
		}},
		{"different files", func(r *Report) {
			r.Store("a", "/tmp/one.log")
			r.Store("a", "/tmp/two.log")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := openReport(t)
			defer r.Close()
			defer func() {
				if recover() == nil {
					t.Error("expected panic on overwrite")
				}
			}()
			tt.fn(r)
		})
	}

	// the same file could be registered again
	r, _ := openReport(t)
	defer r.Close()
	r.Store("log", "/tmp/one.log")
	r.Store("log", "/tmp/one.log")
}

func TestReport_Nil(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	r.Store("x", "y")
	r.StoreData("x", nil)
	if err := r.StoreCopy("x", "y"); err != nil {
		t.Errorf("StoreCopy on nil report should not error, got: %v", err)
	}
	if r.Name() != "" {
		t.Errorf("Name() on nil report = %q", r.Name())
	}
	if err := (&Report{}).Close(); err != nil {
		t.Errorf("Close without file should not error, got: %v", err)
	}
}

func TestReporterConfig_PrepareFallback(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "no-such-dir", "report.zip")
	r, err := (&ReporterConfig{Destination: dest}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	defer os.Remove(r.Name())
	defer r.Close()

	if r.Name() == dest || !strings.Contains(filepath.Base(r.Name()), "-report.") {
		t.Errorf("Name() = %q, want temporary report", r.Name())
	}
}
