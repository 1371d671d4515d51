package engine_test

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/spf13/afero"
)

// faultyFs injects failures into selected paths of an otherwise working filesystem.
type faultyFs struct {
	afero.Fs

	failOpen   map[string]bool
	failRemove map[string]bool
}

func newFaultyFs(base afero.Fs) *faultyFs {
	return &faultyFs{Fs: base, failOpen: map[string]bool{}, failRemove: map[string]bool{}}
}

func (f *faultyFs) Open(name string) (afero.File, error) {
	if f.failOpen[filepath.Clean(name)] {
		return nil, &os.PathError{Op: "open", Path: name, Err: errors.New("injected open failure")}
	}

	return f.Fs.Open(name)
}

func (f *faultyFs) Remove(name string) error {
	if f.failRemove[filepath.Clean(name)] {
		return &os.PathError{Op: "remove", Path: name, Err: errors.New("injected remove failure")}
	}

	return f.Fs.Remove(name)
}

func writeTree(t *testing.T, fsys afero.Fs, files map[string]string) {
	t.Helper()

	for path, content := range files {
		if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %q: %v", filepath.Dir(path), err)
		}

		if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %q: %v", path, err)
		}
	}
}

func readFile(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		t.Fatalf("reading %q: %v", path, err)
	}

	return string(data)
}

func exists(t *testing.T, fsys afero.Fs, path string) bool {
	t.Helper()

	ok, err := afero.Exists(fsys, path)
	if err != nil {
		t.Fatalf("stat %q: %v", path, err)
	}

	return ok
}

// listFiles returns every non-directory path below root, sorted.
func listFiles(t *testing.T, fsys afero.Fs, root string) []string {
	t.Helper()

	var files []string

	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		t.Fatalf("walking %q: %v", root, err)
	}

	sort.Strings(files)

	return files
}
