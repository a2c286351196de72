package database

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rpupo63/portfolio-content-backend/errs"
)

// jsonFile owns one collection's backing file: a single JSON array rewritten in full on every
// mutation. All access goes through mu, so read-modify-write cycles on the same file never
// interleave.
type jsonFile[T any] struct {
	mu   sync.Mutex
	path string
	name string
}

func newJSONFile[T any](path, name string) *jsonFile[T] {
	return &jsonFile[T]{path: path, name: name}
}

// read returns the whole array, initializing a missing file to []. Caller must hold mu.
func (f *jsonFile[T]) read() ([]T, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := f.write([]T{}); err != nil {
			return nil, err
		}
		return []T{}, nil
	}
	if err != nil {
		return nil, errs.NewStorageUnavailableError("read", f.name, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errs.NewStorageUnavailableError("decode", f.name, err)
	}
	if items == nil {
		// "null" in the file
		items = []T{}
	}
	return items, nil
}

// write replaces the file atomically via a temp file in the same directory. Caller must hold mu.
func (f *jsonFile[T]) write(items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return errs.NewStorageUnavailableError("encode", f.name, err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return errs.NewStorageUnavailableError("write", f.name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errs.NewStorageUnavailableError("write", f.name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errs.NewStorageUnavailableError("sync", f.name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errs.NewStorageUnavailableError("write", f.name, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return errs.NewStorageUnavailableError("replace", f.name, err)
	}
	return nil
}

// load reads the collection under the lock
func (f *jsonFile[T]) load() ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

// mutate runs fn over the current array and persists whatever it returns. If fn fails,
// nothing is written.
func (f *jsonFile[T]) mutate(fn func(items []T) ([]T, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		return err
	}
	updated, err := fn(items)
	if err != nil {
		return err
	}
	return f.write(updated)
}
