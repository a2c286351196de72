package database

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// DiskBackend keeps media files in a local uploads directory
type DiskBackend struct {
	dir string
}

func NewDiskBackend(dir string) (*DiskBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory %s: %w", dir, err)
	}
	return &DiskBackend{dir: dir}, nil
}

func (b *DiskBackend) Dir() string {
	return b.dir
}

func (b *DiskBackend) path(name string) (string, error) {
	if !validFileName(name) {
		return "", fmt.Errorf("invalid media file name %q: %w", name, fs.ErrInvalid)
	}
	return filepath.Join(b.dir, name), nil
}

func (b *DiskBackend) Put(_ context.Context, name string, r io.Reader) error {
	p, err := b.path(name)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(p)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(p)
		return err
	}
	return nil
}

func (b *DiskBackend) Open(_ context.Context, name string) (io.ReadCloser, error) {
	p, err := b.path(name)
	if err != nil {
		return nil, fs.ErrNotExist
	}
	return os.Open(p)
}

func (b *DiskBackend) Remove(_ context.Context, name string) error {
	p, err := b.path(name)
	if err != nil {
		return err
	}
	return os.Remove(p)
}
