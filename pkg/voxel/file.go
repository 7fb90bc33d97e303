package voxel

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Persister saves and loads whole worlds. A save is a single bulk write and a
// load is a single bulk read; implementations never expose partial state.
type Persister interface {
	SaveWorld(ctx context.Context, w *World) error
	LoadWorld(ctx context.Context) (*World, error)
}

// FileStore persists a world as an indented JSON file.
type FileStore struct {
	Path string
}

// NewFileStore returns a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// SaveWorld writes the world atomically: it writes a temporary file in the
// same directory and renames it over Path.
func (f *FileStore) SaveWorld(ctx context.Context, w *World) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := EncodeWorld(w, true)
	if err != nil {
		return fmt.Errorf("failed to encode world: %w", err)
	}

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".pinch-world-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write world file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close world file: %w", err)
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		return fmt.Errorf("failed to move world file into place: %w", err)
	}

	return nil
}

// LoadWorld reads and decodes the world at Path.
// Returns an error wrapping ErrWorldNotFound if the file does not exist.
func (f *FileStore) LoadWorld(ctx context.Context) (*World, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrWorldNotFound, f.Path)
		}
		return nil, fmt.Errorf("failed to read world file: %w", err)
	}

	w, err := DecodeWorld(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", f.Path, err)
	}
	return w, nil
}
