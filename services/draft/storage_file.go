package draft

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStorage keeps the document in a single JSON file. Writes go to a
// temporary file first and are renamed into place.
type FileStorage struct {
	Path string
}

func NewFileStorage(dir, name string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create draft dir: %w", err)
	}
	return &FileStorage{Path: filepath.Join(dir, name)}, nil
}

func (f *FileStorage) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft file: %w", err)
	}
	return data, nil
}

func (f *FileStorage) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), ".draft-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp draft file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write draft file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close draft file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod draft file: %w", err)
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace draft file: %w", err)
	}
	return nil
}
