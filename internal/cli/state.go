package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"scheduler/internal/models"
	"scheduler/internal/transfer"
)

// fileState keeps the snapshot in a JSON backup file.
type fileState struct {
	path string
}

func (f *fileState) Load(_ context.Context) (models.Snapshot, error) {
	file, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.NewSnapshot(), nil
	}
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("open %s: %w", f.path, err)
	}
	defer file.Close()
	return transfer.DecodeSnapshot(file)
}

// Save writes to a temporary file next to the target and renames it over.
func (f *fileState) Save(_ context.Context, snap models.Snapshot) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("save %s: %w", f.path, err)
	}
	defer os.Remove(tmp.Name())

	if err := transfer.EncodeSnapshot(tmp, snap); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", f.path, err)
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *fileState) Close() error { return nil }
