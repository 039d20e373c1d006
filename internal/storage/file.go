package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/yannesss/finreport/internal/core"
	"github.com/yannesss/finreport/internal/export"
)

// FileRepository stores the collection as a flat JSON array file, the same
// shape as the export/import format, so a backup file and the database are
// interchangeable.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

var _ Repository = (*FileRepository)(nil)

func NewFileRepository(path string) (*FileRepository, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return &FileRepository{path: path}, nil
}

// Load reads the collection. A missing file is an empty ledger, not an
// error.
func (r *FileRepository) Load(_ context.Context) ([]core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return []core.Transaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}

	list, err := export.ImportJSON(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return list, nil
}

// Save replaces the stored collection atomically via a temp file rename, so
// a crash mid-write never leaves a truncated database behind.
func (r *FileRepository) Save(_ context.Context, list []core.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := export.JSON(list)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
