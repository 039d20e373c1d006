package storage

import (
	"context"
	"sync"

	"github.com/yannesss/finreport/internal/core"
)

// MemoryRepository keeps the collection in process memory only. It backs
// tests and the throwaway demo mode.
type MemoryRepository struct {
	mu    sync.Mutex
	items []core.Transaction
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository(seed ...core.Transaction) *MemoryRepository {
	r := &MemoryRepository{}
	r.items = append(r.items, seed...)
	return r
}

func (r *MemoryRepository) Load(_ context.Context) ([]core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.Transaction, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *MemoryRepository) Save(_ context.Context, list []core.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make([]core.Transaction, len(list))
	copy(r.items, list)
	return nil
}
