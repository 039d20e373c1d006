// Package storage persists the transaction collection behind a small
// load/save seam, decoupling the aggregation core from the storage medium.
package storage

import (
	"context"

	"github.com/yannesss/finreport/internal/core"
)

// Repository is the persistence port: the whole collection is loaded at
// startup and saved on every mutation. Implementations must treat Save as
// a full atomic replacement.
type Repository interface {
	Load(ctx context.Context) ([]core.Transaction, error)
	Save(ctx context.Context, list []core.Transaction) error
}
