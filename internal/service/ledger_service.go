package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/yannesss/finreport/internal/amqp"
	"github.com/yannesss/finreport/internal/core"
	"github.com/yannesss/finreport/internal/ledger"
	"github.com/yannesss/finreport/internal/storage"
)

// ErrNotFound is returned when a transaction ID does not exist.
var ErrNotFound = errors.New("transaction not found")

// LedgerService holds the authoritative transaction collection in memory and
// keeps the repository in sync on every mutation. Reads work on immutable
// snapshots, so aggregation never observes a half-applied change.
type LedgerService struct {
	mu           sync.RWMutex
	transactions []core.Transaction
	revision     uint64

	repo       storage.Repository
	amqpClient *amqp.Client
	threshold  int
}

// NewLedgerService loads the stored collection and returns a ready service.
// amqpClient may be nil; events are then skipped.
func NewLedgerService(ctx context.Context, repo storage.Repository, amqpClient *amqp.Client, breakdownThreshold int) (*LedgerService, error) {
	list, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	return &LedgerService{
		transactions: list,
		repo:         repo,
		amqpClient:   amqpClient,
		threshold:    breakdownThreshold,
	}, nil
}

// Snapshot returns a copy of the full collection in insertion order.
func (s *LedgerService) Snapshot() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Revision increases on every successful mutation. Views computed at the same
// revision and parameters are identical, which makes it a safe cache key.
func (s *LedgerService) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// View runs the aggregation pass over the current snapshot. othersLabel
// localizes the chart long-tail bucket for the requesting session.
func (s *LedgerService) View(p ledger.FilterParams, othersLabel string) ledger.View {
	return ledger.BuildView(s.Snapshot(), p, s.threshold, othersLabel)
}

// Add validates and records a new transaction, assigning its ID. The newest
// record is placed at the front so unsorted listings read newest first.
func (s *LedgerService) Add(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	tx.ID = uuid.NewString()

	s.mu.Lock()
	next := make([]core.Transaction, 0, len(s.transactions)+1)
	next = append(next, tx)
	next = append(next, s.transactions...)
	if err := s.repo.Save(ctx, next); err != nil {
		s.mu.Unlock()
		return core.Transaction{}, fmt.Errorf("save transactions: %w", err)
	}
	s.transactions = next
	s.revision++
	s.mu.Unlock()

	s.publishEvent(ctx, amqp.NewCreatedEvent(tx.ID))
	return tx, nil
}

// Delete removes the transaction with the given ID.
func (s *LedgerService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := -1
	for i, tx := range s.transactions {
		if tx.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}

	next := make([]core.Transaction, 0, len(s.transactions)-1)
	next = append(next, s.transactions[:idx]...)
	next = append(next, s.transactions[idx+1:]...)
	if err := s.repo.Save(ctx, next); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save transactions: %w", err)
	}
	s.transactions = next
	s.revision++
	s.mu.Unlock()

	s.publishEvent(ctx, amqp.NewDeletedEvent(id))
	return nil
}

// ReplaceAll swaps the entire collection, as an import does. An empty list is
// a valid "clear everything".
func (s *LedgerService) ReplaceAll(ctx context.Context, list []core.Transaction) error {
	next := make([]core.Transaction, len(list))
	copy(next, list)

	s.mu.Lock()
	if err := s.repo.Save(ctx, next); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save transactions: %w", err)
	}
	s.transactions = next
	s.revision++
	s.mu.Unlock()

	s.publishEvent(ctx, amqp.NewReplacedEvent(len(next)))
	return nil
}

func (s *LedgerService) publishEvent(ctx context.Context, event *amqp.TransactionEvent) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishEvent(ctx, event); err != nil {
		// Don't fail the mutation - the local write already succeeded
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"event", event.Event, "id", event.ID, "error", err)
	}
}
