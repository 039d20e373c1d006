package storage

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/yannesss/finreport/internal/core"
)

func testCollection() []core.Transaction {
	return []core.Transaction{
		{
			ID:          "t1",
			Date:        core.NewDate(2025, 9, 30),
			Category:    "薪金 SALARY",
			Description: "Pinky",
			Expense:     30000,
		},
		{
			ID:          "t2",
			Date:        core.NewDate(2025, 10, 2),
			Category:    "銷售 Sales",
			Description: "Client Project A - Deposit",
			Income:      45000,
		},
	}
}

func TestFileRepositoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "finreport.json")
	repo, err := NewFileRepository(path)
	if err != nil {
		t.Fatalf("NewFileRepository() error = %v", err)
	}

	ctx := context.Background()
	want := testCollection()
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestFileRepositoryMissingFileIsEmptyLedger(t *testing.T) {
	repo, err := NewFileRepository(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("NewFileRepository() error = %v", err)
	}

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Load() = %v, want empty", got)
	}
}

func TestFileRepositoryCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	repo, err := NewFileRepository(path)
	if err != nil {
		t.Fatalf("NewFileRepository() error = %v", err)
	}
	if _, err := repo.Load(context.Background()); err == nil {
		t.Error("Load() should fail on a corrupt file")
	}
}

func TestMemoryRepositoryIsolation(t *testing.T) {
	repo := NewMemoryRepository(testCollection()...)
	ctx := context.Background()

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Mutating the returned slice must not leak into the store.
	got[0].Description = "changed"
	again, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if again[0].Description != "Pinky" {
		t.Error("Load() returned a shared slice")
	}
}
