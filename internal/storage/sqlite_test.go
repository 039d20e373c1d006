package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSQLiteRepositoryRoundTrip(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "finreport.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	defer repo.Close()

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

	// Save is a full replacement, not a merge.
	if err := repo.Save(ctx, want[:1]); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "t1" {
		t.Errorf("Load() after replace = %+v, want only t1", got)
	}
}

func TestSQLiteRepositoryEmpty(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	defer repo.Close()

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Load() = %v, want empty", got)
	}
}
