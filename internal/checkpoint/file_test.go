package checkpoint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestFileStoreAbsentLoadsZero(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "checkpoint.txt"), zap.NewNop())
	index, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if index != 0 {
		t.Fatalf("Load() = %d, want 0", index)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "checkpoint.txt")
	store := NewFileStore(path, zap.NewNop())

	if err := store.Save(ctx, 17); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	index, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if index != 17 {
		t.Fatalf("Load() = %d, want 17", index)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected checkpoint file to be removed")
	}
	// Clearing again is not an error.
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear() error = %v", err)
	}
}

func TestFileStoreCorruptLoadsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.txt")
	if err := os.WriteFile(path, []byte("not a number"), 0o600); err != nil {
		t.Fatal(err)
	}
	store := NewFileStore(path, zap.NewNop())
	index, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if index != 0 {
		t.Fatalf("Load() = %d, want 0 for corrupt checkpoint", index)
	}
}
