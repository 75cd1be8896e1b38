package checkpoint

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newRedisTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStoreWithClient(client, "harvester:checkpoint", zap.NewNop()), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisTestStore(t)

	index, err := store.Load(ctx)
	if err != nil || index != 0 {
		t.Fatalf("Load() on missing key = (%d, %v), want (0, nil)", index, err)
	}

	if err := store.Save(ctx, 42); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	index, err = store.Load(ctx)
	if err != nil || index != 42 {
		t.Fatalf("Load() = (%d, %v), want (42, nil)", index, err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if mr.Exists("harvester:checkpoint") {
		t.Fatal("expected checkpoint key to be deleted")
	}
}

func TestRedisStoreCorruptLoadsZero(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisTestStore(t)
	if err := mr.Set("harvester:checkpoint", "garbage"); err != nil {
		t.Fatal(err)
	}

	index, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if index != 0 {
		t.Fatalf("Load() = %d, want 0 for corrupt value", index)
	}
}
