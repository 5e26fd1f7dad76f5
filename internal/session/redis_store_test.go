package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, NewRedisStore(rdb)
}

func TestRedisStore_SaveAndGet(t *testing.T) {
	t.Parallel()

	mr, store := newRedisStore(t)
	ctx := context.Background()

	sess := &Session{
		Token:     "tok-1",
		Username:  "admin",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	if !mr.Exists("session:tok-1") {
		t.Fatal("expected session key to exist")
	}
	if ttl := mr.TTL("session:tok-1"); ttl <= 0 {
		t.Fatalf("expected TTL to be set, got %v", ttl)
	}

	raw, err := mr.Get("session:tok-1")
	if err != nil {
		t.Fatalf("failed to read key: %v", err)
	}
	var stored Session
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("failed to unmarshal stored session: %v", err)
	}
	if stored.Username != "admin" {
		t.Errorf("expected username admin, got %q", stored.Username)
	}

	got, err := store.Get(ctx, "tok-1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got == nil || got.Username != "admin" {
		t.Fatalf("expected session back, got %+v", got)
	}
}

func TestRedisStore_GetUnknownToken(t *testing.T) {
	t.Parallel()

	_, store := newRedisStore(t)

	got, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unknown token, got %+v", got)
	}
}

func TestRedisStore_ExpiryViaTTL(t *testing.T) {
	t.Parallel()

	mr, store := newRedisStore(t)
	ctx := context.Background()

	sess := &Session{
		Token:     "tok-2",
		Username:  "admin",
		ExpiresAt: time.Now().UTC().Add(time.Second),
	}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	mr.FastForward(2 * time.Second)

	got, err := store.Get(ctx, "tok-2")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected expired session to be gone, got %+v", got)
	}
}

func TestRedisStore_Delete(t *testing.T) {
	t.Parallel()

	mr, store := newRedisStore(t)
	ctx := context.Background()

	sess := &Session{Token: "tok-3", Username: "admin", ExpiresAt: time.Now().UTC().Add(time.Hour)}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := store.Delete(ctx, "tok-3"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if mr.Exists("session:tok-3") {
		t.Fatal("expected key deleted")
	}
}

func TestRedisStore_SaveAlreadyExpired(t *testing.T) {
	t.Parallel()

	mr, store := newRedisStore(t)
	ctx := context.Background()

	sess := &Session{Token: "tok-4", Username: "admin", ExpiresAt: time.Now().UTC().Add(-time.Minute)}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if mr.Exists("session:tok-4") {
		t.Fatal("expected already-expired session not to be stored")
	}
}
