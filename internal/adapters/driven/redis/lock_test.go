package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return client
}

func TestLock_AcquireRelease(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	lock1 := NewLock(client)
	lock2 := NewLock(client)

	if lock1.OwnerID() == lock2.OwnerID() {
		t.Fatalf("owner IDs collide: %s", lock1.OwnerID())
	}

	acquired, err := lock1.Acquire(ctx, "sync:users:export_entity", 10*time.Second)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if !acquired {
		t.Fatal("Acquire() = false on a free lock")
	}

	// Another instance is refused while held.
	acquired, err = lock2.Acquire(ctx, "sync:users:export_entity", 10*time.Second)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if acquired {
		t.Error("Acquire() = true while the lock is held elsewhere")
	}

	// The lock is not reentrant even for its own owner.
	acquired, err = lock1.Acquire(ctx, "sync:users:export_entity", 10*time.Second)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if acquired {
		t.Error("Acquire() = true on reentrant acquire")
	}

	if err := lock1.Release(ctx, "sync:users:export_entity"); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	acquired, err = lock2.Acquire(ctx, "sync:users:export_entity", 10*time.Second)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if !acquired {
		t.Error("Acquire() = false after release")
	}
}

func TestLock_ReleaseIsOwnerScoped(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	lock1 := NewLock(client)
	lock2 := NewLock(client)

	if _, err := lock1.Acquire(ctx, "guarded", 10*time.Second); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	// A foreign release is a silent no-op; the lock stays held.
	if err := lock2.Release(ctx, "guarded"); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	acquired, err := lock2.Acquire(ctx, "guarded", 10*time.Second)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if acquired {
		t.Error("foreign release freed the lock")
	}
}

func TestLock_ReleaseUnheld(t *testing.T) {
	client := setupTestRedis(t)

	lock := NewLock(client)
	if err := lock.Release(context.Background(), "never-acquired"); err != nil {
		t.Errorf("Release() on unheld lock error = %v", err)
	}
}

func TestLock_Extend(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	lock1 := NewLock(client)
	lock2 := NewLock(client)

	if _, err := lock1.Acquire(ctx, "extended", time.Second); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if err := lock1.Extend(ctx, "extended", 10*time.Second); err != nil {
		t.Errorf("Extend() by owner error = %v", err)
	}
	if err := lock2.Extend(ctx, "extended", 10*time.Second); err == nil {
		t.Error("Extend() by a different owner did not fail")
	}
	if err := lock1.Extend(ctx, "never-acquired", 10*time.Second); err == nil {
		t.Error("Extend() on an unheld lock did not fail")
	}
}

func TestLock_IndependentNames(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	lock := NewLock(client)

	for _, name := range []string{"sync:users:import_list", "sync:users:import_entity"} {
		acquired, err := lock.Acquire(ctx, name, 10*time.Second)
		if err != nil {
			t.Fatalf("Acquire(%s) error = %v", name, err)
		}
		if !acquired {
			t.Errorf("Acquire(%s) = false, names must lock independently", name)
		}
	}
}

func TestLock_Ping(t *testing.T) {
	client := setupTestRedis(t)

	lock := NewLock(client)
	if err := lock.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
