package services

import (
	"context"
	"testing"
	"time"
)

func TestSchedulerLocker_TryAcquire(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	first := &SchedulerLocker{db: db, owner: "node-a"}
	second := &SchedulerLocker{db: db, owner: "node-b"}

	ok, err := first.TryAcquire(ctx, "cleanup", "2025-06-01", time.Hour)
	if err != nil || !ok {
		t.Fatalf("first TryAcquire() = %v, %v; expected true", ok, err)
	}

	ok, err = second.TryAcquire(ctx, "cleanup", "2025-06-01", time.Hour)
	if err != nil {
		t.Fatalf("second TryAcquire() error = %v", err)
	}
	if ok {
		t.Error("second owner acquired a held lock")
	}

	ok, err = second.TryAcquire(ctx, "cleanup", "2025-06-02", time.Hour)
	if err != nil || !ok {
		t.Errorf("different key TryAcquire() = %v, %v; expected true", ok, err)
	}
}

func TestSchedulerLocker_TakesOverExpired(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	first := &SchedulerLocker{db: db, owner: "node-a"}
	second := &SchedulerLocker{db: db, owner: "node-b"}

	if ok, err := first.TryAcquire(ctx, "cleanup", "k", -time.Minute); err != nil || !ok {
		t.Fatalf("TryAcquire() = %v, %v", ok, err)
	}
	ok, err := second.TryAcquire(ctx, "cleanup", "k", time.Hour)
	if err != nil || !ok {
		t.Fatalf("takeover TryAcquire() = %v, %v; expected true", ok, err)
	}

	// node-a no longer owns it, so its release is a no-op
	if err := first.Release(ctx, "cleanup", "k"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := first.TryAcquire(ctx, "cleanup", "k", time.Hour); ok {
		t.Error("lock released by a non-owner")
	}

	if err := second.Release(ctx, "cleanup", "k"); err != nil {
		t.Fatal(err)
	}
	if ok, err := first.TryAcquire(ctx, "cleanup", "k", time.Hour); err != nil || !ok {
		t.Errorf("TryAcquire() after release = %v, %v; expected true", ok, err)
	}
}
