package batch

import (
	"context"
	"testing"
	"time"
)

func TestPermitsForRoundsUp(t *testing.T) {
	cases := []struct {
		size int64
		want int64
	}{
		{0, 1},
		{1, 1},
		{PermitUnitBytes / MemoryMultiplier, 1},
		{PermitUnitBytes, MemoryMultiplier},
		{PermitUnitBytes*2 + 1, MemoryMultiplier*2 + 1},
	}
	for _, c := range cases {
		if got := permitsFor(c.size); got != c.want {
			t.Errorf("permitsFor(%d) = %d, want %d", c.size, got, c.want)
		}
	}
}

func TestReserveRejectsNegativeSize(t *testing.T) {
	mgr := NewMemoryReservationManager(10 * PermitUnitBytes)
	_, err := mgr.Reserve(context.Background(), -1)
	if err == nil {
		t.Fatal("want an error for a negative file size")
	}
}

func TestReserveZeroSizeGetsOnePermit(t *testing.T) {
	mgr := NewMemoryReservationManager(10 * PermitUnitBytes)
	r, err := mgr.Reserve(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Close()
	if r.permits != 1 {
		t.Errorf("want 1 permit for a zero-size reservation, got %d", r.permits)
	}
}

func TestReservationCloseIsIdempotent(t *testing.T) {
	mgr := NewMemoryReservationManager(1 * PermitUnitBytes)
	r, err := mgr.Reserve(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r.Close()
	r.Close() // must not panic or double-release

	// All permits should be available again; a second full reservation
	// must succeed without blocking.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	r2, err := mgr.Reserve(ctx, PermitUnitBytes/MemoryMultiplier)
	if err != nil {
		t.Fatalf("unexpected error reserving after idempotent close: %v", err)
	}
	r2.Close()
}

func TestReserveBlocksUntilPermitsFree(t *testing.T) {
	mgr := NewMemoryReservationManager(PermitUnitBytes) // exactly 1 permit total
	first, err := mgr.Reserve(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := mgr.Reserve(ctx, 0); err == nil {
		t.Fatal("want the second reservation to block until the context times out")
	}

	first.Close()
	r3, err := mgr.Reserve(context.Background(), 0)
	if err != nil {
		t.Fatalf("want reservation to succeed once the first is released: %v", err)
	}
	r3.Close()
}

func TestReserveCancellation(t *testing.T) {
	mgr := NewMemoryReservationManager(PermitUnitBytes)
	held, err := mgr.Reserve(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer held.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := mgr.Reserve(ctx, 0); err == nil {
		t.Fatal("want an already-cancelled context to fail the acquire immediately")
	}
}
