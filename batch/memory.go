package batch

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// PermitUnitBytes is the size, in bytes, that a single semaphore permit
// represents.
const PermitUnitBytes = 1 << 20 // 1 MiB

// MemoryMultiplier scales a file's on-disk size to an estimate of its
// peak working-set size (source bytes, tokens, arena, rewritten output
// all alive at once).
const MemoryMultiplier = 5

// MemoryReservationManager gates how many files may be processed
// concurrently by weighing each against an estimate of its peak memory
// footprint, grounded on golang.org/x/sync/semaphore.Weighted — the
// ecosystem's answer to a cancellable, context-aware admission-control
// gate that no example repo in the pack hand-rolls.
type MemoryReservationManager struct {
	sem          *semaphore.Weighted
	totalPermits int64
}

// NewMemoryReservationManager sizes the manager to hold heapBytes worth
// of estimated file working sets.
func NewMemoryReservationManager(heapBytes int64) *MemoryReservationManager {
	permits := heapBytes / PermitUnitBytes
	if permits < 1 {
		permits = 1
	}
	return &MemoryReservationManager{
		sem:          semaphore.NewWeighted(permits),
		totalPermits: permits,
	}
}

// TotalPermits returns the manager's fixed capacity.
func (m *MemoryReservationManager) TotalPermits() int64 {
	return m.totalPermits
}

// permitsFor computes ceil(fileSize*MemoryMultiplier/PermitUnitBytes),
// clamped to at least 1.
func permitsFor(fileSize int64) int64 {
	if fileSize <= 0 {
		return 1
	}
	n := fileSize * MemoryMultiplier
	permits := (n + PermitUnitBytes - 1) / PermitUnitBytes
	if permits < 1 {
		permits = 1
	}
	if permits < 0 {
		// overflow guard for pathologically large sizes
		permits = 1
	}
	return permits
}

// Reservation is a held block of permits; Close releases them exactly
// once.
type Reservation struct {
	mgr     *MemoryReservationManager
	permits int64
	closed  atomic.Bool
}

// Reserve blocks until enough permits are available to cover fileSize, or
// ctx is cancelled first. Negative sizes are rejected.
func (m *MemoryReservationManager) Reserve(ctx context.Context, fileSize int64) (*Reservation, error) {
	if fileSize < 0 {
		return nil, fmt.Errorf("batch: negative file size %d", fileSize)
	}
	permits := permitsFor(fileSize)
	if permits > m.totalPermits {
		permits = m.totalPermits
	}
	if err := m.sem.Acquire(ctx, permits); err != nil {
		return nil, fmt.Errorf("batch: acquire memory permits: %w", err)
	}
	return &Reservation{mgr: m, permits: permits}, nil
}

// Close releases the reservation's permits. Safe to call more than once
// or concurrently; only the first call has an effect.
func (r *Reservation) Close() {
	if r.closed.CompareAndSwap(false, true) {
		r.mgr.sem.Release(r.permits)
	}
}
