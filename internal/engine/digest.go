package engine

import (
	"sync"
	"sync/atomic"

	"github.com/dmitriy-dronov-550503/signature/internal/hash"
)

// digestSlot is a write-once, single-writer/single-reader handoff
// between the hasher that owns block index i and the writer. ready is
// an atomic flag so the hasher's write of bytes happens-before the
// writer's observation of ready == true (release/acquire), with no
// mutex needed on the hot path.
type digestSlot struct {
	ready atomic.Bool
	bytes [hash.Size]byte
}

// digestRing is the OutputRing: a flat, pre-sized array of digest
// slots indexed by block number. Using direct indexing instead of a
// priority-queue reorder buffer means the writer does a simple linear
// scan with no per-completion reordering cost.
type digestRing struct {
	slots []digestSlot

	mu   sync.Mutex
	cond *sync.Cond
}

func newDigestRing(blockCount uint64) *digestRing {
	r := &digestRing{slots: make([]digestSlot, blockCount)}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// set publishes the digest for index, waking any goroutine waiting on
// waitReady.
func (r *digestRing) set(index uint64, digest []byte) {
	slot := &r.slots[index]
	copy(slot.bytes[:], digest)
	slot.ready.Store(true)

	r.mu.Lock()
	r.cond.Broadcast()
	r.mu.Unlock()
}

// get returns the digest bytes for index. Callers must only call this
// after waitReady(index, ...) has returned true.
func (r *digestRing) get(index uint64) []byte {
	return r.slots[index].bytes[:]
}

// waitReady blocks until slot index is ready or latch records a
// failure, whichever happens first. It returns false if the run
// failed before the slot became ready.
func (r *digestRing) waitReady(index uint64, latch *failureLatch) bool {
	slot := &r.slots[index]
	if slot.ready.Load() {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for !slot.ready.Load() {
		if latch.Err() != nil {
			return false
		}
		r.cond.Wait()
	}
	return latch.Err() == nil
}

// broadcastAll wakes every goroutine blocked in waitReady, used when a
// failure is recorded so the writer doesn't wait forever for a slot
// that will never be filled.
func (r *digestRing) broadcastAll() {
	r.mu.Lock()
	r.cond.Broadcast()
	r.mu.Unlock()
}
