// Package bufpool provides the bounded, blocking buffer pool that caps
// the signature engine's peak memory irrespective of input size.
//
// Unlike a general-purpose tiered pool (sync.Pool-backed, unbounded,
// non-blocking) this pool holds exactly pool_size fixed-capacity
// buffers and blocks Acquire until one is free. That block is the
// engine's sole back-pressure point: the reader cannot outrun the
// pipeline because it must acquire a buffer per block, so memory stays
// bounded at pool_size * block_size no matter how large the input is.
package bufpool

import (
	"context"
	"fmt"
	"sync"
	"unsafe"
)

// Pool is a bounded set of reusable fixed-capacity byte buffers.
// All operations are safe for concurrent use.
type Pool struct {
	free      chan []byte
	blockSize int
	size      int

	mu         sync.Mutex
	known      map[uintptr]bool // base address of every buffer this pool ever issued
	checkedOut map[uintptr]bool // base address -> currently held by a caller
}

// New pre-allocates size buffers of blockSize bytes each and returns a
// pool ready for Acquire/Release. size and blockSize must both be > 0.
func New(size, blockSize int) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("bufpool: size must be > 0, got %d", size)
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("bufpool: blockSize must be > 0, got %d", blockSize)
	}

	p := &Pool{
		free:       make(chan []byte, size),
		blockSize:  blockSize,
		size:       size,
		known:      make(map[uintptr]bool, size),
		checkedOut: make(map[uintptr]bool, size),
	}

	for i := 0; i < size; i++ {
		buf := make([]byte, blockSize)
		p.known[baseAddr(buf)] = true
		p.free <- buf
	}

	return p, nil
}

// Size returns the number of buffers this pool was constructed with
// (pool_size in the spec's terms).
func (p *Pool) Size() int { return p.size }

// BlockSize returns the fixed capacity of every buffer in the pool.
func (p *Pool) BlockSize() int { return p.blockSize }

// Acquire blocks until a buffer is available or ctx is cancelled.
// FIFO fairness among waiters is not guaranteed.
func (p *Pool) Acquire(ctx context.Context) ([]byte, error) {
	select {
	case buf := <-p.free:
		p.mu.Lock()
		p.checkedOut[baseAddr(buf)] = true
		p.mu.Unlock()
		return buf, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a buffer to the pool for reuse. It is non-blocking
// and wakes at most one waiter.
//
// Release panics if buf was not obtained from this pool's Acquire, or
// if it is released more than once without an intervening Acquire —
// both are bugs in the caller, not recoverable runtime conditions, so
// they surface as an Internal-class invariant violation rather than
// being silently ignored.
func (p *Pool) Release(buf []byte) {
	addr := baseAddr(buf)

	p.mu.Lock()
	if !p.known[addr] {
		p.mu.Unlock()
		panic("bufpool: Release called with a buffer this pool did not allocate")
	}
	if !p.checkedOut[addr] {
		p.mu.Unlock()
		panic("bufpool: Release called twice for the same buffer")
	}
	delete(p.checkedOut, addr)
	p.mu.Unlock()

	p.free <- buf
}

// baseAddr identifies a buffer by the address of its backing array,
// which is stable across re-slicing (buf[:n]) and is how Release
// recognizes a buffer regardless of the length a caller has re-sliced
// it to.
func baseAddr(buf []byte) uintptr {
	if cap(buf) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&buf[:1][0]))
}
