package engine

import (
	"sync"

	"github.com/dmitriy-dronov-550503/signature/internal/hash"
)

// runHasher pops blocks until the queue is closed and drained, hashing
// each one and publishing its digest at the block's index. Workers
// coordinate with nothing but the queue (synchronized) and the buffer
// pool (synchronized); the per-index digest slot they write is theirs
// alone, so no hasher-to-hasher coordination is needed.
func (e *Engine) runHasher(wg *sync.WaitGroup) {
	defer wg.Done()

	h, _ := hash.New()
	for {
		b, ok := e.queue.pop()
		if !ok {
			return
		}

		h.Reset()
		_, _ = h.Write(b.buf)
		e.ring.set(b.index, h.Sum())
		e.pool.Release(b.buf)
	}
}
