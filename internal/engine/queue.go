package engine

import "context"

// blockQueue is the bounded FIFO carrying filled blocks from the
// reader to the hasher pool, in file order. Capacity equals pool_size:
// by invariant I1 it will not actually fill up when the pool is sized
// correctly, but push still respects ctx so a cancelled run never
// wedges the reader against a full channel.
//
// The reader is the queue's sole owner: it is the only goroutine that
// calls close, and it always does so exactly once (via defer) whether
// its run finishes normally or is aborted. That single-owner discipline
// is why close needs no guard against a second call, which would panic.
type blockQueue struct {
	ch chan blockItem
}

func newBlockQueue(capacity int) *blockQueue {
	return &blockQueue{ch: make(chan blockItem, capacity)}
}

// push enqueues b, blocking if the queue is full or until ctx is
// cancelled, whichever happens first.
func (q *blockQueue) push(ctx context.Context, b blockItem) error {
	select {
	case q.ch <- b:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pop blocks until a block is available or the queue has been closed
// and drained, in which case ok is false.
func (q *blockQueue) pop() (blockItem, bool) {
	b, ok := <-q.ch
	return b, ok
}

// close signals that no further pushes will happen. Must be called
// exactly once, by the reader.
func (q *blockQueue) close() {
	close(q.ch)
}
