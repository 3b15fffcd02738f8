package engine

import (
	"context"
	"fmt"
	"io"

	apperrors "github.com/dmitriy-dronov-550503/signature/internal/errors"
)

// runReader sequentially fills blockCount buffers from input and
// enqueues them in file order. It is the queue's sole owner: it closes
// the queue exactly once, via defer, whether it finishes normally or
// is aborted partway through.
func (e *Engine) runReader(ctx context.Context) {
	defer e.queue.close()

	for i := uint64(0); i < e.blockCount; i++ {
		buf, err := e.pool.Acquire(ctx)
		if err != nil {
			// Context was cancelled by an abort recorded elsewhere in
			// the pipeline; nothing more to do here.
			return
		}

		n, err := io.ReadFull(e.input, buf)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			e.abort(fmt.Errorf("read block %d: %w: %w", i, err, apperrors.ErrIO))
			e.pool.Release(buf)
			return
		}
		for j := n; j < len(buf); j++ {
			buf[j] = 0
		}

		if err := e.queue.push(ctx, blockItem{index: i, buf: buf}); err != nil {
			e.pool.Release(buf)
			return
		}
	}
}
