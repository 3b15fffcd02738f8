package engine

import (
	"fmt"

	apperrors "github.com/dmitriy-dronov-550503/signature/internal/errors"
)

// writerState is the Writer's lifecycle as spec.md §4.5 names it:
// Idle -> Running -> Draining -> Done | Failed.
type writerState int32

const (
	writerIdle writerState = iota
	writerRunning
	writerDraining
	writerDone
	writerFailed
)

func (s writerState) String() string {
	switch s {
	case writerIdle:
		return "idle"
	case writerRunning:
		return "running"
	case writerDraining:
		return "draining"
	case writerDone:
		return "done"
	case writerFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State returns the writer's current lifecycle state. Safe to call
// from any goroutine while Generate is running.
func (e *Engine) State() string {
	return writerState(e.writerState.Load()).String()
}

// runWriter drains the digest ring in strict ascending index order and
// appends each digest to the output file, reporting progress after
// each write. It returns the run's terminal error, if any.
func (e *Engine) runWriter() error {
	e.writerState.Store(int32(writerRunning))

	for i := uint64(0); i < e.blockCount; i++ {
		if !e.ring.waitReady(i, e.latch) {
			e.writerState.Store(int32(writerFailed))
			return e.latch.Err()
		}

		if _, err := e.output.Write(e.ring.get(i)); err != nil {
			wrapped := fmt.Errorf("write digest for block %d: %w: %w", i, err, apperrors.ErrIO)
			e.abort(wrapped)
			e.writerState.Store(int32(writerFailed))
			return wrapped
		}

		e.progress.Update(i+1, e.blockCount)
	}

	e.writerState.Store(int32(writerDraining))

	if err := e.output.Close(); err != nil {
		wrapped := fmt.Errorf("close output file: %w: %w", err, apperrors.ErrIO)
		e.abort(wrapped)
		e.writerState.Store(int32(writerFailed))
		return wrapped
	}

	e.writerState.Store(int32(writerDone))
	e.progress.Done()
	return nil
}
