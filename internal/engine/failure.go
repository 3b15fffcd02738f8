package engine

import "sync"

// failureLatch records the first error reported by any pipeline stage
// and runs a one-time side effect (cancelling the shared context and
// waking anything blocked on the digest ring) so the rest of the
// pipeline unwinds instead of hanging. Later calls to fail are no-ops:
// first error wins, as spec.md §7 requires.
type failureLatch struct {
	once sync.Once

	mu  sync.Mutex
	err error
}

func newFailureLatch() *failureLatch {
	return &failureLatch{}
}

// fail records err as the run's failure and runs onFirst, but only the
// first time fail is called.
func (f *failureLatch) fail(err error, onFirst func()) {
	f.once.Do(func() {
		f.mu.Lock()
		f.err = err
		f.mu.Unlock()
		if onFirst != nil {
			onFirst()
		}
	})
}

// Err returns the recorded failure, or nil if none was recorded.
func (f *failureLatch) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
