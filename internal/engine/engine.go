// Package engine implements the pipelined concurrent block-hashing
// engine: Reader -> BufferPool-backed BlockQueue -> HasherPool ->
// OutputRing -> Writer. See SPEC_FULL.md for the full design.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/google/uuid"

	"github.com/dmitriy-dronov-550503/signature/internal/bufpool"
	apperrors "github.com/dmitriy-dronov-550503/signature/internal/errors"
	"github.com/dmitriy-dronov-550503/signature/internal/hash"
	"github.com/dmitriy-dronov-550503/signature/internal/progress"
)

// DefaultMemoryCeiling is the default cap on pool_size * block_size,
// refused at construction time to prevent an allocation DoS from an
// unreasonably large block size (spec.md §3).
const DefaultMemoryCeiling int64 = 1536 * 1024 * 1024 // 1.5 GiB

// PoolMultiplier is the tuned back-pressure window: pool_size equals
// worker_count * PoolMultiplier, sized so every worker can hold a
// block while the reader prepares the next wave.
const PoolMultiplier = 4

// Options configures a new Engine.
type Options struct {
	// InputPath is the file to be hashed. Required.
	InputPath string
	// OutputPath is the signature file to create or truncate. Required.
	OutputPath string
	// BlockSize is the fixed block size in bytes. Required, must be > 0.
	BlockSize int
	// MemoryCeiling overrides DefaultMemoryCeiling when > 0.
	MemoryCeiling int64
	// WorkerCount overrides the detected hardware-concurrency-derived
	// worker count when > 0. Exposed primarily so tests (and callers
	// who know their environment better than runtime.NumCPU) can pin
	// it; production callers should leave this zero.
	WorkerCount int
	// Logger receives structured diagnostic events. Defaults to a
	// discard logger when nil.
	Logger *slog.Logger
	// Progress receives human-readable progress output. Defaults to
	// io.Discard when nil.
	Progress io.Writer
}

// Engine runs one signature-generation pipeline from construction to
// completion. An Engine is single-use: call Generate once.
type Engine struct {
	inputPath  string
	outputPath string
	blockSize  int
	fileSize    int64
	blockCount  uint64
	workerCount int

	input  *os.File
	output *os.File

	pool  *bufpool.Pool
	queue *blockQueue
	ring  *digestRing
	latch *failureLatch

	progress *progress.Reporter
	logger   *slog.Logger
	runID    string

	writerState atomic.Int32

	ctx    context.Context
	cancel context.CancelFunc
}

// New validates opts and prepares an Engine. All pre-flight checks
// (parameter validation, input/output accessibility, the memory
// ceiling, and the disk-space check) succeed before any buffer is
// allocated or any goroutine started — callers never see a runtime
// error class from a construction-time problem.
func New(opts Options) (*Engine, error) {
	if opts.InputPath == "" || opts.OutputPath == "" {
		return nil, fmt.Errorf("input and output paths are required: %w", apperrors.ErrUsage)
	}
	if opts.BlockSize <= 0 {
		return nil, fmt.Errorf("block size must be > 0, got %d: %w", opts.BlockSize, apperrors.ErrInvalidParameter)
	}

	info, err := os.Stat(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("stat input file %q: %w: %w", opts.InputPath, err, apperrors.ErrInputNotFound)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("input %q is not a regular file: %w", opts.InputPath, apperrors.ErrInputNotFound)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("input %q is empty: %w", opts.InputPath, apperrors.ErrEmptyInput)
	}

	fileSize := info.Size()
	blockCount := uint64(fileSize) / uint64(opts.BlockSize)
	if uint64(fileSize)%uint64(opts.BlockSize) != 0 {
		blockCount++
	}

	workerCount := opts.WorkerCount
	if workerCount <= 0 {
		workerCount = detectWorkerCount()
	}
	poolSize := workerCount * PoolMultiplier

	ceiling := opts.MemoryCeiling
	if ceiling <= 0 {
		ceiling = DefaultMemoryCeiling
	}
	if int64(poolSize)*int64(opts.BlockSize) > ceiling {
		return nil, fmt.Errorf(
			"pool of %d buffers * %d bytes exceeds memory ceiling %d: %w",
			poolSize, opts.BlockSize, ceiling, apperrors.ErrInvalidParameter,
		)
	}

	requiredBytes := blockCount * uint64(hash.Size)
	if err := checkDiskSpace(opts.OutputPath, requiredBytes); err != nil {
		return nil, err
	}

	input, err := os.Open(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("open input file %q: %w: %w", opts.InputPath, err, apperrors.ErrInputNotFound)
	}

	output, err := os.Create(opts.OutputPath)
	if err != nil {
		_ = input.Close()
		return nil, fmt.Errorf("create output file %q: %w: %w", opts.OutputPath, err, apperrors.ErrOutputUnavailable)
	}

	pool, err := bufpool.New(poolSize, opts.BlockSize)
	if err != nil {
		_ = input.Close()
		_ = output.Close()
		return nil, fmt.Errorf("%w: %w", err, apperrors.ErrInternal)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	progressOut := opts.Progress
	if progressOut == nil {
		progressOut = io.Discard
	}

	ctx, cancel := context.WithCancel(context.Background())

	e := &Engine{
		inputPath:   opts.InputPath,
		outputPath:  opts.OutputPath,
		blockSize:   opts.BlockSize,
		fileSize:    fileSize,
		blockCount:  blockCount,
		workerCount: workerCount,
		input:       input,
		output:      output,
		pool:        pool,
		queue:       newBlockQueue(poolSize),
		ring:        newDigestRing(blockCount),
		latch:       newFailureLatch(),
		progress:    progress.NewReporter(progressOut, blockCount),
		logger:      logger,
		runID:       uuid.NewString(),
		ctx:         ctx,
		cancel:      cancel,
	}

	return e, nil
}

// BlockCount returns the number of blocks the input will be split
// into (ceil(file_size / block_size)).
func (e *Engine) BlockCount() uint64 { return e.blockCount }

// WorkerCount returns the number of hasher goroutines this run uses.
func (e *Engine) WorkerCount() int { return e.workerCount }

// FileSize returns the input file's size in bytes, as queried at
// construction time.
func (e *Engine) FileSize() int64 { return e.fileSize }

// RunID returns the correlation identifier attached to this run's log
// lines. Purely observational; it has no effect on the output file.
func (e *Engine) RunID() string { return e.runID }

// Generate runs the pipeline to completion: Reader, HasherPool, and
// Writer run concurrently until every block has been read, hashed,
// and written in order, or until a failure aborts the run. Generate
// joins every goroutine before returning, and closes the input file
// (and, on failure, leaves whatever partial output exists on disk —
// spec.md §7 says the caller is responsible for discarding it).
func (e *Engine) Generate() (err error) {
	defer e.cancel()
	defer func() { _ = e.input.Close() }()

	log := e.logger.With("run_id", e.runID, "blocks", e.blockCount, "workers", e.workerCount)
	log.Info("signature generation started", "input", e.inputPath, "output", e.outputPath, "block_size", e.blockSize)

	var hashers sync.WaitGroup
	hashers.Add(e.workerCount)
	for i := 0; i < e.workerCount; i++ {
		go e.runHasher(&hashers)
	}

	go e.runReader(e.ctx)

	writerErr := e.runWriter()

	hashers.Wait()

	if writerErr != nil {
		log.Error("signature generation failed", "error", writerErr)
		return writerErr
	}
	if latchErr := e.latch.Err(); latchErr != nil {
		log.Error("signature generation failed", "error", latchErr)
		return latchErr
	}

	log.Info("signature generation complete")
	return nil
}

// abort records err as the run's terminal failure (first error wins)
// and wakes any goroutine blocked waiting for work that will now never
// arrive.
func (e *Engine) abort(err error) {
	e.latch.fail(err, func() {
		e.cancel()
		e.ring.broadcastAll()
	})
}

func detectWorkerCount() int {
	const fallback = 4
	const reservedForIO = 2

	cores := runtime.NumCPU()
	if cores <= 0 {
		cores = fallback
	}

	if cores-reservedForIO < 1 {
		return 1
	}
	return cores - reservedForIO
}

// checkDiskSpace refuses to proceed when the output path's filesystem
// reports less free space than requiredBytes.
func checkDiskSpace(outputPath string, requiredBytes uint64) error {
	dir := filepath.Dir(outputPath)

	var stat syscall.Statfs_t
	if err := syscall.Statfs(dir, &stat); err != nil {
		return fmt.Errorf("statfs %q: %w: %w", dir, err, apperrors.ErrOutputUnavailable)
	}

	available := uint64(stat.Bavail) * uint64(stat.Bsize)
	if available < requiredBytes {
		return fmt.Errorf(
			"output filesystem at %q has %d bytes free, need %d: %w",
			dir, available, requiredBytes, apperrors.ErrInsufficientDiskSpace,
		)
	}
	return nil
}
