package pipeline

import (
	"context"
	"crypto/sha256"
	"hash"
	"io"
	"runtime"

	"github.com/bungogood/oronsay/internal/sudoku"
	"golang.org/x/sync/errgroup"
)

// Config bundles everything Run needs to wire the reader, worker pool and
// writer together. Exactly one of Mapped or Stream should be set.
type Config struct {
	// Mapped is a shared, read-only byte slice (typically an mmap'd
	// file). When non-nil, the reader emits zero-copy slice ranges.
	Mapped []byte
	// Stream is a streaming source, used when Mapped is nil.
	Stream io.Reader

	Sink io.Writer

	Workers   int
	ChunkSize int
	MCV       bool
	NoHash    bool
	OnFailure FailurePolicy
}

// Result is returned once the pipeline has drained cleanly.
type Result struct {
	Hash   string
	Totals ChunkStats
}

// Run wires one reader goroutine, cfg.Workers worker goroutines and one
// writer goroutine under a shared errgroup.Group: an error returned by
// any stage cancels the group's context, which every other stage
// observes at its next channel operation and unwinds from. A panic in a
// stage is not recovered and terminates the process. The output is
// byte-identical regardless of cfg.Workers, since ordering is restored by
// the writer from each chunk's sequence id, not by arrival order.
func Run(ctx context.Context, cfg Config) (Result, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var h hash.Hash
	if !cfg.NoHash {
		h = sha256.New()
	}

	chunkCh := make(chan PuzzleChunk)
	headerCh := make(chan SolvedChunk, 1)
	solvedCh := make(chan SolvedChunk)

	wg, ctx := errgroup.WithContext(ctx)

	reader := &Reader{ChunkSize: cfg.ChunkSize}
	wg.Go(func() error {
		defer close(headerCh)
		if cfg.Mapped != nil {
			return reader.RunMapped(ctx, cfg.Mapped, chunkCh, headerCh)
		}
		return reader.RunStream(ctx, cfg.Stream, chunkCh, headerCh)
	})

	pool := &WorkerPool{
		Solver:    sudoku.BacktrackingSolver{},
		MCV:       cfg.MCV,
		OnFailure: cfg.OnFailure,
		Buffers:   NewBufferPool(workers, cfg.ChunkSize*3),
	}

	workerWG, workerCtx := errgroup.WithContext(ctx)
	pool.Run(workerCtx, workerWG, workers, chunkCh, solvedCh)

	// The last worker to finish closes the writer's solved queue; the
	// reader already closes headerCh itself via the defer above.
	wg.Go(func() error {
		err := workerWG.Wait()
		close(solvedCh)
		return err
	})

	writer := NewWriter(cfg.Sink, h)
	var result Result
	wg.Go(func() error {
		digest, totals, err := writer.Run(ctx, headerCh, solvedCh)
		if err != nil {
			return err
		}
		result.Hash = digest
		result.Totals = totals
		return nil
	})

	if err := wg.Wait(); err != nil {
		return Result{}, err
	}

	return result, nil
}
