package pipeline

import (
	"context"
	"time"

	"github.com/bungogood/oronsay/internal/debug"
	"github.com/bungogood/oronsay/internal/errors"
	"github.com/bungogood/oronsay/internal/sudoku"
	"golang.org/x/sync/errgroup"
)

// FailurePolicy controls what a worker does when the solver reports an
// invalid or unsolvable puzzle. The historical, and default, behaviour is
// FailFast: a single bad puzzle aborts the whole run, since the workload is
// assumed to be a validated, homogeneous batch and silent per-record
// recovery would mask dataset corruption.
type FailurePolicy int

const (
	// FailFast aborts the pipeline on the first invalid or unsolvable
	// puzzle.
	FailFast FailurePolicy = iota
	// SkipAndLog logs the offending line via internal/debug and omits it
	// from the output, continuing with the rest of the chunk.
	SkipAndLog
)

// WorkerPool runs N symmetric workers, each owning a private sudoku.State
// and output buffer, consuming PuzzleChunks and producing SolvedChunks.
type WorkerPool struct {
	Solver    sudoku.Solver
	MCV       bool
	OnFailure FailurePolicy
	Buffers   *BufferPool
}

// Run starts n workers under wg, each reading from in and writing to out.
// Workers exit cleanly when in is closed and drained, or when ctx is
// cancelled.
func (p *WorkerPool) Run(ctx context.Context, wg *errgroup.Group, n int, in <-chan PuzzleChunk, out chan<- SolvedChunk) {
	for i := 0; i < n; i++ {
		wg.Go(func() error {
			return p.worker(ctx, in, out)
		})
	}
}

func (p *WorkerPool) worker(ctx context.Context, in <-chan PuzzleChunk, out chan<- SolvedChunk) error {
	state := sudoku.NewState()

	for {
		select {
		case <-ctx.Done():
			return nil
		case chunk, ok := <-in:
			if !ok {
				return nil
			}

			solved, err := p.solveChunk(state, chunk)
			if err != nil {
				return err
			}

			select {
			case out <- solved:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// solveChunk strides chunk.Data in LineLength-sized records, solves each
// puzzle, and formats "puzzle,solution\n" lines into a buffer drawn from
// the worker pool's BufferPool.
func (p *WorkerPool) solveChunk(state *sudoku.State, chunk PuzzleChunk) (SolvedChunk, error) {
	start := time.Now()

	lineLength := chunk.LineLength
	n := len(chunk.Data) / lineLength

	buf := p.Buffers.Get()
	// 81 puzzle + 1 comma + 81 solution + 1 newline = 164 bytes per record.
	if cap(buf.Data) < n*164 {
		buf.Data = make([]byte, 0, n*164)
	}
	out := buf.Data

	var stats ChunkStats
	stats.Chunks = 1

	for off := 0; off+lineLength <= len(chunk.Data); off += lineLength {
		line := chunk.Data[off : off+lineLength]
		if err := validateTerminator(line, lineLength); err != nil {
			return SolvedChunk{}, err
		}

		puzzle := line[:sudoku.Cells]

		solution, guesses, ok := p.Solver.Solve(state, puzzle, p.MCV)
		if !ok {
			if p.OnFailure == SkipAndLog {
				debug.Log("skipping unsolvable/invalid puzzle: %s", puzzle)
				continue
			}
			return SolvedChunk{}, errors.Fatalf("puzzle could not be solved: %s", puzzle)
		}

		out = append(out, puzzle...)
		out = append(out, ',')
		out = append(out, solution[:]...)
		out = append(out, '\n')

		stats.Puzzles++
		stats.Guesses += int64(guesses)
		if guesses == 0 {
			stats.NoGuesses++
		}
	}

	buf.Data = out
	stats.Elapsed = time.Since(start)

	return SolvedChunk{Seq: chunk.Seq, Data: out, Stats: stats, buf: buf}, nil
}

// validateTerminator checks that line ends the way lineLength promises:
// "\n" for an 82-byte record, "\r\n" for an 83-byte one. Any other
// arrangement indicates a reader/format bug and is a fatal assertion.
func validateTerminator(line []byte, lineLength int) error {
	switch lineLength {
	case sudoku.Cells + 1:
		if line[sudoku.Cells] != '\n' {
			return errors.Fatalf("misaligned record: expected newline at byte %d", sudoku.Cells)
		}
	case sudoku.Cells + 2:
		if line[sudoku.Cells] != '\r' || line[sudoku.Cells+1] != '\n' {
			return errors.Fatalf("misaligned record: expected CRLF at bytes %d-%d", sudoku.Cells, sudoku.Cells+1)
		}
	default:
		return errors.Fatalf("misaligned record: unexpected line length %d", lineLength)
	}
	return nil
}
