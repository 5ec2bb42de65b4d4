package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/bungogood/oronsay/internal/sudoku"
	"golang.org/x/sync/errgroup"
)

const testSolvedGrid = "123456789456789123789123456234567891567891234891234567345678912678912345912345678"

func newTestPool(policy FailurePolicy) *WorkerPool {
	return &WorkerPool{
		Solver:    sudoku.BacktrackingSolver{},
		MCV:       true,
		OnFailure: policy,
		Buffers:   NewBufferPool(2, 4096),
	}
}

func TestSolveChunkFormatsRecords(t *testing.T) {
	pool := newTestPool(FailFast)
	state := sudoku.NewState()

	data := []byte(testSolvedGrid + "\n" + testSolvedGrid + "\n")
	chunk := PuzzleChunk{Seq: 3, Data: data, LineLength: 82}

	solved, err := pool.solveChunk(state, chunk)
	if err != nil {
		t.Fatalf("solveChunk: %v", err)
	}
	if solved.Seq != 3 {
		t.Fatalf("expected seq to be preserved, got %d", solved.Seq)
	}
	want := testSolvedGrid + "," + testSolvedGrid + "\n" + testSolvedGrid + "," + testSolvedGrid + "\n"
	if string(solved.Data) != want {
		t.Fatalf("unexpected output:\n got  %q\n want %q", solved.Data, want)
	}
	if solved.Stats.Puzzles != 2 {
		t.Fatalf("expected 2 puzzles solved, got %d", solved.Stats.Puzzles)
	}
	if solved.Stats.NoGuesses != 2 {
		t.Fatalf("expected both already-solved puzzles to need no guesses, got %d", solved.Stats.NoGuesses)
	}
}

func TestSolveChunkFailFastOnInvalidPuzzle(t *testing.T) {
	pool := newTestPool(FailFast)
	state := sudoku.NewState()

	invalid := "11" + strings.Repeat(".", sudoku.Cells-2)
	data := []byte(invalid + "\n")
	chunk := PuzzleChunk{Data: data, LineLength: 82}

	if _, err := pool.solveChunk(state, chunk); err == nil {
		t.Fatalf("expected an error for an invalid puzzle under FailFast")
	}
}

func TestSolveChunkSkipAndLogOnInvalidPuzzle(t *testing.T) {
	pool := newTestPool(SkipAndLog)
	state := sudoku.NewState()

	invalid := "11" + strings.Repeat(".", sudoku.Cells-2)
	data := []byte(invalid + "\n" + testSolvedGrid + "\n")
	chunk := PuzzleChunk{Data: data, LineLength: 82}

	solved, err := pool.solveChunk(state, chunk)
	if err != nil {
		t.Fatalf("solveChunk: %v", err)
	}
	if solved.Stats.Puzzles != 1 {
		t.Fatalf("expected the invalid puzzle to be skipped and the valid one kept, got %d puzzles", solved.Stats.Puzzles)
	}
	want := testSolvedGrid + "," + testSolvedGrid + "\n"
	if string(solved.Data) != want {
		t.Fatalf("unexpected output after skip: %q", solved.Data)
	}
}

func TestValidateTerminatorLF(t *testing.T) {
	line := []byte(testSolvedGrid + "\n")
	if err := validateTerminator(line, sudoku.Cells+1); err != nil {
		t.Fatalf("expected LF terminator to validate, got %v", err)
	}
}

func TestValidateTerminatorCRLF(t *testing.T) {
	line := []byte(testSolvedGrid + "\r\n")
	if err := validateTerminator(line, sudoku.Cells+2); err != nil {
		t.Fatalf("expected CRLF terminator to validate, got %v", err)
	}
}

func TestValidateTerminatorRejectsMismatch(t *testing.T) {
	line := []byte(testSolvedGrid + "\r\n")
	if err := validateTerminator(line, sudoku.Cells+1); err == nil {
		t.Fatalf("expected a line length of Cells+1 to reject a CRLF-terminated record")
	}
}

func TestWorkerPoolRunSolvesAllChunks(t *testing.T) {
	pool := newTestPool(FailFast)

	in := make(chan PuzzleChunk, 4)
	out := make(chan SolvedChunk, 4)

	for i := 0; i < 4; i++ {
		in <- PuzzleChunk{Seq: uint64(i), Data: []byte(testSolvedGrid + "\n"), LineLength: 82}
	}
	close(in)

	g, ctx := errgroup.WithContext(context.Background())
	pool.Run(ctx, g, 2, in, out)

	go func() {
		g.Wait()
		close(out)
	}()

	seen := map[uint64]bool{}
	for chunk := range out {
		seen[chunk.Seq] = true
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("worker pool returned an error: %v", err)
	}
	if len(seen) != 4 {
		t.Fatalf("expected 4 distinct chunks out, got %d", len(seen))
	}
}
