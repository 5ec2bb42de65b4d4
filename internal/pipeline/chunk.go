// Package pipeline implements the reader-worker-writer fan-out that feeds
// the sudoku solver: a single input stream is split into PuzzleChunks, a
// pool of workers solves each puzzle line, and a writer restores input
// order before emitting SolvedChunks to the sink.
package pipeline

import "time"

// PuzzleChunk is a contiguous span of whole puzzle lines carrying a dense
// sequence id assigned by the reader. Data contains a whole number of
// LineLength-sized records, except that when the input does not end on a
// record boundary the reader's last chunk holds that shorter tail. LineLength is
// discovered once by the reader and copied onto every chunk so workers
// need no separate out-of-band handshake before they can parse strides.
type PuzzleChunk struct {
	Seq        uint64
	Data       []byte
	LineLength int
}

// ChunkStats are the per-chunk counters a worker accumulates while solving
// one chunk's puzzles.
type ChunkStats struct {
	Chunks    int
	Puzzles   int
	NoGuesses int
	Guesses   int64
	Elapsed   time.Duration
}

// Add folds o into s in place.
func (s *ChunkStats) Add(o ChunkStats) {
	s.Chunks += o.Chunks
	s.Puzzles += o.Puzzles
	s.NoGuesses += o.NoGuesses
	s.Guesses += o.Guesses
	s.Elapsed += o.Elapsed
}

// SolvedChunk is a worker's (or the reader's, for the header) output: the
// same sequence id as the originating PuzzleChunk, an owned formatted
// output buffer, and the chunk's statistics.
type SolvedChunk struct {
	Seq   uint64
	Data  []byte
	Stats ChunkStats

	// buf is the OutputBuffer Data was drawn from, if any (the reader's
	// header chunk has none). The writer releases it back to the pool
	// once Data has been written out.
	buf *OutputBuffer
}
