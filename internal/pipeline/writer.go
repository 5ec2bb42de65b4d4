package pipeline

import (
	"context"
	"encoding/hex"
	"hash"
	"io"

	"github.com/bungogood/oronsay/internal/errors"
	"github.com/bungogood/oronsay/internal/hashing"
)

// Writer re-orders SolvedChunks, received in arbitrary order from any of
// the N workers plus the reader (for the header), back into sequence-id
// order before writing them to the sink. It is the exclusive owner of the
// sink, the hash accumulator and the running global statistics.
type Writer struct {
	sink io.Writer
	hw   *hashing.Writer

	nextID  uint64
	pending map[uint64]SolvedChunk

	Totals ChunkStats
}

// NewWriter wraps sink. If h is non-nil, every byte written to the sink is
// also fed to h; pass nil to skip hashing entirely.
func NewWriter(sink io.Writer, h hash.Hash) *Writer {
	w := &Writer{
		sink:    sink,
		nextID:  0,
		pending: make(map[uint64]SolvedChunk),
	}
	if h != nil {
		w.hw = hashing.NewWriter(sink, h)
	}
	return w
}

// Run drains header and solved, writing chunks to the sink in
// sequence-id order, until both channels are closed. header carries at
// most one chunk (sequence id 0, sent by the reader when the input has a
// header line); solved carries every worker's output. It returns the
// lowercase hex digest if hashing was enabled (empty string otherwise) and
// the folded global statistics.
func (w *Writer) Run(ctx context.Context, header, solved <-chan SolvedChunk) (string, ChunkStats, error) {
	for header != nil || solved != nil {
		select {
		case <-ctx.Done():
			return "", ChunkStats{}, ctx.Err()
		case chunk, ok := <-header:
			if !ok {
				header = nil
				continue
			}
			if err := w.receive(chunk); err != nil {
				return "", ChunkStats{}, err
			}
		case chunk, ok := <-solved:
			if !ok {
				solved = nil
				continue
			}
			if err := w.receive(chunk); err != nil {
				return "", ChunkStats{}, err
			}
		}
	}

	return w.finish()
}

func (w *Writer) receive(chunk SolvedChunk) error {
	if chunk.Seq != w.nextID {
		w.pending[chunk.Seq] = chunk
		return nil
	}

	if err := w.flush(chunk); err != nil {
		return err
	}

	for {
		next, ok := w.pending[w.nextID]
		if !ok {
			break
		}
		delete(w.pending, w.nextID)
		if err := w.flush(next); err != nil {
			return err
		}
	}

	return nil
}

func (w *Writer) flush(chunk SolvedChunk) error {
	var err error
	if w.hw != nil {
		_, err = w.hw.Write(chunk.Data)
	} else {
		_, err = w.sink.Write(chunk.Data)
	}
	if err != nil {
		return errors.Wrap(err, "writing output")
	}

	if chunk.buf != nil {
		chunk.buf.Release()
	}

	w.Totals.Add(chunk.Stats)
	w.nextID++
	return nil
}

func (w *Writer) finish() (string, ChunkStats, error) {
	if len(w.pending) > 0 {
		return "", ChunkStats{}, errors.Fatalf("sequence-id leak: %d chunk(s) never reached next_id=%d", len(w.pending), w.nextID)
	}

	if f, ok := w.sink.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return "", ChunkStats{}, errors.Wrap(err, "flushing sink")
		}
	}

	if w.hw == nil {
		return "", w.Totals, nil
	}

	return hex.EncodeToString(w.hw.Sum(nil)), w.Totals, nil
}
