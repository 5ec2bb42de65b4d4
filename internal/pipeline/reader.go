package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/bungogood/oronsay/internal/errors"
)

// Reader splits a byte source at line boundaries into PuzzleChunks,
// assigns each a dense, monotonically increasing sequence id, and forwards
// it on chunkCh. If the input starts with a header line (detected solely
// by its length differing from the puzzle line length), the header is
// emitted directly to headerCh as SolvedChunk id 0, bypassing the workers.
type Reader struct {
	// ChunkSize is the requested chunk size in bytes; it is aligned down
	// to a multiple of the discovered line length before use.
	ChunkSize int
}

// detectLineLength scans data for the first two newline bytes p1 < p2 and
// returns the record stride p2-p1 plus both offsets. It fails if data
// contains fewer than two newlines.
func detectLineLength(data []byte) (lineLength, p1, p2 int, err error) {
	p1 = bytes.IndexByte(data, '\n')
	if p1 < 0 {
		return 0, 0, 0, errors.Fatal("malformed input: no newline found in first block")
	}
	rest := data[p1+1:]
	p2rel := bytes.IndexByte(rest, '\n')
	if p2rel < 0 {
		return 0, 0, 0, errors.Fatal("malformed input: fewer than two newlines in first block")
	}
	p2 = p1 + 1 + p2rel
	return p2 - p1, p1, p2, nil
}

// hasHeader reports whether the first line's own span (including its
// terminator) differs from lineLength, meaning it cannot be a puzzle
// record and must be a header.
func hasHeader(p1, lineLength int) bool {
	return p1+1 != lineLength
}

// normalizeHeader returns the first line's content (bytes before its
// terminator, with any trailing \r stripped) with a single trailing \n.
func normalizeHeader(data []byte, p1 int) []byte {
	end := p1
	if end > 0 && data[end-1] == '\r' {
		end--
	}
	out := make([]byte, end+1)
	copy(out, data[:end])
	out[end] = '\n'
	return out
}

// alignDown rounds size down to the nearest positive multiple of
// lineLength, never returning less than one record.
func alignDown(size, lineLength int) int {
	if size < lineLength {
		return lineLength
	}
	return size - size%lineLength
}

// RunMapped splits a single shared read-only mapping into PuzzleChunks.
// Each chunk is a zero-copy slice of data; ownership of the mapping must
// outlive every worker that reads from it.
func (r *Reader) RunMapped(ctx context.Context, data []byte, chunkCh chan<- PuzzleChunk, headerCh chan<- SolvedChunk) error {
	defer close(chunkCh)

	if len(data) == 0 {
		return nil
	}

	lineLength, p1, _, err := detectLineLength(data)
	if err != nil {
		return err
	}

	offset := 0
	nextSeq := uint64(0)
	if hasHeader(p1, lineLength) {
		select {
		case headerCh <- SolvedChunk{Seq: 0, Data: normalizeHeader(data, p1)}:
		case <-ctx.Done():
			return ctx.Err()
		}
		offset = p1 + 1
		nextSeq = 1
	}

	chunkBytes := alignDown(r.ChunkSize, lineLength)

	for offset < len(data) {
		remaining := len(data) - offset
		take := chunkBytes
		if take > remaining {
			take = remaining - remaining%lineLength
			if take == 0 {
				take = remaining
			}
		}
		end := offset + take

		select {
		case chunkCh <- PuzzleChunk{Seq: nextSeq, Data: data[offset:end], LineLength: lineLength}:
		case <-ctx.Done():
			return ctx.Err()
		}

		nextSeq++
		offset = end
	}

	return nil
}

// RunStream splits a streaming io.Reader into PuzzleChunks using a
// refillable buffer: on each fill it sends everything up to and including
// the last newline, carrying any trailing partial record into the next
// fill. At end of stream, a non-empty carry-over is sent as a final,
// possibly undersized chunk.
func (r *Reader) RunStream(ctx context.Context, src io.Reader, chunkCh chan<- PuzzleChunk, headerCh chan<- SolvedChunk) error {
	defer close(chunkCh)

	br := bufio.NewReaderSize(src, r.ChunkSize*2)

	first, err := br.Peek(br.Size())
	if err != nil && err != io.EOF {
		return errors.Wrap(err, "reading first block")
	}

	lineLength, p1, _, lerr := detectLineLength(first)
	if lerr != nil {
		return lerr
	}

	nextSeq := uint64(0)
	if hasHeader(p1, lineLength) {
		header := make([]byte, p1+1)
		if _, err := io.ReadFull(br, header); err != nil {
			return errors.Wrap(err, "reading header line")
		}
		select {
		case headerCh <- SolvedChunk{Seq: 0, Data: normalizeHeader(header, p1)}:
		case <-ctx.Done():
			return ctx.Err()
		}
		nextSeq = 1
	}

	chunkBytes := alignDown(r.ChunkSize, lineLength)
	buf := make([]byte, 0, chunkBytes*2)
	fillBuf := make([]byte, chunkBytes)

	for {
		n, readErr := io.ReadFull(br, fillBuf)
		if n > 0 {
			buf = append(buf, fillBuf[:n]...)
		}
		if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
			return errors.Wrap(readErr, "reading input")
		}

		last := bytes.LastIndexByte(buf, '\n')
		if last >= 0 {
			send := make([]byte, last+1)
			copy(send, buf[:last+1])
			select {
			case chunkCh <- PuzzleChunk{Seq: nextSeq, Data: send, LineLength: lineLength}:
			case <-ctx.Done():
				return ctx.Err()
			}
			nextSeq++
			remaining := len(buf) - (last + 1)
			copy(buf, buf[last+1:])
			buf = buf[:remaining]
		}

		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			if len(buf) > 0 {
				tail := make([]byte, len(buf))
				copy(tail, buf)
				select {
				case chunkCh <- PuzzleChunk{Seq: nextSeq, Data: tail, LineLength: lineLength}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		}
	}
}
