// Package hashing provides an io.Writer that feeds every byte written
// through it to a hash.Hash, so a sink can be wrapped transparently and
// the digest read off at the end.
package hashing

import (
	"hash"
	"io"
)

// Writer passes bytes through to an underlying io.Writer while also
// feeding them to a hash.Hash.
type Writer struct {
	w io.Writer
	h hash.Hash
}

// NewWriter returns a writer that forwards to w and accumulates into h.
func NewWriter(w io.Writer, h hash.Hash) *Writer {
	return &Writer{w: w, h: h}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	if n > 0 {
		// Hash.Write never returns an error per the hash.Hash contract;
		// only hash the bytes that were actually accepted by w.w.
		_, _ = w.h.Write(p[:n])
	}
	return n, err
}

// Sum appends the current hash to b and returns the resulting slice, per
// hash.Hash.Sum. It does not reset the underlying hash.
func (w *Writer) Sum(b []byte) []byte {
	return w.h.Sum(b)
}
