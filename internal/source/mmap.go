// Package source provides the two byte-source strategies the pipeline
// consumes: a shared read-only memory mapping, and a buffered streaming
// reader. Choosing between them, and opening the underlying file, is a
// CLI-level decision; this package only implements the two mechanisms.
package source

import (
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/bungogood/oronsay/internal/errors"
)

// Mapped is a shared, read-only memory mapping of a file. Workers receive
// non-overlapping slices of Bytes(); ownership is shared and the mapping
// must outlive every worker reading from it.
type Mapped struct {
	f *os.File
	m mmap.MMap
}

// OpenMapped opens path and maps it read-only.
func OpenMapped(path string) (*Mapped, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open input")
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "mmap input")
	}

	return &Mapped{f: f, m: m}, nil
}

// Bytes returns the mapped file contents. The returned slice is valid
// until Close is called.
func (m *Mapped) Bytes() []byte {
	return m.m
}

// Close unmaps the file and closes the underlying descriptor.
func (m *Mapped) Close() error {
	if err := m.m.Unmap(); err != nil {
		_ = m.f.Close()
		return errors.Wrap(err, "munmap input")
	}
	return m.f.Close()
}
