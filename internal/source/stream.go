package source

import (
	"io"
	"os"

	"github.com/bungogood/oronsay/internal/errors"
)

// OpenStream opens path for buffered, non-mapped reading: the simpler
// fallback when mmap isn't available (a pipe, stdin, a filesystem where
// mmap is unsupported) or simply not requested.
func OpenStream(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open input")
	}
	return f, nil
}
