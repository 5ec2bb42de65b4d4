package main

import "fmt"

// chunkKiBFlag is a pflag.Value wrapping the --chunk-kib flag: a plain
// positive integer number of kibibytes, rejecting the zero and
// negative values that would leave the reader nothing to align.
type chunkKiBFlag int

func (f *chunkKiBFlag) Set(s string) error {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return fmt.Errorf("invalid chunk size %q: %w", s, err)
	}
	if n <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", n)
	}
	*f = chunkKiBFlag(n)
	return nil
}

func (f *chunkKiBFlag) String() string {
	return fmt.Sprintf("%d", int(*f))
}

func (f *chunkKiBFlag) Type() string {
	return "KiB"
}

func (f chunkKiBFlag) Bytes() int {
	return int(f) * 1024
}

// onInvalidFlag selects the worker's FailurePolicy for invalid/unsolvable
// puzzles. fail matches the historical, fatal-by-default behaviour; skip
// is the documented, opt-in alternative.
type onInvalidFlag string

const (
	onInvalidFail onInvalidFlag = "fail"
	onInvalidSkip onInvalidFlag = "skip"
)

func (f *onInvalidFlag) Set(s string) error {
	switch onInvalidFlag(s) {
	case onInvalidFail, onInvalidSkip:
		*f = onInvalidFlag(s)
		return nil
	default:
		return fmt.Errorf("invalid value %q, must be one of (fail|skip)", s)
	}
}

func (f *onInvalidFlag) String() string {
	return string(*f)
}

func (f *onInvalidFlag) Type() string {
	return "policy"
}
