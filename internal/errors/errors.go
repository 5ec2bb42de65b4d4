// Package errors wraps github.com/pkg/errors and adds a notion of fatal
// errors: conditions that should abort the whole run rather than be
// reported and skipped.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// New, Wrap, Wrapf and Cause are re-exported from github.com/pkg/errors so
// that callers only need to import this package.
var (
	New   = errors.New
	Wrap  = errors.Wrap
	Wrapf = errors.Wrapf
	Cause = errors.Cause
)

// fatalError is returned for conditions from which the pipeline cannot
// recover: a malformed input, a misaligned record, an unsolvable puzzle
// under FailFast, a sequence-id leak.
type fatalError string

func (e fatalError) Error() string {
	return string(e)
}

func (e fatalError) Fatal() bool {
	return true
}

// Fatal returns an error that IsFatal reports true for.
func Fatal(s string) error {
	return fatalError(s)
}

// Fatalf is like Fatal but formats its arguments using fmt.Sprintf.
func Fatalf(format string, args ...interface{}) error {
	return fatalError(fmt.Sprintf(format, args...))
}

// fataler is implemented by errors that mark themselves as fatal.
type fataler interface {
	Fatal() bool
}

// IsFatal returns true if err (or any error in its Unwrap/Cause chain) was
// constructed via Fatal or Fatalf.
func IsFatal(err error) bool {
	for err != nil {
		if f, ok := err.(fataler); ok && f.Fatal() {
			return true
		}
		switch x := err.(type) {
		case interface{ Unwrap() error }:
			err = x.Unwrap()
		case interface{ Cause() error }:
			err = x.Cause()
		default:
			return false
		}
	}
	return false
}
