// Package errs defines the sentinel error kinds that map 1:1 to the
// engine's exit codes, so the CLI's top-level handler can recover the
// right code via errors.As without re-deriving it from error text.
package errs

import "errors"

// Kind tags a sentinel error with its exit code.
type Kind int

const (
	KindOK Kind = iota
	KindHelp
	KindCacheCorrupt
	KindNoZones
	KindNoPoIs
	KindMemory
	KindMissingConfig
	KindExternalTimeout
)

// ExitCode returns the process exit code for k.
func (k Kind) ExitCode() int { return int(k) }

// Error is a typed error carrying a Kind, wrapping an underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// EmptyAoI reports that AoI masking left zero cells inside (exit 3).
func EmptyAoI(op string, err error) error { return newErr(KindNoZones, op, err) }

// NoPoIs reports that the PoI fetch succeeded but yielded nothing (exit 4).
func NoPoIs(op string, err error) error { return newErr(KindNoPoIs, op, err) }

// CacheCorrupt reports a cache file that failed to decode (exit 2).
func CacheCorrupt(op string, err error) error { return newErr(KindCacheCorrupt, op, err) }

// MissingConfig reports a required job-descriptor field missing (exit 6).
func MissingConfig(op string, err error) error { return newErr(KindMissingConfig, op, err) }

// ExternalTimeout reports retries exhausted against a collaborator
// service or subprocess (exit 7).
func ExternalTimeout(op string, err error) error { return newErr(KindExternalTimeout, op, err) }

// Memory reports a fatal allocation failure distinct from a generic
// panic (exit 5).
func Memory(op string, err error) error { return newErr(KindMemory, op, err) }

// As is a thin wrapper around errors.As for *Error, used by the CLI's
// top-level handler to recover the exit code.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
