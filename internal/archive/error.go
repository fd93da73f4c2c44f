// Copyright (c) 2025 The bcnoded developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package archive

import (
	"errors"
	"fmt"
)

// ErrorKind identifies a kind of archive error. It has full support for
// errors.Is and errors.As so callers can test against a kind directly,
// following the same convention as the teacher's blockchain.ErrorKind.
type ErrorKind string

// Error satisfies the error interface for ErrorKind.
func (e ErrorKind) Error() string {
	return string(e)
}

// These constants identify the archive-level error kinds a chaser must be
// able to distinguish per spec.md §7. ErrFault represents an archive I/O
// failure that has no recovery path for the caller and is therefore always
// node-fatal; the remaining kinds describe expected, non-fatal outcomes of
// a query or command.
const (
	// ErrFault indicates an archive command failed in a way the caller
	// has no recovery path for. Any chaser receiving this must escalate
	// via fault(ec), per spec.md §7 "Archive I/O".
	ErrFault = ErrorKind("ErrFault")

	// ErrNotFound indicates a query found no matching record. This is an
	// ordinary, expected outcome (e.g. probing an orphaned hash) and is
	// never fatal.
	ErrNotFound = ErrorKind("ErrNotFound")

	// ErrMissingPreviousOutput indicates populate_with_metadata or
	// populate_without_metadata could not resolve a previous output
	// referenced by a transaction input.
	ErrMissingPreviousOutput = ErrorKind("ErrMissingPreviousOutput")
)

// Error is a concrete archive error carrying a kind and descriptive text.
type Error struct {
	Kind ErrorKind
	Desc string
}

// Error satisfies the error interface.
func (e Error) Error() string {
	return e.Desc
}

// Unwrap returns the underlying kind so errors.Is(err, archive.ErrFault)
// works without a type assertion.
func (e Error) Unwrap() error {
	return e.Kind
}

func newErr(kind ErrorKind, format string, args ...interface{}) error {
	return Error{Kind: kind, Desc: fmt.Sprintf(format, args...)}
}

// IsFault reports whether err is (or wraps) an archive ErrFault, the only
// archive-originated category that forces a node-wide stop per spec.md §7.
func IsFault(err error) bool {
	return errors.Is(err, ErrFault)
}
