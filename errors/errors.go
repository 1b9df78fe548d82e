// Package errors defines all exported error sentinels for the seedindex library.
//
// This is the single source of truth for error values. Both the top-level
// seedindex package and internal packages import from here, ensuring
// errors.Is checks work across package boundaries.
package errors

import (
	"errors"
	"fmt"
)

// Format errors
var (
	ErrInvalidMagic        = errors.New("seedindex: invalid magic number")
	ErrTruncatedFile       = errors.New("seedindex: file is truncated")
	ErrCorruptedIndex      = errors.New("seedindex: index data is corrupted")
	ErrMissingFile         = errors.New("seedindex: required file does not exist")
	ErrUnknownSequenceType = errors.New("seedindex: unknown sequence type")
	ErrUnknownAlphabet     = errors.New("seedindex: unknown alphabet")
	ErrInvalidShape        = errors.New("seedindex: invalid seed shape")
)

// Capacity errors
var (
	ErrSeedTooWide      = errors.New("seedindex: seed weight times bits per letter exceeds 64")
	ErrCapacityExceeded = errors.New("seedindex: accumulator size exceeds maximum array size, use more chunks or batches")
)

// Build errors
var (
	ErrIllegalFrame = errors.New("seedindex: illegal reading frame")
	ErrNoShapes     = errors.New("seedindex: no seed shapes given")
)

// Query errors
var (
	ErrTableClosed = errors.New("seedindex: table is closed")
)

// MagicError reports a magic number mismatch for a specific file.
// It matches ErrInvalidMagic under errors.Is.
type MagicError struct {
	Path     string
	Expected []byte
	Found    []byte
}

func (e *MagicError) Error() string {
	return fmt.Sprintf("seedindex: %s: invalid magic number: expected %q, found %q", e.Path, e.Expected, e.Found)
}

// Is reports whether target is ErrInvalidMagic.
func (e *MagicError) Is(target error) bool {
	return target == ErrInvalidMagic
}
