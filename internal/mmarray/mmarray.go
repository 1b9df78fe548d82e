// Package mmarray exposes read-only memory-mapped files as flat arrays of
// fixed-width big-endian words, addressed by element index.
//
// An array is mapped once, treated as immutable shared state, and unmapped
// by Close. Reads are bounds-checked and safe for concurrent use; Close is
// not safe to call concurrently with reads.
package mmarray

import (
	"errors"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	streamerrors "github.com/tamirms/seedindex/errors"
	"github.com/tamirms/seedindex/internal/encoding"
)

// array is the shared mapping state for Int32Array and Int64Array.
type array struct {
	mmap     mmap.MMap // nil for empty files
	data     []byte
	n        int
	elemSize int
	path     string
}

func openArray(path string, elemSize int) (array, error) {
	f, err := os.Open(path)
	if err != nil {
		return array{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return array{}, fmt.Errorf("stat %s: %w", path, err)
	}
	size := stat.Size()
	if size%int64(elemSize) != 0 {
		return array{}, fmt.Errorf("%s: size %d is not a multiple of %d: %w", path, size, elemSize, streamerrors.ErrTruncatedFile)
	}

	a := array{elemSize: elemSize, path: path}
	if size == 0 {
		// mmap(2) rejects zero-length mappings.
		return a, nil
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return array{}, fmt.Errorf("mmap %s: %w", path, err)
	}
	a.mmap = mm
	a.data = []byte(mm)
	a.n = int(size / int64(elemSize))
	adviseRandom(a.data)
	return a, nil
}

// Len returns the number of elements.
func (a *array) Len() int {
	return a.n
}

// Bytes returns the raw mapped bytes. The slice is only valid until Close.
func (a *array) Bytes() []byte {
	return a.data
}

// Path returns the file the array was mapped from.
func (a *array) Path() string {
	return a.path
}

// Close unmaps the file. Idempotent.
func (a *array) Close() error {
	if a.mmap == nil {
		return nil
	}
	err := a.mmap.Unmap()
	a.mmap = nil
	a.data = nil
	a.n = 0
	if err != nil {
		return errors.Join(fmt.Errorf("unmap %s", a.path), err)
	}
	return nil
}

// Int64Array is a memory-mapped array of big-endian int64 values.
type Int64Array struct {
	array
}

// OpenInt64 maps path as an array of int64.
func OpenInt64(path string) (*Int64Array, error) {
	a, err := openArray(path, encoding.Int64Size)
	if err != nil {
		return nil, err
	}
	return &Int64Array{a}, nil
}

// At returns element i. ok is false if i is out of range.
func (a *Int64Array) At(i int) (v int64, ok bool) {
	if i < 0 || i >= a.n {
		return 0, false
	}
	return encoding.Int64At(a.data, i), true
}

// Int32Array is a memory-mapped array of big-endian int32 values.
type Int32Array struct {
	array
}

// OpenInt32 maps path as an array of int32.
func OpenInt32(path string) (*Int32Array, error) {
	a, err := openArray(path, encoding.Int32Size)
	if err != nil {
		return nil, err
	}
	return &Int32Array{a}, nil
}

// At returns element i. ok is false if i is out of range.
func (a *Int32Array) At(i int64) (v int32, ok bool) {
	if i < 0 || i >= int64(a.n) {
		return 0, false
	}
	return encoding.Int32At(a.data, int(i)), true
}

// Words returns the raw bytes of elements [i, i+n) without copying.
// ok is false if the range is not fully inside the array.
func (a *Int32Array) Words(i, n int64) (words []byte, ok bool) {
	if i < 0 || n < 0 || i > int64(a.n) || n > int64(a.n)-i {
		return nil, false
	}
	return a.data[i*encoding.Int32Size : (i+n)*encoding.Int32Size], true
}
