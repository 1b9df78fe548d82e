// Package encoding provides the big-endian word codec used by the table files.
//
// Table arrays are flat sequences of fixed-width signed words stored
// big-endian, the byte order of DataOutputStream and the default
// ByteBuffer order in JVM readers. All accessors take an element index,
// not a byte offset.
package encoding

import "encoding/binary"

const (
	// Int32Size is the size of a data block word in bytes.
	Int32Size = 4

	// Int64Size is the size of a bucket array entry in bytes.
	Int64Size = 8
)

// Int32At returns the i-th big-endian int32 in buf.
// Precondition: (i+1)*Int32Size <= len(buf).
func Int32At(buf []byte, i int) int32 {
	return int32(binary.BigEndian.Uint32(buf[i*Int32Size:]))
}

// PutInt32At writes v as the i-th big-endian int32 in buf.
func PutInt32At(buf []byte, i int, v int32) {
	binary.BigEndian.PutUint32(buf[i*Int32Size:], uint32(v))
}

// Int64At returns the i-th big-endian int64 in buf.
// Precondition: (i+1)*Int64Size <= len(buf).
func Int64At(buf []byte, i int) int64 {
	return int64(binary.BigEndian.Uint64(buf[i*Int64Size:]))
}

// PutInt64At writes v as the i-th big-endian int64 in buf.
func PutInt64At(buf []byte, i int, v int64) {
	binary.BigEndian.PutUint64(buf[i*Int64Size:], uint64(v))
}

// PutLengthPrefixed writes a big-endian int32 length followed by b into dst
// and returns the number of bytes written. dst must hold 4+len(b) bytes.
func PutLengthPrefixed(dst []byte, b []byte) int {
	binary.BigEndian.PutUint32(dst, uint32(len(b)))
	return 4 + copy(dst[4:], b)
}
