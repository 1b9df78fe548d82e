package seedindex

import (
	"bytes"
	"encoding/binary"
	"fmt"

	streamerrors "github.com/tamirms/seedindex/errors"
	"github.com/tamirms/seedindex/internal/encoding"
)

// shardMagic opens every shard metadata file.
var shardMagic = []byte("MaltRefHashV1.")

// shardMetadata is the content of index<N>.idx.
//
// Layout (big-endian):
//
//	Field           Type
//	Magic           len(shardMagic) bytes
//	SequenceType    int32 (0=DNA, 1=Protein)
//	Reduction       int32 length + UTF-8 bytes (Protein only)
//	TableSize       int32
//	HashMask        int32
//	RandomSeed      int32
//	TotalCount      int64
//	StepSize        int32
//	ShapePattern    int32 length + bytes
type shardMetadata struct {
	SequenceType SequenceType
	Reduction    string
	TableSize    int32
	HashMask     int32
	RandomSeed   int32
	TotalCount   int64
	StepSize     int32
	ShapePattern []byte
}

// encodedSize returns the exact serialized size.
func (m *shardMetadata) encodedSize() int {
	n := len(shardMagic) + 4
	if m.SequenceType == Protein {
		n += 4 + len(m.Reduction)
	}
	return n + 4 + 4 + 4 + 8 + 4 + 4 + len(m.ShapePattern)
}

// encode serializes the metadata.
func (m *shardMetadata) encode() []byte {
	buf := make([]byte, m.encodedSize())
	off := copy(buf, shardMagic)
	binary.BigEndian.PutUint32(buf[off:], uint32(m.SequenceType))
	off += 4
	if m.SequenceType == Protein {
		off += encoding.PutLengthPrefixed(buf[off:], []byte(m.Reduction))
	}
	binary.BigEndian.PutUint32(buf[off:], uint32(m.TableSize))
	binary.BigEndian.PutUint32(buf[off+4:], uint32(m.HashMask))
	binary.BigEndian.PutUint32(buf[off+8:], uint32(m.RandomSeed))
	binary.BigEndian.PutUint64(buf[off+12:], uint64(m.TotalCount))
	binary.BigEndian.PutUint32(buf[off+20:], uint32(m.StepSize))
	off += 24
	encoding.PutLengthPrefixed(buf[off:], m.ShapePattern)
	return buf
}

// metadataReader walks a serialized record, reporting truncation.
type metadataReader struct {
	buf []byte
	off int
}

func (r *metadataReader) take(n int) ([]byte, error) {
	if n < 0 || n > len(r.buf)-r.off {
		return nil, streamerrors.ErrTruncatedFile
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *metadataReader) int32() (int32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

func (r *metadataReader) int64() (int64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

func (r *metadataReader) bytes() ([]byte, error) {
	n, err := r.int32()
	if err != nil {
		return nil, err
	}
	return r.take(int(n))
}

func (r *metadataReader) bool() (bool, error) {
	b, err := r.take(1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// magic verifies the leading magic bytes.
func (r *metadataReader) magic(path string, want []byte) error {
	got, err := r.take(len(want))
	if err != nil {
		if len(r.buf) > 0 {
			return &streamerrors.MagicError{Path: path, Expected: want, Found: bytes.Clone(r.buf)}
		}
		return err
	}
	if !bytes.Equal(got, want) {
		return &streamerrors.MagicError{Path: path, Expected: want, Found: bytes.Clone(got)}
	}
	return nil
}

// decodeSequenceType reads only the magic and sequence type tag.
func decodeSequenceType(path string, buf []byte) (SequenceType, error) {
	r := &metadataReader{buf: buf}
	if err := r.magic(path, shardMagic); err != nil {
		return 0, err
	}
	tag, err := r.int32()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	t, err := sequenceTypeOf(tag)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// decodeShardMetadata parses a full metadata record. path is used for
// error context only.
func decodeShardMetadata(path string, buf []byte) (*shardMetadata, error) {
	r := &metadataReader{buf: buf}
	if err := r.magic(path, shardMagic); err != nil {
		return nil, err
	}
	m := &shardMetadata{}
	wrap := func(err error) error { return fmt.Errorf("%s: %w", path, err) }

	tag, err := r.int32()
	if err != nil {
		return nil, wrap(err)
	}
	if m.SequenceType, err = sequenceTypeOf(tag); err != nil {
		return nil, wrap(err)
	}
	if m.SequenceType == Protein {
		b, err := r.bytes()
		if err != nil {
			return nil, wrap(err)
		}
		m.Reduction = string(b)
	}
	if m.TableSize, err = r.int32(); err != nil {
		return nil, wrap(err)
	}
	if m.HashMask, err = r.int32(); err != nil {
		return nil, wrap(err)
	}
	if m.RandomSeed, err = r.int32(); err != nil {
		return nil, wrap(err)
	}
	if m.TotalCount, err = r.int64(); err != nil {
		return nil, wrap(err)
	}
	if m.StepSize, err = r.int32(); err != nil {
		return nil, wrap(err)
	}
	pattern, err := r.bytes()
	if err != nil {
		return nil, wrap(err)
	}
	m.ShapePattern = bytes.Clone(pattern)

	if m.TableSize < 0 || m.TotalCount < 0 {
		return nil, wrap(streamerrors.ErrCorruptedIndex)
	}
	return m, nil
}
