package seedindex

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	streamerrors "github.com/tamirms/seedindex/errors"
)

func testMetadata() []*shardMetadata {
	return []*shardMetadata{
		{
			SequenceType: DNA,
			TableSize:    1 << 20,
			HashMask:     1<<20 - 1,
			RandomSeed:   -12345,
			TotalCount:   1 << 33,
			StepSize:     1,
			ShapePattern: []byte(DefaultDNAShape),
		},
		{
			SequenceType: Protein,
			Reduction:    "DIAMOND_11",
			TableSize:    1 << 30,
			HashMask:     1<<30 - 1,
			RandomSeed:   666,
			TotalCount:   987654321,
			StepSize:     2,
			ShapePattern: []byte(DefaultProteinShape),
		},
	}
}

func TestShardMetadataRoundTrip(t *testing.T) {
	for _, m := range testMetadata() {
		t.Run(m.SequenceType.String(), func(t *testing.T) {
			buf := m.encode()
			if len(buf) != m.encodedSize() {
				t.Fatalf("encoded %d bytes, encodedSize() = %d", len(buf), m.encodedSize())
			}
			got, err := decodeShardMetadata("index0.idx", buf)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, m) {
				t.Fatalf("got %+v, want %+v", got, m)
			}
			typ, err := decodeSequenceType("index0.idx", buf)
			if err != nil || typ != m.SequenceType {
				t.Fatalf("decodeSequenceType = %v, %v", typ, err)
			}
		})
	}
}

// TestShardMetadataLayout pins the byte layout of a DNA record.
func TestShardMetadataLayout(t *testing.T) {
	m := &shardMetadata{
		SequenceType: DNA,
		TableSize:    4,
		HashMask:     3,
		RandomSeed:   7,
		TotalCount:   9,
		StepSize:     1,
		ShapePattern: []byte("101"),
	}
	var want bytes.Buffer
	want.WriteString("MaltRefHashV1.")
	for _, v := range []any{int32(0), int32(4), int32(3), int32(7), int64(9), int32(1), int32(3)} {
		binary.Write(&want, binary.BigEndian, v)
	}
	want.WriteString("101")
	if got := m.encode(); !bytes.Equal(got, want.Bytes()) {
		t.Fatalf("encode() = %x\nwant       %x", got, want.Bytes())
	}
}

func TestShardMetadataTruncated(t *testing.T) {
	for _, m := range testMetadata() {
		buf := m.encode()
		for n := 0; n < len(buf); n++ {
			_, err := decodeShardMetadata("index0.idx", buf[:n])
			switch {
			case err == nil:
				t.Fatalf("%s: prefix of %d bytes decoded", m.SequenceType, n)
			case n > 0 && n < len(shardMagic):
				if !errors.Is(err, streamerrors.ErrInvalidMagic) {
					t.Fatalf("%s: prefix of %d bytes: got %v, want ErrInvalidMagic", m.SequenceType, n, err)
				}
			case !errors.Is(err, streamerrors.ErrTruncatedFile):
				t.Fatalf("%s: prefix of %d bytes: got %v, want ErrTruncatedFile", m.SequenceType, n, err)
			}
		}
	}
}

func TestShardMetadataBadMagic(t *testing.T) {
	buf := testMetadata()[0].encode()
	buf[0] = 'X'
	_, err := decodeShardMetadata("/idx/index0.idx", buf)
	if !errors.Is(err, streamerrors.ErrInvalidMagic) {
		t.Fatalf("got %v, want ErrInvalidMagic", err)
	}
	var me *streamerrors.MagicError
	if !errors.As(err, &me) {
		t.Fatalf("got %T, want *MagicError", err)
	}
	if me.Path != "/idx/index0.idx" || !bytes.Equal(me.Expected, shardMagic) || me.Found[0] != 'X' {
		t.Fatalf("MagicError = %+v", me)
	}
}

func TestShardMetadataInvalidValues(t *testing.T) {
	t.Run("unknown type", func(t *testing.T) {
		m := testMetadata()[0]
		m.SequenceType = 7
		_, err := decodeShardMetadata("index0.idx", m.encode())
		if !errors.Is(err, streamerrors.ErrUnknownSequenceType) {
			t.Fatalf("got %v, want ErrUnknownSequenceType", err)
		}
	})
	t.Run("negative table size", func(t *testing.T) {
		m := testMetadata()[0]
		m.TableSize = -1
		_, err := decodeShardMetadata("index0.idx", m.encode())
		if !errors.Is(err, streamerrors.ErrCorruptedIndex) {
			t.Fatalf("got %v, want ErrCorruptedIndex", err)
		}
	})
}
