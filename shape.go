package seedindex

import (
	"fmt"

	streamerrors "github.com/tamirms/seedindex/errors"
	intbits "github.com/tamirms/seedindex/internal/bits"
)

// Default spaced seed patterns. '1' marks an informative position.
const (
	DefaultDNAShape     = "111110111011110110111111"
	DefaultProteinShape = "111101101"
)

// SeedShape is a possibly gapped seed pattern bound to a seed alphabet.
//
// A seed value packs the codes of the informative positions, first position
// in the most significant bits, into Weight()*BitsPerLetter() bits. The seed
// bytes hashed by tables are the representative letters of those codes.
type SeedShape struct {
	pattern  string
	alphabet Alphabet
	offsets  []int // informative positions within the window
}

// NewSeedShape parses pattern, a string of '1' and '0' that starts and ends
// with '1'. Fails with ErrSeedTooWide when the seed value would not fit in
// 64 bits.
func NewSeedShape(alphabet Alphabet, pattern string) (*SeedShape, error) {
	if len(pattern) == 0 || pattern[0] != '1' || pattern[len(pattern)-1] != '1' {
		return nil, fmt.Errorf("%w: %q must start and end with '1'", streamerrors.ErrInvalidShape, pattern)
	}
	s := &SeedShape{pattern: pattern, alphabet: alphabet}
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '1':
			s.offsets = append(s.offsets, i)
		case '0':
		default:
			return nil, fmt.Errorf("%w: %q contains %q", streamerrors.ErrInvalidShape, pattern, pattern[i])
		}
	}
	if bits := s.SeedBits(); bits > 64 {
		return nil, fmt.Errorf("%w: shape %s has weight %d at %d bits per letter (%d bits)",
			streamerrors.ErrSeedTooWide, pattern, s.Weight(), alphabet.BitsPerLetter(), bits)
	}
	return s, nil
}

// SeedShapeFromBytes reconstructs a shape from its serialized pattern bytes.
func SeedShapeFromBytes(alphabet Alphabet, pattern []byte) (*SeedShape, error) {
	return NewSeedShape(alphabet, string(pattern))
}

// String returns the pattern.
func (s *SeedShape) String() string { return s.pattern }

// Bytes returns the serialized pattern.
func (s *SeedShape) Bytes() []byte { return []byte(s.pattern) }

// Weight is the number of informative positions.
func (s *SeedShape) Weight() int { return len(s.offsets) }

// Length is the window span covered by the shape.
func (s *SeedShape) Length() int { return len(s.pattern) }

// Alphabet returns the seed alphabet the shape is bound to.
func (s *SeedShape) Alphabet() Alphabet { return s.alphabet }

// BitsPerLetter is the digit width of the seed value.
func (s *SeedShape) BitsPerLetter() int { return s.alphabet.BitsPerLetter() }

// SeedBits is the width of a seed value.
func (s *SeedShape) SeedBits() int { return s.Weight() * s.alphabet.BitsPerLetter() }

// Extract reads the seed whose window starts at seq[pos]. It writes the
// seed bytes into dst[:Weight()] and returns the seed value. ok is false if
// the window does not fit or covers a letter the alphabet cannot encode.
func (s *SeedShape) Extract(seq []byte, pos int, dst []byte) (value uint64, ok bool) {
	if pos < 0 || pos+len(s.pattern) > len(seq) {
		return 0, false
	}
	bits := s.alphabet.BitsPerLetter()
	for j, off := range s.offsets {
		code, ok := s.alphabet.Encode(seq[pos+off])
		if !ok {
			return 0, false
		}
		value = value<<bits | code
		dst[j] = s.alphabet.Decode(code)
	}
	return value, true
}

// SeedBytes decodes value into dst[:Weight()] and returns that slice.
// dst is grown if it is too short.
func (s *SeedShape) SeedBytes(value uint64, dst []byte) []byte {
	w := s.Weight()
	if cap(dst) < w {
		dst = make([]byte, w)
	}
	dst = dst[:w]
	bits := s.alphabet.BitsPerLetter()
	mask := intbits.Mask(bits)
	for j := w - 1; j >= 0; j-- {
		dst[j] = s.alphabet.Decode(value & mask)
		value >>= bits
	}
	return dst
}

// Value packs seed bytes into a seed value. ok is false if a byte is not
// in the alphabet or the length is not Weight().
func (s *SeedShape) Value(seed []byte) (value uint64, ok bool) {
	if len(seed) != s.Weight() {
		return 0, false
	}
	bits := s.alphabet.BitsPerLetter()
	for _, c := range seed {
		code, ok := s.alphabet.Encode(c)
		if !ok {
			return 0, false
		}
		value = value<<bits | code
	}
	return value, true
}
