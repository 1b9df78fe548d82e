package seedindex

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	streamerrors "github.com/tamirms/seedindex/errors"
	intbits "github.com/tamirms/seedindex/internal/bits"
)

// SequenceType identifies whether reference sequences are nucleotides or
// amino acids. The numeric value is the tag stored in shard metadata.
type SequenceType int32

const (
	DNA     SequenceType = 0
	Protein SequenceType = 1
)

// String returns the name stored in the index summary file.
func (t SequenceType) String() string {
	switch t {
	case DNA:
		return "DNA"
	case Protein:
		return "Protein"
	default:
		return fmt.Sprintf("SequenceType(%d)", int32(t))
	}
}

// ParseSequenceType parses a name produced by SequenceType.String.
func ParseSequenceType(name string) (SequenceType, error) {
	switch name {
	case "DNA":
		return DNA, nil
	case "Protein":
		return Protein, nil
	}
	return 0, fmt.Errorf("%w: %q", streamerrors.ErrUnknownSequenceType, name)
}

// sequenceTypeOf validates a metadata tag.
func sequenceTypeOf(tag int32) (SequenceType, error) {
	switch t := SequenceType(tag); t {
	case DNA, Protein:
		return t, nil
	}
	return 0, fmt.Errorf("%w: tag %d", streamerrors.ErrUnknownSequenceType, tag)
}

// Alphabet maps sequence letters to fixed-width codes for seeding.
//
// Letters that Encode rejects (ambiguity codes, stops, gaps) never appear in
// a seed. Decode returns the representative letter of a code, so
// Decode(Encode(x)) is the canonical seed byte for x.
type Alphabet interface {
	Name() string
	BitsPerLetter() int
	Size() int
	Encode(letter byte) (code uint64, ok bool)
	Decode(code uint64) byte
}

// tableAlphabet is a lookup-table Alphabet built from letter groups.
type tableAlphabet struct {
	name    string
	bits    int
	codes   [256]int16 // -1 for letters outside the alphabet
	letters []byte     // representative letter per code
}

func (a *tableAlphabet) Name() string       { return a.name }
func (a *tableAlphabet) BitsPerLetter() int { return a.bits }
func (a *tableAlphabet) Size() int          { return len(a.letters) }
func (a *tableAlphabet) String() string     { return a.name }

func (a *tableAlphabet) Encode(letter byte) (uint64, bool) {
	c := a.codes[letter]
	if c < 0 {
		return 0, false
	}
	return uint64(c), true
}

func (a *tableAlphabet) Decode(code uint64) byte {
	if code >= uint64(len(a.letters)) {
		return '?'
	}
	return a.letters[code]
}

// newTableAlphabet builds an alphabet where each group of letters shares
// one code. Letters are matched case-insensitively; the first letter of
// each group is its representative.
func newTableAlphabet(name string, groups []string) (*tableAlphabet, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: %s has no letter groups", streamerrors.ErrUnknownAlphabet, name)
	}
	a := &tableAlphabet{name: name, bits: intbits.BitsFor(len(groups))}
	for i := range a.codes {
		a.codes[i] = -1
	}
	for code, group := range groups {
		if group == "" {
			return nil, fmt.Errorf("%w: %s has an empty letter group", streamerrors.ErrUnknownAlphabet, name)
		}
		group = strings.ToUpper(group)
		a.letters = append(a.letters, group[0])
		for j := 0; j < len(group); j++ {
			for _, c := range []byte{group[j], group[j] | 0x20} {
				if a.codes[c] >= 0 && int(a.codes[c]) != code {
					return nil, fmt.Errorf("%w: %s assigns letter %q twice", streamerrors.ErrUnknownAlphabet, name, c)
				}
				a.codes[c] = int16(code)
			}
		}
	}
	return a, nil
}

// dnaAlphabet encodes A, C, G, T (U read as T) in 2 bits. N and IUPAC
// ambiguity codes are not encodable, so seeds never span them.
var dnaAlphabet = mustAlphabet(newTableAlphabet("DNA", []string{"A", "C", "G", "TU"}))

// Named protein reductions. Each string is one class of amino acids that
// share a seed code.
var reducedAlphabetGroups = map[string][]string{
	"UNREDUCED":  {"A", "R", "N", "D", "C", "Q", "E", "G", "H", "I", "L", "K", "M", "F", "P", "S", "T", "W", "Y", "V"},
	"MURPHY_10":  {"LVIM", "C", "A", "G", "ST", "P", "FYW", "EDNQ", "KR", "H"},
	"DIAMOND_11": {"KREDQN", "C", "G", "H", "ILV", "M", "F", "Y", "W", "P", "STA"},
	"SDM_12":     {"A", "D", "KER", "N", "TSQ", "YF", "LIVM", "C", "W", "H", "G", "P"},
	"GBMR_4":     {"ADKERNTSQ", "YFLIVMCWH", "G", "P"},
}

// DefaultReduction is the protein reduction used when none is configured.
const DefaultReduction = "DIAMOND_11"

// DNAAlphabet returns the nucleotide seed alphabet.
func DNAAlphabet() Alphabet {
	return dnaAlphabet
}

// ReducedAlphabet returns the named protein reduction.
func ReducedAlphabet(name string) (Alphabet, error) {
	groups, ok := reducedAlphabetGroups[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", streamerrors.ErrUnknownAlphabet, name)
	}
	return newTableAlphabet(name, groups)
}

// NewReducedAlphabet builds a custom protein reduction from letter groups.
func NewReducedAlphabet(name string, groups []string) (Alphabet, error) {
	return newTableAlphabet(name, groups)
}

// AlphabetByName resolves an alphabet name as written in index files:
// "DNA" is the nucleotide alphabet, anything else a protein reduction.
func AlphabetByName(name string) (Alphabet, error) {
	if name == dnaAlphabet.name {
		return dnaAlphabet, nil
	}
	return ReducedAlphabet(name)
}

// ReductionNames lists the built-in protein reductions.
func ReductionNames() []string {
	return slices.Sorted(maps.Keys(reducedAlphabetGroups))
}

func mustAlphabet(a *tableAlphabet, err error) *tableAlphabet {
	if err != nil {
		panic(err)
	}
	return a
}
