package dat

// Alphabet maps single-byte symbols to dense alphabet IDs (1..Size) and back.
// It's a flat lookup table:
//   - dense[b] = dense ID of symbol b, or 0 meaning "not in alphabet".
//   - symbols[id-1] = symbol for a dense ID.
//
// Lookup is O(1) with one array read.
type Alphabet struct {
	dense   [256]uint8
	symbols []byte
}

// NewAlphabet creates an alphabet from a string of distinct symbols.
// Dense IDs follow the order of symbols, starting at 1. Duplicate symbols
// keep their first ID.
func NewAlphabet(symbols string) Alphabet {
	var a Alphabet
	for i := 0; i < len(symbols); i++ {
		b := symbols[i]
		if a.dense[b] != 0 {
			continue
		}
		a.symbols = append(a.symbols, b)
		a.dense[b] = uint8(len(a.symbols))
	}
	return a
}

// Digits is the T9 alphabet '2'..'9'.
var Digits = NewAlphabet("23456789")

// Dense returns the dense alphabet ID for symbol b.
// Returns 0 if absent.
func (a Alphabet) Dense(b byte) uint16 { return uint16(a.dense[b]) }

// Symbol returns the symbol for a dense ID, or 0 for an invalid ID.
func (a Alphabet) Symbol(dense uint16) byte {
	if dense == 0 || int(dense) > len(a.symbols) {
		return 0
	}
	return a.symbols[dense-1]
}

// Size returns the number of symbols.
func (a Alphabet) Size() uint16 { return uint16(len(a.symbols)) }

// Contains is true if every byte of s is part of the alphabet.
func (a Alphabet) Contains(s string) bool {
	for i := 0; i < len(s); i++ {
		if a.dense[s[i]] == 0 {
			return false
		}
	}
	return true
}
