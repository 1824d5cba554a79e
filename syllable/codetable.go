package syllable

import (
	"fmt"
	"strings"
)

// codeTable maps 'a'..'z' to T9 digits.
var codeTable = [26]byte{
	'2', '2', '2', // a b c
	'3', '3', '3', // d e f
	'4', '4', '4', // g h i
	'5', '5', '5', // j k l
	'6', '6', '6', // m n o
	'7', '7', '7', '7', // p q r s
	'8', '8', '8', // t u v
	'9', '9', '9', '9', // w x y z
}

// Syllable is a romanized syllable, e.g. "zhuang". Syllables consist of
// lowercase latin letters only.
type Syllable string

// DigitCode returns the T9 digit code of s. Letters outside 'a'..'z' map
// to '0', which never matches a trie edge. Use Encode to validate input.
func (s Syllable) DigitCode() string {
	code := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		if d, ok := Digit(s[i]); ok {
			code[i] = d
		} else {
			code[i] = '0'
		}
	}
	return string(code)
}

// Digit returns the T9 digit for a lowercase latin letter.
func Digit(letter byte) (byte, bool) {
	if letter < 'a' || letter > 'z' {
		return 0, false
	}
	return codeTable[letter-'a'], true
}

// Letters returns the letters sharing a T9 digit, e.g. "pqrs" for '7'.
// Returns "" for digits without letters.
func Letters(digit byte) string {
	var sb strings.Builder
	for i, d := range codeTable {
		if d == digit {
			sb.WriteByte(byte('a' + i))
		}
	}
	return sb.String()
}

// Encode maps every letter of s through the code table. It fails with
// an *InvalidSyllableError if s is empty or contains a character outside
// 'a'..'z'.
func Encode(s string) (string, error) {
	if s == "" {
		return "", &InvalidSyllableError{Syllable: s, Pos: -1}
	}
	code := make([]byte, len(s))
	for i, r := range s {
		if r > 0x7f {
			return "", &InvalidSyllableError{Syllable: s, Char: r, Pos: i}
		}
		d, ok := Digit(byte(r))
		if !ok {
			return "", &InvalidSyllableError{Syllable: s, Char: r, Pos: i}
		}
		code[i] = d
	}
	return string(code), nil
}

// InvalidSyllableError is returned while building a trie from a syllable
// list which contains a character outside the latin alphabet.
type InvalidSyllableError struct {
	Syllable string
	Char     rune // offending character
	Pos      int  // byte position of Char, -1 for an empty syllable
}

func (e *InvalidSyllableError) Error() string {
	if e.Pos < 0 {
		return "invalid syllable: empty"
	}
	return fmt.Sprintf("invalid syllable %q: character %q at position %d is not in a..z",
		e.Syllable, e.Char, e.Pos)
}
