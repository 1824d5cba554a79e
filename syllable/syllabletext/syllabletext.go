/*
Package syllabletext reads syllable lists from plain text files.

The format is line oriented:

	% pinyin syllables, ü written as v
	\name{pinyin}
	a ai an ang ao
	ba bai ban   # trailing comments are allowed
	...

Syllables are separated by white space or commas. Text following '#' or '%'
is a comment. A line "\name{...}" sets the identifier of the list; other
lines starting with '\' are ignored.
*/
package syllabletext

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/npillmayer/softkey/syllable"
)

// Reader streams syllables from a text source.
type Reader struct {
	scanner    *bufio.Scanner
	identifier string
	pending    []string
}

// LoadSyllables parses a syllable list and returns a ready-to-use trie.
//
// Syllables are validated while the trie is built; the first syllable
// containing a character outside 'a'..'z' makes loading fail with a
// *syllable.InvalidSyllableError.
func LoadSyllables(name string, reader io.Reader) (*syllable.Trie, error) {
	r := NewReader(reader)
	return syllable.LoadSyllables(name, r)
}

func NewReader(reader io.Reader) *Reader {
	return &Reader{
		scanner: bufio.NewScanner(reader),
		pending: make([]string, 0, 16),
	}
}

// Identifier returns the list name from a \name{...} line, if one has been
// read so far.
func (r *Reader) Identifier() string {
	return r.identifier
}

// Next returns the next syllable.
// It returns io.EOF when exhausted.
func (r *Reader) Next() (string, error) {
	for len(r.pending) == 0 {
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		r.decodeLine(r.scanner.Text())
	}
	s := r.pending[0]
	r.pending = r.pending[1:]
	return s, nil
}

func (r *Reader) decodeLine(line string) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "\\name{") && strings.HasSuffix(line, "}") {
		r.identifier = line[6 : len(line)-1]
		return
	}
	if strings.HasPrefix(line, "\\") {
		return
	}
	if i := strings.IndexAny(line, "#%"); i >= 0 {
		line = line[:i]
	}
	r.pending = r.pending[:0]
	fields := strings.FieldsFunc(line, func(c rune) bool {
		return unicode.IsSpace(c) || c == ','
	})
	r.pending = append(r.pending, fields...)
}
