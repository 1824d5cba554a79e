package syllable

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/derekparker/trie"
)

// Reader yields syllables one-by-one.
// It should return io.EOF when the stream is exhausted.
type Reader interface {
	Next() (string, error)
}

// Trie is a loaded syllable dictionary, searchable by T9 digit prefix.
//
// A trie contains:
//   - the digit codes of all syllables (compiled into a frozen DAT)
//   - the syllables terminating at each DAT state (a compact side table)
//   - a letter index for spelling completion.
//
// A Trie is never mutated after loading and may be shared between
// goroutines without locking.
type Trie struct {
	codes      digitTrie
	terminals  *terminalStore
	syllables  []Syllable // indexed by syllable ID
	spelling   *trie.Trie
	Identifier string // Identifies the dictionary
}

// LoadSyllables compiles a trie from a streaming, format-agnostic source.
// Duplicate syllables are loaded once. Loading fails with an
// *InvalidSyllableError for the first syllable containing a character
// outside 'a'..'z'.
//
// File format parsing is intentionally outside the base package. Use adapters
// like package syllabletext to parse concrete formats and feed this API.
func LoadSyllables(name string, reader Reader) (t *Trie, err error) {
	codes := newDATBackend()
	type pendingTerminal struct {
		pos int
		id  uint32
	}
	pending := make([]pendingTerminal, 0, 512)
	seen := make(map[string]struct{})
	t = &Trie{
		codes:      codes,
		spelling:   trie.New(),
		Identifier: fmt.Sprintf("syllables: %s", name),
	}
	var s string
	for {
		s, err = reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if _, dup := seen[s]; dup {
			continue
		}
		var code string
		if code, err = Encode(s); err != nil {
			return nil, err
		}
		pos := codes.AllocPosition(code)
		if pos == 0 {
			return nil, fmt.Errorf("could not allocate trie position for syllable %q", s)
		}
		seen[s] = struct{}{}
		id := uint32(len(t.syllables))
		t.syllables = append(t.syllables, Syllable(s))
		t.spelling.Add(s, id)
		pending = append(pending, pendingTerminal{pos: pos, id: id})
	}
	codes.Freeze()
	entries := make([]terminalEntry, len(pending))
	for i, p := range pending {
		state := codes.ResolvePosition(p.pos)
		if state == 0 {
			return nil, fmt.Errorf("could not resolve trie position after freeze for temporary position %d", p.pos)
		}
		entries[i] = terminalEntry{state: state, id: p.id}
	}
	stats := codes.Stats()
	if t.terminals, err = newTerminalStore(stats.TotalSlots, entries); err != nil {
		return nil, err
	}
	tracer().Infof("syllable trie %q: %d syllables, backend=%s used=%d total=%d fill=%.2f",
		name, len(t.syllables), stats.Backend, stats.UsedSlots, stats.TotalSlots, stats.FillRatio())
	return t, nil
}

// NewTrie compiles a trie from an in-memory syllable list.
func NewTrie(name string, syllables []string) (*Trie, error) {
	return LoadSyllables(name, &listReader{list: syllables})
}

type listReader struct {
	list  []string
	index int
}

func (r *listReader) Next() (string, error) {
	if r.index >= len(r.list) {
		return "", io.EOF
	}
	s := r.list[r.index]
	r.index++
	return s, nil
}

var defaultTrie = sync.OnceValues(func() (*Trie, error) {
	return NewTrie("pinyin", pinyinSyllables)
})

// Default returns the trie for the built-in pinyin syllable list. It is
// built on first use and shared afterwards.
func Default() (*Trie, error) {
	return defaultTrie()
}

// MustDefault is like Default, but panics if the built-in list is corrupt.
func MustDefault() *Trie {
	t, err := Default()
	if err != nil {
		panic(fmt.Sprintf("built-in syllable list: %v", err))
	}
	return t
}

// Len returns the number of syllables in the trie.
func (t *Trie) Len() int {
	if t == nil {
		return 0
	}
	return len(t.syllables)
}

// PrefixSearch returns every syllable whose digit code starts with digits.
// The result is empty if nothing matches, including digit strings with
// symbols outside '2'..'9'. Syllables are ordered by length, then
// alphabetically, so exact matches come first.
func (t *Trie) PrefixSearch(digits string) []Syllable {
	if t == nil {
		return nil
	}
	state, ok := t.codes.Walk(digits)
	if !ok {
		return nil
	}
	var ids []uint32
	stack := []uint32{state}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ids = append(ids, t.terminals.At(s)...)
		t.codes.Children(s, func(_ byte, child uint32) {
			stack = append(stack, child)
		})
	}
	return t.sorted(ids)
}

// Lookup returns the syllables whose digit code equals digits exactly.
func (t *Trie) Lookup(digits string) []Syllable {
	if t == nil || digits == "" {
		return nil
	}
	state, ok := t.codes.Walk(digits)
	if !ok {
		return nil
	}
	return t.sorted(t.terminals.At(state))
}

// LongestPrefix finds the longest leading part of digits which is the
// complete digit code of at least one syllable. It returns the length of
// that part and the matching syllables; n is 0 if there is none.
//
// For "9464" this yields 4 and [xing ying] ("946" and "94" are shorter
// matches which are skipped).
func (t *Trie) LongestPrefix(digits string) (n int, syllables []Syllable) {
	if t == nil {
		return 0, nil
	}
	var last uint32
	for i := 1; i <= len(digits); i++ {
		state, ok := t.codes.Walk(digits[:i])
		if !ok {
			break
		}
		if len(t.terminals.At(state)) > 0 {
			n, last = i, state
		}
	}
	if n == 0 {
		return 0, nil
	}
	return n, t.sorted(t.terminals.At(last))
}

// Completions returns every syllable spelled with the given letter prefix.
func (t *Trie) Completions(letters string) []Syllable {
	if t == nil {
		return nil
	}
	keys := t.spelling.PrefixSearch(strings.ToLower(letters))
	ids := make([]uint32, 0, len(keys))
	for _, k := range keys {
		if node, ok := t.spelling.Find(k); ok {
			ids = append(ids, node.Meta().(uint32))
		}
	}
	return t.sorted(ids)
}

// Contains is true if s is a syllable of the trie.
func (t *Trie) Contains(s Syllable) bool {
	if t == nil {
		return false
	}
	_, ok := t.spelling.Find(string(s))
	return ok
}

// IsSpellingPrefix is true if at least one syllable starts with letters.
func (t *Trie) IsSpellingPrefix(letters string) bool {
	return len(t.Completions(letters)) > 0
}

// Stats reports density metrics for the underlying digit trie.
func (t *Trie) Stats() (backend string, usedSlots, totalSlots int, fillRatio float64) {
	if t == nil || t.codes == nil {
		return "", 0, 0, 0
	}
	stats := t.codes.Stats()
	return stats.Backend, stats.UsedSlots, stats.TotalSlots, stats.FillRatio()
}

func (t *Trie) sorted(ids []uint32) []Syllable {
	if len(ids) == 0 {
		return nil
	}
	result := make([]Syllable, len(ids))
	for i, id := range ids {
		result[i] = t.syllables[id]
	}
	sort.Slice(result, func(i, j int) bool {
		if len(result[i]) != len(result[j]) {
			return len(result[i]) < len(result[j])
		}
		return result[i] < result[j]
	})
	return result
}
