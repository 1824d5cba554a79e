package main

import (
	"strings"

	"github.com/npillmayer/softkey"
	"github.com/npillmayer/softkey/action"
	"github.com/npillmayer/softkey/syllable"
)

// toyEngine stands in for a real conversion engine. It offers pinyin
// syllables as candidates: completions of the last spelled syllable for
// letter input, T9 matches for digit input. Space commits the first
// candidate.
type toyEngine struct {
	trie   *syllable.Trie
	input  string
	commit string
	ascii  bool
}

var _ softkey.Engine = (*toyEngine)(nil)

func newToyEngine(trie *syllable.Trie) *toyEngine {
	return &toyEngine{trie: trie}
}

func (e *toyEngine) ProcessKey(code string) bool {
	if e.ascii {
		return false
	}
	switch code {
	case action.CodeBackSpace:
		if e.input == "" {
			return false
		}
		e.input = e.input[:len(e.input)-1]
		return true
	case action.CodeSpace:
		if e.input == "" {
			return false
		}
		if c := e.candidates(); len(c) > 0 {
			e.commit = c[0]
		} else {
			e.commit = e.input
		}
		e.input = ""
		return true
	}
	if len(code) != 1 || !accepted(code[0]) {
		return false
	}
	e.input += code
	return true
}

func accepted(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '2' && c <= '9' || c == '\''
}

func (e *toyEngine) candidates() []string {
	var syllables []syllable.Syllable
	if isDigits(e.input) {
		syllables = e.trie.PrefixSearch(e.input)
	} else {
		last := e.input[strings.LastIndexByte(e.input, '\'')+1:]
		if last == "" {
			return nil
		}
		syllables = e.trie.Completions(last)
	}
	c := make([]string, len(syllables))
	for i, s := range syllables {
		c[i] = string(s)
	}
	return c
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '2' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (e *toyEngine) Candidates(index, count int) []softkey.Candidate {
	all := e.candidates()
	if index < 0 || index >= len(all) || count <= 0 {
		return nil
	}
	all = all[index:min(index+count, len(all))]
	c := make([]softkey.Candidate, len(all))
	for i, text := range all {
		c[i] = softkey.Candidate{Text: text}
		if isDigits(e.input) {
			c[i].Comment = e.input
		}
	}
	return c
}

func (e *toyEngine) ComposingText() string { return e.input }

func (e *toyEngine) CommitText() string {
	c := e.commit
	e.commit = ""
	return c
}

func (e *toyEngine) IsComposing() bool { return e.input != "" }

func (e *toyEngine) CleanComposition() { e.input = "" }

func (e *toyEngine) SetOption(name string, value bool) {
	if name == softkey.OptionASCIIMode {
		e.ascii = value
	}
}
