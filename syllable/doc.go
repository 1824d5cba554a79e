/*
Package syllable maps ambiguous T9 digit input to romanized syllables.

Every latin letter belongs to exactly one key of a phone keypad
('a'..'c' → '2', ..., 'w'..'z' → '9'). A syllable like "zhuang" therefore
has a digit code "948264", and a digit sequence typed on a nine-grid
keyboard is ambiguous: "64" may stand for "mi", "ni" or the first two
letters of "ming", "niang" and others.

The package builds a frozen double-array trie (DAT) over the digit codes of
a fixed syllable list. Syllables terminating at a trie state are kept in a
compact side table referenced by state ID. The trie is immutable after
construction and safe for concurrent readers.

A secondary index over the letter spellings (package
github.com/derekparker/trie) answers completion queries for partially
spelled syllables.

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package syllable

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'softkey.syllable'
func tracer() tracing.Trace {
	return tracing.Select("softkey.syllable")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
