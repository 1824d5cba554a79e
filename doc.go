/*
Package softkey is the input decoding core of a soft keyboard for a
pinyin-based Chinese input method.

It turns raw touch events on keys into composition codes for a phonetic
conversion engine, and into editing commands for the text document. A
Pipeline owns one gesture classifier per key, one drag session per active
touch, the composition buffer and the action resolver:

	touch events → gesture.Classifier → drag.Decoder → action.Resolver
	                                                  ↘ composition.Buffer → Engine

The conversion engine itself (candidate ranking, dictionaries) is not part
of this package. It is consumed through the Engine interface.

Sub-packages:

	syllable     T9 digit code table and syllable trie
	keyboard     key model: actions, swipes, layouts
	gesture      per-key gesture state machine with cancellable timers
	drag         cursor drags and swipe decoding
	composition  raw input key buffer
	action       gesture → outcome resolution
	keyconfig    YAML key layout loading, validation and hot reload
	tuning       TOML timing and threshold settings
	mobiletouch  golang.org/x/mobile touch and mouse events → pointer events

A terminal playground lives in cmd/softkeypad.

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package softkey

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'softkey'
func tracer() tracing.Trace {
	return tracing.Select("softkey")
}

func assertThat(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
