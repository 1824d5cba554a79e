/*
Package keyboard holds the key model of a soft keyboard: keys, their
default actions and their directional swipe tables.

Values of this package are plain data. They are created by a configuration
loader (see package keyconfig) or by hand, and are never mutated by the
input decoding packages.
*/
package keyboard

import (
	"fmt"
	"strings"
)

// ActionKind is the tag of an Action.
type ActionKind uint8

const (
	ActionNone               ActionKind = iota // does nothing
	ActionCharacter                            // types Value
	ActionCharacterMargin                      // key edge padding, types Value
	ActionNineGrid                             // nine-grid T9 key, Value is the key label, e.g. "ABC"
	ActionSymbol                               // inserts Value literally
	ActionBackspace                            // deletes backwards
	ActionEnter                                // return key
	ActionSpace                                // space bar
	ActionShift                                // shift key
	ActionTab                                  // tabulator
	ActionKeyboardType                         // switches to keyboard type Value
	ActionMoveCursorBackward                   // moves the cursor one position left
	ActionMoveCursorForward                    // moves the cursor one position right
	ActionDelimiter                            // pinyin syllable delimiter
	ActionCleanSpellingArea                    // drops the current composition
	ActionCustom                               // named custom action Value
)

var actionNames = [...]string{
	ActionNone:               "none",
	ActionCharacter:          "character",
	ActionCharacterMargin:    "characterMargin",
	ActionNineGrid:           "chineseNineGrid",
	ActionSymbol:             "symbol",
	ActionBackspace:          "backspace",
	ActionEnter:              "enter",
	ActionSpace:              "space",
	ActionShift:              "shift",
	ActionTab:                "tab",
	ActionKeyboardType:       "keyboardType",
	ActionMoveCursorBackward: "moveCursorBackward",
	ActionMoveCursorForward:  "moveCursorForward",
	ActionDelimiter:          "delimiter",
	ActionCleanSpellingArea:  "cleanSpellingArea",
	ActionCustom:             "custom",
}

// hasValue is true for kinds written as "kind(value)".
func (k ActionKind) hasValue() bool {
	switch k {
	case ActionCharacter, ActionCharacterMargin, ActionNineGrid, ActionSymbol,
		ActionKeyboardType, ActionCustom:
		return true
	}
	return false
}

func (k ActionKind) String() string {
	if int(k) < len(actionNames) {
		return actionNames[k]
	}
	return fmt.Sprintf("ActionKind(%d)", k)
}

// Action is the meaning of a key or a swipe, a tagged variant.
type Action struct {
	Kind  ActionKind
	Value string // payload for kinds which carry one
}

// Character creates a character action.
func Character(c string) Action { return Action{Kind: ActionCharacter, Value: c} }

// Custom creates a named custom action.
func Custom(name string) Action { return Action{Kind: ActionCustom, Value: name} }

// SwitchTo creates a keyboard-type action.
func SwitchTo(id TypeID) Action { return Action{Kind: ActionKeyboardType, Value: string(id)} }

// Simple creates an action without payload.
func Simple(kind ActionKind) Action { return Action{Kind: kind} }

// Delimiter is the pinyin syllable delimiter typed by ActionDelimiter.
const Delimiter = "'"

// ParseAction parses an action from its textual form, e.g. "character(q)",
// "keyboardType(chinese)" or "backspace". "return" and "primary(...)" are
// accepted as aliases for "enter".
func ParseAction(s string) (Action, error) {
	s = strings.TrimSpace(s)
	name, value := s, ""
	if i := strings.IndexByte(s, '('); i >= 0 {
		if !strings.HasSuffix(s, ")") {
			return Action{}, fmt.Errorf("malformed action %q: missing ')'", s)
		}
		name, value = s[:i], s[i+1:len(s)-1]
	}
	switch name {
	case "return", "primary":
		return Action{Kind: ActionEnter}, nil
	case "":
		return Action{}, fmt.Errorf("malformed action %q: empty name", s)
	}
	for k, n := range actionNames {
		if n != name {
			continue
		}
		kind := ActionKind(k)
		if kind.hasValue() && value == "" {
			return Action{}, fmt.Errorf("action %q needs a value", name)
		}
		if !kind.hasValue() && value != "" {
			return Action{}, fmt.Errorf("action %q does not take a value", name)
		}
		return Action{Kind: kind, Value: value}, nil
	}
	return Action{}, fmt.Errorf("unknown action %q", name)
}

// MustParseAction is like ParseAction, but panics on error.
func MustParseAction(s string) Action {
	a, err := ParseAction(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String returns the textual form of a, which ParseAction accepts.
func (a Action) String() string {
	if a.Kind.hasValue() {
		return a.Kind.String() + "(" + a.Value + ")"
	}
	return a.Kind.String()
}

// IsCharacter is true for actions typing a character: plain characters,
// margin paddings and nine-grid keys.
func (a Action) IsCharacter() bool {
	switch a.Kind {
	case ActionCharacter, ActionCharacterMargin, ActionNineGrid:
		return true
	}
	return false
}

// Code returns the code typed by a character action. Nine-grid keys type
// the digit of their label ("ABC" → "2"). For other actions Code returns
// "".
func (a Action) Code() string {
	switch a.Kind {
	case ActionCharacter, ActionCharacterMargin:
		return a.Value
	case ActionNineGrid:
		if d, ok := NineGridDigit(a.Value); ok {
			return d
		}
		return a.Value
	}
	return ""
}

var nineGridDigits = map[string]string{
	"@/.":  "@",
	"ABC":  "2",
	"DEF":  "3",
	"GHI":  "4",
	"JKL":  "5",
	"MNO":  "6",
	"PQRS": "7",
	"TUV":  "8",
	"WXYZ": "9",
}

// NineGridDigit maps a nine-grid key label to the code it types.
// Labels are matched case-insensitively.
func NineGridDigit(label string) (string, bool) {
	d, ok := nineGridDigits[strings.ToUpper(label)]
	return d, ok
}
