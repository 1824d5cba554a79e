package action

import (
	"fmt"
	"strings"

	"github.com/npillmayer/softkey/keyboard"
)

// OutcomeKind is the tag of an Outcome.
type OutcomeKind uint8

const (
	Noop             OutcomeKind = iota
	ForwardCode                  // send Text to the conversion engine
	InsertLiteral                // insert Text into the document
	MoveCursor                   // move the cursor by Offset characters
	SwitchKeyboard               // switch to keyboard type Keyboard
	CustomAction                 // named custom action Text
	DeleteBackward               // delete one character before the cursor
	Commit                       // insert the committed composition Text
	ClearComposition             // drop the composition without output
)

func (k OutcomeKind) String() string {
	switch k {
	case Noop:
		return "noop"
	case ForwardCode:
		return "forwardCode"
	case InsertLiteral:
		return "insertLiteral"
	case MoveCursor:
		return "moveCursor"
	case SwitchKeyboard:
		return "switchKeyboard"
	case CustomAction:
		return "custom"
	case DeleteBackward:
		return "deleteBackward"
	case Commit:
		return "commit"
	case ClearComposition:
		return "clearComposition"
	}
	return fmt.Sprintf("OutcomeKind(%d)", k)
}

// Outcome is the resolved effect of one gesture.
type Outcome struct {
	Kind     OutcomeKind
	Text     string
	Offset   int
	Keyboard keyboard.TypeID
}

func (o Outcome) String() string {
	switch o.Kind {
	case ForwardCode, InsertLiteral, CustomAction, Commit:
		return fmt.Sprintf("%s(%q)", o.Kind, o.Text)
	case MoveCursor:
		return fmt.Sprintf("%s(%d)", o.Kind, o.Offset)
	case SwitchKeyboard:
		return fmt.Sprintf("%s(%s)", o.Kind, o.Keyboard)
	}
	return o.Kind.String()
}

// Forward sends code to the conversion engine.
func Forward(code string) Outcome { return Outcome{Kind: ForwardCode, Text: code} }

// Insert puts text into the document, bypassing the engine.
func Insert(text string) Outcome { return Outcome{Kind: InsertLiteral, Text: text} }

// Move shifts the text cursor by offset characters; negative is left.
func Move(offset int) Outcome { return Outcome{Kind: MoveCursor, Offset: offset} }

// Switch shows keyboard id.
func Switch(id keyboard.TypeID) Outcome { return Outcome{Kind: SwitchKeyboard, Keyboard: id} }

// Custom hands a host-defined action to the host.
func Custom(name string) Outcome { return Outcome{Kind: CustomAction, Text: name} }

// Committed inserts text the engine has committed.
func Committed(text string) Outcome { return Outcome{Kind: Commit, Text: text} }

// Named key codes forwarded to the conversion engine.
const (
	CodeBackSpace = "{BackSpace}"
	CodeSpace     = "{space}"
)

// IsNamedCode is true for codes naming a key, like CodeBackSpace, as
// opposed to codes which are text.
func IsNamedCode(code string) bool {
	return len(code) > 2 && strings.HasPrefix(code, "{") && strings.HasSuffix(code, "}")
}
